package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Odds        OddsConfig      `mapstructure:"odds"`
	Arbitrage   ArbitrageConfig `mapstructure:"arbitrage"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Cleanup     CleanupConfig   `mapstructure:"cleanup"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OddsConfig tunes the odds analytics calculations. The thresholds are
// calibration parameters, not market facts.
type OddsConfig struct {
	SteamMoveThreshold       float64  `mapstructure:"steam_move_threshold"`
	SignificantMoveThreshold float64  `mapstructure:"significant_move_threshold"`
	SharpBookmakers          []string `mapstructure:"sharp_bookmakers"`
	PublicBookmakers         []string `mapstructure:"public_bookmakers"`
	VolumeSpikeFactor        float64  `mapstructure:"volume_spike_factor"`
}

type ArbitrageConfig struct {
	MinProfitPercent float64 `mapstructure:"min_profit_percent"`
	OpportunityTTL   string  `mapstructure:"opportunity_ttl"`
	IntervalSeconds  int     `mapstructure:"interval_seconds"`
	BatchSize        int     `mapstructure:"batch_size"`
	Enabled          bool    `mapstructure:"enabled"`
}

type CacheConfig struct {
	AnalysisTTL string `mapstructure:"analysis_ttl"`
}

type CleanupConfig struct {
	SnapshotRetentionHours  int `mapstructure:"snapshot_retention_hours"`
	ArbitrageRetentionHours int `mapstructure:"arbitrage_retention_hours"`
	CleanupIntervalMinutes  int `mapstructure:"cleanup_interval_minutes"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	// Validate duration strings up front so bad deployments fail fast
	if config.Arbitrage.OpportunityTTL != "" {
		if _, err := time.ParseDuration(config.Arbitrage.OpportunityTTL); err != nil {
			return nil, fmt.Errorf("invalid arbitrage opportunity TTL: %w", err)
		}
	}
	if config.Cache.AnalysisTTL != "" {
		if _, err := time.ParseDuration(config.Cache.AnalysisTTL); err != nil {
			return nil, fmt.Errorf("invalid analysis cache TTL: %w", err)
		}
	}

	if config.Odds.SteamMoveThreshold <= 0 {
		return nil, fmt.Errorf("steam move threshold must be positive, got %f", config.Odds.SteamMoveThreshold)
	}

	return &config, nil
}

// OpportunityTTLDuration returns the parsed opportunity TTL, falling back to
// five minutes since arbitrage windows close quickly as books react to each other.
func (c *ArbitrageConfig) OpportunityTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.OpportunityTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// AnalysisTTLDuration returns the parsed analysis cache TTL with a 30s fallback.
func (c *CacheConfig) AnalysisTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.AnalysisTTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Set database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "fightline")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Odds analytics
	viper.SetDefault("odds.steam_move_threshold", 5.0)
	viper.SetDefault("odds.significant_move_threshold", 2.0)
	viper.SetDefault("odds.sharp_bookmakers", []string{"pinnacle", "circa", "bookmaker"})
	viper.SetDefault("odds.public_bookmakers", []string{"draftkings", "fanduel", "betmgm", "caesars"})
	viper.SetDefault("odds.volume_spike_factor", 2.0)

	// Arbitrage
	viper.SetDefault("arbitrage.min_profit_percent", 1.0)
	viper.SetDefault("arbitrage.opportunity_ttl", "5m")
	viper.SetDefault("arbitrage.interval_seconds", 60)
	viper.SetDefault("arbitrage.batch_size", 100)
	viper.SetDefault("arbitrage.enabled", true)

	// Cache
	viper.SetDefault("cache.analysis_ttl", "30s")

	// Cleanup
	viper.SetDefault("cleanup.snapshot_retention_hours", 168)
	viper.SetDefault("cleanup.arbitrage_retention_hours", 72)
	viper.SetDefault("cleanup.cleanup_interval_minutes", 60)
}
