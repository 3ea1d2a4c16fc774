package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oddsflow/fightline/internal/config"
	"github.com/oddsflow/fightline/internal/models"
)

// ArbitrageStore is the slice of the odds repository the scanner needs.
type ArbitrageStore interface {
	ActiveFightIDs(ctx context.Context, window time.Duration) ([]string, error)
	GetLatestSnapshots(ctx context.Context, fightID string) ([]models.OddsSnapshot, error)
	StoreOpportunity(ctx context.Context, opp *models.ArbitrageOpportunity) error
	DeleteExpiredOpportunities(ctx context.Context) (int64, error)
}

// activeFightWindow bounds which fights the scanner considers live. A fight
// without a fresh quote in this window has no arbitrage worth chasing.
const activeFightWindow = 24 * time.Hour

// ArbitrageService periodically scans active fights for cross-book
// arbitrage and stores what it finds.
type ArbitrageService struct {
	store              ArbitrageStore
	analyzer           *OddsAnalyzer
	arbitrageConfig    config.ArbitrageConfig
	ctx                context.Context
	cancel             context.CancelFunc
	wg                 sync.WaitGroup
	isRunning          bool
	mu                 sync.RWMutex
	logger             *logrus.Logger
	lastScan           time.Time
	opportunitiesFound int
}

// NewArbitrageService creates a new arbitrage scanner instance.
func NewArbitrageService(store ArbitrageStore, analyzer *OddsAnalyzer, cfg config.ArbitrageConfig) *ArbitrageService {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = 60
	}

	return &ArbitrageService{
		store:           store,
		analyzer:        analyzer,
		arbitrageConfig: cfg,
		ctx:             ctx,
		cancel:          cancel,
		logger:          logrus.New(),
	}
}

// Start begins the periodic arbitrage scan.
func (s *ArbitrageService) Start() error {
	if !s.arbitrageConfig.Enabled {
		s.logger.Info("Arbitrage service is disabled in configuration")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("arbitrage service is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"interval_seconds":   s.arbitrageConfig.IntervalSeconds,
		"min_profit_percent": s.arbitrageConfig.MinProfitPercent,
	}).Info("Starting arbitrage service")

	s.wg.Add(1)
	go s.scanLoop()

	return nil
}

// Stop gracefully shuts down the arbitrage service.
func (s *ArbitrageService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	s.logger.Info("Stopping arbitrage service")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("Arbitrage service stopped")
}

// IsRunning returns true if the service is currently running.
func (s *ArbitrageService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the last scan time and the opportunity count it found.
func (s *ArbitrageService) GetStatus() (bool, time.Time, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning, s.lastScan, s.opportunitiesFound
}

func (s *ArbitrageService) scanLoop() {
	defer s.wg.Done()

	// Perform initial scan immediately
	if err := s.ScanOnce(s.ctx); err != nil {
		s.logger.WithError(err).Error("Initial arbitrage scan failed")
	}

	ticker := time.NewTicker(time.Duration(s.arbitrageConfig.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.ScanOnce(s.ctx); err != nil {
				s.logger.WithError(err).Error("Arbitrage scan failed")
			}
		}
	}
}

// ScanOnce runs a single scan pass: expire stale opportunities, then detect
// and store fresh ones for every active fight.
func (s *ArbitrageService) ScanOnce(ctx context.Context) error {
	startTime := time.Now()

	if deleted, err := s.store.DeleteExpiredOpportunities(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to delete expired opportunities")
	} else if deleted > 0 {
		s.logger.WithField("count", deleted).Debug("Deleted expired opportunities")
	}

	fightIDs, err := s.store.ActiveFightIDs(ctx, activeFightWindow)
	if err != nil {
		return fmt.Errorf("failed to list active fights: %w", err)
	}

	if len(fightIDs) == 0 {
		s.logger.Debug("No active fights for arbitrage scan")
		return nil
	}

	found := 0
	for _, fightID := range fightIDs {
		snapshots, err := s.store.GetLatestSnapshots(ctx, fightID)
		if err != nil {
			s.logger.WithError(err).WithField("fight_id", fightID).Error("Failed to load snapshots")
			continue
		}

		for _, opp := range s.analyzer.DetectArbitrage(snapshots) {
			if opp.ID == "" {
				opp.ID = uuid.New().String()
			}
			if err := s.store.StoreOpportunity(ctx, &opp); err != nil {
				s.logger.WithError(err).WithField("fight_id", fightID).Error("Failed to store opportunity")
				continue
			}
			found++
		}
	}

	s.mu.Lock()
	s.lastScan = time.Now()
	s.opportunitiesFound = found
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"duration_ms":         time.Since(startTime).Milliseconds(),
		"fights_scanned":      len(fightIDs),
		"opportunities_found": found,
	}).Info("Arbitrage scan completed")

	return nil
}
