package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oddsflow/fightline/internal/config"
)

// CleanupStore is the slice of the odds repository retention needs.
type CleanupStore interface {
	DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExpiredOpportunities(ctx context.Context) (int64, error)
}

// CleanupService enforces the retention windows on stored snapshots and
// arbitrage opportunities.
type CleanupService struct {
	store     CleanupStore
	cfg       config.CleanupConfig
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.Mutex
	logger    *logrus.Logger
}

// NewCleanupService creates a retention cleanup service.
func NewCleanupService(store CleanupStore, cfg config.CleanupConfig) *CleanupService {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.SnapshotRetentionHours <= 0 {
		cfg.SnapshotRetentionHours = 168
	}
	if cfg.CleanupIntervalMinutes <= 0 {
		cfg.CleanupIntervalMinutes = 60
	}

	return &CleanupService{
		store:  store,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		logger: logrus.New(),
	}
}

// Start begins the periodic cleanup loop.
func (s *CleanupService) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("cleanup service is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"snapshot_retention_hours": s.cfg.SnapshotRetentionHours,
		"interval_minutes":         s.cfg.CleanupIntervalMinutes,
	}).Info("Starting cleanup service")

	s.wg.Add(1)
	go s.loop()

	return nil
}

// Stop gracefully shuts down the cleanup service.
func (s *CleanupService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.logger.Info("Cleanup service stopped")
}

func (s *CleanupService) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Duration(s.cfg.CleanupIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(s.ctx); err != nil {
				s.logger.WithError(err).Error("Cleanup run failed")
			}
		}
	}
}

// RunOnce performs a single retention pass.
func (s *CleanupService) RunOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-time.Duration(s.cfg.SnapshotRetentionHours) * time.Hour)

	snapshots, err := s.store.DeleteSnapshotsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	opportunities, err := s.store.DeleteExpiredOpportunities(ctx)
	if err != nil {
		return fmt.Errorf("failed to prune opportunities: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"snapshots_deleted":     snapshots,
		"opportunities_deleted": opportunities,
	}).Info("Cleanup run completed")

	return nil
}
