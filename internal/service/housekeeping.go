package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/stocklane/stocklane/internal/store"
)

// HousekeepingService periodically deletes expired one-time codes and
// verification/reset tokens so the tables do not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. An interval of 0 or less defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress cleanup ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes expired records. Each deletion is independent so a failure
// in one table does not stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	s.Logger.Debug("starting housekeeping cleanup")

	if err := s.Store.TwoFactorTokens().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to delete expired two-factor tokens", "error", err)
	}
	if err := s.Store.VerificationTokens().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to delete expired verification tokens", "error", err)
	}
	if err := s.Store.PasswordResetTokens().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to delete expired password reset tokens", "error", err)
	}

	s.Logger.Debug("housekeeping cleanup completed")
}
