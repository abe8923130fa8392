package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/store"
)

const (
	// acceptedRetention is how long accepted invitations are kept for audit
	// before housekeeping removes them.
	acceptedRetention = 90 * 24 * time.Hour

	// expiredLinkRetention keeps expired safe-link rows around after expiry
	// so a late claim still classifies as expired rather than unknown.
	expiredLinkRetention = 48 * time.Hour
)

// HousekeepingService periodically removes expired safe-link tokens and
// long-accepted invitations to prevent unbounded table growth.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. If interval is 0 or
// negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut it
// down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress cleanup finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
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

// cleanup deletes stale records. Each deletion is independent, a failure in
// one won't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.Logger.Info("starting housekeeping cleanup")

	if err := s.Store.SafeLinks().DeleteExpiredSafeLinks(ctx, now.Add(-expiredLinkRetention)); err != nil {
		s.Logger.Error("failed to delete expired safe links", "error", err)
	} else {
		s.Logger.Debug("deleted expired safe links")
	}

	if err := s.Store.Invitations().DeleteAcceptedBefore(ctx, now.Add(-acceptedRetention)); err != nil {
		s.Logger.Error("failed to delete stale accepted invitations", "error", err)
	} else {
		s.Logger.Debug("deleted stale accepted invitations")
	}

	s.Logger.Info("housekeeping cleanup completed")
}
