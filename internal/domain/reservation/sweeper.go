// internal/domain/reservation/sweeper.go
package reservation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper periodically expires stale holds. It runs independently of any
// request lifetime, so reservation cleanup never depends on a client
// staying connected.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	logger   *logrus.Logger
}

// NewSweeper creates a sweeper that runs the expiry sweep at the given interval
func NewSweeper(manager *Manager, interval time.Duration, logger *logrus.Logger) *Sweeper {
	if logger == nil {
		logger = logrus.New()
	}
	return &Sweeper{
		manager:  manager,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks, sweeping on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.WithField("interval", s.interval.String()).Info("Reservation sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reservation sweeper stopped")
			return
		case now := <-ticker.C:
			count, err := s.manager.SweepExpired(ctx, now)
			if err != nil {
				s.logger.WithField("error", err.Error()).Error("Reservation sweep failed")
				continue
			}
			if count > 0 {
				s.logger.WithField("expired", count).Info("Expired stale reservations")
			}
		}
	}
}
