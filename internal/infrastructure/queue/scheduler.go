package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aprodmayo/management-system/internal/api/metrics"
)

const defaultInterval = time.Hour

// StatusRefresher advances workshop statuses from their scheduled dates.
type StatusRefresher interface {
	RefreshStatuses(ctx context.Context, today time.Time) (int, error)
}

// StatusScheduler runs the workshop status refresh on a fixed interval, so
// workshops reach in_progress and completed without a manual transition.
type StatusScheduler struct {
	refresher StatusRefresher
	interval  time.Duration
	log       zerolog.Logger
}

// NewStatusScheduler creates a StatusScheduler.
// If interval <= 0, defaultInterval is used.
func NewStatusScheduler(refresher StatusRefresher, interval time.Duration, log zerolog.Logger) *StatusScheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &StatusScheduler{
		refresher: refresher,
		interval:  interval,
		log:       log,
	}
}

// Start launches the refresh loop. It runs once immediately, then on every
// tick until ctx is cancelled.
func (s *StatusScheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *StatusScheduler) run(ctx context.Context) {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *StatusScheduler) refresh(ctx context.Context) {
	updated, err := s.refresher.RefreshStatuses(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("workshop status refresh failed")
		return
	}
	if updated > 0 {
		s.log.Info().Int("updated", updated).Msg("workshop statuses advanced")
	}
	metrics.WorkshopsAdvancedTotal.Add(float64(updated))
	metrics.StatusRefreshLastRun.SetToCurrentTime()
}
