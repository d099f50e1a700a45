package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	EventStatusJobName     = "event_status_refresh"
	eventStatusRefreshTime = time.Minute
)

type eventStatusQueries interface {
	RefreshEventStatuses(ctx context.Context, now time.Time) (int64, error)
}

// RegisterEventStatusJob moves events between upcoming, ongoing and completed
// as their dates pass. Cancelled events are left alone.
func RegisterEventStatusJob(q eventStatusQueries, cronExpr string, clock clockwork.Clock) error {
	if q == nil {
		return fmt.Errorf("event status job requires database")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	jobLogger := log.With().
		Str("component", "event_status_job").
		Str("job_name", EventStatusJobName).
		Logger()

	_, err := AddJob(EventStatusJobName, cronExpr, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), eventStatusRefreshTime)
		defer cancel()

		changed, err := RefreshEventStatuses(jobLogger.WithContext(ctx), q, clock.Now())
		if err != nil {
			return err
		}
		if changed > 0 {
			jobLogger.Info().Int64("events_updated", changed).Msg("Event statuses refreshed")
		}
		return nil
	})
	return err
}

// RefreshEventStatuses applies date-derived statuses as of now.
func RefreshEventStatuses(ctx context.Context, q eventStatusQueries, now time.Time) (int64, error) {
	changed, err := q.RefreshEventStatuses(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("refresh event statuses: %w", err)
	}
	return changed, nil
}
