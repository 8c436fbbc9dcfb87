package worker

import (
	"context"
	"fmt"
	"time"

	cron "github.com/netresearch/go-cron"
	"github.com/rs/zerolog"

	"github.com/edvin/botfarm/internal/core"
	"github.com/edvin/botfarm/internal/metrics"
)

// scheduleParser accepts six-field cron specs so sweeps can run on a
// seconds cadence.
var scheduleParser = cron.MustNewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Runner drives the heartbeat reconciler on a cron schedule.
type Runner struct {
	heartbeat *core.HeartbeatService
	schedule  cron.Schedule
	logger    zerolog.Logger
}

func NewRunner(heartbeat *core.HeartbeatService, spec string, logger zerolog.Logger) (*Runner, error) {
	schedule, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse heartbeat schedule %q: %w", spec, err)
	}
	return &Runner{
		heartbeat: heartbeat,
		schedule:  schedule,
		logger:    logger.With().Str("component", "heartbeat-runner").Logger(),
	}, nil
}

// Run sweeps at each schedule occurrence until the context is cancelled.
// Sweep errors are logged and counted; the loop keeps going.
func (r *Runner) Run(ctx context.Context) error {
	for {
		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		start := time.Now()
		updated, err := r.heartbeat.Sweep(ctx)
		metrics.HeartbeatSweepDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.HeartbeatSweeps.WithLabelValues("error").Inc()
			r.logger.Error().Err(err).Msg("heartbeat sweep failed")
			continue
		}

		metrics.HeartbeatSweeps.WithLabelValues("ok").Inc()
		metrics.HeartbeatBotsUpdated.Add(float64(updated))
	}
}
