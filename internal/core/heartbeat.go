package core

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/botfarm/internal/model"
	"github.com/edvin/botfarm/internal/registry"
	"github.com/edvin/botfarm/internal/sim"
)

// defaultHeartbeatMessages keep the log viewer populated in the absence of a
// real process. A deployment can replace the set via configuration.
var defaultHeartbeatMessages = []string{
	"heartbeat ok",
	"processed incoming update batch",
	"message queue drained",
	"webhook delivery acknowledged",
	"session refreshed with platform API",
	"gc pause 3ms",
}

// HeartbeatConfig tunes the reconciler. Zero values fall back to defaults.
type HeartbeatConfig struct {
	// LogProbability is the chance a sweep appends a synthetic log line per
	// bot. Negative disables the behavior entirely.
	LogProbability float64
	Messages       []string
	MaxParallel    int
}

// HeartbeatService sweeps every online bot: refreshes simulated usage,
// recomputes uptime, and appends resource history. Bots are processed
// independently; one bot's failure never aborts the sweep.
type HeartbeatService struct {
	db      DB
	sampler sim.Sampler
	units   *registry.Registry
	logger  zerolog.Logger

	logProbability float64
	messages       []string
	maxParallel    int
}

func NewHeartbeatService(db DB, sampler sim.Sampler, units *registry.Registry, logger zerolog.Logger, cfg HeartbeatConfig) *HeartbeatService {
	s := &HeartbeatService{
		db:             db,
		sampler:        sampler,
		units:          units,
		logger:         logger.With().Str("component", "heartbeat").Logger(),
		logProbability: cfg.LogProbability,
		messages:       cfg.Messages,
		maxParallel:    cfg.MaxParallel,
	}
	if s.logProbability == 0 {
		s.logProbability = 0.3
	}
	if s.logProbability < 0 {
		s.logProbability = 0
	}
	if len(s.messages) == 0 {
		s.messages = defaultHeartbeatMessages
	}
	if s.maxParallel <= 0 {
		s.maxParallel = 8
	}
	return s
}

type heartbeatTarget struct {
	id            string
	lastStartedAt *time.Time
}

// Sweep runs one reconciliation pass over all bots currently online and
// returns the number successfully updated. Per-bot failures are logged and
// counted, not raised; only the initial listing can fail the sweep.
func (s *HeartbeatService) Sweep(ctx context.Context) (int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, last_started_at FROM bots WHERE status = $1`, model.StatusOnline)
	if err != nil {
		return 0, errStorage("list online bots", err)
	}

	var targets []heartbeatTarget
	for rows.Next() {
		var t heartbeatTarget
		if err := rows.Scan(&t.id, &t.lastStartedAt); err != nil {
			rows.Close()
			return 0, errStorage("scan online bot", err)
		}
		targets = append(targets, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, errStorage("iterate online bots", err)
	}

	var updated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for _, t := range targets {
		g.Go(func() error {
			if err := s.updateBot(gctx, t); err != nil {
				failed.Add(1)
				s.logger.Warn().Err(err).Str("bot_id", t.id).Msg("heartbeat update failed")
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Debug().
		Int("targets", len(targets)).
		Int64("updated", updated.Load()).
		Int64("failed", failed.Load()).
		Msg("heartbeat sweep complete")

	return int(updated.Load()), nil
}

func (s *HeartbeatService) updateBot(ctx context.Context, t heartbeatTarget) error {
	usage := s.sampler.Sample()
	cpu := model.ClampCPU(usage.CPU)
	mem := model.ClampMemory(usage.Memory)

	var uptime int64
	if t.lastStartedAt != nil {
		uptime = int64(time.Since(*t.lastStartedAt).Seconds())
		if uptime < 0 {
			uptime = 0
		}
	}

	_, err := s.db.Exec(ctx,
		`UPDATE bots SET cpu_usage = $1, memory_usage = $2, uptime_seconds = $3, updated_at = now() WHERE id = $4`,
		cpu, mem, uptime, t.id,
	)
	if err != nil {
		return errStorage("update bot usage", err)
	}

	if err := appendSample(ctx, s.db, t.id, model.ResourceUsage{CPU: cpu, Memory: mem}); err != nil {
		return err
	}

	s.units.UpdateUsage(t.id, model.ResourceUsage{CPU: cpu, Memory: mem})

	if rand.Float64() < s.logProbability {
		level := model.LogLevelInfo
		if rand.IntN(2) == 0 {
			level = model.LogLevelDebug
		}
		msg := s.messages[rand.IntN(len(s.messages))]
		if err := appendLog(ctx, s.db, t.id, level, msg); err != nil {
			return err
		}
	}

	return nil
}
