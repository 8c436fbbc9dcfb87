package core

import (
	"context"
	"time"

	"github.com/edvin/botfarm/internal/model"
)

// ResourceSampleService reads a bot's resource history. Writes go through
// the lifecycle controller and the heartbeat reconciler.
type ResourceSampleService struct {
	db   DB
	bots *BotService
}

func NewResourceSampleService(db DB, bots *BotService) *ResourceSampleService {
	return &ResourceSampleService{db: db, bots: bots}
}

// ListSince returns a bot's samples recorded at or after the cutoff,
// chronologically.
func (s *ResourceSampleService) ListSince(ctx context.Context, caller model.Identity, botID string, since time.Time) ([]model.ResourceSample, error) {
	if _, err := s.bots.getOwned(ctx, caller, botID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, bot_id, cpu_usage, memory_usage, recorded_at FROM resource_samples
		 WHERE bot_id = $1 AND recorded_at >= $2 ORDER BY recorded_at`, botID, since)
	if err != nil {
		return nil, errStorage("list resource samples", err)
	}
	defer rows.Close()

	var samples []model.ResourceSample
	for rows.Next() {
		var p model.ResourceSample
		if err := rows.Scan(&p.ID, &p.BotID, &p.CPUUsage, &p.MemoryUsage, &p.RecordedAt); err != nil {
			return nil, errStorage("scan resource sample", err)
		}
		samples = append(samples, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errStorage("iterate resource samples", err)
	}
	return samples, nil
}
