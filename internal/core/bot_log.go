package core

import (
	"context"
	"fmt"

	"github.com/edvin/botfarm/internal/model"
)

// BotLogService reads the append-only log stream for a bot. Writes go
// through the lifecycle controller and the heartbeat reconciler.
type BotLogService struct {
	db   DB
	bots *BotService
}

func NewBotLogService(db DB, bots *BotService) *BotLogService {
	return &BotLogService{db: db, bots: bots}
}

// ListByBot returns a bot's log entries newest first, cursor-paginated.
func (s *BotLogService) ListByBot(ctx context.Context, caller model.Identity, botID string, limit int, cursor string) ([]model.BotLog, bool, error) {
	if _, err := s.bots.getOwned(ctx, caller, botID); err != nil {
		return nil, false, err
	}

	query := `SELECT id, bot_id, level, message, created_at FROM bot_logs WHERE bot_id = $1`
	args := []any{botID}
	argIdx := 2

	// The cursor is the last log id of the previous page. Ids are random, so
	// the keyset predicate compares on (created_at, id), matching the sort.
	if cursor != "" {
		query += fmt.Sprintf(` AND (created_at, id) < (SELECT created_at, id FROM bot_logs WHERE id = $%d)`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY created_at DESC, id DESC`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, errStorage("list bot logs", err)
	}
	defer rows.Close()

	var logs []model.BotLog
	for rows.Next() {
		var l model.BotLog
		if err := rows.Scan(&l.ID, &l.BotID, &l.Level, &l.Message, &l.CreatedAt); err != nil {
			return nil, false, errStorage("scan bot log", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, false, errStorage("iterate bot logs", err)
	}

	hasMore := len(logs) > limit
	if hasMore {
		logs = logs[:limit]
	}
	return logs, hasMore, nil
}
