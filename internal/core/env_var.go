package core

import (
	"context"

	"github.com/edvin/botfarm/internal/model"
	"github.com/edvin/botfarm/internal/platform"
)

// BotEnvVarService manages the key/value pairs scoped to one bot.
// Keys are unique per bot; setting an existing key overwrites its value.
type BotEnvVarService struct {
	db   DB
	bots *BotService
}

func NewBotEnvVarService(db DB, bots *BotService) *BotEnvVarService {
	return &BotEnvVarService{db: db, bots: bots}
}

// List returns a bot's env vars ordered by key.
func (s *BotEnvVarService) List(ctx context.Context, caller model.Identity, botID string) ([]model.BotEnvVar, error) {
	if _, err := s.bots.getOwned(ctx, caller, botID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, bot_id, key, value, created_at, updated_at FROM bot_env_vars WHERE bot_id = $1 ORDER BY key`, botID)
	if err != nil {
		return nil, errStorage("list env vars", err)
	}
	defer rows.Close()

	var vars []model.BotEnvVar
	for rows.Next() {
		var v model.BotEnvVar
		if err := rows.Scan(&v.ID, &v.BotID, &v.Key, &v.Value, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, errStorage("scan env var", err)
		}
		vars = append(vars, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errStorage("iterate env vars", err)
	}
	return vars, nil
}

// Set replaces the full env var set for a bot. Pairs with an empty key or
// value are rejected by the request layer before reaching this point.
func (s *BotEnvVarService) Set(ctx context.Context, caller model.Identity, botID string, vars []EnvVarPair) error {
	if !caller.Verified {
		return errNotVerified()
	}
	if _, err := s.bots.getOwned(ctx, caller, botID); err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM bot_env_vars WHERE bot_id = $1`, botID); err != nil {
		return errStorage("clear env vars", err)
	}
	for _, v := range vars {
		if err := upsertEnvVar(ctx, s.db, botID, v.Key, v.Value); err != nil {
			return err
		}
	}
	return nil
}

func upsertEnvVar(ctx context.Context, db DB, botID, key, value string) error {
	_, err := db.Exec(ctx,
		`INSERT INTO bot_env_vars (id, bot_id, key, value, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 ON CONFLICT (bot_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		platform.NewID(), botID, key, value,
	)
	if err != nil {
		return errStorage("set env var", err)
	}
	return nil
}
