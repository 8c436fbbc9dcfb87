package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/botfarm/internal/model"
	"github.com/edvin/botfarm/internal/platform"
	"github.com/edvin/botfarm/internal/registry"
	"github.com/edvin/botfarm/internal/sim"
)

const maxBotsPerUser = model.MaxBotsPerUser

// BotService owns the bot lifecycle state machine. Every mutating operation
// requires a verified caller; every operation on an existing bot requires
// ownership, with "not found" and "not owned" deliberately indistinguishable.
type BotService struct {
	db      DB
	sampler sim.Sampler
	units   *registry.Registry
}

func NewBotService(db DB, sampler sim.Sampler, units *registry.Registry) *BotService {
	return &BotService{db: db, sampler: sampler, units: units}
}

// DeployParams are the caller-supplied inputs to Deploy.
type DeployParams struct {
	Name          string
	Platform      string
	Runtime       string
	ScriptContent *string
	EnvVars       []EnvVarPair
}

type EnvVarPair struct {
	Key   string
	Value string
}

const botColumns = `id, user_id, name, platform, runtime, status, container_id, script_content, cpu_usage, memory_usage, uptime_seconds, last_started_at, created_at, updated_at`

func scanBot(row interface{ Scan(dest ...any) error }) (model.Bot, error) {
	var b model.Bot
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Platform, &b.Runtime, &b.Status,
		&b.ContainerID, &b.ScriptContent, &b.CPUUsage, &b.MemoryUsage,
		&b.UptimeSeconds, &b.LastStartedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	return b, nil
}

// Deploy creates a bot row in the offline state with a freshly allocated
// execution unit id that is stored but not yet started. The per-user quota
// is checked here as a fast path; the authoritative check is the
// enforce_bot_quota trigger, which holds under concurrent deploys.
func (s *BotService) Deploy(ctx context.Context, caller model.Identity, params DeployParams) (*model.Bot, error) {
	if !caller.Verified {
		return nil, errNotVerified()
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, errValidation("bot name is required")
	}
	if !model.ValidPlatform(params.Platform) {
		return nil, errValidation("platform must be telegram or discord")
	}
	if !model.ValidRuntime(params.Runtime) {
		return nil, errValidation("runtime must be python, nodejs or php")
	}

	var count int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM bots WHERE user_id = $1`, caller.UserID).Scan(&count)
	if err != nil {
		return nil, errStorage("count bots", err)
	}
	if count >= maxBotsPerUser {
		return nil, errQuotaExceeded()
	}

	now := time.Now()
	unitID := platform.NewUnitID()
	bot := &model.Bot{
		ID:          platform.NewID(),
		UserID:      caller.UserID,
		Name:        strings.TrimSpace(params.Name),
		Platform:    params.Platform,
		Runtime:     params.Runtime,
		Status:      model.StatusOffline,
		ContainerID: &unitID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.ScriptContent != nil && *params.ScriptContent != "" {
		bot.ScriptContent = params.ScriptContent
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO bots (id, user_id, name, platform, runtime, status, container_id, script_content, cpu_usage, memory_usage, uptime_seconds, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, 0, $9, $10)`,
		bot.ID, bot.UserID, bot.Name, bot.Platform, bot.Runtime, bot.Status,
		bot.ContainerID, bot.ScriptContent, bot.CreatedAt, bot.UpdatedAt,
	)
	if err != nil {
		if isQuotaViolation(err) {
			return nil, errQuotaExceeded()
		}
		return nil, errStorage("create bot", err)
	}

	// Ill-formed pairs are dropped rather than failing the deploy.
	for _, ev := range params.EnvVars {
		if ev.Value == "" || !model.ValidEnvVarKey(ev.Key) {
			continue
		}
		if err := upsertEnvVar(ctx, s.db, bot.ID, ev.Key, ev.Value); err != nil {
			return nil, err
		}
	}

	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelInfo,
		fmt.Sprintf("execution unit %s allocated", unitID)); err != nil {
		return nil, err
	}
	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelInfo,
		fmt.Sprintf("%s runtime provisioned for %s", bot.Runtime, bot.Platform)); err != nil {
		return nil, err
	}

	return bot, nil
}

// Start brings a bot online with a fresh execution unit. Calling Start on a
// bot that is already online succeeds and re-provisions the unit, keeping
// the operation idempotent in effect.
func (s *BotService) Start(ctx context.Context, caller model.Identity, botID string) (*model.Bot, error) {
	if !caller.Verified {
		return nil, errNotVerified()
	}
	bot, err := s.getOwned(ctx, caller, botID)
	if err != nil {
		return nil, err
	}
	return s.startUnit(ctx, bot)
}

// Restart logs the restart, passes through the deploying state, and then
// behaves exactly as Start with a freshly generated execution unit.
func (s *BotService) Restart(ctx context.Context, caller model.Identity, botID string) (*model.Bot, error) {
	if !caller.Verified {
		return nil, errNotVerified()
	}
	bot, err := s.getOwned(ctx, caller, botID)
	if err != nil {
		return nil, err
	}

	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelInfo, "restarting bot"); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx,
		`UPDATE bots SET status = $1, updated_at = now() WHERE id = $2`,
		model.StatusDeploying, bot.ID,
	); err != nil {
		return nil, errStorage("update bot", err)
	}

	return s.startUnit(ctx, bot)
}

func (s *BotService) startUnit(ctx context.Context, bot *model.Bot) (*model.Bot, error) {
	unitID := platform.NewUnitID()
	usage := s.sampler.Sample()
	cpu := model.ClampCPU(usage.CPU)
	mem := model.ClampMemory(usage.Memory)
	now := time.Now()

	_, err := s.db.Exec(ctx,
		`UPDATE bots SET status = $1, container_id = $2, last_started_at = $3,
		 cpu_usage = $4, memory_usage = $5, updated_at = now() WHERE id = $6`,
		model.StatusOnline, unitID, now, cpu, mem, bot.ID,
	)
	if err != nil {
		return nil, errStorage("update bot", err)
	}

	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelInfo,
		fmt.Sprintf("execution unit %s started", unitID)); err != nil {
		return nil, err
	}
	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelInfo,
		fmt.Sprintf("bot online (%s runtime ready)", bot.Runtime)); err != nil {
		return nil, err
	}
	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelDebug,
		fmt.Sprintf("initial usage cpu=%.1f%% memory=%.1fMB", cpu, mem)); err != nil {
		return nil, err
	}
	if err := appendSample(ctx, s.db, bot.ID, model.ResourceUsage{CPU: cpu, Memory: mem}); err != nil {
		return nil, err
	}

	s.units.Put(registry.NewRecord(bot.ID, unitID, model.ResourceUsage{CPU: cpu, Memory: mem}))

	bot.Status = model.StatusOnline
	bot.ContainerID = &unitID
	bot.LastStartedAt = &now
	bot.CPUUsage = cpu
	bot.MemoryUsage = mem
	bot.UpdatedAt = now
	return bot, nil
}

// Stop takes a bot offline. Stopping an already-stopped bot still succeeds
// and still zeroes the usage fields.
func (s *BotService) Stop(ctx context.Context, caller model.Identity, botID string) (*model.Bot, error) {
	if !caller.Verified {
		return nil, errNotVerified()
	}
	bot, err := s.getOwned(ctx, caller, botID)
	if err != nil {
		return nil, err
	}

	s.units.Remove(bot.ID)

	_, err = s.db.Exec(ctx,
		`UPDATE bots SET status = $1, container_id = NULL, cpu_usage = 0, memory_usage = 0, updated_at = now() WHERE id = $2`,
		model.StatusStopped, bot.ID,
	)
	if err != nil {
		return nil, errStorage("update bot", err)
	}

	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelInfo, "stop signal sent to execution unit"); err != nil {
		return nil, err
	}
	if err := appendLog(ctx, s.db, bot.ID, model.LogLevelInfo, "bot stopped"); err != nil {
		return nil, err
	}

	bot.Status = model.StatusStopped
	bot.ContainerID = nil
	bot.CPUUsage = 0
	bot.MemoryUsage = 0
	return bot, nil
}

// Delete removes the bot row. Env vars, logs and resource samples go with it
// via ON DELETE CASCADE.
func (s *BotService) Delete(ctx context.Context, caller model.Identity, botID string) error {
	if !caller.Verified {
		return errNotVerified()
	}
	bot, err := s.getOwned(ctx, caller, botID)
	if err != nil {
		return err
	}

	s.units.Remove(bot.ID)

	if _, err := s.db.Exec(ctx, `DELETE FROM bots WHERE id = $1`, bot.ID); err != nil {
		return errStorage("delete bot", err)
	}
	return nil
}

// Status returns a snapshot of the bot. For an online bot the snapshot is
// fresh: usage is resampled, persisted, and one resource sample appended.
// Status is read-only for every other state and needs no verified account.
func (s *BotService) Status(ctx context.Context, caller model.Identity, botID string) (*model.Bot, error) {
	bot, err := s.getOwned(ctx, caller, botID)
	if err != nil {
		return nil, err
	}
	if bot.Status != model.StatusOnline {
		return bot, nil
	}

	usage := s.sampler.Sample()
	cpu := model.ClampCPU(usage.CPU)
	mem := model.ClampMemory(usage.Memory)

	_, err = s.db.Exec(ctx,
		`UPDATE bots SET cpu_usage = $1, memory_usage = $2, updated_at = now() WHERE id = $3`,
		cpu, mem, bot.ID,
	)
	if err != nil {
		return nil, errStorage("update bot", err)
	}
	if err := appendSample(ctx, s.db, bot.ID, model.ResourceUsage{CPU: cpu, Memory: mem}); err != nil {
		return nil, err
	}

	s.units.UpdateUsage(bot.ID, model.ResourceUsage{CPU: cpu, Memory: mem})

	bot.CPUUsage = cpu
	bot.MemoryUsage = mem
	return bot, nil
}

// ListByOwner returns all bots owned by the caller, newest first.
func (s *BotService) ListByOwner(ctx context.Context, caller model.Identity) ([]model.Bot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+botColumns+` FROM bots WHERE user_id = $1 ORDER BY created_at DESC`, caller.UserID)
	if err != nil {
		return nil, errStorage("list bots", err)
	}
	defer rows.Close()

	var bots []model.Bot
	for rows.Next() {
		b, err := scanBot(rows)
		if err != nil {
			return nil, errStorage("scan bot", err)
		}
		bots = append(bots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errStorage("iterate bots", err)
	}
	return bots, nil
}

// getOwned loads a bot scoped to the caller. A missing row and a row owned
// by someone else both come back as access denied.
func (s *BotService) getOwned(ctx context.Context, caller model.Identity, botID string) (*model.Bot, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+botColumns+` FROM bots WHERE id = $1 AND user_id = $2`, botID, caller.UserID)
	b, err := scanBot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errAccessDenied()
		}
		return nil, errStorage("get bot", err)
	}
	return &b, nil
}

// appendLog inserts one append-only log entry for a bot.
func appendLog(ctx context.Context, db DB, botID, level, message string) error {
	_, err := db.Exec(ctx,
		`INSERT INTO bot_logs (id, bot_id, level, message, created_at) VALUES ($1, $2, $3, $4, now())`,
		platform.NewID(), botID, level, message,
	)
	if err != nil {
		return errStorage("append bot log", err)
	}
	return nil
}

// appendSample inserts one resource-history point for a bot.
func appendSample(ctx context.Context, db DB, botID string, usage model.ResourceUsage) error {
	_, err := db.Exec(ctx,
		`INSERT INTO resource_samples (id, bot_id, cpu_usage, memory_usage, recorded_at) VALUES ($1, $2, $3, $4, now())`,
		platform.NewID(), botID, usage.CPU, usage.Memory,
	)
	if err != nil {
		return errStorage("append resource sample", err)
	}
	return nil
}

// isQuotaViolation matches the check_violation raised by the
// enforce_bot_quota trigger.
func isQuotaViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514" && strings.Contains(pgErr.Message, "bot quota")
}
