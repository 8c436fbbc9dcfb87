package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/botfarm/internal/model"
	"github.com/edvin/botfarm/internal/registry"
)

func heartbeatScan(id string, last *time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(**time.Time)) = last
		return nil
	}
}

func newHeartbeatForTest(db DB, units *registry.Registry, cfg HeartbeatConfig) *HeartbeatService {
	return NewHeartbeatService(db, fixedSampler{cpu: 5.5, mem: 20.0}, units, zerolog.Nop(), cfg)
}

func TestHeartbeatService_Sweep_UpdatesAllOnlineBots(t *testing.T) {
	db := &mockDB{}
	units := registry.New()
	svc := newHeartbeatForTest(db, units, HeartbeatConfig{LogProbability: -1})
	ctx := context.Background()

	started := time.Now().Add(-90 * time.Second)
	rows := newMockRows(
		heartbeatScan("bot-1", &started),
		heartbeatScan("bot-2", &started),
	)
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	units.Put(registry.NewRecord("bot-1", "unit-a", model.ResourceUsage{CPU: 1.0, Memory: 5.0}))

	updated, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 2, countExecs(db, "UPDATE bots"))
	assert.Equal(t, 2, countExecs(db, "INSERT INTO resource_samples"))
	assert.Equal(t, 0, countExecs(db, "INSERT INTO bot_logs"))

	rec, ok := units.Get("bot-1")
	require.True(t, ok)
	assert.Equal(t, 5.5, rec.LastUsage.CPU)
	assert.Equal(t, 20.0, rec.LastUsage.Memory)
}

func TestHeartbeatService_Sweep_OneBotFailingDoesNotAbort(t *testing.T) {
	db := &mockDB{}
	svc := newHeartbeatForTest(db, registry.New(), HeartbeatConfig{LogProbability: -1})
	ctx := context.Background()

	started := time.Now().Add(-time.Minute)
	rows := newMockRows(
		heartbeatScan("bot-1", &started),
		heartbeatScan("bot-2", &started),
	)
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	// bot-2's usage update fails; bot-1 sails through.
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"),
		mock.MatchedBy(func(args []any) bool { return len(args) == 4 && args[3] == "bot-2" })).
		Return(pgconn.CommandTag{}, errors.New("connection reset"))
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, nil)

	updated, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestHeartbeatService_Sweep_NeverStartedBotGetsZeroUptime(t *testing.T) {
	db := &mockDB{}
	svc := newHeartbeatForTest(db, registry.New(), HeartbeatConfig{LogProbability: -1})
	ctx := context.Background()

	rows := newMockRows(heartbeatScan("bot-1", nil))
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	updated, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	for _, c := range db.Calls {
		if c.Method != "Exec" {
			continue
		}
		sql := c.Arguments.Get(1).(string)
		if len(sql) >= 11 && sql[:11] == "UPDATE bots" {
			args := c.Arguments.Get(2).([]any)
			assert.Equal(t, int64(0), args[2])
		}
	}
}

func TestHeartbeatService_Sweep_SyntheticLogAlwaysOn(t *testing.T) {
	db := &mockDB{}
	svc := newHeartbeatForTest(db, registry.New(), HeartbeatConfig{LogProbability: 1.0})
	ctx := context.Background()

	started := time.Now()
	rows := newMockRows(heartbeatScan("bot-1", &started))
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	_, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, countExecs(db, "INSERT INTO bot_logs"))
}

func TestHeartbeatService_Sweep_NoOnlineBots(t *testing.T) {
	db := &mockDB{}
	svc := newHeartbeatForTest(db, registry.New(), HeartbeatConfig{})
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(newEmptyMockRows(), nil)

	updated, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestHeartbeatService_Sweep_ListFailure(t *testing.T) {
	db := &mockDB{}
	svc := newHeartbeatForTest(db, registry.New(), HeartbeatConfig{})
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil, errors.New("timeout"))

	_, err := svc.Sweep(ctx)
	require.Error(t, err)
	assert.Equal(t, KindStorageFailure, KindOf(err))
}
