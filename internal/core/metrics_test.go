package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/botfarm/internal/model"
)

func sampleScan(cpu, mem float64, recordedAt time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*float64)) = cpu
		*(dest[1].(*float64)) = mem
		*(dest[2].(*time.Time)) = recordedAt
		return nil
	}
}

func matchSQLPrefix(prefix string) any {
	return mock.MatchedBy(func(sql string) bool { return strings.HasPrefix(sql, prefix) })
}

func TestMetricsService_Overview_NoBots(t *testing.T) {
	db := &mockDB{}
	svc := NewMetricsService(db)
	ctx := context.Background()

	db.On("Query", ctx, matchSQLPrefix("SELECT id,"), mock.Anything).Return(newEmptyMockRows(), nil)

	overview, err := svc.Overview(ctx, verifiedCaller, nil, 24)
	require.NoError(t, err)
	assert.NotNil(t, overview.ChartData)
	assert.Empty(t, overview.ChartData)
	assert.Equal(t, 0, overview.Stats.TotalBots)
	assert.Equal(t, 0, overview.Stats.RunningBots)
	assert.Equal(t, 0.0, overview.Stats.TotalCPU)
	assert.Equal(t, 0.0, overview.Stats.TotalMemory)
	assert.Equal(t, model.MaxBotsPerUser, overview.Stats.MaxBots)
	assert.Equal(t, model.MaxCPUPercent, overview.Stats.MaxCPUPerBot)
	assert.Equal(t, model.MaxMemoryMB, overview.Stats.MaxMemoryPerBot)
	db.AssertNotCalled(t, "Query", mock.Anything, matchSQLPrefix("SELECT cpu_usage"), mock.Anything)
}

func TestMetricsService_Overview_StatsAndBuckets(t *testing.T) {
	db := &mockDB{}
	svc := NewMetricsService(db)
	ctx := context.Background()

	botRows := newMockRows(
		botScan(model.Bot{ID: "bot-1", UserID: "user-1", Status: model.StatusOnline,
			CPUUsage: 5.5, MemoryUsage: 20.0,
			Platform: model.PlatformTelegram, Runtime: model.RuntimePython}),
		botScan(model.Bot{ID: "bot-2", UserID: "user-1", Status: model.StatusStopped,
			Platform: model.PlatformDiscord, Runtime: model.RuntimeNodeJS}),
		botScan(model.Bot{ID: "bot-3", UserID: "user-1", Status: model.StatusOnline,
			CPUUsage: 2.2, MemoryUsage: 11.1,
			Platform: model.PlatformTelegram, Runtime: model.RuntimePHP}),
	)
	db.On("Query", ctx, matchSQLPrefix("SELECT id,"), mock.Anything).Return(botRows, nil)

	h1 := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	h2 := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	sampleRows := newMockRows(
		// Deliberately out of bucket order and with in-hour offsets: the
		// grouping must truncate to the hour and sort the buckets.
		sampleScan(2.0, 10.0, h2.Add(5*time.Minute)),
		sampleScan(4.0, 20.0, h1.Add(12*time.Minute)),
		sampleScan(5.0, 25.0, h1.Add(48*time.Minute)),
		sampleScan(2.1, 10.1, h2.Add(59*time.Minute)),
	)
	db.On("Query", ctx, matchSQLPrefix("SELECT cpu_usage"), mock.Anything).Return(sampleRows, nil)

	overview, err := svc.Overview(ctx, verifiedCaller, nil, 24)
	require.NoError(t, err)

	assert.Equal(t, 3, overview.Stats.TotalBots)
	assert.Equal(t, 2, overview.Stats.RunningBots)
	assert.Equal(t, 7.7, overview.Stats.TotalCPU)
	assert.Equal(t, 31.1, overview.Stats.TotalMemory)
	assert.Len(t, overview.Bots, 3)

	require.Len(t, overview.ChartData, 2)
	assert.Equal(t, "09:00", overview.ChartData[0].Time)
	assert.Equal(t, 4.5, overview.ChartData[0].CPU)
	assert.Equal(t, 22.5, overview.ChartData[0].Memory)
	assert.Equal(t, "10:00", overview.ChartData[1].Time)
	assert.Equal(t, 2.1, overview.ChartData[1].CPU)
	assert.Equal(t, 10.1, overview.ChartData[1].Memory)
}

func TestMetricsService_Overview_RoundsBucketMeans(t *testing.T) {
	db := &mockDB{}
	svc := NewMetricsService(db)
	ctx := context.Background()

	botRows := newMockRows(
		botScan(model.Bot{ID: "bot-1", UserID: "user-1", Status: model.StatusOnline,
			Platform: model.PlatformTelegram, Runtime: model.RuntimePython}),
	)
	db.On("Query", ctx, matchSQLPrefix("SELECT id,"), mock.Anything).Return(botRows, nil)

	h := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)
	sampleRows := newMockRows(
		sampleScan(1.0, 5.0, h),
		sampleScan(2.0, 5.1, h.Add(time.Minute)),
		sampleScan(2.0, 5.1, h.Add(2*time.Minute)),
	)
	db.On("Query", ctx, matchSQLPrefix("SELECT cpu_usage"), mock.Anything).Return(sampleRows, nil)

	overview, err := svc.Overview(ctx, verifiedCaller, nil, 0)
	require.NoError(t, err)
	require.Len(t, overview.ChartData, 1)
	// 5.0/3 and 15.2/3, each rounded to one decimal.
	assert.Equal(t, 1.7, overview.ChartData[0].CPU)
	assert.Equal(t, 5.1, overview.ChartData[0].Memory)
}

func TestMetricsService_Overview_BotFilterNotOwned(t *testing.T) {
	db := &mockDB{}
	svc := NewMetricsService(db)
	ctx := context.Background()

	botRows := newMockRows(
		botScan(model.Bot{ID: "bot-1", UserID: "user-1", Status: model.StatusOnline,
			Platform: model.PlatformTelegram, Runtime: model.RuntimePython}),
	)
	db.On("Query", ctx, matchSQLPrefix("SELECT id,"), mock.Anything).Return(botRows, nil)

	other := "bot-of-someone-else"
	_, err := svc.Overview(ctx, verifiedCaller, &other, 24)
	require.Error(t, err)
	assert.Equal(t, KindAccessDenied, KindOf(err))
	db.AssertNotCalled(t, "Query", mock.Anything, matchSQLPrefix("SELECT cpu_usage"), mock.Anything)
}

func TestMetricsService_Overview_BotFilterNarrowsSamples(t *testing.T) {
	db := &mockDB{}
	svc := NewMetricsService(db)
	ctx := context.Background()

	botRows := newMockRows(
		botScan(model.Bot{ID: "bot-1", UserID: "user-1", Status: model.StatusOnline,
			Platform: model.PlatformTelegram, Runtime: model.RuntimePython}),
		botScan(model.Bot{ID: "bot-2", UserID: "user-1", Status: model.StatusOnline,
			Platform: model.PlatformDiscord, Runtime: model.RuntimeNodeJS}),
	)
	db.On("Query", ctx, matchSQLPrefix("SELECT id,"), mock.Anything).Return(botRows, nil)
	db.On("Query", ctx, matchSQLPrefix("SELECT cpu_usage"),
		mock.MatchedBy(func(args []any) bool {
			ids, ok := args[0].([]string)
			return ok && len(ids) == 1 && ids[0] == "bot-2"
		})).Return(newEmptyMockRows(), nil)

	target := "bot-2"
	overview, err := svc.Overview(ctx, verifiedCaller, &target, 24)
	require.NoError(t, err)
	assert.Empty(t, overview.ChartData)
	db.AssertExpectations(t)
}
