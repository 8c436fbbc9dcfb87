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

func logScan(l model.BotLog) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = l.ID
		*(dest[1].(*string)) = l.BotID
		*(dest[2].(*string)) = l.Level
		*(dest[3].(*string)) = l.Message
		*(dest[4].(*time.Time)) = l.CreatedAt
		return nil
	}
}

func newLogServiceForTest(db DB) *BotLogService {
	bots, _ := newBotServiceForTest(db)
	return NewBotLogService(db, bots)
}

func ownedBotRow() *mockRow {
	return &mockRow{scanFunc: botScan(model.Bot{
		ID: "bot-1", UserID: "user-1", Status: model.StatusOnline,
		Platform: model.PlatformTelegram, Runtime: model.RuntimePython,
	})}
}

func TestBotLogService_ListByBot(t *testing.T) {
	db := &mockDB{}
	svc := newLogServiceForTest(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, getOwnedSQL, mock.Anything).Return(ownedBotRow())
	rows := newMockRows(
		logScan(model.BotLog{ID: "log-3", BotID: "bot-1", Level: model.LogLevelInfo, Message: "bot started"}),
		logScan(model.BotLog{ID: "log-2", BotID: "bot-1", Level: model.LogLevelDebug, Message: "initial usage cpu=5.5% memory=20.0MB"}),
	)
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	logs, hasMore, err := svc.ListByBot(ctx, verifiedCaller, "bot-1", 50, "")
	require.NoError(t, err)
	assert.False(t, hasMore)
	require.Len(t, logs, 2)
	assert.Equal(t, "log-3", logs[0].ID)
}

func TestBotLogService_ListByBot_Pagination(t *testing.T) {
	db := &mockDB{}
	svc := newLogServiceForTest(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, getOwnedSQL, mock.Anything).Return(ownedBotRow())
	// Three rows against a page size of two signals another page.
	rows := newMockRows(
		logScan(model.BotLog{ID: "log-3", BotID: "bot-1", Level: model.LogLevelInfo, Message: "a"}),
		logScan(model.BotLog{ID: "log-2", BotID: "bot-1", Level: model.LogLevelInfo, Message: "b"}),
		logScan(model.BotLog{ID: "log-1", BotID: "bot-1", Level: model.LogLevelInfo, Message: "c"}),
	)
	db.On("Query", ctx, mock.AnythingOfType("string"),
		mock.MatchedBy(func(args []any) bool {
			// limit+1 is requested so the page boundary is detectable.
			return len(args) == 2 && args[1] == 3
		})).Return(rows, nil)

	logs, hasMore, err := svc.ListByBot(ctx, verifiedCaller, "bot-1", 2, "")
	require.NoError(t, err)
	assert.True(t, hasMore)
	require.Len(t, logs, 2)
	assert.Equal(t, "log-2", logs[1].ID)
}

func TestBotLogService_ListByBot_CursorAddsPredicate(t *testing.T) {
	db := &mockDB{}
	svc := newLogServiceForTest(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, getOwnedSQL, mock.Anything).Return(ownedBotRow())
	db.On("Query", ctx, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "AND (created_at, id) < (SELECT created_at, id FROM bot_logs WHERE id = $2)")
	}), mock.MatchedBy(func(args []any) bool {
		return len(args) == 3 && args[1] == "log-2"
	})).Return(newEmptyMockRows(), nil)

	logs, hasMore, err := svc.ListByBot(ctx, verifiedCaller, "bot-1", 50, "log-2")
	require.NoError(t, err)
	assert.False(t, hasMore)
	assert.Empty(t, logs)
	db.AssertExpectations(t)
}
