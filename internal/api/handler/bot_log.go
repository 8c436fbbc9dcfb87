package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/botfarm/internal/api/request"
	"github.com/edvin/botfarm/internal/api/response"
	"github.com/edvin/botfarm/internal/core"
	"github.com/edvin/botfarm/internal/model"
)

type BotLog struct {
	svc *core.BotLogService
}

func NewBotLog(svc *core.BotLogService) *BotLog {
	return &BotLog{svc: svc}
}

// List returns a bot's log entries newest first, cursor-paginated.
func (h *BotLog) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	botID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := request.ParsePagination(r)
	logs, hasMore, err := h.svc.ListByBot(r.Context(), identity, botID, p.Limit, p.Cursor)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	if logs == nil {
		logs = []model.BotLog{}
	}
	nextCursor := ""
	if hasMore {
		nextCursor = logs[len(logs)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, logs, nextCursor, hasMore)
}
