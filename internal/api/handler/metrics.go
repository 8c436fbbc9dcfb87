package handler

import (
	"net/http"

	"github.com/edvin/botfarm/internal/api/request"
	"github.com/edvin/botfarm/internal/api/response"
	"github.com/edvin/botfarm/internal/core"
)

type Metrics struct {
	svc *core.MetricsService
}

func NewMetrics(svc *core.MetricsService) *Metrics {
	return &Metrics{svc: svc}
}

// Overview returns aggregated chart data and fleet stats for the caller.
// Query parameters: bot_id narrows the chart to one bot, hours bounds the
// lookback window.
func (h *Metrics) Overview(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var botID *string
	if v := r.URL.Query().Get("bot_id"); v != "" {
		botID = &v
	}

	hours, err := request.ParseHours(r, 0)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := h.svc.Overview(r.Context(), identity, botID, hours)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, overview)
}
