package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/botfarm/internal/api/request"
	"github.com/edvin/botfarm/internal/api/response"
	"github.com/edvin/botfarm/internal/core"
	"github.com/edvin/botfarm/internal/model"
)

type ResourceSample struct {
	svc *core.ResourceSampleService
}

func NewResourceSample(svc *core.ResourceSampleService) *ResourceSample {
	return &ResourceSample{svc: svc}
}

// List returns a bot's raw resource history. The hours query parameter
// bounds the lookback window, defaulting to 24.
func (h *ResourceSample) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	botID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	hours, err := request.ParseHours(r, 24)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	samples, err := h.svc.ListSince(r.Context(), identity, botID, since)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	if samples == nil {
		samples = []model.ResourceSample{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"items": samples})
}
