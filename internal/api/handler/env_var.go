package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/botfarm/internal/api/request"
	"github.com/edvin/botfarm/internal/api/response"
	"github.com/edvin/botfarm/internal/core"
)

type BotEnvVar struct {
	svc *core.BotEnvVarService
}

func NewBotEnvVar(svc *core.BotEnvVarService) *BotEnvVar {
	return &BotEnvVar{svc: svc}
}

// List returns all env vars for a bot.
func (h *BotEnvVar) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	botID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	vars, err := h.svc.List(r.Context(), identity, botID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	type envVarResponse struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	items := make([]envVarResponse, len(vars))
	for i, v := range vars {
		items[i] = envVarResponse{Key: v.Key, Value: v.Value}
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Set replaces all env vars for a bot (bulk PUT).
func (h *BotEnvVar) Set(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	botID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SetBotEnvVars
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	vars := make([]core.EnvVarPair, len(req.Vars))
	for i, v := range req.Vars {
		vars[i] = core.EnvVarPair{Key: v.Key, Value: v.Value}
	}

	if err := h.svc.Set(r.Context(), identity, botID, vars); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
