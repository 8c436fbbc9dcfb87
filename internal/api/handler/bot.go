package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/botfarm/internal/api/request"
	"github.com/edvin/botfarm/internal/api/response"
	"github.com/edvin/botfarm/internal/core"
	"github.com/edvin/botfarm/internal/model"
)

type Bot struct {
	svc *core.BotService
}

func NewBot(svc *core.BotService) *Bot {
	return &Bot{svc: svc}
}

// List returns all bots owned by the caller, newest first.
func (h *Bot) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	bots, err := h.svc.ListByOwner(r.Context(), identity)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{"items": bots})
}

// Deploy creates a bot in the offline state.
func (h *Bot) Deploy(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req request.DeployBot
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	vars := make([]core.EnvVarPair, len(req.EnvVars))
	for i, v := range req.EnvVars {
		vars[i] = core.EnvVarPair{Key: v.Key, Value: v.Value}
	}

	bot, err := h.svc.Deploy(r.Context(), identity, core.DeployParams{
		Name:          req.Name,
		Platform:      req.Platform,
		Runtime:       req.Runtime,
		ScriptContent: req.ScriptContent,
		EnvVars:       vars,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, bot)
}

// Get returns a bot's current state, refreshing usage if it is online.
func (h *Bot) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	botID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	bot, err := h.svc.Status(r.Context(), identity, botID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, bot)
}

// Start brings a bot online.
func (h *Bot) Start(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Start)
}

// Stop takes a bot offline and zeroes its usage.
func (h *Bot) Stop(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Stop)
}

// Restart cycles a bot through the deploying state onto a fresh unit.
func (h *Bot) Restart(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Restart)
}

// Delete removes a bot and all of its dependent records.
func (h *Bot) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	botID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), identity, botID); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type lifecycleFunc func(ctx context.Context, caller model.Identity, botID string) (*model.Bot, error)

func (h *Bot) lifecycle(w http.ResponseWriter, r *http.Request, op lifecycleFunc) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	botID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	bot, err := op(r.Context(), identity, botID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, bot)
}
