package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/httpx"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/render"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"
)

type sessionHandler struct {
	table  *table.Table
	render *render.Renderer
}

type playerRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Action     string `json:"action"`
}

// List handles GET /sessions.
func (h *sessionHandler) List(w http.ResponseWriter, r *http.Request) {
	views := h.table.List(r.Context())
	out := make([]wire.Session, 0, len(views))
	for _, v := range views {
		out = append(out, wire.FromView(v))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

// CreateOrGet handles PUT /sessions/{id}.
func (h *sessionHandler) CreateOrGet(w http.ResponseWriter, r *http.Request) {
	view, created, err := h.table.CreateOrGet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	_ = httpx.WriteJSON(w, status, map[string]any{"session": wire.FromView(view)})
}

// Get handles GET /sessions/{id}.
func (h *sessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.table.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"session": wire.FromView(view)})
}

// Join handles POST /sessions/{id}/players.
func (h *sessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	locale := httpx.Locale(r)
	var req playerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		name = req.PlayerID
	}
	ev, err := h.table.Join(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.PlayerID), name)
	if err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, map[string]any{"event": wire.FromEvent(h.render, locale, ev)})
}

// Start handles POST /sessions/{id}/start.
func (h *sessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	locale := httpx.Locale(r)
	id := chi.URLParam(r, "id")
	events, err := h.table.Start(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"events": wire.FromEvents(h.renderer(r, id), locale, events),
	})
}

// Act handles POST /sessions/{id}/actions.
func (h *sessionHandler) Act(w http.ResponseWriter, r *http.Request) {
	locale := httpx.Locale(r)
	id := chi.URLParam(r, "id")
	var req playerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	action, ok := session.ParseAction(req.Action)
	if !ok {
		httpx.WriteError(w, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"unknown action", map[string]string{"Field": "action"}), locale)
		return
	}
	// Render names before acting; a finishing shot removes the session.
	renderer := h.renderer(r, id)
	out, err := h.table.Act(r.Context(), id, strings.TrimSpace(req.PlayerID), action)
	if err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"action":   out.Action.String(),
		"events":   wire.FromEvents(renderer, locale, out.Events),
		"finished": out.Finished,
	})
}

// Boost handles POST /sessions/{id}/boost.
func (h *sessionHandler) Boost(w http.ResponseWriter, r *http.Request) {
	locale := httpx.Locale(r)
	id := chi.URLParam(r, "id")
	var req playerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	if err := h.table.Boost(r.Context(), id, strings.TrimSpace(req.PlayerID)); err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *sessionHandler) renderer(r *http.Request, id string) *render.Renderer {
	view, err := h.table.View(r.Context(), id)
	if err != nil {
		return h.render
	}
	return h.render.WithNames(wire.Names(view))
}
