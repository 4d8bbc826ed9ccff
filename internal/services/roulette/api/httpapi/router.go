// Package httpapi serves the table as a JSON API with a WebSocket event
// stream per session.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/therili1/buckshot-roulette-bot/internal/platform/httpx"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/history"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/render"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"
)

// NewRouter returns the API routes. history may be nil, which disables the
// /matches routes.
func NewRouter(t *table.Table, h *history.Service, logf func(string, ...any)) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httpx.RequestID)
	r.Use(httpx.Logger(logf))
	r.Use(httpx.RecoverPanic)

	sessions := &sessionHandler{table: t, render: render.New()}
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", sessions.List)
		r.Put("/{id}", sessions.CreateOrGet)
		r.Get("/{id}", sessions.Get)
		r.Post("/{id}/players", sessions.Join)
		r.Post("/{id}/start", sessions.Start)
		r.Post("/{id}/actions", sessions.Act)
		r.Post("/{id}/boost", sessions.Boost)
		r.Get("/{id}/events", sessions.Events)
	})

	if h != nil {
		matches := &matchHandler{history: h}
		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matches.List)
			r.Get("/{id}", matches.Get)
		})
	}
	return r
}
