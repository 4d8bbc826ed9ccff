package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/httpx"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/history"
)

type matchHandler struct {
	history *history.Service
}

// List handles GET /matches?filter=&page_size=&page_token=.
func (h *matchHandler) List(w http.ResponseWriter, r *http.Request) {
	locale := httpx.Locale(r)
	query := r.URL.Query()
	pageSize := 0
	if raw := query.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
				"page_size must be a number", map[string]string{"Field": "page_size"}), locale)
			return
		}
		pageSize = n
	}
	page, err := h.history.List(r.Context(), history.ListRequest{
		Filter:    query.Get("filter"),
		PageSize:  pageSize,
		PageToken: query.Get("page_token"),
	})
	if err != nil {
		httpx.WriteError(w, err, locale)
		return
	}
	matches := make([]wire.Match, 0, len(page.Matches))
	for _, m := range page.Matches {
		matches = append(matches, wire.FromMatch(m))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"matches":         matches,
		"next_page_token": page.NextPageToken,
	})
}

// Get handles GET /matches/{id}.
func (h *matchHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"match": wire.FromMatch(rec)})
}
