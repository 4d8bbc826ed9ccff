package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/therili1/buckshot-roulette-bot/internal/platform/httpx"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Events handles GET /sessions/{id}/events?player_id=&locale= by upgrading
// to a WebSocket that receives every rendered event of the session. Private
// events are only sent when player_id is their recipient. The socket closes
// normally once the session finishes.
func (h *sessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	locale := httpx.Locale(r)
	playerID := strings.TrimSpace(r.URL.Query().Get("player_id"))

	// Subscribe before checking the session so no event falls between.
	events, cancel := h.table.Broker().Subscribe(id)
	defer cancel()
	view, err := h.table.View(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err, locale)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	names := wire.Names(view)
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				reason := h.render.Text(locale, "event.session_ended")
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
				return
			}
			if joined, isJoin := ev.(session.PlayerJoined); isJoin {
				names[joined.PlayerID] = joined.PlayerName
			}
			if to := ev.Recipient(); to != "" && to != playerID {
				continue
			}
			if err := conn.WriteJSON(wire.FromEvent(h.render.WithNames(names), locale, ev)); err != nil {
				return
			}
		}
	}
}
