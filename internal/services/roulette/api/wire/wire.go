// Package wire defines the JSON shapes every transport returns for
// sessions, events and matches.
package wire

import (
	"encoding/json"
	"time"

	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/player"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/render"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage"
)

// Player is a seated player.
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
	Items     []string `json:"items"`
}

// Session is a session snapshot. Chamber contents are never exposed.
type Session struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	Players         []Player  `json:"players"`
	TurnOrder       []string  `json:"turn_order,omitempty"`
	CurrentPlayerID string    `json:"current_player_id,omitempty"`
	ChamberSize     int       `json:"chamber_size"`
	RoundsLeft      int       `json:"rounds_left"`
	BoostPlayerID   string    `json:"boost_player_id,omitempty"`
	Shots           int       `json:"shots"`
	Reloads         int       `json:"reloads"`
	WinnerID        string    `json:"winner_id,omitempty"`
	WinnerName      string    `json:"winner_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Event is an engine event with its rendered text. Recipient is set for
// events meant for one player only.
type Event struct {
	Kind      string          `json:"kind"`
	Recipient string          `json:"recipient,omitempty"`
	Text      string          `json:"text"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// MatchPlayer is one final standing.
type MatchPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Health int    `json:"health"`
	Place  int    `json:"place"`
}

// Match is a finished game.
type Match struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"session_id"`
	WinnerID   string        `json:"winner_id,omitempty"`
	WinnerName string        `json:"winner_name,omitempty"`
	Players    []MatchPlayer `json:"players"`
	Shots      int           `json:"shots"`
	Reloads    int           `json:"reloads"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// FromView converts a session snapshot.
func FromView(v session.View) Session {
	out := Session{
		ID:              v.ID,
		Status:          v.Status.String(),
		Players:         make([]Player, 0, len(v.Players)),
		TurnOrder:       v.TurnOrder,
		CurrentPlayerID: v.CurrentPlayerID,
		ChamberSize:     v.ChamberSize,
		RoundsLeft:      v.RoundsLeft,
		BoostPlayerID:   v.BoostPlayerID,
		Shots:           v.Shots,
		Reloads:         v.Reloads,
		WinnerID:        v.WinnerID,
		WinnerName:      v.WinnerName,
		CreatedAt:       v.CreatedAt,
	}
	for _, p := range v.Players {
		out.Players = append(out.Players, fromPlayer(p))
	}
	return out
}

func fromPlayer(p player.Player) Player {
	items := make([]string, 0, len(p.Items))
	for _, kind := range p.Items {
		items = append(items, string(kind))
	}
	return Player{ID: p.ID, Name: p.Name, Health: p.Health, MaxHealth: p.MaxHealth, Items: items}
}

// Names maps player id to name for the seated players of v.
func Names(v session.View) map[string]string {
	names := make(map[string]string, len(v.Players))
	for _, p := range v.Players {
		names[p.ID] = p.Name
	}
	return names
}

// FromEvent renders ev for locale.
func FromEvent(r *render.Renderer, locale string, ev session.Event) Event {
	payload, err := json.Marshal(ev)
	if err != nil {
		payload = nil
	}
	return Event{
		Kind:      string(ev.Kind()),
		Recipient: ev.Recipient(),
		Text:      r.Event(locale, ev),
		Payload:   payload,
	}
}

// FromEvents renders a batch of events.
func FromEvents(r *render.Renderer, locale string, events []session.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		out = append(out, FromEvent(r, locale, ev))
	}
	return out
}

// FromMatch converts a stored match.
func FromMatch(rec storage.MatchRecord) Match {
	out := Match{
		ID:         rec.ID,
		SessionID:  rec.SessionID,
		WinnerID:   rec.WinnerID,
		WinnerName: rec.WinnerName,
		Players:    make([]MatchPlayer, 0, len(rec.Players)),
		Shots:      rec.Shots,
		Reloads:    rec.Reloads,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
	}
	for _, p := range rec.Players {
		out.Players = append(out.Players, MatchPlayer{ID: p.ID, Name: p.Name, Health: p.Health, Place: p.Place})
	}
	return out
}

// ItemNames localizes an inventory.
func ItemNames(r *render.Renderer, locale string, items []string) []string {
	out := make([]string, 0, len(items))
	for _, name := range items {
		out = append(out, r.ItemName(locale, item.Kind(name)))
	}
	return out
}
