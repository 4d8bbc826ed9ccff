package domain

import (
	"fmt"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"

	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
)

// PlayerResult is one seated player.
type PlayerResult struct {
	ID        string   `json:"id" jsonschema:"player identifier"`
	Name      string   `json:"name" jsonschema:"display name"`
	Health    int      `json:"health" jsonschema:"current health"`
	MaxHealth int      `json:"max_health" jsonschema:"starting health"`
	Items     []string `json:"items" jsonschema:"held item kinds"`
}

// SessionResult is a session snapshot.
type SessionResult struct {
	ID              string         `json:"id" jsonschema:"session identifier"`
	Status          string         `json:"status" jsonschema:"session status (waiting, playing, finished)"`
	Players         []PlayerResult `json:"players" jsonschema:"players in join order"`
	TurnOrder       []string       `json:"turn_order,omitempty" jsonschema:"player ids in turn order"`
	CurrentPlayerID string         `json:"current_player_id,omitempty" jsonschema:"player whose turn it is"`
	ChamberSize     int            `json:"chamber_size" jsonschema:"rounds loaded at the last reload"`
	RoundsLeft      int            `json:"rounds_left" jsonschema:"rounds remaining in the chamber"`
	BoostPlayerID   string         `json:"boost_player_id,omitempty" jsonschema:"player whose next shot is boosted"`
	Shots           int            `json:"shots" jsonschema:"shots fired so far"`
	Reloads         int            `json:"reloads" jsonschema:"chamber reloads so far"`
	WinnerID        string         `json:"winner_id,omitempty" jsonschema:"winner, once finished"`
	WinnerName      string         `json:"winner_name,omitempty" jsonschema:"winner display name"`
	CreatedAt       string         `json:"created_at" jsonschema:"RFC3339 timestamp when the session was opened"`
}

// EventResult is one rendered event.
type EventResult struct {
	Kind string `json:"kind" jsonschema:"event kind"`
	Text string `json:"text" jsonschema:"rendered event text"`
}

// MatchPlayerResult is one final standing.
type MatchPlayerResult struct {
	ID     string `json:"id" jsonschema:"player identifier"`
	Name   string `json:"name" jsonschema:"display name"`
	Health int    `json:"health" jsonschema:"final health"`
	Place  int    `json:"place" jsonschema:"final place, 1 is the winner"`
}

// MatchResult is a finished game.
type MatchResult struct {
	ID         string              `json:"id" jsonschema:"match identifier"`
	SessionID  string              `json:"session_id" jsonschema:"session the match was played in"`
	WinnerID   string              `json:"winner_id,omitempty" jsonschema:"winner identifier, empty when nobody survived"`
	WinnerName string              `json:"winner_name,omitempty" jsonschema:"winner display name"`
	Players    []MatchPlayerResult `json:"players" jsonschema:"final standings"`
	Shots      int                 `json:"shots" jsonschema:"shots fired"`
	Reloads    int                 `json:"reloads" jsonschema:"chamber reloads"`
	StartedAt  string              `json:"started_at" jsonschema:"RFC3339 start timestamp"`
	FinishedAt string              `json:"finished_at" jsonschema:"RFC3339 finish timestamp"`
}

func sessionResult(s wire.Session) SessionResult {
	out := SessionResult{
		ID:              s.ID,
		Status:          s.Status,
		Players:         make([]PlayerResult, 0, len(s.Players)),
		TurnOrder:       s.TurnOrder,
		CurrentPlayerID: s.CurrentPlayerID,
		ChamberSize:     s.ChamberSize,
		RoundsLeft:      s.RoundsLeft,
		BoostPlayerID:   s.BoostPlayerID,
		Shots:           s.Shots,
		Reloads:         s.Reloads,
		WinnerID:        s.WinnerID,
		WinnerName:      s.WinnerName,
		CreatedAt:       formatTime(s.CreatedAt),
	}
	for _, p := range s.Players {
		items := p.Items
		if items == nil {
			items = []string{}
		}
		out.Players = append(out.Players, PlayerResult{
			ID:        p.ID,
			Name:      p.Name,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Items:     items,
		})
	}
	return out
}

// visibleEvents drops events addressed to another player.
func visibleEvents(events []wire.Event, playerID string) []EventResult {
	out := make([]EventResult, 0, len(events))
	for _, ev := range events {
		if ev.Recipient != "" && ev.Recipient != playerID {
			continue
		}
		out = append(out, EventResult{Kind: ev.Kind, Text: ev.Text})
	}
	return out
}

func matchResult(m wire.Match) MatchResult {
	out := MatchResult{
		ID:         m.ID,
		SessionID:  m.SessionID,
		WinnerID:   m.WinnerID,
		WinnerName: m.WinnerName,
		Players:    make([]MatchPlayerResult, 0, len(m.Players)),
		Shots:      m.Shots,
		Reloads:    m.Reloads,
		StartedAt:  formatTime(m.StartedAt),
		FinishedAt: formatTime(m.FinishedAt),
	}
	for _, p := range m.Players {
		out.Players = append(out.Players, MatchPlayerResult(p))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// callError wraps a failed table call, preferring the server's localized
// message over the raw status text.
func callError(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	for _, detail := range st.Details() {
		if msg, ok := detail.(*errdetails.LocalizedMessage); ok && msg.GetMessage() != "" {
			return fmt.Errorf("%s failed: %s", op, msg.GetMessage())
		}
	}
	return fmt.Errorf("%s failed: %s", op, st.Message())
}
