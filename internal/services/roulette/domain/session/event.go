package session

import (
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
)

// EventKind names an event on the wire.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventGameStarted  EventKind = "game_started"
	EventTurnPrompt   EventKind = "turn_prompt"
	EventShotResult   EventKind = "shot_result"
	EventReload       EventKind = "reload"
	EventItemMenu     EventKind = "item_menu"
	EventGameOver     EventKind = "game_over"
)

// Event is emitted by the engine for adapters to render. Recipient is empty
// for broadcasts and names the only player allowed to see private events.
type Event interface {
	Kind() EventKind
	Recipient() string
}

// PlayerJoined announces a new seat.
type PlayerJoined struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

func (PlayerJoined) Kind() EventKind   { return EventPlayerJoined }
func (PlayerJoined) Recipient() string { return "" }

// GameStarted announces the first chamber.
type GameStarted struct {
	PlayerIDs   []string `json:"player_ids"`
	ChamberSize int      `json:"chamber_size"`
}

func (GameStarted) Kind() EventKind   { return EventGameStarted }
func (GameStarted) Recipient() string { return "" }

// TurnPrompt asks the current player to act. It is private to that player.
type TurnPrompt struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

func (TurnPrompt) Kind() EventKind     { return EventTurnPrompt }
func (e TurnPrompt) Recipient() string { return e.PlayerID }

// ShotResult reports one trigger pull.
type ShotResult struct {
	ShooterID   string        `json:"shooter_id"`
	ShooterName string        `json:"shooter_name"`
	Round       chamber.Round `json:"-"`
	Live        bool          `json:"live"`
	Damage      int           `json:"damage"`
	Health      int           `json:"health"`
	Eliminated  bool          `json:"eliminated"`
}

func (ShotResult) Kind() EventKind   { return EventShotResult }
func (ShotResult) Recipient() string { return "" }

// Grant is one item handed out on reload.
type Grant struct {
	PlayerID string    `json:"player_id"`
	Item     item.Kind `json:"item"`
}

// ReloadAnnouncement reports a fresh chamber and the items handed out.
type ReloadAnnouncement struct {
	ChamberSize int     `json:"chamber_size"`
	Live        int     `json:"live"`
	Blank       int     `json:"blank"`
	Grants      []Grant `json:"grants"`
}

func (ReloadAnnouncement) Kind() EventKind   { return EventReload }
func (ReloadAnnouncement) Recipient() string { return "" }

// ItemMenu shows a player their inventory. It is private to that player.
type ItemMenu struct {
	PlayerID   string      `json:"player_id"`
	PlayerName string      `json:"player_name"`
	Items      []item.Kind `json:"items"`
}

func (ItemMenu) Kind() EventKind     { return EventItemMenu }
func (e ItemMenu) Recipient() string { return e.PlayerID }

// GameOver closes the session. WinnerID is empty when nobody survived.
type GameOver struct {
	WinnerID   string `json:"winner_id,omitempty"`
	WinnerName string `json:"winner_name,omitempty"`
}

func (GameOver) Kind() EventKind   { return EventGameOver }
func (GameOver) Recipient() string { return "" }

// NoWinner reports whether the game ended with nobody standing.
func (e GameOver) NoWinner() bool { return e.WinnerID == "" }
