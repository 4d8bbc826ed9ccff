package session

import (
	"time"

	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/player"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/turn"
)

// Session is one game at a table.
type Session struct {
	id         string
	status     Status
	players    *player.Registry
	eliminated []player.Player
	turns      *turn.Sequencer
	chamber    []chamber.Round
	cursor     int
	boost      string
	shots      int
	reloads    int
	winnerID   string
	winnerName string
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// HasPlayer reports whether id is still seated.
func (s *Session) HasPlayer(id string) bool { return s.players.Contains(id) }

// PlayerIDs returns the seated players in join order.
func (s *Session) PlayerIDs() []string { return s.players.IDs() }

// RoundsLeft returns how many rounds remain in the chamber.
func (s *Session) RoundsLeft() int {
	return len(s.chamber) - s.cursor
}

// View is a read-only snapshot of a session. Chamber contents stay hidden;
// only the number of rounds left is exposed.
type View struct {
	ID              string
	Status          Status
	Players         []player.Player
	Eliminated      []player.Player
	TurnOrder       []string
	CurrentPlayerID string
	ChamberSize     int
	RoundsLeft      int
	BoostPlayerID   string
	Shots           int
	Reloads         int
	WinnerID        string
	WinnerName      string
	CreatedAt       time.Time
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Snapshot copies the observable state of the session.
func (s *Session) Snapshot() View {
	v := View{
		ID:            s.id,
		Status:        s.status,
		Players:       s.players.Players(),
		Eliminated:    append([]player.Player(nil), s.eliminated...),
		ChamberSize:   len(s.chamber),
		RoundsLeft:    s.RoundsLeft(),
		BoostPlayerID: s.boost,
		Shots:         s.shots,
		Reloads:       s.reloads,
		WinnerID:      s.winnerID,
		WinnerName:    s.winnerName,
		CreatedAt:     s.createdAt,
		StartedAt:     s.startedAt,
		FinishedAt:    s.finishedAt,
	}
	if s.turns != nil {
		v.TurnOrder = s.turns.Order()
		if s.status == StatusPlaying {
			v.CurrentPlayerID, _ = s.turns.Current()
		}
	}
	return v
}

// removePlayer drops id from the registry and the turn order together.
func (s *Session) removePlayer(id string) {
	if p, ok := s.players.Get(id); ok {
		s.eliminated = append(s.eliminated, p)
	}
	s.players.Remove(id)
	if s.turns != nil {
		s.turns.Remove(id)
	}
}

// transition moves the session to next when the lifecycle allows it.
func (s *Session) transition(next Status) error {
	if !s.status.CanTransition(next) {
		return invalidState(s.status, "move to "+next.String())
	}
	s.status = next
	return nil
}

func (s *Session) finish(now time.Time) error {
	if err := s.transition(StatusFinished); err != nil {
		return err
	}
	s.finishedAt = now
	s.boost = ""
	ids := s.players.IDs()
	if len(ids) == 1 {
		winner, _ := s.players.Get(ids[0])
		s.winnerID = winner.ID
		s.winnerName = winner.Name
	}
	return nil
}
