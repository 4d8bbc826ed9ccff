package session

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/player"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/turn"
)

// Engine applies the game rules to sessions.
type Engine struct {
	cfg      Config
	chambers chamber.Generator
	dealer   item.Dealer
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine validates cfg and returns an engine drawing chambers from
// chambers and reload items from dealer.
func NewEngine(cfg Config, chambers chamber.Generator, dealer item.Dealer, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if chambers == nil {
		return nil, fmt.Errorf("chamber generator is required")
	}
	if dealer == nil {
		return nil, fmt.Errorf("item dealer is required")
	}
	e := &Engine{
		cfg:      cfg,
		chambers: chambers,
		dealer:   dealer,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the rules the engine plays with.
func (e *Engine) Config() Config {
	return e.cfg
}

// NewSession returns an empty session waiting for players.
func (e *Engine) NewSession(id string) *Session {
	return &Session{
		id:        id,
		status:    StatusWaiting,
		players:   player.NewRegistry(e.cfg.MaxHealth),
		createdAt: e.now(),
	}
}

// Join seats a player while the session is waiting.
func (e *Engine) Join(s *Session, playerID, name string) (PlayerJoined, error) {
	if s.status != StatusWaiting {
		return PlayerJoined{}, invalidState(s.status, "join")
	}
	if playerID == "" {
		return PlayerJoined{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"player id is required", map[string]string{"Field": "player_id"})
	}
	if err := s.players.Join(playerID, name); err != nil {
		return PlayerJoined{}, err
	}
	return PlayerJoined{PlayerID: playerID, PlayerName: name}, nil
}

// Start fixes the turn order to join order, loads the first chamber and
// prompts the first player.
func (e *Engine) Start(s *Session) ([]Event, error) {
	if s.status != StatusWaiting {
		return nil, invalidState(s.status, "start")
	}
	if s.players.Len() < MinPlayers {
		return nil, apperrors.WithMetadata(apperrors.CodeNotEnoughPlayers,
			fmt.Sprintf("need %d players, have %d", MinPlayers, s.players.Len()),
			map[string]string{"Required": strconv.Itoa(MinPlayers)})
	}

	s.turns = turn.New(s.players.IDs())
	s.chamber = e.chambers.Generate(e.cfg.MinChamber, e.cfg.MaxChamber)
	s.cursor = 0
	s.boost = ""
	if err := s.transition(StatusPlaying); err != nil {
		return nil, err
	}
	s.startedAt = e.now()

	prompt, err := s.prompt()
	if err != nil {
		return nil, err
	}
	return []Event{
		GameStarted{PlayerIDs: s.turns.Order(), ChamberSize: len(s.chamber)},
		prompt,
	}, nil
}

// Outcome is the result of one action.
type Outcome struct {
	Action   Action
	Shot     *ShotOutcome
	Events   []Event
	Finished bool
}

// Act performs action for playerID, who must hold the current turn.
//
// Shooting resolves the next round, then either ends the game when at most
// one player remains or advances the turn and prompts the next player.
// Opening the item menu changes nothing and keeps the turn.
func (e *Engine) Act(s *Session, playerID string, action Action) (Outcome, error) {
	if s.status != StatusPlaying {
		return Outcome{}, invalidState(s.status, action.String())
	}
	if !s.players.Contains(playerID) {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeUnknownPlayer,
			fmt.Sprintf("player %s is not seated", playerID),
			map[string]string{"PlayerID": playerID})
	}
	current, err := s.turns.Current()
	if err != nil {
		return Outcome{}, err
	}
	if current != playerID {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeNotYourTurn,
			fmt.Sprintf("turn belongs to %s, not %s", current, playerID),
			map[string]string{"PlayerID": playerID, "CurrentPlayerID": current})
	}

	switch action {
	case ActionShoot:
		return e.shoot(s, playerID)
	case ActionUseItem:
		return e.itemMenu(s, playerID)
	default:
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("unknown action %d", action),
			map[string]string{"Field": "action"})
	}
}

func (e *Engine) shoot(s *Session, playerID string) (Outcome, error) {
	shot, err := e.resolveShot(s, playerID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeEmptyChamber) {
			if finishErr := s.finish(e.now()); finishErr != nil {
				return Outcome{}, finishErr
			}
		}
		return Outcome{}, err
	}

	out := Outcome{Action: ActionShoot, Shot: &shot}
	out.Events = append(out.Events, shot.Result())
	if shot.Reloaded {
		out.Events = append(out.Events, shot.Reload)
	}

	if s.players.Len() <= 1 {
		if err := s.finish(e.now()); err != nil {
			return Outcome{}, err
		}
		out.Finished = true
		out.Events = append(out.Events, GameOver{WinnerID: s.winnerID, WinnerName: s.winnerName})
		return out, nil
	}

	s.turns.Advance()
	prompt, err := s.prompt()
	if err != nil {
		return Outcome{}, err
	}
	out.Events = append(out.Events, prompt)
	return out, nil
}

func (e *Engine) itemMenu(s *Session, playerID string) (Outcome, error) {
	p, _ := s.players.Get(playerID)
	if len(p.Items) == 0 {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeNoItems,
			fmt.Sprintf("player %s holds no items", playerID),
			map[string]string{"PlayerID": playerID})
	}
	return Outcome{
		Action: ActionUseItem,
		Events: []Event{ItemMenu{PlayerID: p.ID, PlayerName: p.Name, Items: p.Items}},
	}, nil
}

// Boost marks playerID so the next live round they fire deals multiplied
// damage. The marker is cleared by the next shot or reload.
func (e *Engine) Boost(s *Session, playerID string) error {
	if s.status != StatusPlaying {
		return invalidState(s.status, "boost")
	}
	if !s.players.Contains(playerID) {
		return apperrors.WithMetadata(apperrors.CodeUnknownPlayer,
			fmt.Sprintf("player %s is not seated", playerID),
			map[string]string{"PlayerID": playerID})
	}
	s.boost = playerID
	return nil
}

func (s *Session) prompt() (TurnPrompt, error) {
	id, err := s.turns.Current()
	if err != nil {
		return TurnPrompt{}, err
	}
	p, _ := s.players.Get(id)
	return TurnPrompt{PlayerID: p.ID, PlayerName: p.Name}, nil
}

func invalidState(status Status, operation string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidState,
		fmt.Sprintf("cannot %s while %s", operation, status),
		map[string]string{"Status": status.String(), "Operation": operation})
}
