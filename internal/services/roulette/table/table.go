package table

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	platformid "github.com/therili1/buckshot-roulette-bot/internal/platform/id"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/otel"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage"
)

const tracerName = "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"

// Recorder stores finished matches.
type Recorder interface {
	RecordMatch(ctx context.Context, record storage.MatchRecord) error
}

// Option configures a Table.
type Option func(*Table)

// WithRecorder stores a match record for every finished session.
func WithRecorder(r Recorder) Option {
	return func(t *Table) { t.recorder = r }
}

// WithBroker publishes session events to b.
func WithBroker(b *Broker) Option {
	return func(t *Table) { t.broker = b }
}

// WithIDGenerator overrides how match ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(t *Table) {
		if newID != nil {
			t.newID = newID
		}
	}
}

// Table owns all active sessions.
type Table struct {
	engine   *session.Engine
	recorder Recorder
	broker   *Broker
	newID    func() string
	tracer   trace.Tracer

	mu       sync.Mutex
	sessions map[string]*entry
	players  map[string]string
}

type entry struct {
	mu      sync.Mutex
	session *session.Session
	closed  bool
}

// New returns an empty table playing by engine's rules.
func New(engine *session.Engine, opts ...Option) *Table {
	t := &Table{
		engine:   engine,
		broker:   NewBroker(DefaultSubscriberBuffer),
		newID:    platformid.NewString,
		tracer:   otel.Tracer(tracerName),
		sessions: make(map[string]*entry),
		players:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Broker returns the event broker sessions publish to.
func (t *Table) Broker() *Broker {
	return t.broker
}

// CreateOrGet returns the session with id, creating a waiting one when none
// exists. created reports whether this call made it.
func (t *Table) CreateOrGet(ctx context.Context, id string) (view session.View, created bool, err error) {
	_, span := t.start(ctx, "create_or_get", id)
	defer func() { end(span, err) }()

	e, created, err := t.open(id)
	if err != nil {
		return session.View{}, false, err
	}
	defer e.mu.Unlock()
	return e.session.Snapshot(), created, nil
}

// open returns the live entry for id with its lock held, creating a waiting
// session when none exists.
func (t *Table) open(id string) (*entry, bool, error) {
	if id == "" {
		return nil, false, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"session id is required", map[string]string{"Field": "session_id"})
	}
	for {
		created := false
		t.mu.Lock()
		e, ok := t.sessions[id]
		if !ok {
			e = &entry{session: t.engine.NewSession(id)}
			t.sessions[id] = e
			created = true
		}
		t.mu.Unlock()

		e.mu.Lock()
		if e.closed {
			// Finished between lookup and lock; the next pass sees the map
			// without it.
			e.mu.Unlock()
			continue
		}
		return e, created, nil
	}
}

// Join seats playerID in the waiting session id, creating the session on
// the first join. A player sits in at most one session at a time.
func (t *Table) Join(ctx context.Context, id, playerID, name string) (ev session.PlayerJoined, err error) {
	_, span := t.start(ctx, "join", id, attribute.String("player.id", playerID))
	defer func() { end(span, err) }()

	e, created, err := t.open(id)
	if err != nil {
		return session.PlayerJoined{}, err
	}
	if created {
		span.SetAttributes(attribute.Bool("session.created", true))
	}
	err = func() error {
		defer e.mu.Unlock()
		t.mu.Lock()
		defer t.mu.Unlock()
		if other, ok := t.players[playerID]; ok && other != id {
			return apperrors.WithMetadata(apperrors.CodePlayerInAnotherSession,
				fmt.Sprintf("player %s already sits in session %s", playerID, other),
				map[string]string{"PlayerID": playerID, "SessionID": other})
		}
		joined, err := t.engine.Join(e.session, playerID, name)
		if err != nil {
			return err
		}
		t.players[playerID] = id
		ev = joined
		t.broker.Publish(id, ev)
		return nil
	}()
	if err != nil {
		return session.PlayerJoined{}, err
	}
	return ev, nil
}

// Start begins the game in session id.
func (t *Table) Start(ctx context.Context, id string) (events []session.Event, err error) {
	_, span := t.start(ctx, "start", id)
	defer func() { end(span, err) }()

	err = t.withSession(id, func(e *entry) error {
		started, err := t.engine.Start(e.session)
		if err != nil {
			return err
		}
		events = started
		t.broker.Publish(id, events...)
		return nil
	})
	return events, err
}

// Act performs action for playerID in session id. A session that finishes
// is removed from the table and its record stored before Act returns.
func (t *Table) Act(ctx context.Context, id, playerID string, action session.Action) (out session.Outcome, err error) {
	ctx, span := t.start(ctx, "act", id,
		attribute.String("player.id", playerID),
		attribute.String("action", action.String()))
	defer func() { end(span, err) }()

	var finished *session.View
	err = t.withSession(id, func(e *entry) error {
		var actErr error
		out, actErr = t.engine.Act(e.session, playerID, action)
		if actErr == nil {
			t.broker.Publish(id, out.Events...)
		}
		if out.Shot != nil && out.Shot.Eliminated {
			t.mu.Lock()
			delete(t.players, out.Shot.ShooterID)
			t.mu.Unlock()
		}
		if e.session.Status() == session.StatusFinished {
			v := t.close(e)
			finished = &v
		}
		return actErr
	})
	if finished != nil {
		span.SetAttributes(attribute.Bool("session.finished", true))
		t.record(ctx, *finished)
	}
	return out, err
}

// ActAsPlayer resolves the session playerID sits in and acts there.
func (t *Table) ActAsPlayer(ctx context.Context, playerID string, action session.Action) (string, session.Outcome, error) {
	id, err := t.Locate(playerID)
	if err != nil {
		return "", session.Outcome{}, err
	}
	out, err := t.Act(ctx, id, playerID, action)
	return id, out, err
}

// Locate returns the session playerID sits in.
func (t *Table) Locate(playerID string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.players[playerID]
	if !ok {
		return "", apperrors.WithMetadata(apperrors.CodeUnknownPlayer,
			fmt.Sprintf("player %s is not seated anywhere", playerID),
			map[string]string{"PlayerID": playerID})
	}
	return id, nil
}

// Boost marks playerID for multiplied damage on their next live round.
func (t *Table) Boost(ctx context.Context, id, playerID string) (err error) {
	_, span := t.start(ctx, "boost", id, attribute.String("player.id", playerID))
	defer func() { end(span, err) }()

	return t.withSession(id, func(e *entry) error {
		return t.engine.Boost(e.session, playerID)
	})
}

// View returns a snapshot of session id.
func (t *Table) View(ctx context.Context, id string) (view session.View, err error) {
	_, span := t.start(ctx, "view", id)
	defer func() { end(span, err) }()

	err = t.withSession(id, func(e *entry) error {
		view = e.session.Snapshot()
		return nil
	})
	return view, err
}

// List returns snapshots of every active session ordered by id.
func (t *Table) List(ctx context.Context) []session.View {
	_, span := t.start(ctx, "list", "")
	defer span.End()

	t.mu.Lock()
	entries := make([]*entry, 0, len(t.sessions))
	for _, e := range t.sessions {
		entries = append(entries, e)
	}
	t.mu.Unlock()

	views := make([]session.View, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.closed {
			views = append(views, e.session.Snapshot())
		}
		e.mu.Unlock()
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	span.SetAttributes(attribute.Int("sessions", len(views)))
	return views
}

func (t *Table) lookup(id string) (*entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.sessions[id]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeSessionNotFound,
			fmt.Sprintf("session %s not found", id),
			map[string]string{"SessionID": id})
	}
	return e, nil
}

// withSession runs fn holding the lock of session id.
func (t *Table) withSession(id string, fn func(*entry) error) error {
	e, err := t.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return apperrors.WithMetadata(apperrors.CodeSessionNotFound,
			fmt.Sprintf("session %s has ended", id),
			map[string]string{"SessionID": id})
	}
	return fn(e)
}

// close removes a finished session and unindexes its players in one step.
// The caller holds e.mu.
func (t *Table) close(e *entry) session.View {
	view := e.session.Snapshot()
	e.closed = true

	t.mu.Lock()
	delete(t.sessions, view.ID)
	for player, sid := range t.players {
		if sid == view.ID {
			delete(t.players, player)
		}
	}
	t.mu.Unlock()

	t.broker.Close(view.ID)
	return view
}

func (t *Table) record(ctx context.Context, view session.View) {
	if t.recorder == nil {
		return
	}
	rec := matchRecord(t.newID(), view)
	if err := t.recorder.RecordMatch(ctx, rec); err != nil {
		log.Printf("record match for session %s: %v", view.ID, err)
		return
	}
	log.Printf("recorded match %s for session %s (winner %q)", rec.ID, view.ID, rec.WinnerID)
}

func (t *Table) start(ctx context.Context, op, sessionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if sessionID != "" {
		attrs = append(attrs, attribute.String("session.id", sessionID))
	}
	return t.tracer.Start(ctx, "roulette.table."+op, trace.WithAttributes(attrs...))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(apperrors.GetCode(err)))
	}
	span.End()
}
