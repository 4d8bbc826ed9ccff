package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []storage.MatchRecord
	err     error
}

func (f *fakeRecorder) RecordMatch(_ context.Context, rec storage.MatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecorder) all() []storage.MatchRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.MatchRecord(nil), f.records...)
}

func newTestTable(t *testing.T, maxHealth int, rounds []chamber.Round, opts ...Option) *Table {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.MaxHealth = maxHealth
	engine, err := session.NewEngine(cfg, chamber.NewSequence(rounds), item.DealerFunc(func(item.Catalog) item.Kind { return item.Cuffs }))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return New(engine, opts...)
}

func seat(t *testing.T, tbl *Table, id string, players ...string) {
	t.Helper()
	ctx := context.Background()
	if _, _, err := tbl.CreateOrGet(ctx, id); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, p := range players {
		if _, err := tbl.Join(ctx, id, p, "name-"+p); err != nil {
			t.Fatalf("join %s: %v", p, err)
		}
	}
}

func TestCreateOrGet(t *testing.T) {
	tbl := newTestTable(t, 5, []chamber.Round{chamber.Live})
	ctx := context.Background()

	view, created, err := tbl.CreateOrGet(ctx, "chat-1")
	if err != nil || !created || view.Status != session.StatusWaiting {
		t.Fatalf("first create = %+v, %v, %v", view, created, err)
	}
	_, created, err = tbl.CreateOrGet(ctx, "chat-1")
	if err != nil || created {
		t.Fatalf("second create = %v, %v", created, err)
	}
	if _, _, err := tbl.CreateOrGet(ctx, ""); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	tbl := newTestTable(t, 5, []chamber.Round{chamber.Live})
	ctx := context.Background()
	if _, err := tbl.View(ctx, "missing"); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("view: %v", err)
	}
	if _, err := tbl.Start(ctx, "missing"); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("start: %v", err)
	}
	if _, err := tbl.Act(ctx, "missing", "A", session.ActionShoot); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("act: %v", err)
	}
}

func TestJoinCreatesSession(t *testing.T) {
	tbl := newTestTable(t, 5, []chamber.Round{chamber.Live})
	ctx := context.Background()

	ev, err := tbl.Join(ctx, "fresh-chat", "A", "Ann")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if ev.PlayerID != "A" || ev.PlayerName != "Ann" {
		t.Fatalf("event = %+v", ev)
	}
	view, err := tbl.View(ctx, "fresh-chat")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Status != session.StatusWaiting || len(view.Players) != 1 {
		t.Fatalf("view = %+v", view)
	}
	if _, created, err := tbl.CreateOrGet(ctx, "fresh-chat"); err != nil || created {
		t.Fatalf("create after join = %v, %v", created, err)
	}
	if _, err := tbl.Join(ctx, "", "B", "Bo"); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestEliminatedPlayerLeavesIndex(t *testing.T) {
	tbl := newTestTable(t, 1, []chamber.Round{chamber.Live, chamber.Blank, chamber.Blank})
	seat(t, tbl, "chat-1", "A", "B", "C")
	ctx := context.Background()
	if _, err := tbl.Start(ctx, "chat-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	out, err := tbl.Act(ctx, "chat-1", "A", session.ActionShoot)
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if out.Finished || out.Shot == nil || !out.Shot.Eliminated {
		t.Fatalf("outcome = %+v", out)
	}
	if _, err := tbl.Locate("A"); !apperrors.IsCode(err, apperrors.CodeUnknownPlayer) {
		t.Fatalf("expected A unindexed, got %v", err)
	}
	if id, err := tbl.Locate("B"); err != nil || id != "chat-1" {
		t.Fatalf("locate B = %q, %v", id, err)
	}
	if _, err := tbl.Join(ctx, "other", "A", "Ann"); err != nil {
		t.Fatalf("join elsewhere: %v", err)
	}
	if id, err := tbl.Locate("A"); err != nil || id != "other" {
		t.Fatalf("locate A = %q, %v", id, err)
	}
}

func TestPlayerSitsInOneSession(t *testing.T) {
	tbl := newTestTable(t, 5, []chamber.Round{chamber.Live})
	seat(t, tbl, "chat-1", "A")
	seat(t, tbl, "chat-2")

	_, err := tbl.Join(context.Background(), "chat-2", "A", "Ann")
	if !apperrors.IsCode(err, apperrors.CodePlayerInAnotherSession) {
		t.Fatalf("expected player in another session, got %v", err)
	}
	if _, err := tbl.Join(context.Background(), "chat-1", "A", "Ann"); !apperrors.IsCode(err, apperrors.CodeAlreadyJoined) {
		t.Fatalf("expected already joined, got %v", err)
	}
	id, err := tbl.Locate("A")
	if err != nil || id != "chat-1" {
		t.Fatalf("locate = %q, %v", id, err)
	}
	if _, err := tbl.Locate("Z"); !apperrors.IsCode(err, apperrors.CodeUnknownPlayer) {
		t.Fatalf("expected unknown player, got %v", err)
	}
}

func TestFinishedSessionIsRemovedAndRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	tbl := newTestTable(t, 1, []chamber.Round{chamber.Live, chamber.Blank},
		WithRecorder(rec), WithIDGenerator(func() string { return "match-1" }))
	seat(t, tbl, "chat-1", "A", "B")
	ctx := context.Background()
	if _, err := tbl.Start(ctx, "chat-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	sid, out, err := tbl.ActAsPlayer(ctx, "A", session.ActionShoot)
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if sid != "chat-1" || !out.Finished {
		t.Fatalf("outcome = %q %+v", sid, out)
	}
	if _, err := tbl.View(ctx, "chat-1"); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("expected session removed, got %v", err)
	}
	for _, p := range []string{"A", "B"} {
		if _, err := tbl.Locate(p); err == nil {
			t.Fatalf("expected %s unindexed", p)
		}
	}

	records := rec.all()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	got := records[0]
	if got.ID != "match-1" || got.SessionID != "chat-1" || got.WinnerID != "B" || got.Shots != 1 {
		t.Fatalf("record = %+v", got)
	}
	if len(got.Players) != 2 || got.Players[0].ID != "B" || got.Players[0].Place != 1 ||
		got.Players[1].ID != "A" || got.Players[1].Place != 2 {
		t.Fatalf("standings = %+v", got.Players)
	}

	// The players may now sit down elsewhere.
	seat(t, tbl, "chat-2", "A")
}

func TestRecorderFailureDoesNotFailAction(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	tbl := newTestTable(t, 1, []chamber.Round{chamber.Live}, WithRecorder(rec))
	seat(t, tbl, "chat-1", "A", "B")
	ctx := context.Background()
	if _, err := tbl.Start(ctx, "chat-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := tbl.Act(ctx, "chat-1", "A", session.ActionShoot); err != nil {
		t.Fatalf("act: %v", err)
	}
}

func TestEmptyChamberRemovesSession(t *testing.T) {
	rec := &fakeRecorder{}
	tbl := newTestTable(t, 5, []chamber.Round{}, WithRecorder(rec))
	seat(t, tbl, "chat-1", "A", "B")
	ctx := context.Background()
	if _, err := tbl.Start(ctx, "chat-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := tbl.Act(ctx, "chat-1", "A", session.ActionShoot)
	if !apperrors.IsCode(err, apperrors.CodeEmptyChamber) {
		t.Fatalf("expected empty chamber, got %v", err)
	}
	if len(tbl.List(ctx)) != 0 {
		t.Fatal("expected aborted session removed")
	}
	if len(rec.all()) != 1 {
		t.Fatal("expected aborted match recorded")
	}
}

func TestBoostAndList(t *testing.T) {
	tbl := newTestTable(t, 5, []chamber.Round{chamber.Live, chamber.Blank})
	seat(t, tbl, "b", "B1", "B2")
	seat(t, tbl, "a", "A1", "A2")
	ctx := context.Background()
	if err := tbl.Boost(ctx, "a", "A1"); !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected invalid state before start, got %v", err)
	}
	if _, err := tbl.Start(ctx, "a"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tbl.Boost(ctx, "a", "A1"); err != nil {
		t.Fatalf("boost: %v", err)
	}
	out, err := tbl.Act(ctx, "a", "A1", session.ActionShoot)
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if out.Shot.Damage != 2 {
		t.Fatalf("damage = %d, want 2", out.Shot.Damage)
	}

	views := tbl.List(ctx)
	if len(views) != 2 || views[0].ID != "a" || views[1].ID != "b" {
		t.Fatalf("list = %+v", views)
	}
}

func TestConcurrentSessions(t *testing.T) {
	rec := &fakeRecorder{}
	tbl := newTestTable(t, 2, []chamber.Round{chamber.Live, chamber.Blank}, WithRecorder(rec))
	ctx := context.Background()

	const sessions = 16
	var wg sync.WaitGroup
	errs := make(chan error, sessions)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("chat-%d", i)
			a, b := fmt.Sprintf("a-%d", i), fmt.Sprintf("b-%d", i)
			if _, _, err := tbl.CreateOrGet(ctx, id); err != nil {
				errs <- err
				return
			}
			for _, p := range []string{a, b} {
				if _, err := tbl.Join(ctx, id, p, p); err != nil {
					errs <- err
					return
				}
			}
			if _, err := tbl.Start(ctx, id); err != nil {
				errs <- err
				return
			}
			for {
				view, err := tbl.View(ctx, id)
				if apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
					return
				}
				if err != nil {
					errs <- err
					return
				}
				if _, err := tbl.Act(ctx, id, view.CurrentPlayerID, session.ActionShoot); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("session error: %v", err)
	}
	if got := len(rec.all()); got != sessions {
		t.Fatalf("records = %d, want %d", got, sessions)
	}
}

func TestConcurrentActionsSerializeWithinSession(t *testing.T) {
	tbl := newTestTable(t, 5, []chamber.Round{chamber.Blank})
	seat(t, tbl, "chat-1", "A", "B")
	ctx := context.Background()
	if _, err := tbl.Start(ctx, "chat-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tbl.Act(ctx, "chat-1", "A", session.ActionShoot); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	// A holds the turn exactly once; every other attempt sees B's turn.
	if accepted != 1 {
		t.Fatalf("accepted = %d, want 1", accepted)
	}
	view, err := tbl.View(ctx, "chat-1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Shots != 1 || view.CurrentPlayerID != "B" {
		t.Fatalf("view = %+v", view)
	}
}
