package session

import (
	"testing"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
)

func TestBoostedLiveRoundDealsMultipliedDamage(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig(), []chamber.Round{chamber.Live, chamber.Live, chamber.Live})
	s := startedSession(t, engine, "A", "B")
	if err := engine.Boost(s, "A"); err != nil {
		t.Fatalf("boost: %v", err)
	}

	shot, err := engine.resolveShot(s, "A")
	if err != nil {
		t.Fatalf("shoot: %v", err)
	}
	if shot.Damage != 2 || shot.Health != DefaultMaxHealth-2 {
		t.Fatalf("boosted shot = %+v", shot)
	}
	if s.boost != "" {
		t.Fatal("expected boost cleared after the shot")
	}

	shot, err = engine.resolveShot(s, "A")
	if err != nil {
		t.Fatalf("shoot: %v", err)
	}
	if shot.Damage != 1 {
		t.Fatalf("unboosted damage = %d, want 1", shot.Damage)
	}
}

func TestBoostClearedByAnyShot(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig(), []chamber.Round{chamber.Blank, chamber.Live, chamber.Live})
	s := startedSession(t, engine, "A", "B")
	if err := engine.Boost(s, "B"); err != nil {
		t.Fatalf("boost: %v", err)
	}
	if _, err := engine.Act(s, "A", ActionShoot); err != nil {
		t.Fatalf("shoot: %v", err)
	}
	if s.boost != "" {
		t.Fatal("expected another player's shot to clear the boost")
	}
	out, err := engine.Act(s, "B", ActionShoot)
	if err != nil {
		t.Fatalf("shoot: %v", err)
	}
	if out.Shot.Damage != 1 {
		t.Fatalf("damage = %d, want 1", out.Shot.Damage)
	}
}

func TestBlankRoundLeavesHealth(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig(), []chamber.Round{chamber.Blank, chamber.Live})
	s := startedSession(t, engine, "A", "B")
	shot, err := engine.resolveShot(s, "A")
	if err != nil {
		t.Fatalf("shoot: %v", err)
	}
	if shot.Damage != 0 || shot.Health != DefaultMaxHealth || shot.Eliminated || shot.Reloaded {
		t.Fatalf("blank shot = %+v", shot)
	}
	if s.cursor != 1 || s.shots != 1 {
		t.Fatalf("cursor = %d shots = %d", s.cursor, s.shots)
	}
}

func TestReloadDealsOneItemPerRemainingPlayer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHealth = 1
	engine := newTestEngine(t, cfg,
		[]chamber.Round{chamber.Live},
		[]chamber.Round{chamber.Blank, chamber.Blank, chamber.Live},
	)
	s := startedSession(t, engine, "A", "B", "C")

	out, err := engine.Act(s, "A", ActionShoot)
	if err != nil {
		t.Fatalf("shoot: %v", err)
	}
	if !out.Shot.Eliminated || !out.Shot.Reloaded {
		t.Fatalf("shot = %+v", out.Shot)
	}
	reload := out.Shot.Reload
	if reload.ChamberSize != 3 || reload.Live != 1 || reload.Blank != 2 {
		t.Fatalf("reload = %+v", reload)
	}
	if len(reload.Grants) != 2 {
		t.Fatalf("grants = %+v, want one per remaining player", reload.Grants)
	}
	for _, p := range s.players.Players() {
		if len(p.Items) != 1 {
			t.Fatalf("player %s items = %v", p.ID, p.Items)
		}
	}
	if s.cursor != 0 || s.reloads != 1 {
		t.Fatalf("cursor = %d reloads = %d", s.cursor, s.reloads)
	}
	kinds := []EventKind{EventShotResult, EventReload, EventTurnPrompt}
	if len(out.Events) != len(kinds) {
		t.Fatalf("events = %+v", out.Events)
	}
	for i, kind := range kinds {
		if out.Events[i].Kind() != kind {
			t.Fatalf("event %d = %s, want %s", i, out.Events[i].Kind(), kind)
		}
	}
	if prompt := out.Events[2].(TurnPrompt); prompt.PlayerID != "B" {
		t.Fatalf("next player = %s, want B", prompt.PlayerID)
	}
}

func TestReloadReportsFailedGrant(t *testing.T) {
	dealer := item.DealerFunc(func(item.Catalog) item.Kind { return "" })
	engine, err := NewEngine(DefaultConfig(), chamber.NewSequence([]chamber.Round{chamber.Blank}), dealer)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	s := startedSession(t, engine, "A", "B")

	if _, err := engine.Act(s, "A", ActionShoot); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("expected failed grant to surface, got %v", err)
	}
	for _, p := range s.players.Players() {
		if len(p.Items) != 0 {
			t.Fatalf("player %s items = %v", p.ID, p.Items)
		}
	}
}

func TestEliminationKeepsTurnOrderFair(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHealth = 1
	engine := newTestEngine(t, cfg, []chamber.Round{chamber.Blank, chamber.Live, chamber.Blank, chamber.Blank, chamber.Blank})
	s := startedSession(t, engine, "A", "B", "C")

	want := []string{"A", "B", "C", "A", "C"}
	for i, id := range want {
		if got := currentPlayer(t, s); got != id {
			t.Fatalf("turn %d = %s, want %s", i, got, id)
		}
		if _, err := engine.Act(s, id, ActionShoot); err != nil {
			t.Fatalf("shoot %d: %v", i, err)
		}
	}
	if s.HasPlayer("B") {
		t.Fatal("expected B eliminated")
	}
}

func TestDoubleEliminationEndsWithNoWinner(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig(), []chamber.Round{chamber.Live})
	s := startedSession(t, engine, "A", "B")
	for _, id := range []string{"A", "B"} {
		if _, err := s.players.ApplyDamage(id, DefaultMaxHealth-1); err != nil {
			t.Fatalf("damage %s: %v", id, err)
		}
	}
	// Remove B out of band so A's elimination leaves nobody seated.
	s.removePlayer("B")

	out, err := engine.Act(s, "A", ActionShoot)
	if err != nil {
		t.Fatalf("shoot: %v", err)
	}
	over, ok := out.Events[len(out.Events)-1].(GameOver)
	if !ok || !over.NoWinner() {
		t.Fatalf("expected no-winner game over, got %+v", out.Events)
	}
	if s.winnerID != "" {
		t.Fatalf("winner = %q", s.winnerID)
	}
}

func TestShotResultEvent(t *testing.T) {
	outcome := ShotOutcome{ShooterID: "A", ShooterName: "Ann", Round: chamber.Live, Damage: 1, Health: 0, Eliminated: true}
	result := outcome.Result()
	if !result.Live || !result.Eliminated || result.ShooterName != "Ann" || result.Recipient() != "" {
		t.Fatalf("result = %+v", result)
	}
	if (ItemMenu{PlayerID: "A", Items: []item.Kind{item.Cuffs}}).Recipient() != "A" {
		t.Fatal("item menu must be private")
	}
}
