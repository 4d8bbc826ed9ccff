package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/core/filter"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func match(i int, winner string, players ...string) storage.MatchRecord {
	rec := storage.MatchRecord{
		ID:         fmt.Sprintf("match-%02d", i),
		SessionID:  fmt.Sprintf("chat-%d", i%3),
		WinnerID:   winner,
		WinnerName: "name-" + winner,
		Shots:      i,
		Reloads:    i % 2,
		StartedAt:  baseTime.Add(time.Duration(i) * time.Hour),
		FinishedAt: baseTime.Add(time.Duration(i)*time.Hour + 10*time.Minute),
	}
	for place, id := range players {
		rec.Players = append(rec.Players, storage.MatchPlayer{ID: id, Name: "name-" + id, Health: 2 - place, Place: place + 1})
	}
	return rec
}

func TestRecordAndGetMatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	want := match(1, "u1", "u1", "u2", "u3")
	if err := store.RecordMatch(ctx, want); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := store.GetMatch(ctx, want.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != want.ID || got.WinnerID != "u1" || got.Shots != 1 || !got.FinishedAt.Equal(want.FinishedAt) {
		t.Fatalf("match = %+v", got)
	}
	if len(got.Players) != 3 || got.Players[0].ID != "u1" || got.Players[2].Place != 3 {
		t.Fatalf("players = %+v", got.Players)
	}
}

func TestRecordMatchRejectsDuplicatesAndMissingID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.RecordMatch(ctx, storage.MatchRecord{}); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	rec := match(1, "u1", "u1", "u2")
	if err := store.RecordMatch(ctx, rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordMatch(ctx, rec); err == nil {
		t.Fatal("expected duplicate id to fail")
	}
}

func TestGetMatchNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetMatch(context.Background(), "missing")
	if !apperrors.IsCode(err, apperrors.CodeMatchNotFound) {
		t.Fatalf("expected match not found, got %v", err)
	}
}

func TestListMatchesPagesNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if err := store.RecordMatch(ctx, match(i, "u1", "u1", "u2")); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	first, err := store.ListMatches(ctx, storage.ListMatchesRequest{PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Matches) != 2 || !first.HasMore || first.Matches[0].ID != "match-05" || first.Matches[1].ID != "match-04" {
		t.Fatalf("first page = %+v", first)
	}
	if len(first.Matches[0].Players) != 2 {
		t.Fatalf("expected players loaded, got %+v", first.Matches[0].Players)
	}

	var ids []string
	page := first
	for {
		for _, m := range page.Matches {
			ids = append(ids, m.ID)
		}
		if !page.HasMore {
			break
		}
		page, err = store.ListMatches(ctx, storage.ListMatchesRequest{PageSize: 2, BeforeSeq: page.LastSeq})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
	}
	want := []string{"match-05", "match-04", "match-03", "match-02", "match-01"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestListMatchesWithFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	records := []storage.MatchRecord{
		match(1, "u1", "u1", "u2"),
		match(2, "u2", "u2", "u1", "u3"),
		match(3, "u3", "u3", "u4"),
		match(4, "", "u5", "u6"),
	}
	for _, rec := range records {
		if err := store.RecordMatch(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: `winner_id = "u1"`, want: []string{"match-01"}},
		{filter: "player_count >= 3", want: []string{"match-02"}},
		{filter: `player_id = "u1"`, want: []string{"match-02", "match-01"}},
		{filter: `winner_id = ""`, want: []string{"match-04"}},
		{filter: `finished_at > timestamp("2026-03-01T14:30:00Z")`, want: []string{"match-04", "match-03"}},
		{filter: `shots < 3 AND NOT winner_id = "u2"`, want: []string{"match-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			cond, err := filter.ParseMatchFilter(tt.filter)
			if err != nil {
				t.Fatalf("parse filter: %v", err)
			}
			got, err := store.ListMatches(ctx, storage.ListMatchesRequest{
				FilterClause: cond.Clause,
				FilterParams: cond.Params,
			})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var ids []string
			for _, m := range got.Matches {
				ids = append(ids, m.ID)
			}
			if fmt.Sprint(ids) != fmt.Sprint(tt.want) {
				t.Fatalf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")
	ctx := context.Background()
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.RecordMatch(ctx, match(1, "u1", "u1", "u2")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetMatch(ctx, "match-01"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
	var nilStore *Store
	if err := nilStore.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
