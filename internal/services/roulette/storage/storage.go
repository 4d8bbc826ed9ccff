package storage

import (
	"context"
	"time"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
)

// ErrNotFound indicates a requested match record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeMatchNotFound, "match not found")

// MatchPlayer is one participant's final standing.
type MatchPlayer struct {
	ID     string
	Name   string
	Health int
	// Place is 1 for the winner; eliminated players follow in reverse
	// elimination order.
	Place int
}

// MatchRecord summarizes a finished game.
type MatchRecord struct {
	ID         string
	SessionID  string
	WinnerID   string
	WinnerName string
	Players    []MatchPlayer
	Shots      int
	Reloads    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// ListMatchesRequest selects a page of matches, newest first.
type ListMatchesRequest struct {
	// PageSize is the maximum number of matches to return.
	PageSize int
	// BeforeSeq returns only matches recorded before this sequence (0 for the
	// first page).
	BeforeSeq uint64
	// FilterClause is an optional SQL WHERE fragment over the matches table.
	FilterClause string
	// FilterParams are the positional parameters for FilterClause.
	FilterParams []any
}

// ListMatchesResult is one page of matches.
type ListMatchesResult struct {
	Matches []MatchRecord
	// LastSeq is the sequence of the final match in the page.
	LastSeq uint64
	// HasMore reports whether older matches remain.
	HasMore bool
}

// MatchStore persists finished matches.
type MatchStore interface {
	RecordMatch(ctx context.Context, record MatchRecord) error
	GetMatch(ctx context.Context, id string) (MatchRecord, error)
	ListMatches(ctx context.Context, req ListMatchesRequest) (ListMatchesResult, error)
}
