package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/storage/sqlitemigrate"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage/sqlite/migrations"
)

const (
	// DefaultPageSize applies when a listing asks for zero matches.
	DefaultPageSize = 20
	// MaxPageSize caps a single listing.
	MaxPageSize = 100
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is the SQLite match history.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.MatchStore = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the
// embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the database. It is nil-safe.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordMatch inserts a match and its standings in one transaction.
func (s *Store) RecordMatch(ctx context.Context, rec storage.MatchRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"match id is required", map[string]string{"Field": "id"})
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record match: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO matches (id, session_id, winner_id, winner_name, player_count, shots, reloads, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.WinnerID, rec.WinnerName, len(rec.Players),
		rec.Shots, rec.Reloads, toMillis(rec.StartedAt), toMillis(rec.FinishedAt),
	); err != nil {
		return fmt.Errorf("insert match %s: %w", rec.ID, err)
	}
	for _, p := range rec.Players {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO match_players (match_id, player_id, name, health, place) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, p.ID, p.Name, p.Health, p.Place,
		); err != nil {
			return fmt.Errorf("insert match %s player %s: %w", rec.ID, p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match %s: %w", rec.ID, err)
	}
	return nil
}

const matchColumns = "seq, id, session_id, winner_id, winner_name, shots, reloads, started_at, finished_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (uint64, storage.MatchRecord, error) {
	var (
		seq                 uint64
		rec                 storage.MatchRecord
		startedAt, finished int64
	)
	if err := row.Scan(&seq, &rec.ID, &rec.SessionID, &rec.WinnerID, &rec.WinnerName,
		&rec.Shots, &rec.Reloads, &startedAt, &finished); err != nil {
		return 0, storage.MatchRecord{}, err
	}
	rec.StartedAt = fromMillis(startedAt)
	rec.FinishedAt = fromMillis(finished)
	return seq, rec, nil
}

// GetMatch fetches one match by id.
func (s *Store) GetMatch(ctx context.Context, id string) (storage.MatchRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+matchColumns+" FROM matches WHERE id = ?", id)
	_, rec, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.MatchRecord{}, apperrors.WithMetadata(apperrors.CodeMatchNotFound,
			fmt.Sprintf("match %s not found", id), map[string]string{"MatchID": id})
	}
	if err != nil {
		return storage.MatchRecord{}, fmt.Errorf("get match %s: %w", id, err)
	}
	matches := []storage.MatchRecord{rec}
	if err := s.loadPlayers(ctx, matches); err != nil {
		return storage.MatchRecord{}, err
	}
	return matches[0], nil
}

// ListMatches returns matches newest first.
func (s *Store) ListMatches(ctx context.Context, req storage.ListMatchesRequest) (storage.ListMatchesResult, error) {
	size := req.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	var (
		where  []string
		params []any
	)
	if req.BeforeSeq > 0 {
		where = append(where, "seq < ?")
		params = append(params, req.BeforeSeq)
	}
	if req.FilterClause != "" {
		where = append(where, "("+req.FilterClause+")")
		params = append(params, req.FilterParams...)
	}
	query := "SELECT " + matchColumns + " FROM matches"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC LIMIT ?"
	params = append(params, size+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.ListMatchesResult{}, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var (
		result storage.ListMatchesResult
		seqs   []uint64
	)
	for rows.Next() {
		seq, rec, err := scanMatch(rows)
		if err != nil {
			return storage.ListMatchesResult{}, fmt.Errorf("scan match: %w", err)
		}
		seqs = append(seqs, seq)
		result.Matches = append(result.Matches, rec)
	}
	if err := rows.Err(); err != nil {
		return storage.ListMatchesResult{}, fmt.Errorf("list matches: %w", err)
	}
	rows.Close()

	if len(result.Matches) > size {
		result.Matches = result.Matches[:size]
		result.HasMore = true
	}
	if n := len(result.Matches); n > 0 {
		result.LastSeq = seqs[n-1]
	}
	if err := s.loadPlayers(ctx, result.Matches); err != nil {
		return storage.ListMatchesResult{}, err
	}
	return result, nil
}

// loadPlayers fills the standings of matches in place.
func (s *Store) loadPlayers(ctx context.Context, matches []storage.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}
	index := make(map[string]int, len(matches))
	placeholders := make([]string, len(matches))
	args := make([]any, len(matches))
	for i, m := range matches {
		index[m.ID] = i
		placeholders[i] = "?"
		args[i] = m.ID
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT match_id, player_id, name, health, place FROM match_players WHERE match_id IN ("+
			strings.Join(placeholders, ", ")+") ORDER BY match_id, place, player_id",
		args...)
	if err != nil {
		return fmt.Errorf("load match players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var matchID string
		var p storage.MatchPlayer
		if err := rows.Scan(&matchID, &p.ID, &p.Name, &p.Health, &p.Place); err != nil {
			return fmt.Errorf("scan match player: %w", err)
		}
		i := index[matchID]
		matches[i].Players = append(matches[i].Players, p)
	}
	return rows.Err()
}
