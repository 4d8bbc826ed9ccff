// Package sqlitemigrate applies embedded SQL migrations to SQLite databases.
//
// Migration files are named so that lexical order is apply order. Only the
// section after "-- +migrate Up" runs; a "-- +migrate Down" section is kept
// for operators and ignored here. Each applied file is recorded with a
// checksum so an edited migration is reported instead of silently skipped.
package sqlitemigrate

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// Record is one applied migration.
type Record struct {
	Name      string
	Checksum  string
	AppliedAt time.Time
}

// ApplyMigrations runs every .sql file under root that has not been applied
// yet, each in its own transaction.
func ApplyMigrations(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, root string) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    checksum TEXT NOT NULL DEFAULT '',
    applied_at INTEGER NOT NULL
);`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		key := file
		if root != "." {
			key = path.Join(root, file)
		}
		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if err := apply(ctx, sqlDB, key, ExtractUpMigration(string(content))); err != nil {
			return err
		}
	}
	return nil
}

func apply(ctx context.Context, sqlDB *sql.DB, key, upSQL string) error {
	sum := Checksum(upSQL)
	var recorded string
	err := sqlDB.QueryRowContext(ctx, "SELECT checksum FROM "+migrationTable+" WHERE name = ?", key).Scan(&recorded)
	switch {
	case err == nil:
		if recorded != "" && recorded != sum {
			return fmt.Errorf("migration %s changed after it was applied", key)
		}
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check migration %s: %w", key, err)
	}
	if strings.TrimSpace(upSQL) == "" {
		return nil
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec migration %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+migrationTable+" (name, checksum, applied_at) VALUES (?, ?, ?)",
		key, sum, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", key, err)
	}
	return nil
}

// Applied lists recorded migrations in apply order.
func Applied(ctx context.Context, sqlDB *sql.DB) ([]Record, error) {
	rows, err := sqlDB.QueryContext(ctx, "SELECT name, checksum, applied_at FROM "+migrationTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var appliedAt int64
		if err := rows.Scan(&rec.Name, &rec.Checksum, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		rec.AppliedAt = time.UnixMilli(appliedAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ExtractUpMigration returns the Up section of a migration file, or the whole
// file when it carries no markers.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(body, downMarker); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}

// Checksum is the hex SHA-256 of the whitespace-trimmed SQL.
func Checksum(upSQL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(upSQL)))
	return hex.EncodeToString(sum[:])
}

// IsAlreadyExistsError reports whether err comes from idempotent DDL.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}
