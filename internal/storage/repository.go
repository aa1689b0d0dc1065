// Package storage is the SQLite ledger store. It owns the persisted seasons,
// teams, budgets, expenses and revenues, and implements the read surface the
// reporting service aggregates over.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"clubledger/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

// notFound maps the driver's empty-result error onto the domain sentinel.
func notFound(entity, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, core.ErrNotFound)
	}
	return fmt.Errorf("get %s %s: %w", entity, id, err)
}

// nullable turns an empty string into SQL NULL so optional references stay
// NULL in the schema instead of empty text.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// requireRow turns a zero-row update/delete into a not-found error.
func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, core.ErrNotFound)
	}
	return nil
}

// seasonRef ensures the season exists before attaching child rows to it.
func (r *SQLiteRepository) seasonRef(ctx context.Context, seasonID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM seasons WHERE id = ?`, seasonID).Scan(&one)
	if err != nil {
		return notFound("season", seasonID, err)
	}
	return nil
}

// teamRef ensures the team exists and belongs to the given season. A team
// filed under the wrong season would poison every roll-up downstream.
func (r *SQLiteRepository) teamRef(ctx context.Context, seasonID, teamID string) error {
	var gotSeason string
	err := r.db.QueryRowContext(ctx, `SELECT season_id FROM teams WHERE id = ?`, teamID).Scan(&gotSeason)
	if err != nil {
		return notFound("team", teamID, err)
	}
	if gotSeason != seasonID {
		return fmt.Errorf("team %s belongs to season %s, not %s: %w", teamID, gotSeason, seasonID, core.ErrInvalidScope)
	}
	return nil
}
