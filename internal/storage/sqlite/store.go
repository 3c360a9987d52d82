// Package sqlite provides a SQLite-backed battle history.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/samdwyer/pokehub/internal/battle"
	"github.com/samdwyer/pokehub/internal/storage"
	"github.com/samdwyer/pokehub/internal/storage/sqlite/migrations"
	"github.com/samdwyer/pokehub/internal/storage/sqlitemigrate"
)

// DefaultListLimit caps ListBattles when no limit is given.
const DefaultListLimit = 20

// Store records finished battles in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Tally counts finished battles by outcome.
type Tally struct {
	Won  int
	Lost int
	Fled int
}

// Total returns the number of recorded battles.
func (t Tally) Total() int {
	return t.Won + t.Lost + t.Fled
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite history store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordBattle inserts one finished battle. Recording the same id twice
// returns storage.ErrAlreadyExists.
func (s *Store) RecordBattle(ctx context.Context, rec battle.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return fmt.Errorf("battle id is required")
	}
	switch rec.Outcome {
	case battle.OutcomeWon, battle.OutcomeLost, battle.OutcomeFled:
	default:
		return fmt.Errorf("unknown battle outcome %q", rec.Outcome)
	}
	endedAt := rec.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = endedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO battles (
		   id,
		   outcome,
		   message,
		   player_name,
		   opponent_name,
		   opponent_level,
		   turns,
		   started_at,
		   ended_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		string(rec.Outcome),
		rec.Message,
		rec.PlayerName,
		rec.OpponentName,
		rec.OpponentLevel,
		rec.Turns,
		toMillis(startedAt),
		toMillis(endedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("record battle: %w", err)
	}
	return nil
}

// GetBattle returns one battle by id.
func (s *Store) GetBattle(ctx context.Context, id string) (battle.Record, error) {
	if err := ctx.Err(); err != nil {
		return battle.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return battle.Record{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return battle.Record{}, fmt.Errorf("battle id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, selectBattles+` WHERE id = ?`, id)
	rec, err := scanBattle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return battle.Record{}, storage.ErrNotFound
	}
	if err != nil {
		return battle.Record{}, fmt.Errorf("get battle: %w", err)
	}
	return rec, nil
}

// ListBattles returns the most recently finished battles, newest first.
func (s *Store) ListBattles(ctx context.Context, limit int) ([]battle.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.sqlDB.QueryContext(ctx, selectBattles+` ORDER BY ended_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	records := make([]battle.Record, 0, limit)
	for rows.Next() {
		rec, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate battles: %w", err)
	}
	return records, nil
}

// Tally counts recorded battles by outcome.
func (s *Store) Tally(ctx context.Context) (Tally, error) {
	if err := ctx.Err(); err != nil {
		return Tally{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Tally{}, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM battles GROUP BY outcome`)
	if err != nil {
		return Tally{}, fmt.Errorf("tally battles: %w", err)
	}
	defer rows.Close()

	var tally Tally
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return Tally{}, fmt.Errorf("scan tally: %w", err)
		}
		switch battle.Outcome(outcome) {
		case battle.OutcomeWon:
			tally.Won = count
		case battle.OutcomeLost:
			tally.Lost = count
		case battle.OutcomeFled:
			tally.Fled = count
		}
	}
	if err := rows.Err(); err != nil {
		return Tally{}, fmt.Errorf("iterate tally: %w", err)
	}
	return tally, nil
}

const selectBattles = `SELECT id, outcome, message, player_name, opponent_name, opponent_level, turns, started_at, ended_at FROM battles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBattle(row rowScanner) (battle.Record, error) {
	var (
		rec       battle.Record
		outcome   string
		startedAt int64
		endedAt   int64
	)
	if err := row.Scan(
		&rec.ID,
		&outcome,
		&rec.Message,
		&rec.PlayerName,
		&rec.OpponentName,
		&rec.OpponentLevel,
		&rec.Turns,
		&startedAt,
		&endedAt,
	); err != nil {
		return battle.Record{}, err
	}
	rec.Outcome = battle.Outcome(outcome)
	rec.StartedAt = fromMillis(startedAt)
	rec.EndedAt = fromMillis(endedAt)
	return rec, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ battle.Recorder = (*Store)(nil)
