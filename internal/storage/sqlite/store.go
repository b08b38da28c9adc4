// Package sqlite provides a SQLite-backed roll journal.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/loadeddie/internal/core/die"
	"github.com/louisbranch/loadeddie/internal/platform/timeouts"
	sqlitemigrate "github.com/louisbranch/loadeddie/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/loadeddie/internal/storage"
	"github.com/louisbranch/loadeddie/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists journaled rolls in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite roll journal and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cleanPath,
		timeouts.JournalBusy.Milliseconds(),
	)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
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

// AppendRoll inserts one roll record.
func (s *Store) AppendRoll(ctx context.Context, record storage.RollRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	rolledAt := record.RolledAt
	if rolledAt.IsZero() {
		rolledAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rolls (session_id, seq, face, cheating, rolled_at)
		 VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(record.SessionID),
		record.Seq,
		record.Face,
		boolToInt(record.Cheating),
		toMillis(rolledAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append roll: %w", err)
	}
	return nil
}

// ListRolls returns the rolls of one session ordered by sequence.
func (s *Store) ListRolls(ctx context.Context, sessionID string, limit int) ([]storage.RollRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT session_id, seq, face, cheating, rolled_at
		 FROM rolls
		 WHERE session_id = ?
		 ORDER BY seq
		 LIMIT ?`,
		sessionID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	var records []storage.RollRecord
	for rows.Next() {
		var (
			record   storage.RollRecord
			cheating int
			rolledAt int64
		)
		if err := rows.Scan(&record.SessionID, &record.Seq, &record.Face, &cheating, &rolledAt); err != nil {
			return nil, fmt.Errorf("scan roll: %w", err)
		}
		record.Cheating = cheating != 0
		record.RolledAt = fromMillis(rolledAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rolls: %w", err)
	}
	return records, nil
}

// FaceCounts tallies journaled faces for sessionID, or across all sessions
// when sessionID is empty.
func (s *Store) FaceCounts(ctx context.Context, sessionID string) (die.Tally, error) {
	var tally die.Tally
	if err := ctx.Err(); err != nil {
		return tally, err
	}
	if s == nil || s.sqlDB == nil {
		return tally, fmt.Errorf("storage is not configured")
	}

	query := `SELECT face, COUNT(*) FROM rolls GROUP BY face`
	args := []any{}
	if sessionID = strings.TrimSpace(sessionID); sessionID != "" {
		query = `SELECT face, COUNT(*) FROM rolls WHERE session_id = ? GROUP BY face`
		args = append(args, sessionID)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return tally, fmt.Errorf("count faces: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var face, count int
		if err := rows.Scan(&face, &count); err != nil {
			return die.Tally{}, fmt.Errorf("scan face count: %w", err)
		}
		if face >= 1 && face <= die.Sides {
			tally[face-1] = count
		}
	}
	if err := rows.Err(); err != nil {
		return die.Tally{}, fmt.Errorf("iterate face counts: %w", err)
	}
	return tally, nil
}

// ModeFaceCounts tallies journaled faces separately for fair and loaded
// rolls, for sessionID or across all sessions when sessionID is empty.
func (s *Store) ModeFaceCounts(ctx context.Context, sessionID string) (fair, loaded die.Tally, err error) {
	if err := ctx.Err(); err != nil {
		return fair, loaded, err
	}
	if s == nil || s.sqlDB == nil {
		return fair, loaded, fmt.Errorf("storage is not configured")
	}

	query := `SELECT cheating, face, COUNT(*) FROM rolls GROUP BY cheating, face`
	args := []any{}
	if sessionID = strings.TrimSpace(sessionID); sessionID != "" {
		query = `SELECT cheating, face, COUNT(*) FROM rolls WHERE session_id = ? GROUP BY cheating, face`
		args = append(args, sessionID)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return fair, loaded, fmt.Errorf("count faces by mode: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cheating, face, count int
		if err := rows.Scan(&cheating, &face, &count); err != nil {
			return die.Tally{}, die.Tally{}, fmt.Errorf("scan face count: %w", err)
		}
		if face < 1 || face > die.Sides {
			continue
		}
		if cheating != 0 {
			loaded[face-1] = count
		} else {
			fair[face-1] = count
		}
	}
	if err := rows.Err(); err != nil {
		return die.Tally{}, die.Tally{}, fmt.Errorf("iterate face counts: %w", err)
	}
	return fair, loaded, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
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

var _ storage.RollStore = (*Store)(nil)
