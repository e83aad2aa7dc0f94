package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"database/sql"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/aura/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path. The
// busy timeout makes concurrent writers (dispatcher goroutines, reminder
// timers) queue instead of failing with SQLITE_BUSY.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewID returns a fresh ULID for keying reminder records. Safe for concurrent
// use.
func (s *SQLiteStore) NewID() string {
	return ulid.Make().String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reminders (
		id         TEXT PRIMARY KEY,
		message    TEXT NOT NULL,
		target_at  TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reminders_message ON reminders(message);

	CREATE TABLE IF NOT EXISTS chat_log (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) AddReminder(ctx context.Context, r model.Reminder) error {
	if r.ID == "" {
		return fmt.Errorf("reminder id is required")
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, message, target_at, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.Message, r.At.UTC().Format(time.RFC3339), createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveReminders(ctx context.Context, message string) ([]model.Reminder, error) {
	removed, err := s.queryReminders(ctx,
		`SELECT id, message, target_at, created_at FROM reminders WHERE message = ? ORDER BY rowid`,
		message)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE message = ?`, message); err != nil {
		return nil, fmt.Errorf("delete reminders: %w", err)
	}
	return removed, nil
}

func (s *SQLiteStore) RemoveReminderByID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) ListReminders(ctx context.Context) ([]model.Reminder, error) {
	return s.queryReminders(ctx,
		`SELECT id, message, target_at, created_at FROM reminders ORDER BY rowid`)
}

func (s *SQLiteStore) queryReminders(ctx context.Context, query string, args ...interface{}) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var targetAt, createdAt string
		if err := rows.Scan(&r.ID, &r.Message, &targetAt, &createdAt); err != nil {
			return nil, err
		}
		r.At, _ = time.Parse(time.RFC3339, targetAt)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, t model.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_log (role, content, created_at) VALUES (?, ?, ?)`,
		t.Role, t.Content, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentTurns(ctx context.Context, limit int) ([]model.Turn, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM (
			SELECT seq, role, content FROM chat_log ORDER BY seq DESC LIMIT ?
		) ORDER BY seq`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTurns(rows)
}

func (s *SQLiteStore) Turns(ctx context.Context) ([]model.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, content FROM chat_log ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTurns(rows)
}

func scanTurns(rows *sql.Rows) ([]model.Turn, error) {
	var turns []model.Turn
	for rows.Next() {
		var t model.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
