// Package sqlitestore keeps the message in an embedded SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
)

// Store implements message.Store on a single-row SQLite table.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
}

// Open opens or creates the database at path. ":memory:" keeps the table in
// process memory only.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, message.Unavailable("create database directory", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, message.Unavailable("open database", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, message.Unavailable("set pragma", err)
		}
	}

	return &Store{conn: conn, logger: logger, path: path}, nil
}

// Initialize creates the messages table and seeds the default row once.
func (s *Store) Initialize(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			content TEXT NOT NULL,
			version TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return message.Unavailable("create messages table", err)
	}

	seed := message.Default()
	result, err := s.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO messages (id, content, version, updated_at)
		VALUES (1, ?, ?, ?)
	`, seed.Content, seed.Version, seed.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return message.Unavailable("seed default message", err)
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		s.logger.InfoContext(ctx, "seeded default message", "path", s.path)
	}
	return nil
}

// GetCurrent reads the fixed-identity row.
func (s *Store) GetCurrent(ctx context.Context) (message.Message, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT content, version, updated_at FROM messages WHERE id = 1`)
	return scanMessage(row)
}

// SetCurrent upserts the row, or updates it only when the stored version
// matches expectedVersion.
func (s *Store) SetCurrent(ctx context.Context, content, expectedVersion string) (message.Message, error) {
	next := message.New(content)
	updatedAt := next.UpdatedAt.Format(time.RFC3339Nano)

	if expectedVersion == "" {
		_, err := s.conn.ExecContext(ctx, `
			INSERT INTO messages (id, content, version, updated_at)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				content = excluded.content,
				version = excluded.version,
				updated_at = excluded.updated_at
		`, next.Content, next.Version, updatedAt)
		if err != nil {
			return message.Message{}, message.Unavailable("upsert message", err)
		}
		return next, nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return message.Message{}, message.Unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE messages SET content = ?, version = ?, updated_at = ?
		WHERE id = 1 AND version = ?
	`, next.Content, next.Version, updatedAt, expectedVersion)
	if err != nil {
		return message.Message{}, message.Unavailable("update message", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return message.Message{}, message.Unavailable("update message", err)
	}
	if rows == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE id = 1`).Scan(&exists)
		if err != nil {
			return message.Message{}, message.Unavailable("check message", err)
		}
		if exists == 0 {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, message.ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return message.Message{}, message.Unavailable("commit transaction", err)
	}
	return next, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func scanMessage(row *sql.Row) (message.Message, error) {
	var (
		m         message.Message
		updatedAt string
	)
	err := row.Scan(&m.Content, &m.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return message.Message{}, message.ErrNotFound
	}
	if err != nil {
		// The table only exists once Initialize has run.
		if strings.Contains(err.Error(), "no such table") {
			return message.Message{}, fmt.Errorf("%w: %w", message.ErrNotFound, err)
		}
		return message.Message{}, message.Unavailable("read message", err)
	}

	m.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return message.Message{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return m, nil
}
