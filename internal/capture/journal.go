package capture

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
)

// Entry is one captured note.
type Entry struct {
	ID        string
	Content   string
	CreatedAt time.Time
	Delivered bool
	Attempts  int
	LastError string
}

// ErrNotFound is returned when an entry id is unknown.
var ErrNotFound = errors.New("capture entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS captures (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	delivered  INTEGER NOT NULL DEFAULT 0,
	attempts   INTEGER NOT NULL DEFAULT 0,
	last_error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS captures_pending ON captures (delivered, created_at);
`

// Journal stores every capture locally in SQLite, so nothing typed into the
// capture window is lost when the server is unreachable.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// OpenJournal opens (creating if needed) the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal '%s': %w", path, err)
	}
	// One connection: keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise journal schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append stores content as a new pending entry.
func (j *Journal) Append(ctx context.Context, content string) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: j.now().UTC(),
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO captures (id, content, created_at) VALUES (?, ?, ?)`,
		e.ID, e.Content, e.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to store capture: %w", err)
	}
	return e, nil
}

// MarkDelivered flags id as accepted by the server.
func (j *Journal) MarkDelivered(ctx context.Context, id string) error {
	return j.update(ctx, id,
		`UPDATE captures SET delivered = 1, attempts = attempts + 1, last_error = '' WHERE id = ?`, id)
}

// MarkFailed records a failed delivery attempt for id.
func (j *Journal) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return j.update(ctx, id,
		`UPDATE captures SET attempts = attempts + 1, last_error = ? WHERE id = ?`, msg, id)
}

func (j *Journal) update(ctx context.Context, id, query string, args ...any) error {
	res, err := j.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update capture %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Get returns the entry with the given id.
func (j *Journal) Get(ctx context.Context, id string) (Entry, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, content, created_at, delivered, attempts, last_error FROM captures WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Pending returns undelivered entries, oldest first. limit <= 0 means all.
func (j *Journal) Pending(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, content, created_at, delivered, attempts, last_error
		 FROM captures WHERE delivered = 0 ORDER BY created_at, rowid LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending captures: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e         Entry
		createdAt int64
		delivered int
	)
	if err := s.Scan(&e.ID, &e.Content, &createdAt, &delivered, &e.Attempts, &e.LastError); err != nil {
		return Entry{}, err
	}
	e.CreatedAt = time.UnixMilli(createdAt).UTC()
	e.Delivered = delivered != 0
	return e, nil
}
