// Package theme persists each visitor's dark/light preference.
package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Mode is a theme preference.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"

	// Key is the preference key the mode is stored under.
	Key = "portfolio-theme"
)

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Parse returns the mode for s; anything but "light" is dark.
func Parse(s string) Mode {
	if Mode(s) == Light {
		return Light
	}
	return Dark
}

// ErrNoProvider is returned when no theme was attached to a context.
var ErrNoProvider = errors.New("no theme in context")

// Prefs is a SQLite-backed key-value store of visitor preferences.
type Prefs struct {
	db *sql.DB
}

// Open creates or opens the preference database at path.
func Open(path string) (*Prefs, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return initPrefs(db)
}

// OpenMemory opens an in-memory store, used in tests.
func OpenMemory() (*Prefs, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	return initPrefs(db)
}

func initPrefs(db *sql.DB) (*Prefs, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating preferences table: %w", err)
	}
	return &Prefs{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	visitor_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (visitor_id, key)
)`

// Close closes the database.
func (p *Prefs) Close() error {
	return p.db.Close()
}

// Get returns the visitor's mode, dark when nothing is stored.
func (p *Prefs) Get(ctx context.Context, visitor string) (Mode, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor_id = ? AND key = ?`,
		visitor, Key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return Dark, nil
	}
	if err != nil {
		return Dark, fmt.Errorf("reading theme for %s: %w", visitor, err)
	}
	return Parse(value), nil
}

// Set stores the visitor's mode.
func (p *Prefs) Set(ctx context.Context, visitor string, m Mode) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, visitor, Key, string(m), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing theme for %s: %w", visitor, err)
	}
	return nil
}

// Toggle flips and stores the visitor's mode, returning the new one.
func (p *Prefs) Toggle(ctx context.Context, visitor string) (Mode, error) {
	current, err := p.Get(ctx, visitor)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := p.Set(ctx, visitor, next); err != nil {
		return current, err
	}
	return next, nil
}

// Prune deletes preferences not touched for longer than age and returns how
// many rows were removed.
func (p *Prefs) Prune(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	res, err := p.db.ExecContext(ctx, `DELETE FROM preferences WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning preferences: %w", err)
	}
	return res.RowsAffected()
}

type ctxKey struct{}

// WithMode attaches the request's theme to ctx.
func WithMode(ctx context.Context, m Mode) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the theme attached to ctx, or ErrNoProvider.
func FromContext(ctx context.Context) (Mode, error) {
	m, ok := ctx.Value(ctxKey{}).(Mode)
	if !ok {
		return "", ErrNoProvider
	}
	return m, nil
}
