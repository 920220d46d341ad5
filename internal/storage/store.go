package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultBusyTimeout = 5000

const (
	keyLastUsername   = "login.username"
	keyLastAvatarSeed = "login.avatar_seed"
)

// Store wraps the SQLite handle holding local client preferences.
type Store struct {
	db *sql.DB
}

// Preference is a row in the preferences table.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// LoginDefaults is what the login screen pre-fills from the last confirmed
// login.
type LoginDefaults struct {
	Username   string
	AvatarSeed string
}

// NewStore opens the SQLite database at path. Call Close when done.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "smilechat.db"
	}
	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying DB connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func buildDSN(path string) string {
	switch {
	case strings.HasPrefix(path, "sqlite://"):
		path = path[len("sqlite://"):]
	case strings.HasPrefix(path, "file:"), strings.HasPrefix(path, ":memory:"):
		// already in a form sqlite understands
	default:
		path = "file:" + path
	}
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout=%d", path, separator, defaultBusyTimeout)
}

// Migrate runs the schema creation statements.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

// Get returns the preference for key, or nil if it was never set.
func (s *Store) Get(ctx context.Context, key string) (*Preference, error) {
	row := s.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM preferences WHERE key = ?`, key)
	var pref Preference
	if err := row.Scan(&pref.Key, &pref.Value, &pref.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

// Set inserts or replaces the preference for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO preferences(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

// LoadLoginDefaults returns the last confirmed login. Missing keys come back
// as empty strings.
func (s *Store) LoadLoginDefaults(ctx context.Context) (LoginDefaults, error) {
	var defaults LoginDefaults
	username, err := s.Get(ctx, keyLastUsername)
	if err != nil {
		return defaults, err
	}
	if username != nil {
		defaults.Username = username.Value
	}
	seed, err := s.Get(ctx, keyLastAvatarSeed)
	if err != nil {
		return defaults, err
	}
	if seed != nil {
		defaults.AvatarSeed = seed.Value
	}
	return defaults, nil
}

// SaveLoginDefaults records a confirmed login in one transaction.
func (s *Store) SaveLoginDefaults(ctx context.Context, defaults LoginDefaults) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	now := time.Now().UTC()
	for key, value := range map[string]string{
		keyLastUsername:   defaults.Username,
		keyLastAvatarSeed: defaults.AvatarSeed,
	} {
		if _, err = tx.ExecContext(ctx, `INSERT INTO preferences(key, value, updated_at) VALUES(?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
