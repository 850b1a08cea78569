package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"mealcheck/internal/logging"
)

// NamespaceKey is the kv key the session blob lives under.
const NamespaceKey = "g4_mealplanner_v1"

// LastExportKey holds the most recent export text.
const LastExportKey = "last_export"

// Store persists session state in SQLite.
type Store struct {
	DBPath string
	db     *sql.DB
}

// Open opens or creates the state database.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve state db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	store := &Store{
		DBPath: absPath,
		db:     db,
	}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS session_kv (
	key TEXT PRIMARY KEY,
	value TEXT,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	if err != nil {
		return fmt.Errorf("create state schema: %w", err)
	}
	return nil
}

// GetKV returns the value for key, or "" when it is absent.
func (s *Store) GetKV(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT value FROM session_kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get kv: %w", err)
	}
	return value.String, nil
}

// SetKV stores value under key.
func (s *Store) SetKV(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO session_kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, key, value)
	if err != nil {
		return fmt.Errorf("set kv: %w", err)
	}
	return nil
}

// DeleteKV removes key.
func (s *Store) DeleteKV(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session_kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete kv: %w", err)
	}
	return nil
}

// Load returns the saved state. A missing or unreadable blob yields an
// empty state.
func (s *Store) Load(ctx context.Context) (State, error) {
	raw, err := s.GetKV(ctx, NamespaceKey)
	if err != nil {
		return State{}, err
	}
	if raw == "" {
		return NewState(), nil
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logging.Warn().Err(err).Str("db", s.DBPath).Msg("discarding unreadable session state")
		return NewState(), nil
	}
	return st.normalize(), nil
}

// Save writes the whole state as one blob.
func (s *Store) Save(ctx context.Context, st State) error {
	data, err := json.Marshal(st.normalize())
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return s.SetKV(ctx, NamespaceKey, string(data))
}

// Clear removes the saved state and the last export.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.DeleteKV(ctx, NamespaceKey); err != nil {
		return err
	}
	return s.DeleteKV(ctx, LastExportKey)
}
