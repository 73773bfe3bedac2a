package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/roomkit/pkg/model"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// opTimeout bounds each repository call made without a caller context.
const opTimeout = 5 * time.Second

// OpenSQLite opens (creating if needed) the database file at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// SQLite stores the session document in a key-value table.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewSQLite wraps db. Call Init before first use.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, key: StorageKey}
}

// Init creates the key-value table.
func (r *SQLite) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("persist: apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *SQLite) Close() error {
	return r.db.Close()
}

// LoadContext reads and decodes the session document. A missing document
// loads as an empty state.
func (r *SQLite) LoadContext(ctx context.Context) (model.PersistedState, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, r.key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PersistedState{SavedDesigns: []model.Design{}}, nil
		}
		return model.PersistedState{}, fmt.Errorf("persist: read %s: %w", r.key, err)
	}
	return decode([]byte(value))
}

// SaveContext encodes and upserts the session document.
func (r *SQLite) SaveContext(ctx context.Context, state model.PersistedState) error {
	data, err := encode(state)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO kv (key, value, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `, r.key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("persist: write %s: %w", r.key, err)
	}
	return nil
}

// Load implements store.Repository.
func (r *SQLite) Load() (model.PersistedState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.LoadContext(ctx)
}

// Save implements store.Repository.
func (r *SQLite) Save(state model.PersistedState) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.SaveContext(ctx, state)
}
