package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// schemaVersion is written alongside each blob for forward compatibility.
// Readers never require it.
const schemaVersion = 1

// SQLiteKV is a KV backed by a single-file SQLite database. All access goes
// through one mutex: the data layer is single-writer by contract, and the
// lock makes each read-modify-write cycle an explicit critical section if a
// second caller ever shows up.
type SQLiteKV struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the kv
// table exists.
func Open(path string) (*SQLiteKV, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key            TEXT PRIMARY KEY,
		value          BLOB NOT NULL,
		schema_version INTEGER NOT NULL DEFAULT 1,
		updated_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

// Get returns the blob stored under key, or ok=false if the key has never
// been written.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %q: %v", ErrUnavailable, key, err)
	}
	return value, true, nil
}

// Set replaces the blob stored under key wholesale.
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, schema_version, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
		   value = excluded.value,
		   schema_version = excluded.schema_version,
		   updated_at = CURRENT_TIMESTAMP`,
		key, value, schemaVersion)
	if err != nil {
		return fmt.Errorf("%w: writing %q: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// RunMigrations applies all pending migrations from the given directory
// against the SQLite database at dbPath.
func RunMigrations(dbPath, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, "sqlite://"+dbPath)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
