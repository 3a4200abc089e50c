package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists entries in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store for the database at path. Call Init before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database, creating the file and schema if needed.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS rules (
			id          TEXT PRIMARY KEY,
			digest      TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL,
			spec        TEXT NOT NULL,
			states      INTEGER NOT NULL,
			colors      INTEGER NOT NULL,
			alphabet    INTEGER NOT NULL,
			rule_count  INTEGER NOT NULL,
			note        TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS rules_name ON rules(name);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}
	return s.db, nil
}

// Save upserts e by digest, keeping the stored ID and creation time.
func (s *SQLiteStore) Save(ctx context.Context, e Entry) (Entry, error) {
	db, err := s.getDB()
	if err != nil {
		return Entry{}, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO rules (id, digest, name, spec, states, colors, alphabet, rule_count, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO UPDATE SET
			name = excluded.name,
			spec = excluded.spec,
			alphabet = excluded.alphabet,
			rule_count = excluded.rule_count,
			note = CASE WHEN excluded.note = '' THEN rules.note ELSE excluded.note END
	`, e.ID, e.Digest, e.Name, e.Spec, e.States, e.Colors, e.Alphabet, e.Rules, e.Note, e.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return Entry{}, fmt.Errorf("save rule %s: %w", e.Name, err)
	}
	saved, ok, err := s.GetByDigest(ctx, e.Digest)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("save rule %s: row vanished", e.Name)
	}
	return saved, nil
}

const selectColumns = `SELECT id, digest, name, spec, states, colors, alphabet, rule_count, note, created_at FROM rules`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e       Entry
		created string
	)
	if err := row.Scan(&e.ID, &e.Digest, &e.Name, &e.Spec, &e.States, &e.Colors, &e.Alphabet, &e.Rules, &e.Note, &created); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return Entry{}, fmt.Errorf("decode created_at for %s: %w", e.ID, err)
	}
	e.CreatedAt = t
	return e, nil
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg string) (Entry, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Entry{}, false, err
	}
	e, err := scanEntry(db.QueryRowContext(ctx, selectColumns+` WHERE `+where+` = ?`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return e, true, nil
}

// Get looks an entry up by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Entry, bool, error) {
	return s.getOne(ctx, "id", id)
}

// GetByDigest looks an entry up by spec digest.
func (s *SQLiteStore) GetByDigest(ctx context.Context, digest string) (Entry, bool, error) {
	return s.getOne(ctx, "digest", digest)
}

// List returns all entries ordered by name, then digest.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, selectColumns+` ORDER BY name, digest`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
