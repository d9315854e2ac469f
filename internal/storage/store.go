package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - empty database
// 1 - inventories table
const currentSchemaVersion = 1

// ErrNotFound is returned when no inventory is stored under an id.
var ErrNotFound = errors.New("inventory not found")

// Record describes a stored inventory without its contents.
type Record struct {
	ID       uuid.UUID
	Slots    int
	Bytes    int // compressed size
	Revision int64
}

// Store is the SQLite repository of serialised inventories.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path and applies pragmas and
// migrations. Pass ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer; a single connection also keeps
	// ":memory:" databases alive across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Put stores data, already compressed, under id. An existing row is
// replaced and its revision incremented.
func (s *Store) Put(ctx context.Context, id uuid.UUID, slots int, data []byte) error {
	return put(ctx, s.db, id, slots, data)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func put(ctx context.Context, db execer, id uuid.UUID, slots int, data []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO inventories (id, slots, data)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slots = excluded.slots,
			data = excluded.data,
			revision = inventories.revision + 1
	`, id.String(), slots, data)
	if err != nil {
		return fmt.Errorf("put inventory %s: %w", id, err)
	}
	return nil
}

// PutAll stores every entry in one transaction.
func (s *Store) PutAll(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, e := range entries {
		if err := put(ctx, tx, e.ID, e.Slots, e.Data); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Entry is one inventory to write with PutAll.
type Entry struct {
	ID    uuid.UUID
	Slots int
	Data  []byte
}

// Get returns the compressed data stored under id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM inventories WHERE id = ?`, id.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get inventory %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory %s: %w", id, err)
	}
	return data, nil
}

// Delete removes the row for id. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM inventories WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete inventory %s: %w", id, err)
	}
	return nil
}

// List returns every stored inventory ordered by id.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slots, length(data), revision
		FROM inventories
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r   Record
			raw string
		)
		if err := rows.Scan(&raw, &r.Slots, &r.Bytes, &r.Revision); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		if r.ID, err = uuid.Parse(raw); err != nil {
			return nil, fmt.Errorf("scan inventory: bad id %q: %w", raw, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventories: %w", err)
	}
	return records, nil
}
