// Package sqlite stores snapshots in a single SQLite table keyed by namespace.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parceltrack/internal/pkg/errs"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
    namespace  TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    updated_at TEXT NOT NULL
)`

// Open opens (or creates) the database file at path and ensures the
// snapshots table exists.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "parceltrack.db"
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err = d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	// journal_mode may be unsupported, e.g. for in-memory databases
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if _, err = d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err = d.Exec(schema); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// SnapshotStore implements ports.SnapshotStore on database/sql.
type SnapshotStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewSnapshotStore(db *sql.DB, clock func() time.Time) *SnapshotStore {
	if clock == nil {
		clock = time.Now
	}
	return &SnapshotStore{db: db, clock: clock}
}

func (s *SnapshotStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE namespace = ?`, namespace,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundErrorWithCause("namespace", namespace, err)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *SnapshotStore) Save(ctx context.Context, namespace string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (namespace, payload, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(namespace) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		namespace, payload, s.clock().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// UpdatedAt reports when namespace was last saved.
func (s *SnapshotStore) UpdatedAt(ctx context.Context, namespace string) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM snapshots WHERE namespace = ?`, namespace,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, errs.NewObjectNotFoundErrorWithCause("namespace", namespace, err)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, raw)
}
