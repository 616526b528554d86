// Package badger stores snapshots in an embedded badger key-value database,
// one key per namespace.
package badger

import (
	"context"
	"errors"
	"slices"

	"parceltrack/internal/pkg/errs"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "snapshot:"

// SnapshotStore implements ports.SnapshotStore on a *badger.DB.
type SnapshotStore struct {
	db *badger.DB
}

// Open opens (or creates) a badger database in dir. An empty dir opens an
// in-memory database, which is what the tests use.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

func NewSnapshotStore(db *badger.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(namespace))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			payload = slices.Clone(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errs.NewObjectNotFoundErrorWithCause("namespace", namespace, err)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *SnapshotStore) Save(ctx context.Context, namespace string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(namespace), slices.Clone(payload))
	})
}

func key(namespace string) []byte {
	return []byte(keyPrefix + namespace)
}
