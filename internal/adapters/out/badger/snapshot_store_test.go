package badger_test

import (
	"testing"

	"parceltrack/internal/adapters/out/badger"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *badger.SnapshotStore {
	t.Helper()
	db, err := badger.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return badger.NewSnapshotStore(db)
}

func TestSnapshotStore_LoadUnknownNamespace(t *testing.T) {
	store := newStore(t)

	_, err := store.Load(t.Context(), "parcels-storage")

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSnapshotStore_SaveThenLoad(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   string
	}{
		{name: "single write", writes: []string{`{"version":1}`}, want: `{"version":1}`},
		{name: "last write wins", writes: []string{`{"a":1}`, `{"b":2}`}, want: `{"b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			store := newStore(t)
			for _, w := range tt.writes {
				require.NoError(t, store.Save(t.Context(), "pickups-storage", []byte(w)))
			}

			// When
			got, err := store.Load(t.Context(), "pickups-storage")

			// Then
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestSnapshotStore_NamespacesAreIndependent(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(t.Context(), "parcels-storage", []byte("p")))
	require.NoError(t, store.Save(t.Context(), "pickups-storage", []byte("k")))

	p, err := store.Load(t.Context(), "parcels-storage")
	require.NoError(t, err)
	k, err := store.Load(t.Context(), "pickups-storage")
	require.NoError(t, err)

	assert.Equal(t, "p", string(p))
	assert.Equal(t, "k", string(k))
}

func TestSnapshotStore_PersistsAcrossReopen(t *testing.T) {
	// Given a database on disk
	dir := t.TempDir()
	db, err := badger.Open(dir)
	require.NoError(t, err)
	require.NoError(t, badger.NewSnapshotStore(db).Save(t.Context(), "parcels-storage", []byte("kept")))
	require.NoError(t, db.Close())

	// When it is reopened
	db, err = badger.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	got, err := badger.NewSnapshotStore(db).Load(t.Context(), "parcels-storage")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}
