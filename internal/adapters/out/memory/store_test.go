package memory_test

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"
	"time"

	"parceltrack/internal/adapters/out/memory"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

type MockStatePersister struct {
	mock.Mock
}

func (m *MockStatePersister) Persist(ctx context.Context, state ports.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStatePersister) Restore(ctx context.Context) (ports.State, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.State), args.Error(1)
}

func newParcel(t *testing.T, client string) *parcel.Parcel {
	t.Helper()
	p, err := parcel.NewParcel(kernel.NewUUID(), parcel.Details{
		ClientName:  client,
		ProductName: "Kettle",
		City:        "Fes",
		Price:       decimal.NewFromInt(80),
		Phone:       "0612345678",
		Address:     "Rue 12",
	}, createdAt)
	require.NoError(t, err)
	return p
}

func newPickup(t *testing.T, city string, parcels ...*parcel.Parcel) *pickup.Pickup {
	t.Helper()
	ids := make([]kernel.UUID, 0, len(parcels))
	for _, p := range parcels {
		ids = append(ids, p.ID())
	}
	pk, err := pickup.NewPickup(kernel.NewUUID(), pickup.Details{
		SupplierName: "Atlas Goods",
		City:         city,
		Phone:        "0522000000",
		Address:      "Zone industrielle",
	}, ids, createdAt)
	require.NoError(t, err)
	return pk
}

func collectIDs[T interface{ ID() kernel.UUID }](seq iter.Seq[T]) []kernel.UUID {
	var ids []kernel.UUID
	for v := range seq {
		ids = append(ids, v.ID())
	}
	return ids
}

func TestUnitOfWork_CommitMakesChangesVisibleAndPersists(t *testing.T) {
	// Given
	persister := &MockStatePersister{}
	store := memory.NewStore(persister, nil)
	uow := memory.NewUnitOfWorkFactory(store).Create()
	p := newParcel(t, "Amina")
	persister.On("Persist", mock.Anything, mock.MatchedBy(func(s ports.State) bool {
		return len(s.Parcels) == 1 && s.Parcels[0].ID().IsEqual(p.ID())
	})).Return(nil).Once()

	// When
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.ParcelRepository().Add(t.Context(), p))
	err := uow.Commit(t.Context())

	// Then
	require.NoError(t, err)
	got, err := store.Parcels().Get(t.Context(), p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Amina", got.ClientName())
	persister.AssertExpectations(t)
}

func TestUnitOfWork_CommitWithoutChangesDoesNotPersist(t *testing.T) {
	persister := &MockStatePersister{}
	store := memory.NewStore(persister, nil)
	uow := memory.NewUnitOfWorkFactory(store).Create()

	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.Commit(t.Context()))

	persister.AssertNotCalled(t, "Persist", mock.Anything, mock.Anything)
}

func TestUnitOfWork_PersistFailureKeepsState(t *testing.T) {
	// Given
	persister := &MockStatePersister{}
	store := memory.NewStore(persister, nil)
	uow := memory.NewUnitOfWorkFactory(store).Create()
	p := newParcel(t, "Karim")
	diskFull := errors.New("disk full")
	persister.On("Persist", mock.Anything, mock.Anything).Return(diskFull).Once()

	// When
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.ParcelRepository().Add(t.Context(), p))
	err := uow.Commit(t.Context())

	// Then
	require.ErrorIs(t, err, errs.ErrPersistence)
	require.ErrorIs(t, err, diskFull)
	_, getErr := store.Parcels().Get(t.Context(), p.ID())
	assert.NoError(t, getErr)
}

func TestUnitOfWork_RollbackUndoesEveryChange(t *testing.T) {
	// Given a store holding three parcels
	store := memory.NewStore(nil, nil)
	a, b, c := newParcel(t, "A"), newParcel(t, "B"), newParcel(t, "C")
	require.NoError(t, store.Load(ports.State{Parcels: []*parcel.Parcel{a, b, c}}))
	uow := memory.NewUnitOfWorkFactory(store).Create()

	// When one is edited, one deleted and one added, then rolled back
	require.NoError(t, uow.Begin(t.Context()))
	repo := uow.ParcelRepository()

	edited, err := repo.Get(t.Context(), a.ID())
	require.NoError(t, err)
	name := "Changed"
	require.NoError(t, edited.Edit(parcel.Patch{ClientName: &name}))
	require.NoError(t, repo.Update(t.Context(), edited))
	require.NoError(t, repo.Delete(t.Context(), b.ID()))
	require.NoError(t, repo.Add(t.Context(), newParcel(t, "D")))
	require.NoError(t, uow.Rollback(t.Context()))

	// Then the original content and order are back
	ids := collectIDs(store.Parcels().List(t.Context(), ports.ParcelFilter{}))
	assert.Equal(t, []kernel.UUID{a.ID(), b.ID(), c.ID()}, ids)
	got, err := store.Parcels().Get(t.Context(), a.ID())
	require.NoError(t, err)
	assert.Equal(t, "A", got.ClientName())
}

func TestUnitOfWork_RepositoryErrors(t *testing.T) {
	store := memory.NewStore(nil, nil)
	existing := newParcel(t, "Existing")
	require.NoError(t, store.Load(ports.State{Parcels: []*parcel.Parcel{existing}}))

	tests := []struct {
		name   string
		action func(ctx context.Context, repo ports.ParcelRepository) error
		target error
	}{
		{
			name:   "add existing id",
			action: func(ctx context.Context, repo ports.ParcelRepository) error { return repo.Add(ctx, existing) },
			target: errs.ErrConflict,
		},
		{
			name: "update unknown id",
			action: func(ctx context.Context, repo ports.ParcelRepository) error {
				return repo.Update(ctx, newParcel(t, "Ghost"))
			},
			target: errs.ErrObjectNotFound,
		},
		{
			name:   "delete unknown id",
			action: func(ctx context.Context, repo ports.ParcelRepository) error { return repo.Delete(ctx, kernel.NewUUID()) },
			target: errs.ErrObjectNotFound,
		},
		{
			name: "get unknown id",
			action: func(ctx context.Context, repo ports.ParcelRepository) error {
				_, err := repo.Get(ctx, kernel.NewUUID())
				return err
			},
			target: errs.ErrObjectNotFound,
		},
		{
			name:   "add unconstructed parcel",
			action: func(ctx context.Context, repo ports.ParcelRepository) error { return repo.Add(ctx, &parcel.Parcel{}) },
			target: parcel.ErrParcelIsNotConstructed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := memory.NewUnitOfWorkFactory(store).Create()
			require.NoError(t, uow.Begin(t.Context()))
			defer func() { _ = uow.Rollback(t.Context()) }()

			require.ErrorIs(t, tt.action(t.Context(), uow.ParcelRepository()), tt.target)
		})
	}
}

func TestUnitOfWork_RequiresBegin(t *testing.T) {
	store := memory.NewStore(nil, nil)
	uow := memory.NewUnitOfWorkFactory(store).Create()

	assert.ErrorIs(t, uow.Commit(t.Context()), memory.ErrNoActiveTransaction)
	assert.ErrorIs(t, uow.Rollback(t.Context()), memory.ErrNoActiveTransaction)
	assert.ErrorIs(t, uow.PickupRepository().Add(t.Context(), newPickup(t, "Fes", newParcel(t, "X"))),
		memory.ErrNoActiveTransaction)
}

func TestUnitOfWork_RollbackAfterCommitIsHarmless(t *testing.T) {
	store := memory.NewStore(nil, nil)
	uow := memory.NewUnitOfWorkFactory(store).Create()
	p := newParcel(t, "Salma")

	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.ParcelRepository().Add(t.Context(), p))
	require.NoError(t, uow.Commit(t.Context()))

	assert.ErrorIs(t, uow.Rollback(t.Context()), memory.ErrNoActiveTransaction)
	_, err := store.Parcels().Get(t.Context(), p.ID())
	assert.NoError(t, err)
}

func TestUnitOfWork_SerializesConcurrentUnits(t *testing.T) {
	// Given a unit of work holding the store
	store := memory.NewStore(nil, nil)
	factory := memory.NewUnitOfWorkFactory(store)
	first := factory.Create()
	require.NoError(t, first.Begin(t.Context()))

	// When a second one tries to begin
	entered := make(chan struct{})
	go func() {
		second := factory.Create()
		if err := second.Begin(context.Background()); err == nil {
			close(entered)
			_ = second.Rollback(context.Background())
		}
	}()

	// Then it waits until the first one finishes
	select {
	case <-entered:
		t.Fatal("second unit of work entered while the first was active")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Commit(t.Context()))

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second unit of work never entered")
	}
}

// gatedPersister blocks its first Persist call until release is closed and
// remembers the parcel count of every snapshot written.
type gatedPersister struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once

	mu      sync.Mutex
	written []int
}

func (g *gatedPersister) Persist(_ context.Context, state ports.State) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.written = append(g.written, len(state.Parcels))
	return nil
}

func (g *gatedPersister) Restore(context.Context) (ports.State, error) {
	return ports.State{}, nil
}

func TestStore_Resync(t *testing.T) {
	t.Run("writes the current state", func(t *testing.T) {
		persister := &MockStatePersister{}
		store := memory.NewStore(persister, nil)
		p := newParcel(t, "Amina")
		require.NoError(t, store.Load(ports.State{Parcels: []*parcel.Parcel{p}}))
		persister.On("Persist", mock.Anything, mock.MatchedBy(func(s ports.State) bool {
			return len(s.Parcels) == 1
		})).Return(nil).Once()

		state, err := store.Resync(t.Context())

		require.NoError(t, err)
		assert.Len(t, state.Parcels, 1)
		persister.AssertExpectations(t)
	})

	t.Run("failure is returned", func(t *testing.T) {
		persister := &MockStatePersister{}
		store := memory.NewStore(persister, nil)
		diskFull := errors.New("disk full")
		persister.On("Persist", mock.Anything, mock.Anything).Return(diskFull).Once()

		_, err := store.Resync(t.Context())

		require.ErrorIs(t, err, diskFull)
	})

	t.Run("a commit waits for an ongoing resync so storage never goes back", func(t *testing.T) {
		// Given a resync blocked while writing the empty state
		persister := &gatedPersister{entered: make(chan struct{}), release: make(chan struct{})}
		store := memory.NewStore(persister, nil)
		resynced := make(chan error, 1)
		go func() {
			_, err := store.Resync(context.Background())
			resynced <- err
		}()
		<-persister.entered

		// When a unit of work adds a parcel meanwhile
		late := newParcel(t, "Late")
		committed := make(chan error, 1)
		go func() {
			uow := memory.NewUnitOfWorkFactory(store).Create()
			if err := uow.Begin(context.Background()); err != nil {
				committed <- err
				return
			}
			if err := uow.ParcelRepository().Add(context.Background(), late); err != nil {
				_ = uow.Rollback(context.Background())
				committed <- err
				return
			}
			committed <- uow.Commit(context.Background())
		}()

		select {
		case <-committed:
			t.Fatal("commit finished while a resync was writing")
		case <-time.After(50 * time.Millisecond):
		}
		close(persister.release)

		// Then the newest snapshot is the one left in storage
		require.NoError(t, <-resynced)
		require.NoError(t, <-committed)
		assert.Equal(t, []int{0, 1}, persister.written)
		assert.Len(t, store.State().Parcels, 1)
	})
}

func TestUnitOfWork_BeginWithCancelledContext(t *testing.T) {
	store := memory.NewStore(nil, nil)
	uow := memory.NewUnitOfWorkFactory(store).Create()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, uow.Begin(ctx), context.Canceled)

	// the store is still free
	other := memory.NewUnitOfWorkFactory(store).Create()
	require.NoError(t, other.Begin(t.Context()))
	require.NoError(t, other.Rollback(t.Context()))
}

func TestStore_ReadersReturnCopies(t *testing.T) {
	store := memory.NewStore(nil, nil)
	p := newParcel(t, "Original")
	require.NoError(t, store.Load(ports.State{Parcels: []*parcel.Parcel{p}}))

	got, err := store.Parcels().Get(t.Context(), p.ID())
	require.NoError(t, err)
	name := "Tampered"
	require.NoError(t, got.Edit(parcel.Patch{ClientName: &name}))

	again, err := store.Parcels().Get(t.Context(), p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Original", again.ClientName())
}

func TestStore_ListIsLazyAndRestartable(t *testing.T) {
	// Given
	store := memory.NewStore(nil, nil)
	a, b := newParcel(t, "Nadia"), newParcel(t, "Omar")
	require.NoError(t, b.Return())
	require.NoError(t, store.Load(ports.State{Parcels: []*parcel.Parcel{a, b}}))
	seq := store.Parcels().List(t.Context(), ports.ParcelFilter{})

	// When a parcel is added after the sequence was created
	c := newParcel(t, "Rachid")
	uow := memory.NewUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.ParcelRepository().Add(t.Context(), c))
	require.NoError(t, uow.Commit(t.Context()))

	// Then each pass sees the current collection
	assert.Equal(t, []kernel.UUID{a.ID(), b.ID(), c.ID()}, collectIDs(seq))
	assert.Equal(t, []kernel.UUID{a.ID(), b.ID(), c.ID()}, collectIDs(seq))

	// and stopping early is honoured
	var first []kernel.UUID
	for p := range seq {
		first = append(first, p.ID())
		break
	}
	assert.Equal(t, []kernel.UUID{a.ID()}, first)
}

func TestStore_ListFilters(t *testing.T) {
	store := memory.NewStore(nil, nil)
	free, returned, claimed := newParcel(t, "Hassan"), newParcel(t, "Ilham"), newParcel(t, "Hasna")
	require.NoError(t, returned.Return())
	pk := newPickup(t, "Fes", claimed)
	require.NoError(t, claimed.Claim(pk.ID()))
	other := newPickup(t, "Tanger", free)
	require.NoError(t, other.Cancel())
	require.NoError(t, store.Load(ports.State{
		Parcels: []*parcel.Parcel{free, returned, claimed},
		Pickups: []*pickup.Pickup{pk, other},
	}))

	parcelTests := []struct {
		name   string
		filter ports.ParcelFilter
		want   []kernel.UUID
	}{
		{"all", ports.ParcelFilter{}, []kernel.UUID{free.ID(), returned.ID(), claimed.ID()}},
		{"status", ports.ParcelFilter{Status: parcel.InDelivery}, []kernel.UUID{claimed.ID()}},
		{"claimable", ports.ParcelFilter{ClaimableOnly: true}, []kernel.UUID{free.ID()}},
		{"search", ports.ParcelFilter{Search: "has"}, []kernel.UUID{free.ID(), claimed.ID()}},
		{"search claimable", ports.ParcelFilter{Search: "HAS", ClaimableOnly: true}, []kernel.UUID{free.ID()}},
	}
	for _, tt := range parcelTests {
		t.Run("parcels "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectIDs(store.Parcels().List(t.Context(), tt.filter)))
		})
	}

	pickupTests := []struct {
		name   string
		filter ports.PickupFilter
		want   []kernel.UUID
	}{
		{"all", ports.PickupFilter{}, []kernel.UUID{pk.ID(), other.ID()}},
		{"status", ports.PickupFilter{Status: pickup.Cancelled}, []kernel.UUID{other.ID()}},
		{"city", ports.PickupFilter{City: "fes"}, []kernel.UUID{pk.ID()}},
	}
	for _, tt := range pickupTests {
		t.Run("pickups "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectIDs(store.Pickups().List(t.Context(), tt.filter)))
		})
	}
}

func TestStore_LoadRejectsDuplicates(t *testing.T) {
	store := memory.NewStore(nil, nil)
	keep := newParcel(t, "Keep")
	require.NoError(t, store.Load(ports.State{Parcels: []*parcel.Parcel{keep}}))

	dup := newParcel(t, "Dup")
	err := store.Load(ports.State{Parcels: []*parcel.Parcel{dup, dup}})

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, []kernel.UUID{keep.ID()}, collectIDs(store.Parcels().List(t.Context(), ports.ParcelFilter{})))
}

func TestStore_Restore(t *testing.T) {
	// Given
	persister := &MockStatePersister{}
	p := newParcel(t, "Restored")
	persister.On("Restore", mock.Anything).Return(ports.State{Parcels: []*parcel.Parcel{p}}, nil).Once()
	store := memory.NewStore(persister, nil)

	// When
	err := store.Restore(t.Context())

	// Then
	require.NoError(t, err)
	assert.False(t, store.IsEmpty())
	state := store.State()
	require.Len(t, state.Parcels, 1)
	assert.True(t, slices.ContainsFunc(state.Parcels, func(x *parcel.Parcel) bool { return x.IsEqual(p) }))
	persister.AssertExpectations(t)
}

func TestSnapshotStore(t *testing.T) {
	store := memory.NewSnapshotStore()

	_, err := store.Load(t.Context(), "parcels-storage")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	payload := []byte(`{"version":1}`)
	require.NoError(t, store.Save(t.Context(), "parcels-storage", payload))
	payload[0] = 'X'

	got, err := store.Load(t.Context(), "parcels-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(got))
}
