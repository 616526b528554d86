package memory

import (
	"context"
	"errors"
	"slices"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// ErrNoActiveTransaction is returned by Commit, Rollback and the repositories
// of a unit of work that has not begun or has already finished.
var ErrNoActiveTransaction = errors.New("no active unit of work")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create produces a fresh unit of work. Instances are single-use per
// Begin/Commit cycle and must not be shared between goroutines.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork serializes one mutating operation against the store.
//
// Begin takes the store's write lock. Every repository change pushes its
// inverse onto a journal; Rollback replays the journal newest first and
// releases the lock, Commit drops the journal, writes a snapshot through the
// store's persister while still holding the lock, then releases it. Snapshots
// therefore reach the backend in commit order.
type UnitOfWork struct {
	store   *Store
	active  bool
	journal []func()
}

// Begin blocks until no other unit of work is active. Calling Begin twice on
// the same instance is a no-op.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.active {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.store.mu.Lock()
	uow.active = true
	uow.journal = uow.journal[:0]
	return nil
}

// Commit keeps every change. A unit of work without changes writes nothing.
// A snapshot failure is logged and returned as *errs.PersistenceError; the
// in-memory changes remain committed either way.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	defer uow.finish()

	if len(uow.journal) == 0 || uow.store.persister == nil {
		return nil
	}

	if err := uow.store.persister.Persist(ctx, uow.store.stateLocked()); err != nil {
		uow.store.logger.ErrorContext(ctx, "snapshot write failed, in-memory state kept", "error", err)
		var pErr *errs.PersistenceError
		if errors.As(err, &pErr) {
			return err
		}
		return errs.NewPersistenceError("persist state", err)
	}
	return nil
}

// Rollback undoes every change since Begin.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	defer uow.finish()

	for _, undo := range slices.Backward(uow.journal) {
		undo()
	}
	return nil
}

func (uow *UnitOfWork) ParcelRepository() ports.ParcelRepository {
	return &parcelRepository{
		view: newView(uow.store, parcelArena, parcel.EntityName, false),
		uow:  uow,
	}
}

func (uow *UnitOfWork) PickupRepository() ports.PickupRepository {
	return &pickupRepository{
		view: newView(uow.store, pickupArena, pickup.EntityName, false),
		uow:  uow,
	}
}

func (uow *UnitOfWork) finish() {
	uow.journal = nil
	uow.active = false
	uow.store.mu.Unlock()
}

func (uow *UnitOfWork) record(undo func()) {
	uow.journal = append(uow.journal, undo)
}

func (uow *UnitOfWork) checkActive() error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	return nil
}

// add, update and remove implement the journaled writes shared by both
// repositories.
func add[T record[T]](uow *UnitOfWork, a *arena[T], entity string, v T) error {
	id := v.ID()
	if _, exists := a.get(id); exists {
		return errs.NewConflictError(entity, id.String(), "already exists")
	}
	a.put(v.Clone())
	uow.record(func() { a.remove(id) })
	return nil
}

func update[T record[T]](uow *UnitOfWork, a *arena[T], entity string, v T) error {
	id := v.ID()
	prev, exists := a.get(id)
	if !exists {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	a.put(v.Clone())
	uow.record(func() { a.put(prev) })
	return nil
}

func remove[T record[T]](uow *UnitOfWork, a *arena[T], entity string, v T) error {
	id := v.ID()
	prev, idx, ok := a.remove(id)
	if !ok {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	uow.record(func() { a.insertAt(idx, prev) })
	return nil
}
