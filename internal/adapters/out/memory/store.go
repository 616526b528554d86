// Package memory implements the parcel and pickup collections as an in-process
// arena store.
//
// A Store owns both collections behind one sync.RWMutex. Mutations go through
// a UnitOfWork, which holds the write lock from Begin to Commit or Rollback and
// records an undo entry for every change, so a failed operation leaves no
// trace. Reads outside a unit of work go through the readers returned by
// Parcels and Pickups, which take the read lock per record.
//
//	store := memory.NewStore(persister, logger)
//	if err := store.Restore(ctx); err != nil {
//	    return err
//	}
//	factory := memory.NewUnitOfWorkFactory(store)
//
// Readers must not be used by a goroutine that is inside a unit of work on the
// same store: the read lock would wait for that goroutine's own write lock.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// Store is the in-memory home of both collections.
type Store struct {
	mu        sync.RWMutex
	parcels   *arena[*parcel.Parcel]
	pickups   *arena[*pickup.Pickup]
	persister ports.StatePersister
	logger    *slog.Logger
}

// NewStore creates an empty store. persister may be nil, in which case commits
// are never written anywhere.
func NewStore(persister ports.StatePersister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		parcels:   newArena[*parcel.Parcel](),
		pickups:   newArena[*pickup.Pickup](),
		persister: persister,
		logger:    logger.With("component", "memory_store"),
	}
}

// Restore replaces the content of the store with the persisted state.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	state, err := s.persister.Restore(ctx)
	if err != nil {
		return err
	}
	if err = s.Load(state); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "state restored",
		"parcels", len(state.Parcels),
		"pickups", len(state.Pickups),
	)
	return nil
}

// Load replaces the content of the store with state, keeping its order. The
// store is left untouched if state holds an invalid or duplicated record.
func (s *Store) Load(state ports.State) error {
	parcels := newArena[*parcel.Parcel]()
	for _, p := range state.Parcels {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := parcels.get(p.ID()); dup {
			return errs.NewConflictError(parcel.EntityName, p.ID().String(), "appears twice in state")
		}
		parcels.put(p.Clone())
	}

	pickups := newArena[*pickup.Pickup]()
	for _, p := range state.Pickups {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := pickups.get(p.ID()); dup {
			return errs.NewConflictError(pickup.EntityName, p.ID().String(), "appears twice in state")
		}
		pickups.put(p.Clone())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parcels = parcels
	s.pickups = pickups
	return nil
}

// State returns a copy of both collections.
func (s *Store) State() ports.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() ports.State {
	return ports.State{
		Parcels: s.parcels.values(),
		Pickups: s.pickups.values(),
	}
}

// Resync writes the current state through the persister and returns what was
// written. It holds the read lock for the whole write, so no commit can land
// in between and overwrite a newer snapshot with an older one.
func (s *Store) Resync(ctx context.Context) (ports.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.stateLocked()
	if s.persister == nil {
		return state, nil
	}
	if err := s.persister.Persist(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// IsEmpty reports whether both collections are empty.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parcels.len() == 0 && s.pickups.len() == 0
}

// Parcels returns a lock-per-record reader over the parcel collection.
func (s *Store) Parcels() ports.ParcelReader {
	return &parcelReader{view: newView(s, parcelArena, parcel.EntityName, true)}
}

// Pickups returns a lock-per-record reader over the pickup collection.
func (s *Store) Pickups() ports.PickupReader {
	return &pickupReader{view: newView(s, pickupArena, pickup.EntityName, true)}
}

func parcelArena(s *Store) *arena[*parcel.Parcel] { return s.parcels }
func pickupArena(s *Store) *arena[*pickup.Pickup] { return s.pickups }
