package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
)

// SnapshotStore is a durable key-value slot per namespace. Load of a namespace
// that was never saved returns an error matching errs.ErrObjectNotFound.
type SnapshotStore interface {
	Load(ctx context.Context, namespace string) ([]byte, error)
	Save(ctx context.Context, namespace string, payload []byte) error
}

// State is the full content of both collections, each in insertion order.
type State struct {
	Parcels []*parcel.Parcel
	Pickups []*pickup.Pickup
}

// StatePersister writes State after every committed mutation and reads it
// back on start-up.
type StatePersister interface {
	Persist(ctx context.Context, state State) error
	Restore(ctx context.Context) (State, error)
}

// StateReader exposes a consistent copy of both collections, taken under one
// read lock.
type StateReader interface {
	State() State
}
