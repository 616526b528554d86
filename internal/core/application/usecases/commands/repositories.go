// Package commands contains the operations that change parcels and pickups.
// Every handler follows the same shape: validate the command, open a unit of
// work, check everything, mutate, commit. A commit persists a snapshot; when
// that write fails the handler still returns its result next to the
// *errs.PersistenceError, because the in-memory change stands.
package commands

import (
	"context"
	"time"

	"parceltrack/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles the unit of work lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	PickupRepoFactory interface {
		PickupRepository() ports.PickupRepository
	}

	// ParcelUoW is used by commands that only touch parcels.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
	}

	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// PickupUoW is used by commands that only touch pickups.
	PickupUoW interface {
		TxManager
		PickupRepoFactory
	}

	PickupUoWFactory interface {
		Create() PickupUoW
	}

	// UoW spans both collections. The coordinator commands (create and
	// cancel pickup) need it because they change parcels and a pickup as one
	// unit.
	UoW interface {
		TxManager
		ParcelRepoFactory
		PickupRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)

// Clock supplies creation timestamps.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
