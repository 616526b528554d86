package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the boundary of one mutating operation. Between Begin and
// Commit/Rollback no other unit of work can observe or change the collections.
type UnitOfWork interface {
	// Begin waits for exclusive access to both collections.
	Begin(ctx context.Context) error

	// Commit makes the changes visible and persists a snapshot of both
	// collections. A failed snapshot write is reported as an
	// errs.PersistenceError; the in-memory changes stay committed.
	Commit(ctx context.Context) error

	// Rollback undoes every change made since Begin, newest first.
	Rollback(ctx context.Context) error

	ParcelRepository() ParcelRepository
	PickupRepository() PickupRepository
}
