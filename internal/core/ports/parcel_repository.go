// Package ports defines the contracts between the parcel/pickup core and the
// adapters that store, persist and serve it.
package ports

import (
	"context"
	"iter"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ParcelFilter narrows a parcel listing. The zero value matches everything.
type ParcelFilter struct {
	// Status keeps parcels in this exact status; parcel.Unknown means all.
	Status parcel.Status

	// ClaimableOnly keeps parcels that a new pickup could claim.
	ClaimableOnly bool

	// Search is a case-insensitive substring matched against client and
	// product names.
	Search string
}

// Match reports whether p passes the filter.
func (f ParcelFilter) Match(p *parcel.Parcel) bool {
	if f.Status != parcel.Unknown && p.Status() != f.Status {
		return false
	}
	if f.ClaimableOnly && p.CanBeClaimed() != nil {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.ClientName()), needle) &&
			!strings.Contains(strings.ToLower(p.ProductName()), needle) {
			return false
		}
	}
	return true
}

// ParcelReader is the read side of the parcel collection.
type ParcelReader interface {
	// Get returns a snapshot of the parcel or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// List yields snapshots in insertion order. The sequence is lazy and may be
	// ranged over more than once; each pass sees the collection as it is then.
	List(ctx context.Context, filter ParcelFilter) iter.Seq[*parcel.Parcel]
}

// ParcelRepository is the transactional parcel collection handed out by a
// UnitOfWork. Aggregates returned by it are copies: changes become visible
// only through Update.
type ParcelRepository interface {
	ParcelReader

	// Add stores a new parcel; an existing id yields an errs.ConflictError.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update replaces a stored parcel; an unknown id yields errs.ObjectNotFoundError.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Delete removes a parcel; an unknown id yields errs.ObjectNotFoundError.
	Delete(ctx context.Context, id kernel.UUID) error
}
