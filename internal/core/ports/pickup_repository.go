package ports

import (
	"context"
	"iter"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/pickup"
)

// PickupFilter narrows a pickup listing. The zero value matches everything.
type PickupFilter struct {
	Status pickup.Status
	City   string
}

func (f PickupFilter) Match(p *pickup.Pickup) bool {
	if f.Status != pickup.Unknown && p.Status() != f.Status {
		return false
	}
	if f.City != "" && !strings.EqualFold(p.City(), f.City) {
		return false
	}
	return true
}

// PickupReader is the read side of the pickup collection.
type PickupReader interface {
	Get(ctx context.Context, id kernel.UUID) (*pickup.Pickup, error)
	List(ctx context.Context, filter PickupFilter) iter.Seq[*pickup.Pickup]
}

// PickupRepository is the transactional pickup collection handed out by a
// UnitOfWork.
type PickupRepository interface {
	PickupReader
	Add(ctx context.Context, aggregate *pickup.Pickup) error
	Update(ctx context.Context, aggregate *pickup.Pickup) error
	Delete(ctx context.Context, id kernel.UUID) error
}
