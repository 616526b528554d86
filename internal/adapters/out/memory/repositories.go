package memory

import (
	"context"
	"iter"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"
)

type parcelReader struct {
	view view[*parcel.Parcel]
}

func (r *parcelReader) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	return r.view.get(ctx, id)
}

func (r *parcelReader) List(ctx context.Context, filter ports.ParcelFilter) iter.Seq[*parcel.Parcel] {
	return r.view.list(ctx, filter.Match)
}

type pickupReader struct {
	view view[*pickup.Pickup]
}

func (r *pickupReader) Get(ctx context.Context, id kernel.UUID) (*pickup.Pickup, error) {
	return r.view.get(ctx, id)
}

func (r *pickupReader) List(ctx context.Context, filter ports.PickupFilter) iter.Seq[*pickup.Pickup] {
	return r.view.list(ctx, filter.Match)
}

// parcelRepository is the journaled parcel collection of one unit of work.
type parcelRepository struct {
	view view[*parcel.Parcel]
	uow  *UnitOfWork
}

func (r *parcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := r.uow.checkActive(); err != nil {
		return nil, err
	}
	return r.view.get(ctx, id)
}

// List yields nothing once the unit of work has finished.
func (r *parcelRepository) List(ctx context.Context, filter ports.ParcelFilter) iter.Seq[*parcel.Parcel] {
	return r.view.list(ctx, func(p *parcel.Parcel) bool {
		return r.uow.active && filter.Match(p)
	})
}

func (r *parcelRepository) Add(_ context.Context, aggregate *parcel.Parcel) error {
	if err := r.uow.checkActive(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return add(r.uow, r.uow.store.parcels, parcel.EntityName, aggregate)
}

func (r *parcelRepository) Update(_ context.Context, aggregate *parcel.Parcel) error {
	if err := r.uow.checkActive(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return update(r.uow, r.uow.store.parcels, parcel.EntityName, aggregate)
}

func (r *parcelRepository) Delete(ctx context.Context, id kernel.UUID) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return remove(r.uow, r.uow.store.parcels, parcel.EntityName, existing)
}

// pickupRepository is the journaled pickup collection of one unit of work.
type pickupRepository struct {
	view view[*pickup.Pickup]
	uow  *UnitOfWork
}

func (r *pickupRepository) Get(ctx context.Context, id kernel.UUID) (*pickup.Pickup, error) {
	if err := r.uow.checkActive(); err != nil {
		return nil, err
	}
	return r.view.get(ctx, id)
}

func (r *pickupRepository) List(ctx context.Context, filter ports.PickupFilter) iter.Seq[*pickup.Pickup] {
	return r.view.list(ctx, func(p *pickup.Pickup) bool {
		return r.uow.active && filter.Match(p)
	})
}

func (r *pickupRepository) Add(_ context.Context, aggregate *pickup.Pickup) error {
	if err := r.uow.checkActive(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return add(r.uow, r.uow.store.pickups, pickup.EntityName, aggregate)
}

func (r *pickupRepository) Update(_ context.Context, aggregate *pickup.Pickup) error {
	if err := r.uow.checkActive(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return update(r.uow, r.uow.store.pickups, pickup.EntityName, aggregate)
}

func (r *pickupRepository) Delete(ctx context.Context, id kernel.UUID) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return remove(r.uow, r.uow.store.pickups, pickup.EntityName, existing)
}
