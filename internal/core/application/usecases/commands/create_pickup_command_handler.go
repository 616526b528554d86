package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"
)

// CreatePickupCommandHandler creates a pickup and claims its parcels as one
// unit: either the pickup exists and every listed parcel is InDelivery with a
// reference to it, or nothing changed.
type CreatePickupCommandHandler struct {
	uowFactory UoWFactory
	claims     services.ClaimService
	clock      Clock
}

func NewCreatePickupCommandHandler(uowFactory UoWFactory, clock Clock) CreatePickupCommandHandler {
	return CreatePickupCommandHandler{
		uowFactory: uowFactory,
		claims:     services.NewClaimService(),
		clock:      clock,
	}
}

// Handle validates the pickup, then checks every listed parcel before touching
// any of them. A missing, claimed or non-InTransit parcel is an
// *errs.ConflictError naming it. Parcels are updated first, then the pickup is
// added; a repository failure in between undoes the parcel updates and is
// reported as an *errs.PersistenceError.
func (h CreatePickupCommandHandler) Handle(ctx context.Context, cmd CreatePickupCommand) (*pickup.Pickup, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	pk, err := pickup.NewPickup(cmd.PickupID(), cmd.Details(), cmd.ParcelIDs(), h.clock.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	pickupRepo := uow.PickupRepository()

	_, err = pickupRepo.Get(ctx, pk.ID())
	if err == nil {
		return nil, errs.NewConflictError(pickup.EntityName, pk.ID().String(), "already exists")
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	ids := pk.ParcelIDs()
	parcels := make([]*parcel.Parcel, len(ids))
	for i, id := range ids {
		p, getErr := parcelRepo.Get(ctx, id)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			continue
		}
		if getErr != nil {
			return nil, getErr
		}
		parcels[i] = p
	}

	if err = h.claims.Claim(pk, parcels); err != nil {
		return nil, err
	}

	for _, p := range parcels {
		if err = parcelRepo.Update(ctx, p); err != nil {
			return nil, errs.NewPersistenceError("claim parcel "+p.ID().String(), err)
		}
	}

	if err = pickupRepo.Add(ctx, pk); err != nil {
		return nil, errs.NewPersistenceError("add pickup "+pk.ID().String(), err)
	}

	if err = uow.Commit(ctx); err != nil {
		return pk, err
	}

	return pk, nil
}
