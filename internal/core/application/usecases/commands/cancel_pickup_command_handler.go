package commands

import (
	"context"
	"errors"
	"log/slog"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"
)

// CancelPickupResult is the cancelled pickup, the parcels put back InTransit
// (ascending id order) and any inconsistency met on the way.
type CancelPickupResult struct {
	Pickup    *pickup.Pickup
	Released  []*parcel.Parcel
	Anomalies []errs.Anomaly
}

// CancelPickupCommandHandler cancels a pickup and releases its claims as one
// unit.
type CancelPickupCommandHandler struct {
	uowFactory UoWFactory
	claims     services.ClaimService
	logger     *slog.Logger
}

func NewCancelPickupCommandHandler(uowFactory UoWFactory, logger *slog.Logger) CancelPickupCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CancelPickupCommandHandler{
		uowFactory: uowFactory,
		claims:     services.NewClaimService(),
		logger:     logger.With("component", "cancel_pickup"),
	}
}

// Handle requires a Pending pickup; anything else is an
// *errs.InvalidTransitionError and nothing changes. A listed parcel that no
// longer exists, or that points at another pickup, is skipped and returned as
// an anomaly. The pickup is written first, then the released parcels.
func (h CancelPickupCommandHandler) Handle(ctx context.Context, cmd CancelPickupCommand) (CancelPickupResult, error) {
	if err := cmd.Validate(); err != nil {
		return CancelPickupResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CancelPickupResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	pickupRepo := uow.PickupRepository()

	pk, err := pickupRepo.Get(ctx, cmd.PickupID())
	if err != nil {
		return CancelPickupResult{}, err
	}
	if err = pk.ValidateCancel(); err != nil {
		return CancelPickupResult{}, err
	}

	found := make(map[kernel.UUID]*parcel.Parcel)
	for _, id := range pk.ParcelIDs() {
		p, getErr := parcelRepo.Get(ctx, id)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			continue
		}
		if getErr != nil {
			return CancelPickupResult{}, getErr
		}
		found[id] = p
	}

	released, err := h.claims.Release(pk, func(id kernel.UUID) *parcel.Parcel { return found[id] })
	if err != nil {
		return CancelPickupResult{}, err
	}

	if err = pickupRepo.Update(ctx, pk); err != nil {
		return CancelPickupResult{}, errs.NewPersistenceError("cancel pickup "+pk.ID().String(), err)
	}
	for _, p := range released.Released {
		if err = parcelRepo.Update(ctx, p); err != nil {
			return CancelPickupResult{}, errs.NewPersistenceError("release parcel "+p.ID().String(), err)
		}
	}

	for _, a := range released.Anomalies {
		h.logger.WarnContext(ctx, "anomaly while cancelling pickup",
			"kind", a.Kind,
			"parcel_id", a.ParcelID,
			"pickup_id", a.PickupID,
			"detail", a.Detail,
		)
	}

	result := CancelPickupResult{
		Pickup:    pk,
		Released:  released.Released,
		Anomalies: released.Anomalies,
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	return result, nil
}
