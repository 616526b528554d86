package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/pickup"
)

// CompletePickupCommandHandler closes a pickup. Its parcels stay InDelivery
// and keep their reference.
type CompletePickupCommandHandler struct {
	uowFactory PickupUoWFactory
}

func NewCompletePickupCommandHandler(uowFactory PickupUoWFactory) CompletePickupCommandHandler {
	return CompletePickupCommandHandler{uowFactory: uowFactory}
}

func (h CompletePickupCommandHandler) Handle(ctx context.Context, cmd CompletePickupCommand) (*pickup.Pickup, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PickupRepository()
	pk, err := repo.Get(ctx, cmd.PickupID())
	if err != nil {
		return nil, err
	}

	if err = pk.Complete(); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, pk); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return pk, err
	}

	return pk, nil
}
