package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/pickup"
)

type UpdatePickupCommandHandler struct {
	uowFactory PickupUoWFactory
}

func NewUpdatePickupCommandHandler(uowFactory PickupUoWFactory) UpdatePickupCommandHandler {
	return UpdatePickupCommandHandler{uowFactory: uowFactory}
}

// Handle applies the patch all or nothing. Writing status or parcelIds is an
// *errs.InvariantViolationError.
func (h UpdatePickupCommandHandler) Handle(ctx context.Context, cmd UpdatePickupCommand) (*pickup.Pickup, error) {
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

	if err = pk.Edit(cmd.Patch()); err != nil {
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
