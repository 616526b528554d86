package commands

import (
	"context"
)

type DeletePickupCommandHandler struct {
	uowFactory PickupUoWFactory
}

func NewDeletePickupCommandHandler(uowFactory PickupUoWFactory) DeletePickupCommandHandler {
	return DeletePickupCommandHandler{uowFactory: uowFactory}
}

// Handle removes a Cancelled pickup. Pending and Completed pickups still hold
// claims and yield an *errs.ConflictError.
func (h DeletePickupCommandHandler) Handle(ctx context.Context, cmd DeletePickupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PickupRepository()
	pk, err := repo.Get(ctx, cmd.PickupID())
	if err != nil {
		return err
	}

	if err = pk.ValidateDelete(); err != nil {
		return err
	}

	if err = repo.Delete(ctx, pk.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
