package commands

import (
	"context"
)

type DeleteParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
}

func NewDeleteParcelCommandHandler(uowFactory ParcelUoWFactory) DeleteParcelCommandHandler {
	return DeleteParcelCommandHandler{uowFactory: uowFactory}
}

// Handle removes an unclaimed parcel. A parcel referenced by a pickup, active
// or completed, yields an *errs.ConflictError.
func (h DeleteParcelCommandHandler) Handle(ctx context.Context, cmd DeleteParcelCommand) error {
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

	repo := uow.ParcelRepository()
	p, err := repo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if err = p.ValidateDelete(); err != nil {
		return err
	}

	if err = repo.Delete(ctx, p.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
