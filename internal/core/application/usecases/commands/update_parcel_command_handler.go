package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
)

type UpdateParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
}

func NewUpdateParcelCommandHandler(uowFactory ParcelUoWFactory) UpdateParcelCommandHandler {
	return UpdateParcelCommandHandler{uowFactory: uowFactory}
}

// Handle applies the patch all or nothing. Writing status or pickupRef is an
// *errs.InvariantViolationError.
func (h UpdateParcelCommandHandler) Handle(ctx context.Context, cmd UpdateParcelCommand) (*parcel.Parcel, error) {
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

	repo := uow.ParcelRepository()
	p, err := repo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return nil, err
	}

	if err = p.Edit(cmd.Patch()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return p, err
	}

	return p, nil
}
