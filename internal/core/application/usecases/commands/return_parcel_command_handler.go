package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
)

type ReturnParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
}

func NewReturnParcelCommandHandler(uowFactory ParcelUoWFactory) ReturnParcelCommandHandler {
	return ReturnParcelCommandHandler{uowFactory: uowFactory}
}

// Handle moves the parcel to Returned. A claimed parcel is an
// *errs.ConflictError; any other status is an *errs.InvalidTransitionError.
func (h ReturnParcelCommandHandler) Handle(ctx context.Context, cmd ReturnParcelCommand) (*parcel.Parcel, error) {
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

	if err = p.Return(); err != nil {
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
