package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
)

// CreateParcelCommandHandler creates parcels in InTransit with no pickup.
type CreateParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
	clock      Clock
}

func NewCreateParcelCommandHandler(uowFactory ParcelUoWFactory, clock Clock) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle returns the created parcel. Invalid fields come back as one
// *errs.ValidationError; an id already in use is an *errs.ConflictError.
func (h CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := parcel.NewParcel(cmd.ParcelID(), cmd.Details(), h.clock.now())
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

	if err = uow.ParcelRepository().Add(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return p, err
	}

	return p, nil
}
