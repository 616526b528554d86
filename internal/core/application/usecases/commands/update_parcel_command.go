package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdateParcelCommandIsNotConstructed = errors.New(
	"UpdateParcelCommand must be created via NewUpdateParcelCommand constructor",
)

// UpdateParcelCommand overwrites the supplied fields of a parcel.
type UpdateParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	patch    parcel.Patch

	guard guard.ConstructorGuard
}

func NewUpdateParcelCommand(parcelID kernel.UUID, patch parcel.Patch) (UpdateParcelCommand, error) {
	if err := parcelID.Validate(); err != nil {
		return UpdateParcelCommand{}, err
	}

	return UpdateParcelCommand{
		parcelID: parcelID,
		patch:    patch,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateParcelCommand) Validate() error {
	return c.guard.Validate(ErrUpdateParcelCommandIsNotConstructed)
}

func (c UpdateParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c UpdateParcelCommand) Patch() parcel.Patch   { return c.patch }
