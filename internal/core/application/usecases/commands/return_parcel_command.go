package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrReturnParcelCommandIsNotConstructed = errors.New(
	"ReturnParcelCommand must be created via NewReturnParcelCommand constructor",
)

// ReturnParcelCommand sends an unclaimed parcel back to its supplier.
type ReturnParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReturnParcelCommand(parcelID kernel.UUID) (ReturnParcelCommand, error) {
	if err := parcelID.Validate(); err != nil {
		return ReturnParcelCommand{}, err
	}

	return ReturnParcelCommand{
		parcelID: parcelID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ReturnParcelCommand) Validate() error {
	return c.guard.Validate(ErrReturnParcelCommandIsNotConstructed)
}

func (c ReturnParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
