package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/guard"
)

var ErrCreateParcelCommandIsNotConstructed = errors.New(
	"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
)

// CreateParcelCommand registers a new parcel. Field rules are enforced by the
// parcel aggregate so that every violation is reported together.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand(kernel.NewUUID(), parcel.Details{
//	    ClientName: "Amina", ProductName: "Kettle", City: "Fes",
//	    Price: decimal.NewFromInt(80), Phone: "0612345678", Address: "Rue 12",
//	})
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	details  parcel.Details

	guard guard.ConstructorGuard
}

func NewCreateParcelCommand(parcelID kernel.UUID, details parcel.Details) (CreateParcelCommand, error) {
	cmd := CreateParcelCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := cmd.setParcelID(parcelID); err != nil {
		return CreateParcelCommand{}, err
	}

	return cmd, nil
}

func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

func (c CreateParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c CreateParcelCommand) Details() parcel.Details {
	return c.details
}

func (c *CreateParcelCommand) setParcelID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.parcelID = id
	return nil
}
