package commands

import (
	"errors"
	"slices"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/pkg/guard"
)

var ErrCreatePickupCommandIsNotConstructed = errors.New(
	"CreatePickupCommand must be created via NewCreatePickupCommand constructor",
)

// CreatePickupCommand creates a Pending pickup that claims parcelIDs.
//
// Example:
//
//	cmd, err := NewCreatePickupCommand(kernel.NewUUID(), pickup.Details{
//	    SupplierName: "Atlas Goods", City: "Fes", Phone: "0522000000", Address: "Zone industrielle",
//	}, []kernel.UUID{first, second})
//	if err != nil {
//	    return err
//	}
//	pk, err := handler.Handle(ctx, cmd)
type CreatePickupCommand struct { //nolint:recvcheck //using for validation
	pickupID  kernel.UUID
	details   pickup.Details
	parcelIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreatePickupCommand checks the identifiers only. An empty or duplicated
// parcel list is reported by the pickup aggregate together with its field
// violations.
func NewCreatePickupCommand(
	pickupID kernel.UUID,
	details pickup.Details,
	parcelIDs []kernel.UUID,
) (CreatePickupCommand, error) {
	cmd := CreatePickupCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPickupID(pickupID),
		cmd.setParcelIDs(parcelIDs),
	); err != nil {
		return CreatePickupCommand{}, err
	}

	return cmd, nil
}

func (c CreatePickupCommand) Validate() error {
	return c.guard.Validate(ErrCreatePickupCommandIsNotConstructed)
}

func (c CreatePickupCommand) PickupID() kernel.UUID   { return c.pickupID }
func (c CreatePickupCommand) Details() pickup.Details { return c.details }

func (c CreatePickupCommand) ParcelIDs() []kernel.UUID {
	return slices.Clone(c.parcelIDs)
}

func (c *CreatePickupCommand) setPickupID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.pickupID = id
	return nil
}

func (c *CreatePickupCommand) setParcelIDs(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	c.parcelIDs = slices.Clone(ids)
	return nil
}
