package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdatePickupCommandIsNotConstructed = errors.New(
	"UpdatePickupCommand must be created via NewUpdatePickupCommand constructor",
)

// UpdatePickupCommand overwrites the descriptive fields of a pickup.
type UpdatePickupCommand struct { //nolint:recvcheck //using for validation
	pickupID kernel.UUID
	patch    pickup.Patch

	guard guard.ConstructorGuard
}

func NewUpdatePickupCommand(pickupID kernel.UUID, patch pickup.Patch) (UpdatePickupCommand, error) {
	if err := pickupID.Validate(); err != nil {
		return UpdatePickupCommand{}, err
	}

	return UpdatePickupCommand{
		pickupID: pickupID,
		patch:    patch,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePickupCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePickupCommandIsNotConstructed)
}

func (c UpdatePickupCommand) PickupID() kernel.UUID { return c.pickupID }
func (c UpdatePickupCommand) Patch() pickup.Patch   { return c.patch }
