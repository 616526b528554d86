package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrCompletePickupCommandIsNotConstructed = errors.New(
		"CompletePickupCommand must be created via NewCompletePickupCommand constructor",
	)
	ErrCancelPickupCommandIsNotConstructed = errors.New(
		"CancelPickupCommand must be created via NewCancelPickupCommand constructor",
	)
	ErrDeletePickupCommandIsNotConstructed = errors.New(
		"DeletePickupCommand must be created via NewDeletePickupCommand constructor",
	)
)

// pickupIDCommand is the payload shared by commands addressing one pickup.
type pickupIDCommand struct {
	pickupID kernel.UUID
	guard    guard.ConstructorGuard
}

func newPickupIDCommand(pickupID kernel.UUID) (pickupIDCommand, error) {
	if err := pickupID.Validate(); err != nil {
		return pickupIDCommand{}, err
	}
	return pickupIDCommand{pickupID: pickupID, guard: guard.NewConstructorGuard()}, nil
}

func (c pickupIDCommand) PickupID() kernel.UUID { return c.pickupID }

// CompletePickupCommand marks a Pending pickup as Completed.
type CompletePickupCommand struct {
	pickupIDCommand
}

func NewCompletePickupCommand(pickupID kernel.UUID) (CompletePickupCommand, error) {
	c, err := newPickupIDCommand(pickupID)
	if err != nil {
		return CompletePickupCommand{}, err
	}
	return CompletePickupCommand{c}, nil
}

func (c CompletePickupCommand) Validate() error {
	return c.guard.Validate(ErrCompletePickupCommandIsNotConstructed)
}

// CancelPickupCommand cancels a Pending pickup and releases its parcels.
type CancelPickupCommand struct {
	pickupIDCommand
}

func NewCancelPickupCommand(pickupID kernel.UUID) (CancelPickupCommand, error) {
	c, err := newPickupIDCommand(pickupID)
	if err != nil {
		return CancelPickupCommand{}, err
	}
	return CancelPickupCommand{c}, nil
}

func (c CancelPickupCommand) Validate() error {
	return c.guard.Validate(ErrCancelPickupCommandIsNotConstructed)
}

// DeletePickupCommand removes a Cancelled pickup.
type DeletePickupCommand struct {
	pickupIDCommand
}

func NewDeletePickupCommand(pickupID kernel.UUID) (DeletePickupCommand, error) {
	c, err := newPickupIDCommand(pickupID)
	if err != nil {
		return DeletePickupCommand{}, err
	}
	return DeletePickupCommand{c}, nil
}

func (c DeletePickupCommand) Validate() error {
	return c.guard.Validate(ErrDeletePickupCommandIsNotConstructed)
}
