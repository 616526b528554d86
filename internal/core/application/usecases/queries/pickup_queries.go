package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrGetPickupQueryIsNotConstructed = errors.New(
		"GetPickupQuery must be created via NewGetPickupQuery constructor",
	)
	ErrListPickupsQueryIsNotConstructed = errors.New(
		"ListPickupsQuery must be created via NewListPickupsQuery constructor",
	)
	ErrListPickupsByCityQueryIsNotConstructed = errors.New(
		"ListPickupsByCityQuery must be created via NewListPickupsByCityQuery constructor",
	)
)

type GetPickupQuery struct {
	pickupID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetPickupQuery(pickupID kernel.UUID) (GetPickupQuery, error) {
	if err := pickupID.Validate(); err != nil {
		return GetPickupQuery{}, err
	}
	return GetPickupQuery{pickupID: pickupID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPickupQuery) Validate() error {
	return q.guard.Validate(ErrGetPickupQueryIsNotConstructed)
}

func (q GetPickupQuery) PickupID() kernel.UUID { return q.pickupID }

type ListPickupsQuery struct {
	filter ports.PickupFilter
	guard  guard.ConstructorGuard
}

// NewListPickupsQuery takes a status label ("" for all) and a city ("" for
// all, otherwise matched case-insensitively).
func NewListPickupsQuery(status, city string) (ListPickupsQuery, error) {
	filter, err := pickupFilter(status, city)
	if err != nil {
		return ListPickupsQuery{}, err
	}
	return ListPickupsQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListPickupsQuery) Validate() error {
	return q.guard.Validate(ErrListPickupsQueryIsNotConstructed)
}

func (q ListPickupsQuery) Filter() ports.PickupFilter { return q.filter }

// ListPickupsByCityQuery groups pickups by city. The grouping is rebuilt on
// every call.
type ListPickupsByCityQuery struct {
	filter ports.PickupFilter
	guard  guard.ConstructorGuard
}

func NewListPickupsByCityQuery(status string) (ListPickupsByCityQuery, error) {
	filter, err := pickupFilter(status, "")
	if err != nil {
		return ListPickupsByCityQuery{}, err
	}
	return ListPickupsByCityQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListPickupsByCityQuery) Validate() error {
	return q.guard.Validate(ErrListPickupsByCityQueryIsNotConstructed)
}

func (q ListPickupsByCityQuery) Filter() ports.PickupFilter { return q.filter }

// CityPickupsResponse is one city with its pickups in insertion order.
type CityPickupsResponse struct {
	City    string           `json:"city"`
	Pickups []PickupResponse `json:"pickups"`
}

func pickupFilter(status, city string) (ports.PickupFilter, error) {
	filter := ports.PickupFilter{City: city}
	if status != "" {
		st, err := pickup.StatusFromString(status)
		if err != nil {
			return ports.PickupFilter{}, err
		}
		filter.Status = st
	}
	return filter, nil
}
