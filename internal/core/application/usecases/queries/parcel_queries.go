package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrGetParcelQueryIsNotConstructed = errors.New(
		"GetParcelQuery must be created via NewGetParcelQuery constructor",
	)
	ErrListParcelsQueryIsNotConstructed = errors.New(
		"ListParcelsQuery must be created via NewListParcelsQuery constructor",
	)
	ErrGetParcelStatsQueryIsNotConstructed = errors.New(
		"GetParcelStatsQuery must be created via NewGetParcelStatsQuery constructor",
	)
)

type GetParcelQuery struct {
	parcelID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetParcelQuery(parcelID kernel.UUID) (GetParcelQuery, error) {
	if err := parcelID.Validate(); err != nil {
		return GetParcelQuery{}, err
	}
	return GetParcelQuery{parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
}

func (q GetParcelQuery) ParcelID() kernel.UUID { return q.parcelID }

// ListParcelsQuery lists parcels in insertion order.
//
// Example:
//
//	// parcels a new pickup could claim whose client or product mentions "tajine"
//	query, err := NewListParcelsQuery("", true, "tajine")
type ListParcelsQuery struct {
	filter ports.ParcelFilter
	guard  guard.ConstructorGuard
}

// NewListParcelsQuery takes a status label ("" for all), the claimable-only
// switch and a free-text search.
func NewListParcelsQuery(status string, claimableOnly bool, search string) (ListParcelsQuery, error) {
	filter := ports.ParcelFilter{ClaimableOnly: claimableOnly, Search: search}
	if status != "" {
		st, err := parcel.StatusFromString(status)
		if err != nil {
			return ListParcelsQuery{}, err
		}
		filter.Status = st
	}
	return ListParcelsQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListParcelsQuery) Validate() error {
	return q.guard.Validate(ErrListParcelsQueryIsNotConstructed)
}

func (q ListParcelsQuery) Filter() ports.ParcelFilter { return q.filter }

type GetParcelStatsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetParcelStatsQuery() GetParcelStatsQuery {
	return GetParcelStatsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetParcelStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelStatsQueryIsNotConstructed)
}

// ParcelStatsResponse holds the dashboard counters. Every status appears in
// the maps, zero counts included.
type ParcelStatsResponse struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"byStatus"`
	Claimable       int            `json:"claimable"`
	PickupsByStatus map[string]int `json:"pickupsByStatus"`
}
