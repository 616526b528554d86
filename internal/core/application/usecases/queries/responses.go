// Package queries contains the read side: lookups, listings and reports over
// parcels and pickups. Queries never change state and never open a unit of
// work; they read through lock-per-record readers.
package queries

import (
	"time"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
)

// ParcelResponse is the read model of a parcel.
type ParcelResponse struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"clientName"`
	ProductName  string    `json:"productName"`
	City         string    `json:"city"`
	Notes        string    `json:"notes"`
	Price        string    `json:"price"`
	AllowOpening bool      `json:"allowOpening"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	PickupRef    *string   `json:"pickupRef,omitempty"`
}

func NewParcelResponse(p *parcel.Parcel) ParcelResponse {
	var ref *string
	if r := p.PickupRef(); r != nil {
		s := r.String()
		ref = &s
	}

	return ParcelResponse{
		ID:           p.ID().String(),
		ClientName:   p.ClientName(),
		ProductName:  p.ProductName(),
		City:         p.City(),
		Notes:        p.Notes(),
		Price:        p.Price().String(),
		AllowOpening: p.AllowOpening(),
		Phone:        p.Phone().String(),
		Address:      p.Address(),
		Status:       p.Status().String(),
		CreatedAt:    p.CreatedAt(),
		PickupRef:    ref,
	}
}

// PickupResponse is the read model of a pickup.
type PickupResponse struct {
	ID           string    `json:"id"`
	SupplierName string    `json:"supplierName"`
	City         string    `json:"city"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Notes        string    `json:"notes"`
	ParcelIDs    []string  `json:"parcelIds"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewPickupResponse(p *pickup.Pickup) PickupResponse {
	ids := p.ParcelIDs()
	parcelIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		parcelIDs = append(parcelIDs, id.String())
	}

	return PickupResponse{
		ID:           p.ID().String(),
		SupplierName: p.SupplierName(),
		City:         p.City(),
		Phone:        p.Phone().String(),
		Address:      p.Address(),
		Notes:        p.Notes(),
		ParcelIDs:    parcelIDs,
		Status:       p.Status().String(),
		CreatedAt:    p.CreatedAt(),
	}
}
