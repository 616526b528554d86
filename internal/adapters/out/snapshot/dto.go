// Package snapshot is the durability adapter: it turns both collections into
// JSON snapshots, writes them to a ports.SnapshotStore after every committed
// mutation and reads them back on start-up.
package snapshot

import (
	"encoding/json"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"

	"github.com/shopspring/decimal"
)

// FormatVersion is written into every envelope; other versions are refused.
const FormatVersion = 1

// Envelope wraps the ordered records of one collection.
type Envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	Records json.RawMessage `json:"records"`
}

// ParcelRecord is the stored form of a parcel.
type ParcelRecord struct {
	ID           string          `json:"id"`
	ClientName   string          `json:"clientName"`
	ProductName  string          `json:"productName"`
	City         string          `json:"city"`
	Notes        string          `json:"notes"`
	Price        decimal.Decimal `json:"price"`
	AllowOpening bool            `json:"allowOpening"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	PickupRef    *string         `json:"pickupRef,omitempty"`
}

// PickupRecord is the stored form of a pickup.
type PickupRecord struct {
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

func parcelFromDomain(p *parcel.Parcel) ParcelRecord {
	var ref *string
	if r := p.PickupRef(); r != nil {
		s := r.String()
		ref = &s
	}

	return ParcelRecord{
		ID:           p.ID().String(),
		ClientName:   p.ClientName(),
		ProductName:  p.ProductName(),
		City:         p.City(),
		Notes:        p.Notes(),
		Price:        p.Price().Decimal(),
		AllowOpening: p.AllowOpening(),
		Phone:        p.Phone().String(),
		Address:      p.Address(),
		Status:       p.Status().String(),
		CreatedAt:    p.CreatedAt().UTC(),
		PickupRef:    ref,
	}
}

func parcelToDomain(r ParcelRecord) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromString(r.ID)
	if err != nil {
		return nil, err
	}

	status, err := parcel.StatusFromString(r.Status)
	if err != nil {
		return nil, err
	}

	var ref *kernel.UUID
	if r.PickupRef != nil {
		parsed, refErr := kernel.UUIDFromString(*r.PickupRef)
		if refErr != nil {
			return nil, refErr
		}
		ref = &parsed
	}

	return parcel.RestoreParcel(id, parcel.Details{
		ClientName:   r.ClientName,
		ProductName:  r.ProductName,
		City:         r.City,
		Notes:        r.Notes,
		Price:        r.Price,
		AllowOpening: r.AllowOpening,
		Phone:        r.Phone,
		Address:      r.Address,
	}, status, ref, r.CreatedAt)
}

func pickupFromDomain(p *pickup.Pickup) PickupRecord {
	ids := p.ParcelIDs()
	parcelIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		parcelIDs = append(parcelIDs, id.String())
	}

	return PickupRecord{
		ID:           p.ID().String(),
		SupplierName: p.SupplierName(),
		City:         p.City(),
		Phone:        p.Phone().String(),
		Address:      p.Address(),
		Notes:        p.Notes(),
		ParcelIDs:    parcelIDs,
		Status:       p.Status().String(),
		CreatedAt:    p.CreatedAt().UTC(),
	}
}

func pickupToDomain(r PickupRecord) (*pickup.Pickup, error) {
	id, err := kernel.UUIDFromString(r.ID)
	if err != nil {
		return nil, err
	}

	status, err := pickup.StatusFromString(r.Status)
	if err != nil {
		return nil, err
	}

	parcelIDs := make([]kernel.UUID, 0, len(r.ParcelIDs))
	for _, raw := range r.ParcelIDs {
		pid, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return nil, idErr
		}
		parcelIDs = append(parcelIDs, pid)
	}

	return pickup.RestorePickup(id, pickup.Details{
		SupplierName: r.SupplierName,
		City:         r.City,
		Phone:        r.Phone,
		Address:      r.Address,
		Notes:        r.Notes,
	}, parcelIDs, status, r.CreatedAt)
}
