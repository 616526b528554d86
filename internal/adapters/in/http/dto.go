package http

import (
	"errors"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type NewParcel struct {
	ClientName   string           `json:"clientName"`
	ProductName  string           `json:"productName"`
	City         string           `json:"city"`
	Notes        string           `json:"notes"`
	Price        *decimal.Decimal `json:"price"`
	AllowOpening bool             `json:"allowOpening"`
	Phone        string           `json:"phone"`
	Address      string           `json:"address"`
}

// details converts the body. An absent price is reported together with every
// other field violation.
func (p NewParcel) details() (parcel.Details, error) {
	d := parcel.Details{
		ClientName:   p.ClientName,
		ProductName:  p.ProductName,
		City:         p.City,
		Notes:        p.Notes,
		AllowOpening: p.AllowOpening,
		Phone:        p.Phone,
		Address:      p.Address,
	}
	if p.Price == nil {
		return d, errs.NewValidationError(errors.Join(
			errs.NewValueIsRequiredError("price"),
			parcel.CheckDetails(d),
		))
	}

	d.Price = *p.Price
	return d, nil
}

type ParcelPatch struct {
	ClientName   *string          `json:"clientName,omitempty"`
	ProductName  *string          `json:"productName,omitempty"`
	City         *string          `json:"city,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	AllowOpening *bool            `json:"allowOpening,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Address      *string          `json:"address,omitempty"`
	Status       *string          `json:"status,omitempty"`
	PickupRef    *string          `json:"pickupRef,omitempty"`
}

func (p ParcelPatch) patch() parcel.Patch {
	return parcel.Patch{
		ClientName:   p.ClientName,
		ProductName:  p.ProductName,
		City:         p.City,
		Notes:        p.Notes,
		Price:        p.Price,
		AllowOpening: p.AllowOpening,
		Phone:        p.Phone,
		Address:      p.Address,
		Status:       p.Status,
		PickupRef:    p.PickupRef,
	}
}

type NewPickup struct {
	SupplierName string               `json:"supplierName"`
	City         string               `json:"city"`
	Phone        string               `json:"phone"`
	Address      string               `json:"address"`
	Notes        string               `json:"notes"`
	ParcelIDs    []openapi_types.UUID `json:"parcelIds"`
}

func (p NewPickup) details() pickup.Details {
	return pickup.Details{
		SupplierName: p.SupplierName,
		City:         p.City,
		Phone:        p.Phone,
		Address:      p.Address,
		Notes:        p.Notes,
	}
}

type PickupPatch struct {
	SupplierName *string  `json:"supplierName,omitempty"`
	City         *string  `json:"city,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	Status       *string  `json:"status,omitempty"`
	ParcelIDs    []string `json:"parcelIds,omitempty"`
}

func (p PickupPatch) patch() pickup.Patch {
	return pickup.Patch{
		SupplierName: p.SupplierName,
		City:         p.City,
		Phone:        p.Phone,
		Address:      p.Address,
		Notes:        p.Notes,
		Status:       p.Status,
		ParcelIDs:    p.ParcelIDs,
	}
}

type CancelledPickup struct {
	Pickup            queries.PickupResponse `json:"pickup"`
	ReleasedParcelIDs []string               `json:"releasedParcelIds"`
	Anomalies         []errs.Anomaly         `json:"anomalies"`
}

func newCancelledPickup(result commands.CancelPickupResult) CancelledPickup {
	released := make([]string, 0, len(result.Released))
	for _, p := range result.Released {
		released = append(released, p.ID().String())
	}
	anomalies := result.Anomalies
	if anomalies == nil {
		anomalies = []errs.Anomaly{}
	}

	return CancelledPickup{
		Pickup:            queries.NewPickupResponse(result.Pickup),
		ReleasedParcelIDs: released,
		Anomalies:         anomalies,
	}
}

type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}
