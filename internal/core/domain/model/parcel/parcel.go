package parcel

import (
	"errors"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// EntityName is used when reporting conflicts and transitions on parcels.
const EntityName = "parcel"

var ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel")

// Details carries the caller-supplied attributes of a parcel. It is raw input:
// NewParcel and Edit validate it and report every violated field at once.
type Details struct {
	ClientName   string
	ProductName  string
	City         string
	Notes        string
	Price        decimal.Decimal
	AllowOpening bool
	Phone        string
	Address      string
}

// Patch is a partial update. Nil fields are left untouched. Status and
// PickupRef exist so that an attempt to write them can be rejected explicitly.
type Patch struct {
	ClientName   *string
	ProductName  *string
	City         *string
	Notes        *string
	Price        *decimal.Decimal
	AllowOpening *bool
	Phone        *string
	Address      *string

	Status    *string
	PickupRef *string
}

// Parcel is the aggregate root for a single physical item.
//
// Invariants:
//   - pickupRef is set exactly when status is InDelivery
//   - client name, product name, city, address and phone are never blank
//   - price is never negative
type Parcel struct {
	id           kernel.UUID
	clientName   string
	productName  string
	city         string
	notes        string
	price        kernel.Money
	allowOpening bool
	phone        kernel.Phone
	address      string
	status       Status
	createdAt    time.Time
	pickupRef    *kernel.UUID
	guard        guard.ConstructorGuard
}

// NewParcel creates an unclaimed parcel in InTransit. Every invalid field is
// reported in a single *errs.ValidationError.
func NewParcel(id kernel.UUID, details Details, createdAt time.Time) (*Parcel, error) {
	p := &Parcel{
		status:    InTransit,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.applyDetails(details),
	); err != nil {
		return nil, errs.NewValidationError(err)
	}

	return p, nil
}

// RestoreParcel rebuilds a parcel from storage, status and pickup reference
// included. It enforces the same invariants as NewParcel.
func RestoreParcel(
	id kernel.UUID,
	details Details,
	status Status,
	pickupRef *kernel.UUID,
	createdAt time.Time,
) (*Parcel, error) {
	p := &Parcel{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.applyDetails(details),
		p.setStatus(status, pickupRef),
	); err != nil {
		return nil, errs.NewValidationError(err)
	}

	return p, nil
}

// CheckDetails returns every field violation in d joined into one error, or
// nil. It lets adapters merge their own input problems with the aggregate's
// rules before reporting a single ValidationError.
func CheckDetails(d Details) error {
	return new(Parcel).applyDetails(d)
}

func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Parcel) ID() kernel.UUID         { return p.id }
func (p *Parcel) ClientName() string      { return p.clientName }
func (p *Parcel) ProductName() string     { return p.productName }
func (p *Parcel) City() string            { return p.city }
func (p *Parcel) Notes() string           { return p.notes }
func (p *Parcel) Price() kernel.Money     { return p.price }
func (p *Parcel) AllowOpening() bool      { return p.allowOpening }
func (p *Parcel) Phone() kernel.Phone     { return p.phone }
func (p *Parcel) Address() string         { return p.address }
func (p *Parcel) Status() Status          { return p.status }
func (p *Parcel) CreatedAt() time.Time    { return p.createdAt }
func (p *Parcel) PickupRef() *kernel.UUID { return cloneRef(p.pickupRef) }

// Details returns the descriptive attributes in their input form.
func (p *Parcel) Details() Details {
	return Details{
		ClientName:   p.clientName,
		ProductName:  p.productName,
		City:         p.city,
		Notes:        p.notes,
		Price:        p.price.Decimal(),
		AllowOpening: p.allowOpening,
		Phone:        p.phone.String(),
		Address:      p.address,
	}
}

// IsClaimed reports whether a pickup currently references the parcel.
func (p *Parcel) IsClaimed() bool {
	return p.pickupRef != nil
}

// IsClaimedBy reports whether pickupID is the parcel's current pickup.
func (p *Parcel) IsClaimedBy(pickupID kernel.UUID) bool {
	return p.pickupRef != nil && p.pickupRef.IsEqual(pickupID)
}

// Clone returns an independent copy, safe to hand out of a store.
func (p *Parcel) Clone() *Parcel {
	c := *p
	c.pickupRef = cloneRef(p.pickupRef)
	return &c
}

// Edit applies a partial update. The update is all-or-nothing: on any
// violation the parcel is unchanged. Writing Status or PickupRef is an
// InvariantViolationError; field problems come back as a ValidationError.
func (p *Parcel) Edit(patch Patch) error {
	if err := errors.Join(
		rejectOwned("status", patch.Status),
		rejectOwned("pickupRef", patch.PickupRef),
	); err != nil {
		return err
	}

	details := p.Details()
	if patch.ClientName != nil {
		details.ClientName = *patch.ClientName
	}
	if patch.ProductName != nil {
		details.ProductName = *patch.ProductName
	}
	if patch.City != nil {
		details.City = *patch.City
	}
	if patch.Notes != nil {
		details.Notes = *patch.Notes
	}
	if patch.Price != nil {
		details.Price = *patch.Price
	}
	if patch.AllowOpening != nil {
		details.AllowOpening = *patch.AllowOpening
	}
	if patch.Phone != nil {
		details.Phone = *patch.Phone
	}
	if patch.Address != nil {
		details.Address = *patch.Address
	}

	edited := p.Clone()
	if err := edited.applyDetails(details); err != nil {
		return errs.NewValidationError(err)
	}

	*p = *edited
	return nil
}

// CanBeClaimed returns a ConflictError unless the parcel is InTransit and
// referenced by no pickup.
func (p *Parcel) CanBeClaimed() error {
	if p.pickupRef != nil {
		return errs.NewConflictError(EntityName, p.id.String(), "already claimed by pickup "+p.pickupRef.String())
	}
	if p.status != InTransit {
		return errs.NewConflictError(EntityName, p.id.String(), "status is "+p.status.String())
	}
	return nil
}

// Claim attaches the parcel to pickupID and moves it to InDelivery.
func (p *Parcel) Claim(pickupID kernel.UUID) error {
	if err := pickupID.Validate(); err != nil {
		return err
	}
	if err := p.CanBeClaimed(); err != nil {
		return err
	}

	next, err := p.status.Claim()
	if err != nil {
		return errs.NewInvalidTransitionError(EntityName, p.id.String(), p.status.String(), InDelivery.String())
	}

	p.status = next
	p.pickupRef = &pickupID
	return nil
}

// Release detaches the parcel from pickupID and puts it back InTransit. It
// fails with a ConflictError when pickupID is not the parcel's current pickup.
func (p *Parcel) Release(pickupID kernel.UUID) error {
	if !p.IsClaimedBy(pickupID) {
		return errs.NewConflictError(EntityName, p.id.String(), "not claimed by pickup "+pickupID.String())
	}

	next, err := p.status.Release()
	if err != nil {
		return errs.NewInvalidTransitionError(EntityName, p.id.String(), p.status.String(), InTransit.String())
	}

	p.status = next
	p.pickupRef = nil
	return nil
}

// Return marks an unclaimed InTransit parcel as sent back to its supplier.
func (p *Parcel) Return() error {
	if p.pickupRef != nil {
		return errs.NewConflictError(EntityName, p.id.String(), "claimed by pickup "+p.pickupRef.String())
	}

	next, err := p.status.Return()
	if err != nil {
		return errs.NewInvalidTransitionError(EntityName, p.id.String(), p.status.String(), Returned.String())
	}

	p.status = next
	return nil
}

// ValidateDelete refuses deletion while any pickup references the parcel.
func (p *Parcel) ValidateDelete() error {
	if p.pickupRef != nil {
		return errs.NewConflictError(EntityName, p.id.String(), "referenced by pickup "+p.pickupRef.String())
	}
	return nil
}

func (p *Parcel) applyDetails(d Details) error {
	return errors.Join(
		p.setClientName(d.ClientName),
		p.setProductName(d.ProductName),
		p.setCity(d.City),
		p.setAddress(d.Address),
		p.setPhone(d.Phone),
		p.setPrice(d.Price),
		p.setNotes(d.Notes),
		p.setAllowOpening(d.AllowOpening),
	)
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	p.id = id
	return nil
}

func (p *Parcel) setClientName(v string) error {
	return setRequired(&p.clientName, "clientName", v)
}

func (p *Parcel) setProductName(v string) error {
	return setRequired(&p.productName, "productName", v)
}

func (p *Parcel) setCity(v string) error {
	return setRequired(&p.city, "city", v)
}

func (p *Parcel) setAddress(v string) error {
	return setRequired(&p.address, "address", v)
}

func (p *Parcel) setNotes(v string) error {
	p.notes = strings.TrimSpace(v)
	return nil
}

func (p *Parcel) setAllowOpening(v bool) error {
	p.allowOpening = v
	return nil
}

func (p *Parcel) setPhone(v string) error {
	phone, err := kernel.NewPhone(v)
	if err != nil {
		return err
	}
	p.phone = phone
	return nil
}

func (p *Parcel) setPrice(v decimal.Decimal) error {
	price, err := kernel.NewMoney(v)
	if err != nil {
		return err
	}
	p.price = price
	return nil
}

func (p *Parcel) setStatus(status Status, pickupRef *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHavePickup(pickupRef != nil); err != nil {
		return err
	}
	if pickupRef != nil {
		if err := pickupRef.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("pickupRef", err)
		}
	}

	p.status = status
	p.pickupRef = cloneRef(pickupRef)
	return nil
}

func setRequired(dst *string, field, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errs.NewValueIsRequiredError(field)
	}
	*dst = v
	return nil
}

func rejectOwned(field string, v *string) error {
	if v == nil {
		return nil
	}
	return errs.NewInvariantViolationErrorWithCause(field, errors.New("only pickups may change this field"))
}

func cloneRef(ref *kernel.UUID) *kernel.UUID {
	if ref == nil {
		return nil
	}
	c := *ref
	return &c
}
