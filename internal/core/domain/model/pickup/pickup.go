package pickup

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// EntityName is used when reporting conflicts and transitions on pickups.
const EntityName = "pickup"

var ErrPickupIsNotConstructed = errors.New("Pickup must be created via NewPickup or RestorePickup")

// Details carries the caller-supplied attributes of a pickup.
type Details struct {
	SupplierName string
	City         string
	Phone        string
	Address      string
	Notes        string
}

// Patch is a partial update of the descriptive fields. Status and ParcelIDs
// are present only so that writing them can be rejected.
type Patch struct {
	SupplierName *string
	City         *string
	Phone        *string
	Address      *string
	Notes        *string

	Status    *string
	ParcelIDs []string
}

// Pickup is the aggregate root for a batch collection.
//
// Invariants:
//   - parcelIDs is non-empty, duplicate-free and keeps insertion order
//   - parcelIDs never changes after creation
//   - status leaves Pending at most once
type Pickup struct {
	id           kernel.UUID
	supplierName string
	city         string
	phone        kernel.Phone
	address      string
	notes        string
	parcelIDs    []kernel.UUID
	status       Status
	createdAt    time.Time
	guard        guard.ConstructorGuard
}

// NewPickup creates a Pending pickup claiming parcelIDs. It validates the
// pickup itself; whether the parcels may be claimed is the coordinator's call.
func NewPickup(id kernel.UUID, details Details, parcelIDs []kernel.UUID, createdAt time.Time) (*Pickup, error) {
	p := &Pickup{
		status:    Pending,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.applyDetails(details),
		p.setParcelIDs(parcelIDs),
	); err != nil {
		return nil, errs.NewValidationError(err)
	}

	return p, nil
}

// RestorePickup rebuilds a pickup from storage in any status.
func RestorePickup(
	id kernel.UUID,
	details Details,
	parcelIDs []kernel.UUID,
	status Status,
	createdAt time.Time,
) (*Pickup, error) {
	p := &Pickup{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.applyDetails(details),
		p.setParcelIDs(parcelIDs),
		p.setStatus(status),
	); err != nil {
		return nil, errs.NewValidationError(err)
	}

	return p, nil
}

func (p *Pickup) Validate() error {
	if p == nil {
		return ErrPickupIsNotConstructed
	}
	return p.guard.Validate(ErrPickupIsNotConstructed)
}

func (p *Pickup) IsEqual(other *Pickup) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Pickup) ID() kernel.UUID      { return p.id }
func (p *Pickup) SupplierName() string { return p.supplierName }
func (p *Pickup) City() string         { return p.city }
func (p *Pickup) Phone() kernel.Phone  { return p.phone }
func (p *Pickup) Address() string      { return p.address }
func (p *Pickup) Notes() string        { return p.notes }
func (p *Pickup) Status() Status       { return p.status }
func (p *Pickup) CreatedAt() time.Time { return p.createdAt }

// ParcelIDs returns a copy of the claim list in insertion order.
func (p *Pickup) ParcelIDs() []kernel.UUID {
	return slices.Clone(p.parcelIDs)
}

// Claims reports whether parcelID is in the claim list.
func (p *Pickup) Claims(parcelID kernel.UUID) bool {
	return slices.ContainsFunc(p.parcelIDs, parcelID.IsEqual)
}

func (p *Pickup) Details() Details {
	return Details{
		SupplierName: p.supplierName,
		City:         p.city,
		Phone:        p.phone.String(),
		Address:      p.address,
		Notes:        p.notes,
	}
}

func (p *Pickup) Clone() *Pickup {
	c := *p
	c.parcelIDs = slices.Clone(p.parcelIDs)
	return &c
}

// Edit applies a partial update to the descriptive fields, all or nothing.
func (p *Pickup) Edit(patch Patch) error {
	var ownedErr error
	if patch.Status != nil {
		ownedErr = errs.NewInvariantViolationErrorWithCause("status", errors.New("use complete or cancel"))
	}
	if patch.ParcelIDs != nil {
		ownedErr = errors.Join(ownedErr,
			errs.NewInvariantViolationErrorWithCause("parcelIds", errors.New("claims are fixed at creation")))
	}
	if ownedErr != nil {
		return ownedErr
	}

	details := p.Details()
	if patch.SupplierName != nil {
		details.SupplierName = *patch.SupplierName
	}
	if patch.City != nil {
		details.City = *patch.City
	}
	if patch.Phone != nil {
		details.Phone = *patch.Phone
	}
	if patch.Address != nil {
		details.Address = *patch.Address
	}
	if patch.Notes != nil {
		details.Notes = *patch.Notes
	}

	edited := p.Clone()
	if err := edited.applyDetails(details); err != nil {
		return errs.NewValidationError(err)
	}

	*p = *edited
	return nil
}

// Complete moves a Pending pickup to Completed.
func (p *Pickup) Complete() error {
	next, err := p.status.Complete()
	if err != nil {
		return errs.NewInvalidTransitionError(EntityName, p.id.String(), p.status.String(), Completed.String())
	}
	p.status = next
	return nil
}

// Cancel moves a Pending pickup to Cancelled. Releasing the claimed parcels is
// the coordinator's job; the claim list is kept for audit.
func (p *Pickup) Cancel() error {
	next, err := p.status.Cancel()
	if err != nil {
		return errs.NewInvalidTransitionError(EntityName, p.id.String(), p.status.String(), Cancelled.String())
	}
	p.status = next
	return nil
}

// ValidateCancel reports whether Cancel would succeed, without side effects.
func (p *Pickup) ValidateCancel() error {
	if _, err := p.status.Cancel(); err != nil {
		return errs.NewInvalidTransitionError(EntityName, p.id.String(), p.status.String(), Cancelled.String())
	}
	return nil
}

// ValidateDelete allows deletion only once the pickup is Cancelled and its
// claims have been released.
func (p *Pickup) ValidateDelete() error {
	if p.status != Cancelled {
		return errs.NewConflictError(EntityName, p.id.String(), "only cancelled pickups can be deleted, status is "+p.status.String())
	}
	return nil
}

func (p *Pickup) applyDetails(d Details) error {
	return errors.Join(
		setRequired(&p.supplierName, "supplierName", d.SupplierName),
		setRequired(&p.city, "city", d.City),
		setRequired(&p.address, "address", d.Address),
		p.setPhone(d.Phone),
		p.setNotes(d.Notes),
	)
}

func (p *Pickup) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	p.id = id
	return nil
}

func (p *Pickup) setPhone(v string) error {
	phone, err := kernel.NewPhone(v)
	if err != nil {
		return err
	}
	p.phone = phone
	return nil
}

func (p *Pickup) setNotes(v string) error {
	p.notes = strings.TrimSpace(v)
	return nil
}

func (p *Pickup) setParcelIDs(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("parcelIds", errors.New("at least one parcel must be claimed"))
	}

	seen := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("parcelIds", err)
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("parcelIds", fmt.Errorf("%s is listed twice", id))
		}
		seen[id] = struct{}{}
	}

	p.parcelIDs = slices.Clone(ids)
	return nil
}

func (p *Pickup) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.status = status
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
