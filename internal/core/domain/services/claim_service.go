package services

import (
	"errors"
	"slices"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/pkg/errs"
)

// ErrClaimSetMismatch is returned when the parcels handed to Claim do not line
// up with the pickup's claim list.
var ErrClaimSetMismatch = errors.New("parcels do not match the pickup claim list")

// ClaimService enforces that a parcel belongs to at most one active pickup.
//
//	svc := services.NewClaimService()
//	if err := svc.Claim(newPickup, parcels); err != nil {
//	    return err // nothing was mutated
//	}
type ClaimService struct{}

func NewClaimService() ClaimService {
	return ClaimService{}
}

// Claim attaches every parcel to pk. parcels must follow pk.ParcelIDs()
// position by position; a nil entry stands for a parcel that does not exist.
//
// All parcels are checked before the first one is mutated, so a ConflictError
// naming the first offending parcel leaves every parcel untouched.
func (s ClaimService) Claim(pk *pickup.Pickup, parcels []*parcel.Parcel) error {
	if err := pk.Validate(); err != nil {
		return err
	}

	ids := pk.ParcelIDs()
	if len(ids) != len(parcels) {
		return ErrClaimSetMismatch
	}

	for i, id := range ids {
		p := parcels[i]
		if p == nil {
			return errs.NewConflictError(parcel.EntityName, id.String(), "does not exist")
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if !p.ID().IsEqual(id) {
			return ErrClaimSetMismatch
		}
		if err := p.CanBeClaimed(); err != nil {
			return err
		}
	}

	for _, p := range parcels {
		if err := p.Claim(pk.ID()); err != nil {
			return err
		}
	}

	return nil
}

// ReleaseResult lists what Release changed and what it had to skip.
type ReleaseResult struct {
	Released  []*parcel.Parcel
	Anomalies []errs.Anomaly
}

// Release cancels pk and puts each claimed parcel back in transit, visiting
// parcels in ascending id order. lookup returns nil for a parcel that no
// longer exists; such parcels, and parcels no longer referencing pk, are
// skipped and reported as anomalies instead of failing the cancellation.
func (s ClaimService) Release(pk *pickup.Pickup, lookup func(kernel.UUID) *parcel.Parcel) (ReleaseResult, error) {
	var result ReleaseResult

	if err := pk.Validate(); err != nil {
		return result, err
	}
	if err := pk.ValidateCancel(); err != nil {
		return result, err
	}

	ids := pk.ParcelIDs()
	slices.SortFunc(ids, kernel.UUID.Compare)

	for _, id := range ids {
		p := lookup(id)
		if p == nil {
			result.Anomalies = append(result.Anomalies, errs.NewAnomaly(
				errs.AnomalyMissingParcel, id.String(), pk.ID().String(), "claimed parcel no longer exists"))
			continue
		}

		if err := p.Release(pk.ID()); err != nil {
			result.Anomalies = append(result.Anomalies, errs.NewAnomaly(
				errs.AnomalyUnreflectedClaim, id.String(), pk.ID().String(), err.Error()))
			continue
		}
		result.Released = append(result.Released, p)
	}

	if err := pk.Cancel(); err != nil {
		return ReleaseResult{}, err
	}

	return result, nil
}

// Audit cross-checks both collections and returns every broken reference it
// finds. Ordering follows the input: parcel findings first, then pickups.
func (s ClaimService) Audit(parcels []*parcel.Parcel, pickups []*pickup.Pickup) []errs.Anomaly {
	var anomalies []errs.Anomaly

	pickupsByID := make(map[kernel.UUID]*pickup.Pickup, len(pickups))
	for _, pk := range pickups {
		pickupsByID[pk.ID()] = pk
	}

	parcelsByID := make(map[kernel.UUID]*parcel.Parcel, len(parcels))
	for _, p := range parcels {
		parcelsByID[p.ID()] = p

		ref := p.PickupRef()
		if ref == nil {
			continue
		}

		pk, ok := pickupsByID[*ref]
		switch {
		case !ok:
			anomalies = append(anomalies, errs.NewAnomaly(errs.AnomalyDanglingReference,
				p.ID().String(), ref.String(), "referenced pickup does not exist"))
		case !pk.Status().IsActive():
			anomalies = append(anomalies, errs.NewAnomaly(errs.AnomalyDanglingReference,
				p.ID().String(), ref.String(), "referenced pickup is "+pk.Status().String()))
		case !pk.Claims(p.ID()):
			anomalies = append(anomalies, errs.NewAnomaly(errs.AnomalyDanglingReference,
				p.ID().String(), ref.String(), "referenced pickup does not list the parcel"))
		}
	}

	activeClaims := make(map[kernel.UUID]kernel.UUID)
	for _, pk := range pickups {
		if !pk.Status().IsActive() {
			continue
		}

		for _, id := range pk.ParcelIDs() {
			if owner, taken := activeClaims[id]; taken {
				anomalies = append(anomalies, errs.NewAnomaly(errs.AnomalyDoubleClaim,
					id.String(), pk.ID().String(), "also claimed by pickup "+owner.String()))
			} else {
				activeClaims[id] = pk.ID()
			}

			p, ok := parcelsByID[id]
			switch {
			case !ok:
				anomalies = append(anomalies, errs.NewAnomaly(errs.AnomalyMissingParcel,
					id.String(), pk.ID().String(), "claimed parcel does not exist"))
			case !p.IsClaimedBy(pk.ID()):
				anomalies = append(anomalies, errs.NewAnomaly(errs.AnomalyUnreflectedClaim,
					id.String(), pk.ID().String(), "parcel does not reference the pickup"))
			}
		}
	}

	return anomalies
}
