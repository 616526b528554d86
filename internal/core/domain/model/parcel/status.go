package parcel

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// Status is the position of a parcel in the delivery pipeline.
//
//	InTransit ──claim──> InDelivery
//	    ^                    │
//	    └──────release───────┘
//	InTransit ──return──> Returned
//
// Claim and release are driven by pickups only; Returned is terminal.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota
	InTransit
	InDelivery
	Returned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		InTransit:  "EN TRANSIT",
		InDelivery: "EN COURS DE LIVRAISON",
		Returned:   "RETOUR",
	}
}

// Statuses lists the valid statuses in pipeline order.
func Statuses() []Status {
	return []Status{InTransit, InDelivery, Returned}
}

// StatusFromString parses the label produced by String.
func StatusFromString(s string) (Status, error) {
	for _, st := range Statuses() {
		if st.String() == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a parcel status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[Unknown]
}

func (s Status) Validate() error {
	if s != InTransit && s != InDelivery && s != Returned {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// ValidateCanHavePickup checks that a pickup reference is present exactly when
// the parcel is out for delivery.
func (s Status) ValidateCanHavePickup(hasPickup bool) error {
	if hasPickup && s != InDelivery {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a pickup", s),
		)
	}
	if !hasPickup && s == InDelivery {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status without a pickup", s),
		)
	}
	return nil
}

// Claim moves InTransit to InDelivery.
func (s Status) Claim() (Status, error) {
	if s != InTransit {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to claim", s),
		)
	}
	return InDelivery, nil
}

// Release moves InDelivery back to InTransit.
func (s Status) Release() (Status, error) {
	if s != InDelivery {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to release", s),
		)
	}
	return InTransit, nil
}

// Return moves InTransit to Returned.
func (s Status) Return() (Status, error) {
	if s != InTransit {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to return", s),
		)
	}
	return Returned, nil
}
