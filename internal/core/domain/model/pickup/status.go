package pickup

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// Status is the lifecycle state of a pickup.
//
//	Pending ──complete──> Completed
//	   │
//	   └──────cancel────> Cancelled
//
// Completed and Cancelled are terminal.
type Status int

const (
	Unknown Status = iota
	Pending
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Completed: "COMPLETED",
		Cancelled: "CANCELLED",
	}
}

func Statuses() []Status {
	return []Status{Pending, Completed, Cancelled}
}

func StatusFromString(s string) (Status, error) {
	for _, st := range Statuses() {
		if st.String() == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a pickup status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[Unknown]
}

func (s Status) Validate() error {
	if s != Pending && s != Completed && s != Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsActive reports whether claims of a pickup in this status must be
// reflected on the claimed parcels.
func (s Status) IsActive() bool {
	return s == Pending || s == Completed
}

func (s Status) Complete() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to complete", s),
		)
	}
	return Completed, nil
}

func (s Status) Cancel() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to cancel", s),
		)
	}
	return Cancelled, nil
}
