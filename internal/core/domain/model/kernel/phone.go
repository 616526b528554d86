package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// PhoneDigits is the exact number of digits a contact phone carries.
const PhoneDigits = 10

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ErrPhoneIsNotConstructed is returned when validating a zero-value Phone.
var ErrPhoneIsNotConstructed = errs.NewValueIsRequiredError("phone must be created via NewPhone")

// Phone is a contact number made of exactly ten ASCII digits, no separators.
type Phone struct {
	value string
	guard guard.ConstructorGuard
}

// NewPhone validates raw after trimming surrounding whitespace. The returned
// error names the field as "phone" so it can be folded into a ValidationError.
func NewPhone(raw string) (Phone, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Phone{}, errs.NewValueIsRequiredError("phone")
	}
	if !phonePattern.MatchString(value) {
		return Phone{}, errs.NewValueIsInvalidErrorWithCause(
			"phone",
			fmt.Errorf("%q must be exactly %d digits", value, PhoneDigits),
		)
	}

	return Phone{value: value, guard: guard.NewConstructorGuard()}, nil
}

func (p Phone) Validate() error {
	return p.guard.Validate(ErrPhoneIsNotConstructed)
}

func (p Phone) String() string {
	return p.value
}

func (p Phone) IsEqual(other Phone) bool {
	return p.value == other.value
}
