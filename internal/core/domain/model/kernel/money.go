package kernel

import (
	"errors"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed is returned when validating a zero-value Money.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or MoneyFromString")

// Money is a non-negative monetary amount. Arithmetic and comparison go through
// shopspring/decimal so prices never pass through float64.
type Money struct { //nolint:recvcheck // pointer receiver only on the private setter
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney rejects negative amounts with a ValueIsOutOfRangeError on "price".
func NewMoney(amount decimal.Decimal) (Money, error) {
	m := Money{guard: guard.NewConstructorGuard()}
	if err := m.setAmount(amount); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MoneyFromString parses a decimal literal such as "149.90".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("price", err)
	}
	return NewMoney(amount)
}

// MustMoney is meant for fixtures and seed data built from literals.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

func (m Money) IsEqual(other Money) (bool, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return m.amount.Equal(other.amount), nil
}

func (m *Money) setAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsOutOfRangeError("price", amount.String(), 0, "unbounded")
	}
	m.amount = amount
	return nil
}
