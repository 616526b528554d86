package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrValueIsRequired    = errors.New("value is required")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrPersistence        = errors.New("persistence failed")
	ErrConsistencyAnomaly = errors.New("consistency anomaly")
)

const causeSeparator = " (cause: "

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%s", v), "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return msg + causeSeparator + sanitize(cause.Error()) + ")"
}

// ObjectNotFoundError reports a lookup by identifier that matched nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return withCause(
			fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID)),
			e.Cause,
		)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a field whose value breaks a format or domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside the closed interval [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(
		fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
			ErrValueIsInvalid, sanitize(fmt.Sprint(e.Value)), e.ParamName, e.Min, e.Max),
		e.Cause,
	)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing or blank mandatory field.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValidationError collects every field violation found while building or
// editing an entity. Callers receive all of them at once, never just the first.
type ValidationError struct {
	Violations []error
}

// NewValidationError flattens err (usually the result of errors.Join over
// field setters) into a ValidationError. It returns nil when err is nil.
func NewValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	if existing, ok := err.(*ValidationError); ok {
		return existing
	}

	return &ValidationError{Violations: flatten(err)}
}

func flatten(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	var out []error
	for _, e := range joined.Unwrap() {
		if e != nil {
			out = append(out, flatten(e)...)
		}
	}
	return out
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, sanitize(v.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrValidation}, e.Violations...)
}

// Fields lists the parameter names of the violations in reporting order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, FieldOf(v))
	}
	return fields
}

// FieldOf returns the parameter name carried by a field-level error, or an
// empty string when err carries none.
func FieldOf(err error) string {
	var (
		required *ValueIsRequiredError
		invalid  *ValueIsInvalidError
		rng      *ValueIsOutOfRangeError
		inv      *InvariantViolationError
	)
	switch {
	case errors.As(err, &required):
		return required.ParamName
	case errors.As(err, &invalid):
		return invalid.ParamName
	case errors.As(err, &rng):
		return rng.ParamName
	case errors.As(err, &inv):
		return inv.ParamName
	default:
		return ""
	}
}

// ConflictError reports an operation that cannot proceed given the current
// state of another entity, e.g. claiming an already claimed parcel.
type ConflictError struct {
	Entity string
	ID     any
	Reason string
}

func NewConflictError(entity string, id any, reason string) *ConflictError {
	return &ConflictError{Entity: entity, ID: id, Reason: reason}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", ErrConflict, e.Entity, sanitize(e.ID), e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// InvalidTransitionError reports a status change the state machine forbids.
type InvalidTransitionError struct {
	Entity string
	ID     any
	From   string
	To     string
}

func NewInvalidTransitionError(entity string, id any, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, ID: id, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s %s from %s to %s", ErrInvalidTransition, e.Entity, sanitize(e.ID), e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvariantViolationError reports an attempt to write a coordinator-owned field
// from outside the coordinator.
type InvariantViolationError struct {
	ParamName string
	Cause     error
}

func NewInvariantViolationErrorWithCause(paramName string, cause error) *InvariantViolationError {
	return &InvariantViolationError{ParamName: paramName, Cause: cause}
}

func (e *InvariantViolationError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrInvariantViolation, e.ParamName), e.Cause)
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}

// PersistenceError reports a failed read or write against durable storage.
// Both the sentinel and the underlying cause are reachable via errors.Is.
type PersistenceError struct {
	Operation string
	Cause     error
}

func NewPersistenceError(operation string, cause error) *PersistenceError {
	return &PersistenceError{Operation: operation, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrPersistence, e.Operation), e.Cause)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Cause}
}

// AnomalyKind classifies a cross-collection inconsistency.
type AnomalyKind string

const (
	AnomalyMissingParcel     AnomalyKind = "missing_parcel"
	AnomalyDanglingReference AnomalyKind = "dangling_reference"
	AnomalyUnreflectedClaim  AnomalyKind = "unreflected_claim"
	AnomalyDoubleClaim       AnomalyKind = "double_claim"
)

// Anomaly describes an inconsistency that is recorded and surfaced but never
// aborts the operation that found it.
type Anomaly struct {
	Kind     AnomalyKind `json:"kind"`
	ParcelID string      `json:"parcelId,omitempty"`
	PickupID string      `json:"pickupId,omitempty"`
	Detail   string      `json:"detail"`
}

func NewAnomaly(kind AnomalyKind, parcelID, pickupID, detail string) Anomaly {
	return Anomaly{Kind: kind, ParcelID: parcelID, PickupID: pickupID, Detail: detail}
}

func (a Anomaly) Error() string {
	return fmt.Sprintf("%s: %s: parcel %s, pickup %s: %s",
		ErrConsistencyAnomaly, a.Kind, a.ParcelID, a.PickupID, sanitize(a.Detail))
}

func (a Anomaly) Unwrap() error {
	return ErrConsistencyAnomaly
}
