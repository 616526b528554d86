// Package errs provides the error taxonomy shared by every layer of parceltrack.
//
// Field-level errors describe a single bad input:
//   - ValueIsRequiredError: a mandatory field is blank
//   - ValueIsInvalidError: a field breaks a format rule (e.g. a phone number)
//   - ValueIsOutOfRangeError: a value falls outside its allowed interval
//
// Operation-level errors abort a command with no partial effect:
//   - ValidationError: every field violation found, reported together
//   - ObjectNotFoundError: an identifier resolves to nothing
//   - ConflictError: the operation clashes with another entity's state
//   - InvalidTransitionError: the status machine forbids the change
//   - InvariantViolationError: a caller tried to write a coordinator-owned field
//
// PersistenceError and Anomaly are surfaced without rolling anything back.
//
// Each type follows the same shape: a sentinel (ErrConflict, ...), a struct with
// the details, constructors with and without a cause, Error and Unwrap. Match on
// the sentinel with errors.Is and on the struct with errors.As.
package errs
