// Package guard marks values that were built by their constructor so a zero
// value can be told apart from a real one.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes no
// error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands, queries and value objects. Only
// NewConstructorGuard produces a guard that validates; the zero value never does.
//
//	type GetParcelQuery struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func (q GetParcelQuery) Validate() error {
//	    return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard and validationError otherwise,
// falling back to ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
