package finance

import (
	"errors"
	"fmt"
)

// Validation errors: the operation is aborted and the ledger is untouched.
var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAmount indicates a zero, negative or unparseable amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnknownAccount indicates a reference to an account that is not declared.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrUnknownCategory indicates a reference to a category missing from the set matching the transaction type.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrSameAccount indicates a transfer whose source and destination are the same account.
	ErrSameAccount = errors.New("source and destination accounts are the same")

	// ErrFutureDate indicates a datetime later than the future-date policy allows.
	ErrFutureDate = errors.New("datetime is too far in the future")

	// ErrMissingField indicates that a required field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrDuplicateEntry indicates an account or category whose value already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrEntryInUse indicates an account or category still referenced by transactions.
	ErrEntryInUse = errors.New("entry is referenced by transactions")

	// ErrSystemEntry indicates an attempt to remove a system account or category.
	ErrSystemEntry = errors.New("system entries cannot be removed")
)

// Lookup and storage errors.
var (
	// ErrNotFound indicates that the update or delete target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPersistence is wrapped by every *PersistenceError.
	ErrPersistence = errors.New("could not persist data")

	// ErrIntegrity indicates a transfer leg whose pair is missing.
	ErrIntegrity = errors.New("data integrity error")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
	err    error
}

func newValidationError(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...), err: err}
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap makes both ErrValidation and the specific cause visible to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.err}
}

// PersistenceError reports a store write failure. The in-memory state it
// refers to is kept: callers receive the created or updated record alongside
// this error and should only warn the user that it may not survive a reload.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("changes kept in memory but not saved: %v", e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// IsWarning reports whether err only means that data was not saved. The
// operation that returned it did take effect in memory.
func IsWarning(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
}
