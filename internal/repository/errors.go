package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("repository: email already registered")
	// ErrDuplicateToken indicates a session token collision. Token
	// generation treats this as a hard failure, never a silent retry.
	ErrDuplicateToken = errors.New("repository: session token already exists")
	// ErrOfflineStore indicates a write was attempted against the offline
	// store variant.
	ErrOfflineStore = errors.New("repository: offline store rejects writes")
)

// DatabaseError wraps any backend or transport failure at the store
// boundary. It carries the attempted operation and the target resource;
// the raw driver error is retained for server-side logs only and must
// never reach a caller-facing response.
type DatabaseError struct {
	Operation string
	With      string
	cause     error
}

// NewDatabaseError classifies a backend failure.
func NewDatabaseError(operation, with string, cause error) *DatabaseError {
	return &DatabaseError{Operation: operation, With: with, cause: cause}
}

// Error implements error.
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %s on %s", e.Operation, e.With)
}

// Unwrap exposes the underlying driver error for logging.
func (e *DatabaseError) Unwrap() error {
	return e.cause
}

// AsDatabaseError extracts a DatabaseError from an error chain.
func AsDatabaseError(err error) (*DatabaseError, bool) {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr, true
	}
	return nil, false
}
