package errors

import (
	"errors"
	"fmt"
)

// Common error types for the survey admin service
var (
	// Key material errors
	ErrConfiguration = errors.New("configuration error")
	ErrDecryption    = errors.New("decryption failed")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")

	// Authorization errors
	ErrForbidden     = errors.New("forbidden")
	ErrSelfDeletion  = errors.New("cannot delete own account")
	ErrInvalidRole   = errors.New("invalid role")
	ErrWeakPassword  = errors.New("password does not meet requirements")
	ErrAlreadyExists = errors.New("already exists")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUpstream       = errors.New("upstream provider error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
