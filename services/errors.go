package services

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by profile and stats mutators invoked
// while no user is logged in. Callers treat this as a programming error.
var ErrNotAuthenticated = errors.New("no user logged in")

// ErrProfileNotFound reports that the profiles collection has no row for
// the requested id. It is a normal outcome, not a failure.
var ErrProfileNotFound = errors.New("profile not found")

// AuthError wraps a rejection from the identity provider. It is the only
// failure class that crosses the session manager's boundary; everything
// else is logged and absorbed.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
