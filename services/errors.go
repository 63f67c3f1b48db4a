package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the visitor lifecycle. Controllers map these
// to HTTP status codes; anything else is treated as a store failure.
var (
	// ErrAlreadyCheckedIn rejects a second check-in for the same mobile
	// while an open record exists on the same calendar day.
	ErrAlreadyCheckedIn = errors.New("visitor already checked in today")

	// ErrNoActiveVisit means no open record matched the mobile at checkout.
	ErrNoActiveVisit = errors.New("no active check-in found for this mobile number")

	// ErrNotFound means the requested visitor record does not exist.
	ErrNotFound = errors.New("visitor not found")

	// ErrNotCheckedIn rejects a manual checkout of an already closed record.
	ErrNotCheckedIn = errors.New("visitor is not checked in")

	// ErrInvalidCredentials is returned by AuthService.Login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError names the input field that failed validation so the
// kiosk form can point the visitor at it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s' %s", e.Field, e.Reason)
}

func requiredField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
