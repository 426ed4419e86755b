// Package shared contains common domain types and errors that are used
// across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrPrecondition    = errors.New("precondition failed")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// Infrastructure errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "mentorship", "waitlist", "social"
	Op      string // Operation that failed, e.g., "Create", "Complete"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Mentorship domain errors
var (
	ErrNotEligibleMentor       = NewDomainError("mentorship", "CheckEligibility", ErrPrecondition, "user is not an eligible mentor")
	ErrAlreadyHasMentor        = NewDomainError("mentorship", "Request", ErrAlreadyExists, "mentee already has an active mentor")
	ErrAlreadyActiveMentorship = NewDomainError("mentorship", "Create", ErrAlreadyExists, "active mentorship already exists for this pair")
	ErrMentorshipNotFound      = NewDomainError("mentorship", "Find", ErrNotFound, "mentorship not found")
	ErrNotAuthorizedToComplete = NewDomainError("mentorship", "Complete", ErrForbidden, "only the mentor or the mentee can end a mentorship")
	ErrMentorshipNotActive     = NewDomainError("mentorship", "Complete", ErrStateTransition, "mentorship is not active")
	ErrSelfMentorship          = NewDomainError("mentorship", "Create", ErrInvalidInput, "a user cannot mentor themselves")
	ErrInvalidSeniority        = NewDomainError("mentorship", "ParseSeniority", ErrInvalidFormat, "invalid seniority format")
)

// Waitlist domain errors
var (
	ErrNotQueued = NewDomainError("waitlist", "Position", ErrNotFound, "user is not in the mentorship queue")
)

// Profile errors
var (
	ErrProfileNotFound = NewDomainError("profile", "Find", ErrNotFound, "profile not found")
	ErrInvalidUserID   = NewDomainError("profile", "Validate", ErrInvalidID, "invalid user ID")
)

// Store errors
var (
	ErrStoreConflict = NewDomainError("store", "Within", ErrConcurrentModification, "transaction conflict, retries exhausted")
)

// NotEligible returns an ErrNotEligibleMentor carrying the concrete reason.
func NotEligible(reason string) error {
	return &DomainError{
		Domain:  "mentorship",
		Op:      "CheckEligibility",
		Kind:    ErrNotEligibleMentor,
		Message: reason,
	}
}

// Reason extracts the human-readable message of the outermost DomainError.
// Returns an empty string for non-domain errors.
func Reason(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsInvalidState checks if the error is a state or precondition failure.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrStateTransition) ||
		errors.Is(err, ErrPrecondition)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsBusiness reports whether err is an expected domain outcome rather than
// an infrastructure failure.
func IsBusiness(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && !IsRetryable(err)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
