package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no mysfit exists with the requested id.
	ErrNotFound = errors.New("mysfits: mysfit not found")

	// ErrInvalidFilter is returned when a query names an index that is not one of the
	// permitted filters.
	ErrInvalidFilter = errors.New("mysfits: invalid filter")

	// ErrMissingValue is returned when a valid filter is given without a value.
	ErrMissingValue = errors.New("mysfits: missing filter value")

	// ErrDataIntegrity is matched by every IntegrityError.
	ErrDataIntegrity = errors.New("mysfits: stored record failed validation")

	// ErrStoreUnavailable wraps failures reported by DynamoDB itself (network, throttling,
	// service errors). The original SDK error stays in the chain.
	ErrStoreUnavailable = errors.New("mysfits: record store unavailable")
)

// IntegrityError describes a stored item that is missing a required attribute or holds
// a value of the wrong type.
type IntegrityError struct {
	// ID is the MysfitId of the offending item, if it could be read.
	ID string

	// Attribute is the DynamoDB attribute name that failed validation.
	Attribute string

	// Reason is a short description such as "missing" or "expected string".
	Reason string
}

func (e *IntegrityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: attribute %s: %s", ErrDataIntegrity, e.Attribute, e.Reason)
	}
	return fmt.Sprintf("%s: mysfit %s: attribute %s: %s", ErrDataIntegrity, e.ID, e.Attribute, e.Reason)
}

// Is reports whether target is ErrDataIntegrity.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// storeError wraps an SDK error so callers can match ErrStoreUnavailable while the
// underlying error remains reachable with errors.As.
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
