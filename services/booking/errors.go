package booking

import "fmt"

// Error kinds, machine-checkable by callers.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found_error"
	KindAvailability = "availability_error"
	KindPromotion    = "promotion_error"
	KindPersistence  = "persistence_error"
)

// ValidationError marks a malformed request. It fails fast with no side
// effects.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", KindValidation, e.Message)
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a missing offering, unit or promotion.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s not found", KindNotFound, e.Resource, e.ID)
}

// AvailabilityError reports insufficient capacity, with enough detail for
// the caller to offer alternatives.
type AvailabilityError struct {
	UnitID    string
	Requested int
	Available int
	Message   string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("%s: unit %s has %d available, %d requested: %s",
		KindAvailability, e.UnitID, e.Available, e.Requested, e.Message)
}

// PromotionError marks an invalid, expired or ineligible code. It is
// non-fatal: the order proceeds without a discount.
type PromotionError struct {
	Code    string
	Message string
}

func (e *PromotionError) Error() string {
	return fmt.Sprintf("%s: code %q: %s", KindPromotion, e.Code, e.Message)
}

// PersistenceError wraps a transactional failure during commit. The cause
// is logged; callers only see an opaque failure and are guaranteed no
// partial state survived.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: commit failed", KindPersistence)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
