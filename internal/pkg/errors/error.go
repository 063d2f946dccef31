package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")
	ErrRateLimited  = errors.New("too many requests")
)

// Settlement errors. The first two reject the gateway callback outright;
// the rest resolve to a successful acknowledgement with no mutation.
var (
	ErrUnknownMerchant   = errors.New("unknown merchant id")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrAlreadySettled    = errors.New("payment already settled")
)

// Entitlement errors
var (
	ErrPackageNotFound       = errors.New("package not found")
	ErrSubscriptionNotActive = errors.New("no active subscription")
	ErrSeatLimitReached      = errors.New("seat limit reached")
	ErrSeatConflict          = errors.New("seat reservation conflict")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
