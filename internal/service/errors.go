package serviceerrors

import (
	"context"
	"errors"
	"strings"

	"restoapi/internal/backend"
	"restoapi/internal/booking"
	"restoapi/internal/cart"
	databaseerrors "restoapi/internal/database"
	"restoapi/internal/voucher"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrContextCanceled  = errors.New("context canceled")
	ErrDeadlineExceeded = errors.New("deadline exceeded")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrUnavailable      = errors.New("cannot reach server")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidVoucher   = errors.New("invalid voucher code")
)

// ValidationError names the fields that failed. It matches ErrValidation.
type ValidationError struct {
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(e.Invalid, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError carries a message meant for the user unchanged, usually the
// backend's own wording.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Translate maps errors from the lower layers onto the service taxonomy.
// Errors it does not recognise are returned as they are.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return ErrContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrDeadlineExceeded
	case errors.Is(err, backend.ErrUnauthorized):
		return ErrUnauthenticated
	case errors.Is(err, backend.ErrForbidden):
		return ErrForbidden
	case errors.Is(err, backend.ErrNotFound), errors.Is(err, databaseerrors.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, backend.ErrUnavailable):
		return ErrUnavailable
	case errors.Is(err, voucher.ErrInvalidVoucher), errors.Is(err, voucher.ErrEmptyCode):
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return &ConflictError{Message: apiErr.Message}
		}
		return ErrInvalidVoucher
	case errors.Is(err, cart.ErrInvalidItem), errors.Is(err, cart.ErrInvalidPrice):
		return &ValidationError{Invalid: []string{"item"}}
	case errors.Is(err, cart.ErrInvalidQuantity):
		return &ValidationError{Invalid: []string{"quantity"}}
	case errors.Is(err, booking.ErrWrongStep), errors.Is(err, booking.ErrSubmissionInFlight):
		return &ConflictError{Message: rootMessage(err)}
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.IsConflict() {
		return &ConflictError{Message: apiErr.Message}
	}

	var flowErr *booking.ValidationError
	if errors.As(err, &flowErr) {
		return &ValidationError{Missing: flowErr.Missing, Invalid: flowErr.Invalid}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	var cerr *ConflictError
	if errors.As(err, &cerr) {
		return cerr
	}

	for _, sentinel := range []error{
		ErrNotFound, ErrContextCanceled, ErrDeadlineExceeded, ErrUnauthenticated,
		ErrForbidden, ErrUnavailable, ErrInvalidVoucher,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return err
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
