package reservation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrConflict                = errors.New("the selected slot is no longer available, please choose a different time")
	ErrPricing                 = errors.New("pricing error")
	ErrContention              = errors.New("booking identifier contention, please retry")
	ErrIdentifierExhausted     = fmt.Errorf("%w: daily booking identifiers exhausted", ErrContention)
	ErrNotFound                = errors.New("booking not found")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")

	// errCodeTaken signals a booking_code collision; the writer retries it.
	errCodeTaken = errors.New("booking code already taken")
)

// ValidationError is a caller-fixable input problem. Fields maps the
// offending field to the failed rule.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return e.Msg + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func invalidFields(fields map[string]string) error {
	return &ValidationError{Msg: "invalid request", Fields: fields}
}

func pricingErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPricing, fmt.Sprintf(format, args...))
}
