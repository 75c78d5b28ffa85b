package decision

import (
	"errors"
	"fmt"
)

var (
	// ErrDecisionUnavailable is returned when the simulated decision backend fails.
	ErrDecisionUnavailable = errors.New("decision call failed")

	// ErrSuperseded is returned by a pending call that a newer trigger replaced.
	ErrSuperseded = errors.New("decision superseded by a newer request")
)

// ValidationError reports a malformed decision request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Unavailable marks err as a backend failure.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrDecisionUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDecisionUnavailable, err)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
