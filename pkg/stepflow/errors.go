package stepflow

import (
	"errors"
	"fmt"
)

type ValidationKind string

const (
	EmptySelection ValidationKind = "EmptySelection"
	OutOfRange     ValidationKind = "OutOfRange"
)

// ValidationError blocks the current step only; it is shown inline.
type ValidationError struct {
	Kind   ValidationKind
	StepID string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: %s", e.StepID, e.Kind)
}

var (
	ErrStepMismatch = errors.New("submitted step is not the current step")
	ErrTerminal     = errors.New("wizard is in a terminal state")
	ErrUnknownStep  = errors.New("unknown step")
)

func IsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
