package bridge

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCode    = errors.New("invalid sign-in code")
	ErrNetworkFailure = errors.New("network failure")
	ErrSessionExpired = errors.New("session expired")
	ErrNoSession      = errors.New("backend returned no session token")
)

// StatusError is returned when an endpoint answers with a status the caller
// does not accept.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}
