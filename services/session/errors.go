package session

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an operation requires a signed-in user and
// none is present.
var ErrNoSession = errors.New("no active session")

// AuthError reports a failed authentication attempt: invalid credentials, an
// unverified account, or an auth network failure. It is surfaced to the user
// and never retried automatically.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failed: %s: %v", e.Reason, e.Err)
	}
	return "auth failed: " + e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
