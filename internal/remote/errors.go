package remote

import (
	"errors"
	"net/http"
)

// ErrUnauthorized matches any error caused by a missing, expired or revoked
// session. Callers send the user to the login screen instead of showing it.
var ErrUnauthorized = errors.New("not signed in")

// Error is a failure reported by the backend. Message is the server's text
// and is meant to be shown to the user verbatim.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether e is a session failure. A 401 for bad login
// credentials is an ordinary error.
func (e *Error) Is(target error) bool {
	if target != ErrUnauthorized || e.Status != http.StatusUnauthorized {
		return false
	}
	return e.Code != "INVALID_CREDENTIALS"
}

// IsUnauthorized reports whether err means the caller must sign in again.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func errNotSignedIn() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Not signed in"}
}
