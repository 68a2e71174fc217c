// Package views holds the headless view models behind each screen. A view
// owns its state and exposes it through immutable snapshots; renderers
// call operations and redraw from the next snapshot.
package views

import (
	"context"
	"errors"

	"budgettool/internal/remote"
	"budgettool/internal/session"
)

// MessageKind classifies a user-facing message.
type MessageKind string

const (
	MessageError   MessageKind = "error"
	MessageSuccess MessageKind = "success"
	MessageInfo    MessageKind = "info"
)

// Message is the one status line a view shows.
type Message struct {
	Kind MessageKind
	Text string
}

// Status is the load state of a view.
type Status int

const (
	StatusLoading Status = iota
	StatusLoaded
)

// ValidationError is returned when input is rejected before any remote
// call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer func(prompt string) bool

// errRedirected is returned by operations that were abandoned because the
// session is gone; the snapshot carries the login redirect.
var errRedirected = remote.ErrUnauthorized

// requireUser waits for the session to resolve and reports whether a user
// is signed in.
func requireUser(ctx context.Context, sess *session.State) (session.Snapshot, bool, error) {
	snap, err := sess.WaitReady(ctx)
	if err != nil {
		return session.Snapshot{}, false, err
	}
	return snap, snap.Authenticated, nil
}

func loginRedirect() *Route {
	r := LoginRoute()
	return &r
}

// errorMessage turns a remote failure into the text shown to the user.
func errorMessage(err error) *Message {
	var remoteErr *remote.Error
	if errors.As(err, &remoteErr) {
		return &Message{Kind: MessageError, Text: remoteErr.Message}
	}
	return &Message{Kind: MessageError, Text: err.Error()}
}
