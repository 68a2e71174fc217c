// Package session holds the client's view of who is signed in.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"budgettool/internal/logger"
	"budgettool/internal/remote"
)

// Source is the part of the remote store that reports session changes.
type Source interface {
	GetSession(ctx context.Context) (*remote.Session, error)
	OnSessionChange(fn func(*remote.Session)) (unsubscribe func())
}

// Snapshot is the session state at one point in time.
type Snapshot struct {
	UserID        string
	Email         string
	Authenticated bool
	// Ready is false until the first session lookup has resolved. Nothing
	// should redirect to login before then.
	Ready bool
}

// State tracks the current user for the lifetime of the application.
type State struct {
	src Source
	log *zap.SugaredLogger

	mu        sync.Mutex
	snap      Snapshot
	changed   bool
	closed    bool
	unsub     func()
	listeners map[int]func(Snapshot)
	nextID    int

	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a State backed by src. Call Init before use.
func New(src Source) *State {
	return &State{
		src:       src,
		log:       logger.Named("session"),
		listeners: make(map[int]func(Snapshot)),
		ready:     make(chan struct{}),
	}
}

// Init subscribes to session changes and resolves the initial session. A
// change that arrives while the initial lookup is in flight takes
// precedence over the lookup's result. Lookup errors resolve to signed out.
func (s *State) Init(ctx context.Context) {
	s.mu.Lock()
	if s.unsub != nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.unsub = func() {}
	s.mu.Unlock()

	unsub := s.src.OnSessionChange(s.apply)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsub()
		return
	}
	s.unsub = unsub
	s.mu.Unlock()

	sess, err := s.src.GetSession(ctx)
	if err != nil {
		s.log.Warnw("session lookup failed, treating as signed out", "error", err)
		sess = nil
	}

	s.mu.Lock()
	if s.changed {
		s.mu.Unlock()
		return
	}
	s.snap = snapshotOf(sess)
	snap, listeners := s.snap, s.listenersLocked()
	s.mu.Unlock()

	s.markReady()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *State) apply(sess *remote.Session) {
	s.mu.Lock()
	s.changed = true
	s.snap = snapshotOf(sess)
	snap, listeners := s.snap, s.listenersLocked()
	s.mu.Unlock()

	s.log.Debugw("session changed", "user_id", snap.UserID, "authenticated", snap.Authenticated)

	s.markReady()
	for _, fn := range listeners {
		fn(snap)
	}
}

func snapshotOf(sess *remote.Session) Snapshot {
	if sess == nil {
		return Snapshot{Ready: true}
	}
	return Snapshot{UserID: sess.UserID, Email: sess.Email, Authenticated: true, Ready: true}
}

func (s *State) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *State) listenersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Current returns the latest snapshot without blocking.
func (s *State) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// WaitReady blocks until the initial session has resolved.
func (s *State) WaitReady(ctx context.Context) (Snapshot, error) {
	select {
	case <-s.ready:
		return s.Current(), nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Subscribe registers fn to receive every snapshot published after the
// state becomes ready.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close stops listening to the remote store. A State cannot be
// initialised again after Close.
func (s *State) Close() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.closed = true
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
