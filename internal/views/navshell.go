package views

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"budgettool/internal/events"
	"budgettool/internal/logger"
	"budgettool/internal/remote"
	"budgettool/internal/session"
)

// NavEntry is one row of the sidebar.
type NavEntry struct {
	Route  Route
	Label  string
	Active bool
}

// NavShellSnapshot is the state of the sidebar.
type NavShellSnapshot struct {
	Loading  bool
	Vendors  []remote.Vendor
	Active   Route
	Message  *Message
	Redirect *Route
}

// Entries lists the sidebar rows: the vendor list first, then one row per
// vendor. The row matching Active is marked.
func (s NavShellSnapshot) Entries() []NavEntry {
	entries := make([]NavEntry, 0, len(s.Vendors)+1)
	entries = append(entries, NavEntry{Route: ListRoute(), Label: "All vendors", Active: s.Active.Kind == RouteList})
	for _, vendor := range s.Vendors {
		entries = append(entries, NavEntry{
			Route:  VendorRoute(vendor.ID),
			Label:  vendor.Name,
			Active: s.Active.Kind == RouteVendor && s.Active.VendorID == vendor.ID,
		})
	}
	return entries
}

// NavShell is the sidebar listing every vendor. It never mutates vendors;
// it re-reads them whenever VendorsChanged is published.
type NavShell struct {
	store remote.Store
	sess  *session.State
	bus   *events.Bus
	log   *zap.SugaredLogger

	mu      sync.Mutex
	state   NavShellSnapshot
	ctx     context.Context
	unsub   func()
	running bool
	// seq numbers reloads in start order; applied is the newest one whose
	// result is on screen.
	seq     uint64
	applied uint64
}

// NewNavShell creates the sidebar.
func NewNavShell(store remote.Store, sess *session.State, bus *events.Bus) *NavShell {
	return &NavShell{
		store: store,
		sess:  sess,
		bus:   bus,
		log:   logger.Named("views.nav"),
		state: NavShellSnapshot{Loading: true, Vendors: []remote.Vendor{}, Active: ListRoute()},
	}
}

// Start begins following VendorsChanged, then loads the vendors. A
// notification published during the first load triggers a reload of its
// own. Reloads triggered by the notification run with ctx.
func (n *NavShell) Start(ctx context.Context) error {
	_, ok, err := requireUser(ctx, n.sess)
	if err != nil {
		return err
	}
	if !ok {
		n.mu.Lock()
		n.state.Redirect = loginRedirect()
		n.mu.Unlock()
		return errRedirected
	}

	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return nil
	}
	n.running = true
	n.ctx = ctx
	n.unsub = n.bus.Subscribe(events.VendorsChanged, n.onVendorsChanged)
	n.mu.Unlock()

	return n.reload(ctx)
}

func (n *NavShell) onVendorsChanged() {
	n.mu.Lock()
	ctx, running := n.ctx, n.running
	n.mu.Unlock()
	if !running {
		return
	}
	_ = n.reload(ctx)
}

// reload reads the vendors. A result older than the one already shown is
// discarded.
func (n *NavShell) reload(ctx context.Context) error {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.mu.Unlock()

	vendors, err := n.store.ListVendors(ctx)

	n.mu.Lock()
	defer n.mu.Unlock()
	if seq < n.applied {
		return err
	}
	n.applied = seq
	n.state.Loading = false
	if err != nil {
		n.log.Warnw("failed to load vendors", "error", err)
		if remote.IsUnauthorized(err) {
			n.state.Redirect = loginRedirect()
		} else {
			n.state.Message = errorMessage(err)
		}
		return err
	}
	n.state.Vendors = vendors
	n.state.Message = nil
	return nil
}

// Highlight marks the entry for route as active.
func (n *NavShell) Highlight(route Route) {
	n.mu.Lock()
	n.state.Active = route
	n.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (n *NavShell) Snapshot() NavShellSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := n.state
	s.Vendors = append([]remote.Vendor(nil), n.state.Vendors...)
	return s
}

// Stop detaches from VendorsChanged. The sidebar keeps its last vendors.
func (n *NavShell) Stop() {
	n.mu.Lock()
	unsub := n.unsub
	n.unsub = nil
	n.running = false
	n.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// SignOut ends the session and returns the route to show next.
func (n *NavShell) SignOut(ctx context.Context) (Route, error) {
	err := n.store.SignOut(ctx)
	if err != nil {
		n.log.Warnw("sign out failed", "error", err)
	}
	return LoginRoute(), err
}
