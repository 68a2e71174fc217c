package views

import (
	"context"
	"testing"

	"budgettool/internal/events"
	"budgettool/internal/remote"
)

// changingStore runs during once, after its first ListVendors has read the
// vendors but before that read returns.
type changingStore struct {
	*fakeStore
	during func()
	fired  bool
}

func (c *changingStore) ListVendors(ctx context.Context) ([]remote.Vendor, error) {
	vendors, err := c.fakeStore.ListVendors(ctx)
	if !c.fired {
		c.fired = true
		c.during()
	}
	return vendors, err
}

func TestNavShell_StartWithoutSessionRedirects(t *testing.T) {
	store := newFakeStore("")
	nav := NewNavShell(store, newSession(t, store), events.NewBus())

	_ = nav.Start(context.Background())
	snap := nav.Snapshot()
	if snap.Redirect == nil || snap.Redirect.Kind != RouteLogin {
		t.Errorf("expected login redirect, got %+v", snap.Redirect)
	}
	if store.count("ListVendors") != 0 {
		t.Error("no remote read expected without a session")
	}
}

func TestNavShell_RefetchesOnVendorsChanged(t *testing.T) {
	store := newFakeStore("user-1")
	store.addVendor("Globex")
	sess := newSession(t, store)
	bus := events.NewBus()

	nav := NewNavShell(store, sess, bus)
	if err := nav.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer nav.Stop()

	if got := vendorNames(nav.Snapshot().Vendors); len(got) != 1 {
		t.Fatalf("vendors = %v", got)
	}

	list := NewVendorList(store, sess, bus, 2026)
	if err := list.Create(context.Background(), "Acme"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got := vendorNames(nav.Snapshot().Vendors)
	if len(got) != 2 || got[1] != "Acme" {
		t.Errorf("sidebar should follow the list, got %v", got)
	}
}

func TestNavShell_ChangeDuringFirstLoadIsNotLost(t *testing.T) {
	inner := newFakeStore("user-1")
	inner.addVendor("Acme")
	bus := events.NewBus()
	store := &changingStore{fakeStore: inner}
	store.during = func() {
		inner.addVendor("Globex")
		bus.Publish(events.VendorsChanged)
	}

	nav := NewNavShell(store, newSession(t, inner), bus)
	if err := nav.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer nav.Stop()

	if n := inner.count("ListVendors"); n != 2 {
		t.Errorf("ListVendors = %d, want 2", n)
	}
	got := vendorNames(nav.Snapshot().Vendors)
	if len(got) != 2 || got[0] != "Acme" || got[1] != "Globex" {
		t.Errorf("sidebar = %v, want [Acme Globex]", got)
	}
}

func TestNavShell_StopDetachesListener(t *testing.T) {
	store := newFakeStore("user-1")
	bus := events.NewBus()
	nav := NewNavShell(store, newSession(t, store), bus)
	if err := nav.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	nav.Stop()
	store.addVendor("Acme")
	bus.Publish(events.VendorsChanged)

	if store.count("ListVendors") != 1 {
		t.Errorf("ListVendors = %d, want 1 after Stop", store.count("ListVendors"))
	}
	if len(nav.Snapshot().Vendors) != 0 {
		t.Error("stopped sidebar should keep its stale list")
	}
}

func TestNavShell_Highlight(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	globex := store.addVendor("Globex")
	nav := NewNavShell(store, newSession(t, store), events.NewBus())
	_ = nav.Start(context.Background())
	defer nav.Stop()

	tests := []struct {
		name   string
		route  Route
		active string
	}{
		{"list root", ListRoute(), "All vendors"},
		{"vendor", VendorRoute(globex.ID), "Globex"},
		{"other vendor", VendorRoute(acme.ID), "Acme"},
		{"unknown vendor", VendorRoute("missing"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav.Highlight(tt.route)

			active := ""
			count := 0
			for _, e := range nav.Snapshot().Entries() {
				if e.Active {
					active = e.Label
					count++
				}
			}
			if active != tt.active {
				t.Errorf("active = %q, want %q", active, tt.active)
			}
			if count > 1 {
				t.Errorf("%d entries active, want at most 1", count)
			}
		})
	}
}

func TestNavShell_SignOut(t *testing.T) {
	store := newFakeStore("user-1")
	sess := newSession(t, store)
	nav := NewNavShell(store, sess, events.NewBus())

	route, err := nav.SignOut(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Kind != RouteLogin {
		t.Errorf("route = %+v, want login", route)
	}
	if sess.Current().Authenticated {
		t.Error("session should be cleared after sign out")
	}
}
