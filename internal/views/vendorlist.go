package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"budgettool/internal/events"
	"budgettool/internal/logger"
	"budgettool/internal/remote"
	"budgettool/internal/session"
)

// VendorListSnapshot is the state of the vendor list screen.
type VendorListSnapshot struct {
	Status   Status
	Vendors  []remote.Vendor
	Creating bool
	Message  *Message
	// Redirect is set when the screen must be left, e.g. the session ended.
	Redirect *Route
}

// VendorList is the view model of the caller's vendors.
type VendorList struct {
	store remote.Store
	sess  *session.State
	bus   *events.Bus
	year  int
	log   *zap.SugaredLogger

	mu    sync.Mutex
	state VendorListSnapshot
	alive bool
}

// NewVendorList creates the list view. New vendors get their seed budget in
// year.
func NewVendorList(store remote.Store, sess *session.State, bus *events.Bus, year int) *VendorList {
	return &VendorList{
		store: store,
		sess:  sess,
		bus:   bus,
		year:  year,
		log:   logger.Named("views.vendor_list"),
		state: VendorListSnapshot{Status: StatusLoading, Vendors: []remote.Vendor{}},
		alive: true,
	}
}

// Snapshot returns a copy of the current state.
func (v *VendorList) Snapshot() VendorListSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.Vendors = append([]remote.Vendor(nil), v.state.Vendors...)
	return s
}

// Close detaches the view. Calls still in flight finish but no longer
// change state.
func (v *VendorList) Close() {
	v.mu.Lock()
	v.alive = false
	v.mu.Unlock()
}

// update applies fn under the lock unless the view has been closed.
func (v *VendorList) update(fn func(s *VendorListSnapshot)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.alive {
		return false
	}
	fn(&v.state)
	return true
}

// fail records err: a lost session becomes a login redirect, anything
// else is shown as a message.
func (v *VendorList) fail(s *VendorListSnapshot, err error) {
	if remote.IsUnauthorized(err) {
		s.Redirect = loginRedirect()
		return
	}
	s.Message = errorMessage(err)
}

func (v *VendorList) gate(ctx context.Context) error {
	_, ok, err := requireUser(ctx, v.sess)
	if err != nil {
		return err
	}
	if !ok {
		v.update(func(s *VendorListSnapshot) { s.Redirect = loginRedirect() })
		return errRedirected
	}
	return nil
}

// Load fetches the caller's vendors in creation order. A failed read still
// ends in StatusLoaded, with the error as the message.
func (v *VendorList) Load(ctx context.Context) error {
	v.update(func(s *VendorListSnapshot) {
		s.Status = StatusLoading
		s.Message = nil
	})
	if err := v.gate(ctx); err != nil {
		return err
	}

	vendors, err := v.store.ListVendors(ctx)
	v.update(func(s *VendorListSnapshot) {
		s.Status = StatusLoaded
		if err != nil {
			s.Vendors = []remote.Vendor{}
			v.fail(s, err)
			return
		}
		s.Vendors = vendors
	})
	if err != nil {
		v.log.Warnw("failed to load vendors", "error", err)
	}
	return err
}

// Create adds a vendor named name. The new vendor is appended from the
// server's response without re-reading the list.
func (v *VendorList) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		verr := &ValidationError{Message: "Enter a vendor name"}
		v.update(func(s *VendorListSnapshot) { s.Message = &Message{Kind: MessageError, Text: verr.Message} })
		return verr
	}

	v.update(func(s *VendorListSnapshot) { s.Message = nil })
	if err := v.gate(ctx); err != nil {
		return err
	}

	v.update(func(s *VendorListSnapshot) { s.Creating = true })
	vendor, err := v.store.CreateVendor(ctx, name, v.year)
	v.update(func(s *VendorListSnapshot) {
		s.Creating = false
		if err != nil {
			v.fail(s, err)
			return
		}
		s.Vendors = append(s.Vendors, *vendor)
		s.Message = &Message{Kind: MessageSuccess, Text: "Created vendor: " + vendor.Name}
	})
	if err != nil {
		return err
	}

	v.log.Infow("vendor created", "vendor_id", vendor.ID)
	v.bus.Publish(events.VendorsChanged)
	return nil
}

// Delete removes the vendor with id after confirm approves. The row
// disappears from the list before the remote call; if the call fails the
// list is reloaded from the store.
func (v *VendorList) Delete(ctx context.Context, id string, confirm Confirmer) error {
	name := id
	v.mu.Lock()
	for _, vendor := range v.state.Vendors {
		if vendor.ID == id {
			name = vendor.Name
			break
		}
	}
	v.state.Message = nil
	v.mu.Unlock()

	if !confirm(fmt.Sprintf("Delete vendor %q and all of its data?", name)) {
		return nil
	}
	if err := v.gate(ctx); err != nil {
		return err
	}

	v.update(func(s *VendorListSnapshot) {
		kept := make([]remote.Vendor, 0, len(s.Vendors))
		for _, vendor := range s.Vendors {
			if vendor.ID != id {
				kept = append(kept, vendor)
			}
		}
		s.Vendors = kept
	})

	if err := v.store.DeleteVendor(ctx, id); err != nil {
		v.log.Warnw("vendor delete failed, reloading", "vendor_id", id, "error", err)
		if remote.IsUnauthorized(err) {
			v.update(func(s *VendorListSnapshot) { v.fail(s, err) })
			return err
		}

		fresh, reloadErr := v.store.ListVendors(ctx)
		v.update(func(s *VendorListSnapshot) {
			if reloadErr == nil {
				s.Vendors = fresh
			} else if remote.IsUnauthorized(reloadErr) {
				s.Redirect = loginRedirect()
			}
			s.Message = errorMessage(err)
		})
		return err
	}

	v.update(func(s *VendorListSnapshot) {
		s.Message = &Message{Kind: MessageInfo, Text: "Deleted: " + name}
	})
	v.bus.Publish(events.VendorsChanged)
	return nil
}
