package views

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"budgettool/internal/logger"
	"budgettool/internal/models"
	"budgettool/internal/remote"
	"budgettool/internal/session"
)

// Draft holds the unsaved charge form.
type Draft struct {
	ChargeDate    string
	Amount        string
	InvoiceNumber string
	Notes         string
}

func newDraft() Draft {
	return Draft{ChargeDate: models.Today().String()}
}

// VendorDetailSnapshot is the state of one vendor's screen.
type VendorDetailSnapshot struct {
	Status   Status
	VendorID string
	Year     int
	Category models.BudgetType

	Vendor      *remote.Vendor
	Budget      float64
	BudgetInput string
	Charges     []remote.Charge
	Totals      Totals
	Draft       Draft

	SavingContact bool
	SavingBudget  bool
	AddingCharge  bool

	Message  *Message
	Redirect *Route
}

// VendorDetail is the view model of one vendor's profile, budget and
// charges for a fixed year and the selected category.
type VendorDetail struct {
	store remote.Store
	sess  *session.State
	log   *zap.SugaredLogger

	mu    sync.Mutex
	state VendorDetailSnapshot
	alive bool
	// gen increases whenever the budget and charge facets are re-scoped.
	// Responses carrying an older gen are dropped.
	gen uint64
}

// NewVendorDetail creates the detail view for vendorID in year.
func NewVendorDetail(store remote.Store, sess *session.State, vendorID string, year int) *VendorDetail {
	return &VendorDetail{
		store: store,
		sess:  sess,
		log:   logger.Named("views.vendor_detail").With("vendor_id", vendorID),
		state: VendorDetailSnapshot{
			Status:      StatusLoading,
			VendorID:    vendorID,
			Year:        year,
			Category:    models.DefaultBudgetType,
			BudgetInput: "0",
			Charges:     []remote.Charge{},
			Draft:       newDraft(),
		},
		alive: true,
	}
}

// Snapshot returns a copy of the current state with fresh totals.
func (v *VendorDetail) Snapshot() VendorDetailSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.Charges = append([]remote.Charge(nil), v.state.Charges...)
	if v.state.Vendor != nil {
		vendor := *v.state.Vendor
		s.Vendor = &vendor
	}
	s.Totals = ComputeTotals(s.Budget, s.Charges)
	return s
}

// Close detaches the view.
func (v *VendorDetail) Close() {
	v.mu.Lock()
	v.alive = false
	v.mu.Unlock()
}

func (v *VendorDetail) update(fn func(s *VendorDetailSnapshot)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.alive {
		return false
	}
	fn(&v.state)
	return true
}

// updateGen is update restricted to responses of the current generation.
func (v *VendorDetail) updateGen(gen uint64, fn func(s *VendorDetailSnapshot)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.alive || v.gen != gen {
		return false
	}
	fn(&v.state)
	return true
}

func (v *VendorDetail) fail(s *VendorDetailSnapshot, err error) {
	if remote.IsUnauthorized(err) {
		s.Redirect = loginRedirect()
		return
	}
	s.Message = errorMessage(err)
}

func (v *VendorDetail) gate(ctx context.Context) error {
	_, ok, err := requireUser(ctx, v.sess)
	if err != nil {
		return err
	}
	if !ok {
		v.update(func(s *VendorDetailSnapshot) { s.Redirect = loginRedirect() })
		return errRedirected
	}
	return nil
}

// key returns the current (vendor, year, category) and its generation.
func (v *VendorDetail) key() (remote.BudgetKey, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return remote.BudgetKey{VendorID: v.state.VendorID, Year: v.state.Year, BudgetType: v.state.Category}, v.gen
}

// Load fetches the vendor profile and the facets of the active category.
func (v *VendorDetail) Load(ctx context.Context) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.state.Status = StatusLoading
	v.state.Message = nil
	v.mu.Unlock()

	if err := v.gate(ctx); err != nil {
		return err
	}

	key, _ := v.key()
	vendor, err := v.store.GetVendor(ctx, key.VendorID)
	if err != nil {
		v.log.Warnw("failed to load vendor", "error", err)
		v.updateGen(gen, func(s *VendorDetailSnapshot) {
			s.Status = StatusLoaded
			v.fail(s, err)
		})
		return err
	}
	v.update(func(s *VendorDetailSnapshot) { s.Vendor = vendor })

	return v.loadFacets(ctx, key, gen)
}

// SetCategory switches the active category and re-reads its budget and
// charges. The vendor profile is not fetched again.
func (v *VendorDetail) SetCategory(ctx context.Context, category models.BudgetType) error {
	if !category.Valid() {
		return &ValidationError{Message: "Unknown budget type"}
	}

	v.mu.Lock()
	if v.state.Category == category && v.state.Status == StatusLoaded {
		v.mu.Unlock()
		return nil
	}
	v.gen++
	gen := v.gen
	v.state.Category = category
	v.state.Status = StatusLoading
	v.state.Message = nil
	v.state.Budget = 0
	v.state.BudgetInput = "0"
	v.state.Charges = []remote.Charge{}
	key := remote.BudgetKey{VendorID: v.state.VendorID, Year: v.state.Year, BudgetType: category}
	v.mu.Unlock()

	if err := v.gate(ctx); err != nil {
		return err
	}
	return v.loadFacets(ctx, key, gen)
}

func (v *VendorDetail) loadFacets(ctx context.Context, key remote.BudgetKey, gen uint64) error {
	budget, err := v.store.GetBudget(ctx, key)
	if err == nil {
		var charges []remote.Charge
		charges, err = v.store.ListCharges(ctx, key)
		if err == nil {
			amount := 0.0
			if budget != nil {
				amount = budget.AnnualBudget
			}
			v.updateGen(gen, func(s *VendorDetailSnapshot) {
				s.Status = StatusLoaded
				s.Budget = amount
				s.BudgetInput = formatFloat(amount)
				s.Charges = charges
			})
			return nil
		}
	}

	v.log.Warnw("failed to load budget facets", "budget_type", key.BudgetType, "error", err)
	v.updateGen(gen, func(s *VendorDetailSnapshot) {
		s.Status = StatusLoaded
		v.fail(s, err)
	})
	return err
}

// SaveContact stores the contact fields. Blank values clear the field.
// State changes only once the server has answered.
func (v *VendorDetail) SaveContact(ctx context.Context, contactName, contactEmail string) error {
	v.update(func(s *VendorDetailSnapshot) { s.Message = nil })
	if err := v.gate(ctx); err != nil {
		return err
	}

	key, _ := v.key()
	v.update(func(s *VendorDetailSnapshot) { s.SavingContact = true })
	vendor, err := v.store.UpdateVendorContact(ctx, key.VendorID, optional(contactName), optional(contactEmail))
	v.update(func(s *VendorDetailSnapshot) {
		s.SavingContact = false
		if err != nil {
			v.fail(s, err)
			return
		}
		s.Vendor = vendor
		s.Message = &Message{Kind: MessageSuccess, Text: "Contact saved"}
	})
	return err
}

// SaveBudget parses input and upserts it as the active category's budget.
// The displayed figure is taken from the validated input.
func (v *VendorDetail) SaveBudget(ctx context.Context, input string) error {
	amount, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		verr := &ValidationError{Message: "Budget must be a number of 0 or more"}
		v.update(func(s *VendorDetailSnapshot) {
			s.BudgetInput = input
			s.Message = &Message{Kind: MessageError, Text: verr.Message}
		})
		return verr
	}

	v.update(func(s *VendorDetailSnapshot) { s.Message = nil })
	if err := v.gate(ctx); err != nil {
		return err
	}

	key, gen := v.key()
	v.update(func(s *VendorDetailSnapshot) { s.SavingBudget = true })
	_, err = v.store.UpsertBudget(ctx, key, amount)
	v.update(func(s *VendorDetailSnapshot) {
		s.SavingBudget = false
		if err != nil {
			v.fail(s, err)
			return
		}
		s.Message = &Message{Kind: MessageSuccess, Text: "Budget saved"}
	})
	if err != nil {
		return err
	}

	v.updateGen(gen, func(s *VendorDetailSnapshot) {
		s.Budget = amount
		s.BudgetInput = formatFloat(amount)
	})
	return nil
}

// AddCharge validates d and records it against the active category. The
// server's row is put at the top of the list and the form is reset.
func (v *VendorDetail) AddCharge(ctx context.Context, d Draft) error {
	input, verr := parseDraft(d)
	if verr != nil {
		v.update(func(s *VendorDetailSnapshot) {
			s.Draft = d
			s.Message = &Message{Kind: MessageError, Text: verr.Message}
		})
		return verr
	}

	v.update(func(s *VendorDetailSnapshot) {
		s.Draft = d
		s.Message = nil
	})
	if err := v.gate(ctx); err != nil {
		return err
	}

	key, gen := v.key()
	v.update(func(s *VendorDetailSnapshot) { s.AddingCharge = true })
	charge, err := v.store.CreateCharge(ctx, key, input)
	v.update(func(s *VendorDetailSnapshot) {
		s.AddingCharge = false
		if err != nil {
			v.fail(s, err)
			return
		}
		s.Draft = newDraft()
		s.Message = &Message{Kind: MessageSuccess, Text: "Charge added"}
	})
	if err != nil {
		return err
	}

	v.updateGen(gen, func(s *VendorDetailSnapshot) {
		s.Charges = append([]remote.Charge{*charge}, s.Charges...)
	})
	return nil
}

func parseDraft(d Draft) (remote.ChargeInput, *ValidationError) {
	raw := strings.TrimSpace(d.ChargeDate)
	if raw == "" {
		return remote.ChargeInput{}, &ValidationError{Message: "Pick a date"}
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return remote.ChargeInput{}, &ValidationError{Message: "Charge date must be YYYY-MM-DD"}
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(d.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return remote.ChargeInput{}, &ValidationError{Message: "Amount must be greater than 0"}
	}

	return remote.ChargeInput{
		ChargeDate:    date,
		Amount:        amount,
		InvoiceNumber: optional(d.InvoiceNumber),
		Notes:         optional(d.Notes),
	}, nil
}

// DeleteCharge removes the charge with id after confirm approves. On
// failure the charge list of the active category is read again.
func (v *VendorDetail) DeleteCharge(ctx context.Context, id string, confirm Confirmer) error {
	v.update(func(s *VendorDetailSnapshot) { s.Message = nil })
	if !confirm("Delete this charge?") {
		return nil
	}
	if err := v.gate(ctx); err != nil {
		return err
	}

	v.update(func(s *VendorDetailSnapshot) {
		kept := make([]remote.Charge, 0, len(s.Charges))
		for _, c := range s.Charges {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		s.Charges = kept
	})

	if err := v.store.DeleteCharge(ctx, id); err != nil {
		v.log.Warnw("charge delete failed, reloading", "charge_id", id, "error", err)
		if remote.IsUnauthorized(err) {
			v.update(func(s *VendorDetailSnapshot) { v.fail(s, err) })
			return err
		}

		key, gen := v.key()
		fresh, reloadErr := v.store.ListCharges(ctx, key)
		v.update(func(s *VendorDetailSnapshot) {
			if remote.IsUnauthorized(reloadErr) {
				s.Redirect = loginRedirect()
			}
			s.Message = errorMessage(err)
		})
		if reloadErr == nil {
			v.updateGen(gen, func(s *VendorDetailSnapshot) { s.Charges = fresh })
		}
		return err
	}

	v.update(func(s *VendorDetailSnapshot) {
		s.Message = &Message{Kind: MessageInfo, Text: "Deleted"}
	})
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
