package views

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"budgettool/internal/models"
	"budgettool/internal/remote"
)

func newDetail(t *testing.T, store *fakeStore, vendorID string) *VendorDetail {
	t.Helper()
	d := NewVendorDetail(store, newSession(t, store), vendorID, 2026)
	t.Cleanup(d.Close)
	return d
}

func assertTotals(t *testing.T, got Totals, budget, spent, remaining string) {
	t.Helper()
	want := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"budget", got.Budget, budget},
		{"spent", got.Spent, spent},
		{"remaining", got.Remaining, remaining},
	}
	for _, w := range want {
		if !w.got.Equal(decimal.RequireFromString(w.want)) {
			t.Errorf("%s = %s, want %s", w.name, w.got, w.want)
		}
	}
}

func TestVendorDetail_AcmeScenario(t *testing.T) {
	store := newFakeStore("user-1")
	list, _ := newList(t, store)
	if err := list.Create(context.Background(), "Acme"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	acme := list.Snapshot().Vendors[0]

	detail := newDetail(t, store, acme.ID)
	if err := detail.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	snap := detail.Snapshot()
	if snap.Vendor == nil || snap.Vendor.Name != "Acme" {
		t.Fatalf("vendor = %+v", snap.Vendor)
	}
	if snap.Category != models.BudgetTypeResidential {
		t.Errorf("category = %q, want residential", snap.Category)
	}
	assertTotals(t, snap.Totals, "0", "0", "0")

	if err := detail.SaveBudget(context.Background(), "10000"); err != nil {
		t.Fatalf("save budget failed: %v", err)
	}
	if err := detail.AddCharge(context.Background(), Draft{ChargeDate: "2026-03-01", Amount: "2500"}); err != nil {
		t.Fatalf("add charge failed: %v", err)
	}
	snap = detail.Snapshot()
	assertTotals(t, snap.Totals, "10000", "2500", "7500")

	if err := detail.DeleteCharge(context.Background(), snap.Charges[0].ID, always); err != nil {
		t.Fatalf("delete charge failed: %v", err)
	}
	snap = detail.Snapshot()
	assertTotals(t, snap.Totals, "10000", "0", "10000")
	if snap.Message == nil || snap.Message.Kind != MessageInfo {
		t.Errorf("message = %+v", snap.Message)
	}
}

func TestVendorDetail_MissingBudgetReadsZero(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	detail := newDetail(t, store, acme.ID)

	if err := detail.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	snap := detail.Snapshot()
	if snap.Budget != 0 || snap.BudgetInput != "0" {
		t.Errorf("budget = %v (%q), want 0", snap.Budget, snap.BudgetInput)
	}
}

func TestVendorDetail_LoadWithoutSessionRedirects(t *testing.T) {
	store := newFakeStore("")
	detail := newDetail(t, store, "vendor-1")

	_ = detail.Load(context.Background())
	snap := detail.Snapshot()
	if snap.Redirect == nil || snap.Redirect.Kind != RouteLogin {
		t.Errorf("expected login redirect, got %+v", snap.Redirect)
	}
	if store.count("GetVendor") != 0 {
		t.Error("no remote read expected without a session")
	}
}

func TestVendorDetail_SaveBudgetValidation(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"-1", true},
		{"abc", true},
		{"", true},
		{"NaN", true},
		{"Inf", true},
		{"0", false},
		{" 1500.50 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			store := newFakeStore("user-1")
			acme := store.addVendor("Acme")
			detail := newDetail(t, store, acme.ID)
			_ = detail.Load(context.Background())

			err := detail.SaveBudget(context.Background(), tt.input)
			var verr *ValidationError
			if tt.wantErr {
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if store.count("UpsertBudget") != 0 {
					t.Error("rejected budget must not reach the store")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store.count("UpsertBudget") != 1 {
				t.Errorf("UpsertBudget calls = %d, want 1", store.count("UpsertBudget"))
			}
			if msg := detail.Snapshot().Message; msg == nil || msg.Text != "Budget saved" {
				t.Errorf("message = %+v", msg)
			}
		})
	}
}

func TestVendorDetail_AddChargeValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantMsg string
	}{
		{"missing date", Draft{Amount: "10"}, "Pick a date"},
		{"bad date", Draft{ChargeDate: "03/01/2026", Amount: "10"}, "Charge date must be YYYY-MM-DD"},
		{"zero amount", Draft{ChargeDate: "2026-03-01", Amount: "0"}, "Amount must be greater than 0"},
		{"negative amount", Draft{ChargeDate: "2026-03-01", Amount: "-5"}, "Amount must be greater than 0"},
		{"non-numeric amount", Draft{ChargeDate: "2026-03-01", Amount: "ten"}, "Amount must be greater than 0"},
		{"infinite amount", Draft{ChargeDate: "2026-03-01", Amount: "+Inf"}, "Amount must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore("user-1")
			acme := store.addVendor("Acme")
			detail := newDetail(t, store, acme.ID)
			_ = detail.Load(context.Background())

			err := detail.AddCharge(context.Background(), tt.draft)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Message != tt.wantMsg {
				t.Fatalf("expected %q, got %v", tt.wantMsg, err)
			}
			if store.count("CreateCharge") != 0 {
				t.Error("rejected charge must not reach the store")
			}
			if got := detail.Snapshot().Draft; got != tt.draft {
				t.Errorf("draft should be kept, got %+v", got)
			}
		})
	}
}

func TestVendorDetail_SmallestChargeGoesFirst(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	detail := newDetail(t, store, acme.ID)
	_ = detail.Load(context.Background())

	if err := detail.AddCharge(context.Background(), Draft{ChargeDate: "2026-03-01", Amount: "2500"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	draft := Draft{ChargeDate: "2026-03-01", Amount: "0.01", InvoiceNumber: "  INV-7 ", Notes: "   "}
	if err := detail.AddCharge(context.Background(), draft); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	snap := detail.Snapshot()
	if len(snap.Charges) != 2 || snap.Charges[0].Amount != 0.01 {
		t.Fatalf("expected the 0.01 charge first, got %+v", snap.Charges)
	}
	first := snap.Charges[0]
	if first.InvoiceNumber == nil || *first.InvoiceNumber != "INV-7" {
		t.Errorf("invoice = %v, want trimmed INV-7", first.InvoiceNumber)
	}
	if first.Notes != nil {
		t.Errorf("blank notes should be absent, got %q", *first.Notes)
	}
	if snap.Draft.Amount != "" || snap.Draft.ChargeDate != models.Today().String() {
		t.Errorf("draft should reset, got %+v", snap.Draft)
	}
	if snap.Message == nil || snap.Message.Text != "Charge added" {
		t.Errorf("message = %+v", snap.Message)
	}
	assertTotals(t, snap.Totals, "0", "2500.01", "-2500.01")
}

func TestVendorDetail_SetCategoryRescopes(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	store.budgets[remote.BudgetKey{VendorID: acme.ID, Year: 2026, BudgetType: models.BudgetTypeResidential}] = 100
	store.budgets[remote.BudgetKey{VendorID: acme.ID, Year: 2026, BudgetType: models.BudgetTypeCommercial}] = 900

	detail := newDetail(t, store, acme.ID)
	_ = detail.Load(context.Background())
	if err := detail.AddCharge(context.Background(), Draft{ChargeDate: "2026-01-10", Amount: "40"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	vendorReads := store.count("GetVendor")
	if err := detail.SetCategory(context.Background(), models.BudgetTypeCommercial); err != nil {
		t.Fatalf("set category failed: %v", err)
	}

	snap := detail.Snapshot()
	if snap.Category != models.BudgetTypeCommercial {
		t.Errorf("category = %q", snap.Category)
	}
	if len(snap.Charges) != 0 {
		t.Errorf("commercial charges = %+v, want none", snap.Charges)
	}
	assertTotals(t, snap.Totals, "900", "0", "900")
	if store.count("GetVendor") != vendorReads {
		t.Error("switching category must not re-read the vendor")
	}

	if err := detail.SetCategory(context.Background(), models.BudgetTypeResidential); err != nil {
		t.Fatalf("set category failed: %v", err)
	}
	assertTotals(t, detail.Snapshot().Totals, "100", "40", "60")

	if err := detail.SetCategory(context.Background(), "industrial"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestVendorDetail_StaleCategoryResponseIsDropped(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	store.budgets[remote.BudgetKey{VendorID: acme.ID, Year: 2026, BudgetType: models.BudgetTypeCommercial}] = 111
	store.budgets[remote.BudgetKey{VendorID: acme.ID, Year: 2026, BudgetType: models.BudgetTypePublic}] = 222

	detail := newDetail(t, store, acme.ID)
	_ = detail.Load(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	store.onGetBudget = func(key remote.BudgetKey) {
		if key.BudgetType == models.BudgetTypeCommercial {
			close(started)
			<-release
		}
	}

	done := make(chan error)
	go func() { done <- detail.SetCategory(context.Background(), models.BudgetTypeCommercial) }()
	<-started

	if err := detail.SetCategory(context.Background(), models.BudgetTypePublic); err != nil {
		t.Fatalf("set category failed: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale fetch failed: %v", err)
	}

	snap := detail.Snapshot()
	if snap.Category != models.BudgetTypePublic || snap.Budget != 222 {
		t.Errorf("stale response overwrote fresh data: category=%q budget=%v", snap.Category, snap.Budget)
	}
}

func TestVendorDetail_DeleteChargeFailureRefetches(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	detail := newDetail(t, store, acme.ID)
	_ = detail.Load(context.Background())
	_ = detail.AddCharge(context.Background(), Draft{ChargeDate: "2026-02-01", Amount: "10"})
	charge := detail.Snapshot().Charges[0]

	started := make(chan struct{})
	release := make(chan struct{})
	store.onDeleteCharge = func(string) error {
		close(started)
		<-release
		return &remote.Error{Status: 500, Code: "INTERNAL_ERROR", Message: "delete failed"}
	}

	done := make(chan error)
	go func() { done <- detail.DeleteCharge(context.Background(), charge.ID, always) }()
	<-started
	if n := len(detail.Snapshot().Charges); n != 0 {
		t.Errorf("charge should be removed optimistically, have %d", n)
	}
	close(release)
	if err := <-done; err == nil {
		t.Fatal("expected error")
	}

	snap := detail.Snapshot()
	if len(snap.Charges) != 1 || snap.Charges[0].ID != charge.ID {
		t.Errorf("charge list should be restored from the store, got %+v", snap.Charges)
	}
	if snap.Message == nil || snap.Message.Text != "delete failed" {
		t.Errorf("message = %+v", snap.Message)
	}
}

func TestVendorDetail_DeleteChargeReloadUnauthorizedRedirects(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	detail := newDetail(t, store, acme.ID)
	_ = detail.Load(context.Background())
	_ = detail.AddCharge(context.Background(), Draft{ChargeDate: "2026-02-01", Amount: "10"})
	charge := detail.Snapshot().Charges[0]

	store.onDeleteCharge = func(string) error {
		return &remote.Error{Status: 500, Code: "INTERNAL_ERROR", Message: "delete failed"}
	}
	store.onListCharges = func(remote.BudgetKey) error {
		return &remote.Error{Status: 401, Code: "UNAUTHORIZED", Message: "Invalid or expired token"}
	}

	if err := detail.DeleteCharge(context.Background(), charge.ID, always); err == nil {
		t.Fatal("expected error")
	}
	snap := detail.Snapshot()
	if snap.Redirect == nil || snap.Redirect.Kind != RouteLogin {
		t.Errorf("expected login redirect, got %+v", snap.Redirect)
	}
}

func TestVendorDetail_DeleteChargeDeclined(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	detail := newDetail(t, store, acme.ID)
	_ = detail.Load(context.Background())
	_ = detail.AddCharge(context.Background(), Draft{ChargeDate: "2026-02-01", Amount: "10"})

	if err := detail.DeleteCharge(context.Background(), detail.Snapshot().Charges[0].ID, never); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.count("DeleteCharge") != 0 || len(detail.Snapshot().Charges) != 1 {
		t.Error("declined delete must not change anything")
	}
}

func TestVendorDetail_SaveContactNormalizesBlank(t *testing.T) {
	store := newFakeStore("user-1")
	acme := store.addVendor("Acme")
	detail := newDetail(t, store, acme.ID)
	_ = detail.Load(context.Background())

	if err := detail.SaveContact(context.Background(), "  Jane Roe ", "   "); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	snap := detail.Snapshot()
	if snap.Vendor.ContactName == nil || *snap.Vendor.ContactName != "Jane Roe" {
		t.Errorf("contact name = %v", snap.Vendor.ContactName)
	}
	if snap.Vendor.ContactEmail != nil {
		t.Errorf("blank email should be absent, got %q", *snap.Vendor.ContactEmail)
	}
	if snap.Message == nil || snap.Message.Text != "Contact saved" {
		t.Errorf("message = %+v", snap.Message)
	}
}

func TestVendorDetail_UnknownVendorShowsError(t *testing.T) {
	store := newFakeStore("user-1")
	detail := newDetail(t, store, "missing")

	if err := detail.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	snap := detail.Snapshot()
	if snap.Status != StatusLoaded || snap.Message == nil || snap.Message.Text != "Vendor not found" {
		t.Errorf("unexpected state: %+v", snap)
	}
}
