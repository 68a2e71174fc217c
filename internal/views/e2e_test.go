package views

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgettool/internal/cache"
	"budgettool/internal/config"
	"budgettool/internal/events"
	"budgettool/internal/models"
	"budgettool/internal/remote"
	"budgettool/internal/server"
	"budgettool/internal/services"
	"budgettool/internal/session"
	"budgettool/internal/testutil"
	"budgettool/internal/validator"
)

// startBackend serves the real API over sqlite and returns a signed-in
// client pointed at it.
func startBackend(t *testing.T) *remote.Client {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{
		Env:               "test",
		JWTSecret:         "views-e2e-secret",
		JWTExpirationDur:  15 * time.Minute,
		RefreshExpiration: time.Hour,
		BudgetYear:        2026,
	})

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	router := server.NewRouter(server.Services{
		Users:      services.NewUserService(db),
		Vendors:    services.NewVendorService(db, cache.NewMemory(), time.Minute),
		Budgets:    services.NewBudgetService(db),
		Charges:    services.NewChargeService(db),
		BudgetYear: func() int { return 2026 },
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client := remote.NewClient(srv.URL, remote.WithHTTPClient(srv.Client()))
	ctx := context.Background()
	if err := client.SignUp(ctx, "acme-owner@example.com", "secret1"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if _, err := client.SignInWithPassword(ctx, "acme-owner@example.com", "secret1"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	return client
}

func TestEndToEnd_AcmeScenario(t *testing.T) {
	client := startBackend(t)
	ctx := context.Background()

	sess := session.New(client)
	sess.Init(ctx)
	defer sess.Close()

	bus := events.NewBus()
	nav := NewNavShell(client, sess, bus)
	if err := nav.Start(ctx); err != nil {
		t.Fatalf("nav start failed: %v", err)
	}
	defer nav.Stop()

	list := NewVendorList(client, sess, bus, 2026)
	if err := list.Load(ctx); err != nil {
		t.Fatalf("list load failed: %v", err)
	}
	if err := list.Create(ctx, "Acme"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	acme := list.Snapshot().Vendors[0]
	if got := vendorNames(nav.Snapshot().Vendors); len(got) != 1 || got[0] != "Acme" {
		t.Errorf("sidebar = %v", got)
	}

	seed, err := client.GetBudget(ctx, remote.BudgetKey{VendorID: acme.ID, Year: 2026, BudgetType: models.BudgetTypeResidential})
	if err != nil || seed == nil || seed.AnnualBudget != 0 {
		t.Fatalf("expected zero seed budget, got %+v, %v", seed, err)
	}

	detail := NewVendorDetail(client, sess, acme.ID, 2026)
	defer detail.Close()
	if err := detail.Load(ctx); err != nil {
		t.Fatalf("detail load failed: %v", err)
	}
	if err := detail.SaveBudget(ctx, "10000"); err != nil {
		t.Fatalf("save budget failed: %v", err)
	}
	if err := detail.AddCharge(ctx, Draft{ChargeDate: "2026-03-01", Amount: "2500"}); err != nil {
		t.Fatalf("add charge failed: %v", err)
	}
	assertTotals(t, detail.Snapshot().Totals, "10000", "2500", "7500")

	// A fresh load sees the same figures from the database.
	reloaded := NewVendorDetail(client, sess, acme.ID, 2026)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	assertTotals(t, reloaded.Snapshot().Totals, "10000", "2500", "7500")

	chargeID := detail.Snapshot().Charges[0].ID
	if err := detail.DeleteCharge(ctx, chargeID, always); err != nil {
		t.Fatalf("delete charge failed: %v", err)
	}
	assertTotals(t, detail.Snapshot().Totals, "10000", "0", "10000")

	if err := list.Delete(ctx, acme.ID, always); err != nil {
		t.Fatalf("delete vendor failed: %v", err)
	}
	if n := len(nav.Snapshot().Vendors); n != 0 {
		t.Errorf("sidebar should be empty after delete, has %d", n)
	}
}

func TestEndToEnd_SignOutRedirects(t *testing.T) {
	client := startBackend(t)
	ctx := context.Background()

	sess := session.New(client)
	sess.Init(ctx)
	defer sess.Close()

	bus := events.NewBus()
	nav := NewNavShell(client, sess, bus)
	if _, err := nav.SignOut(ctx); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if sess.Current().Authenticated {
		t.Fatal("session should be cleared")
	}

	list := NewVendorList(client, sess, bus, 2026)
	_ = list.Load(ctx)
	if r := list.Snapshot().Redirect; r == nil || r.Kind != RouteLogin {
		t.Errorf("expected login redirect, got %+v", r)
	}
}
