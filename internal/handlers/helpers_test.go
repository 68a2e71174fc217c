package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgettool/internal/config"
	"budgettool/internal/logger"
	"budgettool/internal/models"
	"budgettool/internal/services"
	"budgettool/internal/validator"
)

const testUserID = "0190f2a4-0000-7000-8000-000000000001"

// --- mock services ---

type mockUserService struct {
	signUpFn                func(ctx context.Context, email, password string) (*models.User, error)
	getUserByEmailFn        func(ctx context.Context, email string) (*models.User, error)
	getUserByIDFn           func(ctx context.Context, id string) (*models.User, error)
	attemptLoginFn          func(ctx context.Context, email, password string) (*models.User, error)
	storeRefreshTokenHashFn func(ctx context.Context, userID, tokenHash string) error
	getRefreshTokenHashFn   func(ctx context.Context, userID string) (string, error)
	clearRefreshTokenHashFn func(ctx context.Context, userID string) error
}

func (m *mockUserService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	if m.signUpFn != nil {
		return m.signUpFn(ctx, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(ctx, email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(_ *models.User, _ string) bool { return true }

func (m *mockUserService) AttemptLogin(ctx context.Context, email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(ctx, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(ctx, userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(ctx context.Context, userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(ctx, userID)
	}
	return "", nil
}

func (m *mockUserService) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	if m.clearRefreshTokenHashFn != nil {
		return m.clearRefreshTokenHashFn(ctx, userID)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

type mockVendorService struct {
	listVendorsFn         func(ctx context.Context, ownerID string) ([]models.Vendor, error)
	getVendorFn           func(ctx context.Context, ownerID, vendorID string) (*models.Vendor, error)
	createVendorFn        func(ctx context.Context, ownerID, name string, year int) (*models.Vendor, error)
	updateVendorContactFn func(ctx context.Context, ownerID, vendorID string, contactName, contactEmail *string) (*models.Vendor, error)
	deleteVendorFn        func(ctx context.Context, ownerID, vendorID string) error
}

func (m *mockVendorService) ListVendors(ctx context.Context, ownerID string) ([]models.Vendor, error) {
	if m.listVendorsFn != nil {
		return m.listVendorsFn(ctx, ownerID)
	}
	return []models.Vendor{}, nil
}

func (m *mockVendorService) GetVendor(ctx context.Context, ownerID, vendorID string) (*models.Vendor, error) {
	if m.getVendorFn != nil {
		return m.getVendorFn(ctx, ownerID, vendorID)
	}
	return &models.Vendor{}, nil
}

func (m *mockVendorService) CreateVendor(ctx context.Context, ownerID, name string, year int) (*models.Vendor, error) {
	if m.createVendorFn != nil {
		return m.createVendorFn(ctx, ownerID, name, year)
	}
	return &models.Vendor{}, nil
}

func (m *mockVendorService) UpdateVendorContact(ctx context.Context, ownerID, vendorID string, contactName, contactEmail *string) (*models.Vendor, error) {
	if m.updateVendorContactFn != nil {
		return m.updateVendorContactFn(ctx, ownerID, vendorID, contactName, contactEmail)
	}
	return &models.Vendor{}, nil
}

func (m *mockVendorService) DeleteVendor(ctx context.Context, ownerID, vendorID string) error {
	if m.deleteVendorFn != nil {
		return m.deleteVendorFn(ctx, ownerID, vendorID)
	}
	return nil
}

var _ services.VendorServicer = (*mockVendorService)(nil)

type mockBudgetService struct {
	getBudgetFn    func(ctx context.Context, ownerID string, key services.BudgetKey) (*models.VendorBudget, error)
	upsertBudgetFn func(ctx context.Context, ownerID string, key services.BudgetKey, amount float64) (*models.VendorBudget, error)
}

func (m *mockBudgetService) GetBudget(ctx context.Context, ownerID string, key services.BudgetKey) (*models.VendorBudget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(ctx, ownerID, key)
	}
	return nil, nil
}

func (m *mockBudgetService) UpsertBudget(ctx context.Context, ownerID string, key services.BudgetKey, amount float64) (*models.VendorBudget, error) {
	if m.upsertBudgetFn != nil {
		return m.upsertBudgetFn(ctx, ownerID, key, amount)
	}
	return &models.VendorBudget{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

type mockChargeService struct {
	listChargesFn  func(ctx context.Context, ownerID string, key services.BudgetKey) ([]models.Charge, error)
	createChargeFn func(ctx context.Context, ownerID string, key services.BudgetKey, input services.ChargeInput) (*models.Charge, error)
	deleteChargeFn func(ctx context.Context, ownerID, chargeID string) error
}

func (m *mockChargeService) ListCharges(ctx context.Context, ownerID string, key services.BudgetKey) ([]models.Charge, error) {
	if m.listChargesFn != nil {
		return m.listChargesFn(ctx, ownerID, key)
	}
	return []models.Charge{}, nil
}

func (m *mockChargeService) CreateCharge(ctx context.Context, ownerID string, key services.BudgetKey, input services.ChargeInput) (*models.Charge, error) {
	if m.createChargeFn != nil {
		return m.createChargeFn(ctx, ownerID, key, input)
	}
	return &models.Charge{}, nil
}

func (m *mockChargeService) DeleteCharge(ctx context.Context, ownerID, chargeID string) error {
	if m.deleteChargeFn != nil {
		return m.deleteChargeFn(ctx, ownerID, chargeID)
	}
	return nil
}

var _ services.ChargeServicer = (*mockChargeService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		Env:               "test",
		JWTSecret:         "handler-test-secret",
		JWTExpirationDur:  15 * time.Minute,
		RefreshExpiration: time.Hour,
		BudgetYear:        2025,
	})
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
