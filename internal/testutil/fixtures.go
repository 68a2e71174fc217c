package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"budgettool/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestVendor creates a vendor without any budgets.
func CreateTestVendor(t *testing.T, db *gorm.DB, ownerID string) *models.Vendor {
	t.Helper()
	return CreateTestVendorWithName(t, db, ownerID, fmt.Sprintf("Vendor %d", nextID()))
}

// CreateTestVendorWithName creates a vendor with the given name.
func CreateTestVendorWithName(t *testing.T, db *gorm.DB, ownerID, name string) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{OwnerID: ownerID, Name: name}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("failed to create test vendor: %v", err)
	}
	return vendor
}

// CreateTestBudget creates a budget row for the vendor.
func CreateTestBudget(t *testing.T, db *gorm.DB, vendor *models.Vendor, year int, budgetType models.BudgetType, amount float64) *models.VendorBudget {
	t.Helper()

	budget := &models.VendorBudget{
		OwnerID:      vendor.OwnerID,
		VendorID:     vendor.ID,
		Year:         year,
		BudgetType:   budgetType,
		AnnualBudget: amount,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCharge creates a charge for the vendor on the given day (YYYY-MM-DD).
func CreateTestCharge(t *testing.T, db *gorm.DB, vendor *models.Vendor, year int, budgetType models.BudgetType, day string, amount float64) *models.Charge {
	t.Helper()

	charge := &models.Charge{
		OwnerID:    vendor.OwnerID,
		VendorID:   vendor.ID,
		Year:       year,
		BudgetType: budgetType,
		ChargeDate: models.MustParseDate(day),
		Amount:     amount,
	}
	if err := db.Create(charge).Error; err != nil {
		t.Fatalf("failed to create test charge: %v", err)
	}
	return charge
}
