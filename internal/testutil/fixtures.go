package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finance4all/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Decimal parses s or fails the test.
func Decimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a unique Firebase UID and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleUser)
}

// CreateTestUserWithRole creates a user holding the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		FirebaseUID: fmt.Sprintf("uid-%d", n),
		Email:       fmt.Sprintf("user%d@test.com", n),
		DisplayName: fmt.Sprintf("User %d", n),
		Role:        role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an active account. balance is stored as given.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string, accountType models.AccountType, balance string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     accountType,
		Balance:  Decimal(t, balance),
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a user-owned category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: &userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
		Color:  "#336699",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// DefaultCategory returns the seeded system category with the given name.
func DefaultCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	var category models.Category
	if err := db.Where("user_id IS NULL AND name = ?", name).First(&category).Error; err != nil {
		t.Fatalf("default category %q not found: %v", name, err)
	}
	return &category
}

// CreateTestTransaction creates a transaction without touching the account
// balance.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, categoryID *string, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     Decimal(t, amount),
		Date:       date.UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active monthly budget of 100 for the category,
// starting at start.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, start time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     decimal.NewFromInt(100),
		Period:     models.BudgetPeriodMonthly,
		StartDate:  start.UTC(),
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestProjection creates a saved scenario with common assumptions.
func CreateTestProjection(t *testing.T, db *gorm.DB, userID string) *models.Projection {
	t.Helper()

	projection := &models.Projection{
		UserID:           userID,
		Name:             fmt.Sprintf("Scenario %d", nextID()),
		IncomeGrowthRate: 3,
		InvestmentReturn: 7,
		InflationRate:    2,
		Years:            10,
		CurrentAge:       30,
	}
	if err := db.Create(projection).Error; err != nil {
		t.Fatalf("failed to create test projection: %v", err)
	}
	return projection
}
