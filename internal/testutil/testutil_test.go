package testutil_test

import (
	"testing"
	"time"

	"finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var count int64
	for _, table := range []string{"users", "accounts", "categories", "transactions", "budgets", "projections", "net_worth_snapshots", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}

	db.Model(&models.Category{}).Where("user_id IS NULL").Count(&count)
	if int(count) != len(models.DefaultCategories()) {
		t.Errorf("expected %d default categories, got %d", len(models.DefaultCategories()), count)
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	second := testutil.SetupTestDB(t)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected an empty second database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.Role != models.RoleUser {
		t.Errorf("expected role USER, got %s", user.Role)
	}

	account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "50.25")
	testutil.AssertDecimal(t, "balance", account.Balance, "50.25")

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, account.ID, &category.ID, models.TransactionTypeExpense, "10", time.Now())
	testutil.AssertDecimal(t, "amount", tx.Amount, "10")

	budget := testutil.CreateTestBudget(t, db, user.ID, category.ID, time.Now())
	testutil.AssertDecimal(t, "budget amount", budget.Amount, "100")

	food := testutil.DefaultCategory(t, db, "Food")
	if !food.IsDefault() {
		t.Error("expected Food to be a default category")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestAssertFieldError(t *testing.T) {
	err := errors.WithFields([]errors.FieldError{{Field: "amount", Message: "must be positive"}})
	testutil.AssertFieldError(t, err, "amount")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
