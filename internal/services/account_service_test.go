package services

import (
	"context"
	"math"
	"testing"

	"finance4all/internal/models"
	"finance4all/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		audit := &recordingAudit{}
		svc := NewAccountService(db, audit)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(ctx, user.ID, CreateAccountInput{
			Name:    "Checking",
			Type:    models.AccountTypeChecking,
			Balance: 1250.50,
		})
		testutil.AssertNoError(t, err)

		if account.ID == "" {
			t.Fatal("expected an ID")
		}
		if account.Currency != "USD" {
			t.Errorf("expected default currency USD, got %s", account.Currency)
		}
		if !account.IsActive {
			t.Error("expected account to be active")
		}
		testutil.AssertDecimal(t, "balance", account.Balance, "1250.5")
		if account.Category() != models.AccountCategoryAsset {
			t.Errorf("expected ASSET, got %s", account.Category())
		}
		if !audit.has("CREATE_ACCOUNT") {
			t.Error("expected CREATE_ACCOUNT audit entry")
		}
	})

	t.Run("debt_balance_stored_negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAccountService(db, nil)
		user := testutil.CreateTestUser(t, db)

		for _, balance := range []float64{2000, -2000} {
			account, err := svc.CreateAccount(ctx, user.ID, CreateAccountInput{
				Name:    "Card",
				Type:    models.AccountTypeCreditCard,
				Balance: balance,
			})
			testutil.AssertNoError(t, err)
			testutil.AssertDecimal(t, "balance", account.Balance, "-2000")
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAccountService(db, nil)
		user := testutil.CreateTestUser(t, db)

		tests := []struct {
			name  string
			in    CreateAccountInput
			field string
		}{
			{"empty_name", CreateAccountInput{Type: models.AccountTypeChecking}, "name"},
			{"bad_type", CreateAccountInput{Name: "x", Type: "BROKERAGE"}, "type"},
			{"infinite_balance", CreateAccountInput{Name: "x", Type: models.AccountTypeChecking, Balance: math.Inf(1)}, "balance"},
			{"currency_length", CreateAccountInput{Name: "x", Type: models.AccountTypeChecking, Currency: "EURO"}, "currency"},
			{"interest_range", CreateAccountInput{Name: "x", Type: models.AccountTypeLoan, InterestRate: ptr(120.0)}, "interestRate"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateAccount(ctx, user.ID, tt.in)
				testutil.AssertFieldError(t, err, tt.field)
			})
		}
	})
}

func TestGetUserAccounts(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewAccountService(db, nil)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")
	inactive := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeSavings, "20")
	db.Model(inactive).Update("is_active", false)
	testutil.CreateTestAccount(t, db, other.ID, models.AccountTypeChecking, "30")

	active, err := svc.GetUserAccounts(ctx, user.ID, false)
	testutil.AssertNoError(t, err)
	if len(active) != 1 {
		t.Errorf("expected 1 active account, got %d", len(active))
	}

	all, err := svc.GetUserAccounts(ctx, user.ID, true)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(all))
	}
}

func TestGetAccountByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewAccountService(db, nil)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")

	got, err := svc.GetAccountByID(ctx, user.ID, account.ID)
	testutil.AssertNoError(t, err)
	if got.ID != account.ID {
		t.Errorf("expected %s, got %s", account.ID, got.ID)
	}

	_, err = svc.GetAccountByID(ctx, other.ID, account.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")

	_, err = svc.GetAccountByID(ctx, user.ID, "not-a-uuid")
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAccountService(db, nil)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")

		updated, err := svc.UpdateAccount(ctx, user.ID, account.ID, UpdateAccountInput{
			Name:     ptr("Renamed"),
			Currency: ptr("eur"),
			IsActive: ptr(false),
		})
		testutil.AssertNoError(t, err)
		if updated.Name != "Renamed" {
			t.Errorf("expected Renamed, got %s", updated.Name)
		}
		if updated.Currency != "EUR" {
			t.Errorf("expected EUR, got %s", updated.Currency)
		}
		if updated.IsActive {
			t.Error("expected inactive account")
		}
	})

	t.Run("type_change_flips_sign", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAccountService(db, nil)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeOtherAsset, "500")

		updated, err := svc.UpdateAccount(ctx, user.ID, account.ID, UpdateAccountInput{Type: ptr(models.AccountTypeLoan)})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "balance", updated.Balance, "-500")
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAccountService(db, nil)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")

		_, err := svc.UpdateAccount(ctx, user.ID, account.ID, UpdateAccountInput{Name: ptr("")})
		testutil.AssertFieldError(t, err, "name")
	})

	t.Run("forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAccountService(db, nil)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")

		_, err := svc.UpdateAccount(ctx, other.ID, account.ID, UpdateAccountInput{Name: ptr("x")})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestDeleteAccountRemovesTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewAccountService(db, nil)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")
	keep := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, nil, models.TransactionTypeIncome, "5", account.CreatedAt)
	testutil.CreateTestTransaction(t, db, user.ID, keep.ID, nil, models.TransactionTypeIncome, "5", account.CreatedAt)

	testutil.AssertNoError(t, svc.DeleteAccount(ctx, user.ID, account.ID))

	var count int64
	db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected transactions to be removed, found %d", count)
	}
	db.Model(&models.Transaction{}).Where("account_id = ?", keep.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected other account's transaction to remain, found %d", count)
	}

	_, err := svc.GetAccountByID(ctx, user.ID, account.ID)
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestUpdateAccountBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAccountService(db, nil)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "100")

	testutil.AssertNoError(t, svc.UpdateAccountBalance(db, account.ID, decimal.RequireFromString("25.75")))
	testutil.AssertNoError(t, svc.UpdateAccountBalance(db, account.ID, decimal.RequireFromString("-40")))

	var reloaded models.Account
	db.First(&reloaded, "id = ?", account.ID)
	testutil.AssertDecimal(t, "balance", reloaded.Balance, "85.75")

	err := svc.UpdateAccountBalance(db, "0190a4f4-0000-7000-8000-000000000000", decimal.NewFromInt(1))
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestAccountBlankName(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewAccountService(db, nil)
	user := testutil.CreateTestUser(t, db)

	_, err := svc.CreateAccount(ctx, user.ID, CreateAccountInput{Name: "   ", Type: models.AccountTypeChecking})
	testutil.AssertFieldError(t, err, "name")

	account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "100")
	_, err = svc.UpdateAccount(ctx, user.ID, account.ID, UpdateAccountInput{Name: ptr("\t ")})
	testutil.AssertFieldError(t, err, "name")

	stored, err := svc.GetAccountByID(ctx, user.ID, account.ID)
	testutil.AssertNoError(t, err)
	if stored.Name != account.Name {
		t.Errorf("name changed to %q", stored.Name)
	}
}
