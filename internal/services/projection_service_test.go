package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/testutil"
)

func newProjectionService(db *gorm.DB, defaults ProjectionDefaults, now time.Time) *projectionService {
	accounts := NewAccountService(db, nil)
	categories := NewCategoryService(db, nil)
	transactions := NewTransactionService(db, accounts, categories, nil)
	analytics := NewAnalyticsService(accounts, transactions, NewBudgetService(db, categories, nil))

	svc := NewProjectionService(db, analytics, defaults, nil).(*projectionService)
	svc.now = fixedClock(now)
	return svc
}

// seedFinances gives the user 10,000 in checking plus 12,000 of income and
// 6,000 of expenses inside the trailing year before now.
func seedFinances(t *testing.T, db *gorm.DB, userID string, now time.Time) {
	t.Helper()
	account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeChecking, "10000")
	testutil.CreateTestTransaction(t, db, userID, account.ID, nil, models.TransactionTypeIncome, "12000", now.AddDate(0, -2, 0))
	testutil.CreateTestTransaction(t, db, userID, account.ID, nil, models.TransactionTypeExpense, "6000", now.AddDate(0, -1, 0))
	// older than twelve months
	testutil.CreateTestTransaction(t, db, userID, account.ID, nil, models.TransactionTypeIncome, "99999", now.AddDate(-2, 0, 0))
}

func TestProjectionCRUD(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	db := testutil.SetupTestDB(t)
	svc := newProjectionService(db, ProjectionDefaults{Years: 25, BaseAge: 35}, now)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	created, err := svc.CreateProjection(ctx, user.ID, CreateProjectionInput{
		Name:             "Baseline",
		IncomeGrowthRate: 3,
		InvestmentReturn: 7,
		InflationRate:    2,
	})
	testutil.AssertNoError(t, err)
	if created.Years != 25 || created.CurrentAge != 35 {
		t.Errorf("expected configured defaults, got years=%d age=%d", created.Years, created.CurrentAge)
	}

	list, err := svc.GetUserProjections(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if len(list) != 1 {
		t.Errorf("expected 1 projection, got %d", len(list))
	}

	_, err = svc.GetProjectionByID(ctx, other.ID, created.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")

	updated, err := svc.UpdateProjection(ctx, user.ID, created.ID, UpdateProjectionInput{Years: ptr(10), InvestmentReturn: ptr(5.5)})
	testutil.AssertNoError(t, err)
	if updated.Years != 10 || updated.InvestmentReturn != 5.5 {
		t.Errorf("unexpected update result: %+v", updated)
	}

	_, err = svc.UpdateProjection(ctx, user.ID, created.ID, UpdateProjectionInput{InflationRate: ptr(80.0)})
	testutil.AssertFieldError(t, err, "inflationRate")

	testutil.AssertNoError(t, svc.DeleteProjection(ctx, user.ID, created.ID))
	_, err = svc.GetProjectionByID(ctx, user.ID, created.ID)
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestCalculateProjection(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	db := testutil.SetupTestDB(t)
	svc := newProjectionService(db, ProjectionDefaults{}, now)
	user := testutil.CreateTestUser(t, db)
	seedFinances(t, db, user.ID, now)

	result, err := svc.Calculate(ctx, user.ID, CalculateProjectionInput{Years: 5})
	testutil.AssertNoError(t, err)

	testutil.AssertDecimal(t, "current net worth", result.CurrentNetWorth, "10000")
	testutil.AssertDecimal(t, "annual income", result.AnnualIncome, "12000")
	testutil.AssertDecimal(t, "annual expenses", result.AnnualExpenses, "6000")
	if len(result.ProjectedYears) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(result.ProjectedYears))
	}
	testutil.AssertDecimal(t, "year 1 net worth", result.ProjectedYears[1].NetWorth, "16000")
	testutil.AssertDecimal(t, "year 5 net worth", result.ProjectedYears[5].NetWorth, "40000")
	if result.ProjectedYears[0].Age != finance.DefaultBaseAge {
		t.Errorf("expected base age %d, got %d", finance.DefaultBaseAge, result.ProjectedYears[0].Age)
	}
	if result.ExpenseGrowth != finance.ExpenseGrowthFlat {
		t.Errorf("expected flat expenses, got %s", result.ExpenseGrowth)
	}
}

func TestCalculateProjectionInflatesExpenses(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	db := testutil.SetupTestDB(t)
	svc := newProjectionService(db, ProjectionDefaults{InflateExpense: true}, now)
	user := testutil.CreateTestUser(t, db)
	seedFinances(t, db, user.ID, now)

	result, err := svc.Calculate(ctx, user.ID, CalculateProjectionInput{InflationRate: 10, Years: 1})
	testutil.AssertNoError(t, err)
	if result.ExpenseGrowth != finance.ExpenseGrowthInflation {
		t.Errorf("expected inflation policy, got %s", result.ExpenseGrowth)
	}
	testutil.AssertDecimal(t, "year 1 expenses", result.ProjectedYears[1].AnnualExpenses, "6600")
}

func TestRunProjection(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	db := testutil.SetupTestDB(t)
	svc := newProjectionService(db, ProjectionDefaults{}, now)
	user := testutil.CreateTestUser(t, db)
	seedFinances(t, db, user.ID, now)
	saved := testutil.CreateTestProjection(t, db, user.ID)

	result, err := svc.Run(ctx, user.ID, saved.ID)
	testutil.AssertNoError(t, err)
	if result.Years != saved.Years {
		t.Errorf("expected %d years, got %d", saved.Years, result.Years)
	}
	if result.Assumptions.InvestmentReturn != saved.InvestmentReturn {
		t.Errorf("expected saved assumptions to be used")
	}

	_, err = svc.Run(ctx, user.ID, "missing")
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestProjectionBlankName(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newProjectionService(db, ProjectionDefaults{}, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	user := testutil.CreateTestUser(t, db)

	_, err := svc.CreateProjection(ctx, user.ID, CreateProjectionInput{Name: "   "})
	testutil.AssertFieldError(t, err, "name")

	saved := testutil.CreateTestProjection(t, db, user.ID)
	_, err = svc.UpdateProjection(ctx, user.ID, saved.ID, UpdateProjectionInput{Name: ptr("")})
	testutil.AssertFieldError(t, err, "name")
}
