package finance

import (
	"testing"
	"time"

	"finance4all/internal/models"

	"github.com/shopspring/decimal"
)

func TestCalculateCashFlowMonthlyBreakdown(t *testing.T) {
	period := Period{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 31, 23, 59, 59, 999999999, time.UTC),
	}
	txns := []models.Transaction{
		txn(t, models.TransactionTypeIncome, "1000", date(2024, time.January, 5), nil),
		txn(t, models.TransactionTypeExpense, "500", date(2024, time.January, 20), nil),
		txn(t, models.TransactionTypeIncome, "1000", date(2024, time.February, 5), nil),
	}

	cf := CalculateCashFlow(txns, period)

	if len(cf.MonthlyBreakdown) != 2 {
		t.Fatalf("expected 2 monthly entries, got %d", len(cf.MonthlyBreakdown))
	}

	jan, feb := cf.MonthlyBreakdown[0], cf.MonthlyBreakdown[1]
	if jan.Month != "2024-01" || feb.Month != "2024-02" {
		t.Fatalf("unexpected months %q, %q", jan.Month, feb.Month)
	}
	assertDecimal(t, "jan.Income", jan.Income, "1000")
	assertDecimal(t, "jan.Expenses", jan.Expenses, "500")
	assertDecimal(t, "jan.NetCashFlow", jan.NetCashFlow, "500")
	assertDecimal(t, "feb.Income", feb.Income, "1000")
	assertDecimal(t, "feb.Expenses", feb.Expenses, "0")
	assertDecimal(t, "feb.NetCashFlow", feb.NetCashFlow, "1000")

	assertDecimal(t, "TotalIncome", cf.TotalIncome, "2000")
	assertDecimal(t, "TotalExpenses", cf.TotalExpenses, "500")
	assertDecimal(t, "NetCashFlow", cf.NetCashFlow, "1500")
}

func TestCalculateCashFlowUncategorized(t *testing.T) {
	period := MonthRange(date(2024, time.May, 10))
	txns := []models.Transaction{
		txn(t, models.TransactionTypeExpense, "42.50", date(2024, time.May, 3), nil),
	}

	cf := CalculateCashFlow(txns, period)

	if len(cf.ExpensesByCategory) != 1 {
		t.Fatalf("expected 1 expense group, got %d", len(cf.ExpensesByCategory))
	}
	group := cf.ExpensesByCategory[0]
	if group.CategoryID != nil {
		t.Errorf("expected nil category id, got %q", *group.CategoryID)
	}
	if group.CategoryName != UncategorizedName {
		t.Errorf("expected %q, got %q", UncategorizedName, group.CategoryName)
	}
	assertDecimal(t, "Amount", group.Amount, "42.50")
}

func TestCalculateCashFlowGrouping(t *testing.T) {
	food := &models.Category{Base: models.Base{ID: "cat-food"}, Name: "Food", Type: models.CategoryTypeExpense, Color: "#FF9800"}
	rent := &models.Category{Base: models.Base{ID: "cat-rent"}, Name: "Housing", Type: models.CategoryTypeExpense}
	salary := &models.Category{Base: models.Base{ID: "cat-salary"}, Name: "Salary", Type: models.CategoryTypeIncome}

	period := MonthRange(date(2024, time.June, 1))
	txns := []models.Transaction{
		txn(t, models.TransactionTypeExpense, "20", date(2024, time.June, 2), food),
		txn(t, models.TransactionTypeExpense, "1200", date(2024, time.June, 1), rent),
		txn(t, models.TransactionTypeExpense, "35.25", date(2024, time.June, 9), food),
		txn(t, models.TransactionTypeExpense, "10", date(2024, time.June, 9), nil),
		txn(t, models.TransactionTypeIncome, "4000", date(2024, time.June, 28), salary),
		// outside the period
		txn(t, models.TransactionTypeExpense, "999", date(2024, time.July, 1), food),
		txn(t, models.TransactionTypeIncome, "999", date(2024, time.May, 31), salary),
	}

	cf := CalculateCashFlow(txns, period)

	wantOrder := []string{"Housing", "Food", UncategorizedName}
	if len(cf.ExpensesByCategory) != len(wantOrder) {
		t.Fatalf("expected %d expense groups, got %d", len(wantOrder), len(cf.ExpensesByCategory))
	}
	for i, name := range wantOrder {
		if cf.ExpensesByCategory[i].CategoryName != name {
			t.Errorf("group %d = %q, want %q", i, cf.ExpensesByCategory[i].CategoryName, name)
		}
	}
	assertDecimal(t, "Food", cf.ExpensesByCategory[1].Amount, "55.25")
	if cf.ExpensesByCategory[1].Color != "#FF9800" {
		t.Errorf("expected food color to be carried, got %q", cf.ExpensesByCategory[1].Color)
	}

	sumExpenses := decimal.Zero
	for _, g := range cf.ExpensesByCategory {
		sumExpenses = sumExpenses.Add(g.Amount)
	}
	sumIncome := decimal.Zero
	for _, g := range cf.IncomeByCategory {
		sumIncome = sumIncome.Add(g.Amount)
	}

	if !sumExpenses.Equal(cf.TotalExpenses) {
		t.Errorf("expense groups sum to %s, total is %s", sumExpenses, cf.TotalExpenses)
	}
	if !sumIncome.Equal(cf.TotalIncome) {
		t.Errorf("income groups sum to %s, total is %s", sumIncome, cf.TotalIncome)
	}
	if !cf.NetCashFlow.Equal(cf.TotalIncome.Sub(cf.TotalExpenses)) {
		t.Errorf("net cash flow %s != income - expenses", cf.NetCashFlow)
	}
	assertDecimal(t, "TotalIncome", cf.TotalIncome, "4000")
	assertDecimal(t, "TotalExpenses", cf.TotalExpenses, "1265.25")
}

func TestCalculateCashFlowInclusiveBounds(t *testing.T) {
	period := MonthRange(date(2024, time.February, 10))
	txns := []models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: dec(t, "1"), Date: period.Start},
		{Type: models.TransactionTypeIncome, Amount: dec(t, "2"), Date: period.End},
		{Type: models.TransactionTypeIncome, Amount: dec(t, "4"), Date: period.End.Add(time.Nanosecond)},
	}

	cf := CalculateCashFlow(txns, period)
	assertDecimal(t, "TotalIncome", cf.TotalIncome, "3")
}

func TestCalculateCashFlowEmpty(t *testing.T) {
	cf := CalculateCashFlow(nil, MonthRange(date(2024, time.January, 1)))

	assertDecimal(t, "NetCashFlow", cf.NetCashFlow, "0")
	if cf.MonthlyBreakdown == nil || len(cf.MonthlyBreakdown) != 0 {
		t.Errorf("expected empty breakdown, got %v", cf.MonthlyBreakdown)
	}
	if cf.IncomeByCategory == nil || cf.ExpensesByCategory == nil {
		t.Error("expected non-nil category slices")
	}
}
