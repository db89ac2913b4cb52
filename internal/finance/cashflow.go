package finance

import (
	"sort"

	"finance4all/internal/models"

	"github.com/shopspring/decimal"
)

// UncategorizedName labels the group of transactions without a category.
const UncategorizedName = "Uncategorized"

// CategoryAmount is the total of one category within a cash flow.
// CategoryID is nil for the uncategorized group.
type CategoryAmount struct {
	CategoryID   *string         `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Color        string          `json:"color,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
}

// MonthlyCashFlow is the cash flow of a single calendar month ("YYYY-MM").
type MonthlyCashFlow struct {
	Month       string          `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
}

// CashFlow summarizes income and expenses over a period.
type CashFlow struct {
	TotalIncome        decimal.Decimal   `json:"total_income"`
	TotalExpenses      decimal.Decimal   `json:"total_expenses"`
	NetCashFlow        decimal.Decimal   `json:"net_cash_flow"`
	IncomeByCategory   []CategoryAmount  `json:"income_by_category"`
	ExpensesByCategory []CategoryAmount  `json:"expenses_by_category"`
	MonthlyBreakdown   []MonthlyCashFlow `json:"monthly_breakdown"`
	Period             Period            `json:"period"`
}

type categoryTotals struct {
	order  []string
	groups map[string]*CategoryAmount
}

func newCategoryTotals() *categoryTotals {
	return &categoryTotals{groups: make(map[string]*CategoryAmount)}
}

func (c *categoryTotals) add(t *models.Transaction) {
	key := ""
	if t.CategoryID != nil {
		key = *t.CategoryID
	}

	g, ok := c.groups[key]
	if !ok {
		g = &CategoryAmount{CategoryName: UncategorizedName, Amount: decimal.Zero}
		if t.CategoryID != nil {
			id := *t.CategoryID
			g.CategoryID = &id
			g.CategoryName = id
			if t.Category != nil {
				g.CategoryName = t.Category.Name
				g.Color = t.Category.Color
			}
		}
		c.groups[key] = g
		c.order = append(c.order, key)
	}
	g.Amount = g.Amount.Add(t.Amount)
}

// sorted returns the groups ordered by amount descending, then by name.
func (c *categoryTotals) sorted() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := out[i].Amount.Cmp(out[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}

// CalculateCashFlow aggregates the transactions that fall inside period.
// Monthly entries exist only for months with at least one transaction and are
// emitted in chronological order.
func CalculateCashFlow(transactions []models.Transaction, period Period) CashFlow {
	cf := CashFlow{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Period:        period,
	}
	income := newCategoryTotals()
	expenses := newCategoryTotals()
	months := make(map[string]*MonthlyCashFlow)

	for i := range transactions {
		t := &transactions[i]
		if !period.Contains(t.Date) {
			continue
		}

		key := t.Date.In(period.Start.Location()).Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &MonthlyCashFlow{Month: key, Income: decimal.Zero, Expenses: decimal.Zero}
			months[key] = m
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			cf.TotalIncome = cf.TotalIncome.Add(t.Amount)
			m.Income = m.Income.Add(t.Amount)
			income.add(t)
		case models.TransactionTypeExpense:
			cf.TotalExpenses = cf.TotalExpenses.Add(t.Amount)
			m.Expenses = m.Expenses.Add(t.Amount)
			expenses.add(t)
		}
	}

	cf.NetCashFlow = cf.TotalIncome.Sub(cf.TotalExpenses)
	cf.IncomeByCategory = income.sorted()
	cf.ExpensesByCategory = expenses.sorted()

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cf.MonthlyBreakdown = make([]MonthlyCashFlow, 0, len(keys))
	for _, k := range keys {
		m := months[k]
		m.NetCashFlow = m.Income.Sub(m.Expenses)
		cf.MonthlyBreakdown = append(cf.MonthlyBreakdown, *m)
	}
	return cf
}
