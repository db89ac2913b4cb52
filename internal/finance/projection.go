package finance

import (
	"github.com/shopspring/decimal"
)

const (
	// DefaultProjectionYears is used when a projection does not set a horizon.
	DefaultProjectionYears = 30
	// DefaultBaseAge is the age assumed for year 0 when none is known.
	DefaultBaseAge = 30
)

// MillionaireThreshold is the net worth that marks the millionaire milestone.
var MillionaireThreshold = decimal.NewFromInt(1_000_000)

// ExpenseGrowth selects how annual expenses evolve over a projection.
type ExpenseGrowth string

const (
	// ExpenseGrowthFlat keeps expenses at the baseline every year.
	ExpenseGrowthFlat ExpenseGrowth = "flat"
	// ExpenseGrowthInflation compounds expenses by the inflation rate.
	ExpenseGrowthInflation ExpenseGrowth = "inflation"
)

// Assumptions are annual rates in percent (7.0 means 7%).
type Assumptions struct {
	IncomeGrowthRate float64 `json:"income_growth_rate"`
	InvestmentReturn float64 `json:"investment_return"`
	InflationRate    float64 `json:"inflation_rate"`
}

// ProjectionParams is the full input of Project.
type ProjectionParams struct {
	CurrentNetWorth decimal.Decimal
	AnnualIncome    decimal.Decimal
	AnnualExpenses  decimal.Decimal
	Assumptions     Assumptions
	Years           int
	BaseAge         int
	ExpenseGrowth   ExpenseGrowth
}

// ProjectedYear is one row of a projection.
type ProjectedYear struct {
	Year                      int             `json:"year"`
	Age                       int             `json:"age"`
	AnnualIncome              decimal.Decimal `json:"annual_income"`
	AnnualExpenses            decimal.Decimal `json:"annual_expenses"`
	AnnualSavings             decimal.Decimal `json:"annual_savings"`
	InvestmentGrowth          decimal.Decimal `json:"investment_growth"`
	NetWorth                  decimal.Decimal `json:"net_worth"`
	InflationAdjustedNetWorth decimal.Decimal `json:"inflation_adjusted_net_worth"`
}

// Milestones records notable points reached during a projection.
type Milestones struct {
	MillionaireYear *int `json:"millionaire_year,omitempty"`
	MillionaireAge  *int `json:"millionaire_age,omitempty"`
}

// Projection is the result of running the projection engine.
type Projection struct {
	CurrentNetWorth decimal.Decimal `json:"current_net_worth"`
	AnnualIncome    decimal.Decimal `json:"annual_income"`
	AnnualExpenses  decimal.Decimal `json:"annual_expenses"`
	Assumptions     Assumptions     `json:"assumptions"`
	Years           int             `json:"years"`
	ExpenseGrowth   ExpenseGrowth   `json:"expense_growth"`
	ProjectedYears  []ProjectedYear `json:"projected_years"`
	Milestones      Milestones      `json:"milestones"`
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// rateFactor converts a percentage into a growth multiplier (7 -> 1.07).
func rateFactor(percent float64) decimal.Decimal {
	return one.Add(decimal.NewFromFloat(percent).Div(hundred))
}

// Project runs the compound-growth projection. Year 0 is the current state.
// For each later year income grows by the income growth rate, the prior net
// worth earns the investment return (a negative net worth earns nothing) and
// the year's savings are added. Rows are rounded to cents for output only.
func Project(p ProjectionParams) Projection {
	years := p.Years
	if years <= 0 {
		years = DefaultProjectionYears
	}
	baseAge := p.BaseAge
	if baseAge <= 0 {
		baseAge = DefaultBaseAge
	}
	policy := p.ExpenseGrowth
	if policy != ExpenseGrowthInflation {
		policy = ExpenseGrowthFlat
	}

	incomeFactor := rateFactor(p.Assumptions.IncomeGrowthRate)
	inflationFactor := rateFactor(p.Assumptions.InflationRate)
	returnRate := decimal.NewFromFloat(p.Assumptions.InvestmentReturn).Div(hundred)

	out := Projection{
		CurrentNetWorth: p.CurrentNetWorth,
		AnnualIncome:    p.AnnualIncome,
		AnnualExpenses:  p.AnnualExpenses,
		Assumptions:     p.Assumptions,
		Years:           years,
		ExpenseGrowth:   policy,
		ProjectedYears:  make([]ProjectedYear, 0, years+1),
	}

	incomeGrowth := one
	inflation := one
	netWorth := p.CurrentNetWorth

	for y := 0; y <= years; y++ {
		if y > 0 {
			incomeGrowth = incomeGrowth.Mul(incomeFactor)
			inflation = inflation.Mul(inflationFactor)
		}

		income := p.AnnualIncome.Mul(incomeGrowth)
		expenses := p.AnnualExpenses
		if policy == ExpenseGrowthInflation {
			expenses = expenses.Mul(inflation)
		}
		savings := income.Sub(expenses)

		growth := decimal.Zero
		if y > 0 {
			if netWorth.IsPositive() {
				growth = netWorth.Mul(returnRate)
			}
			netWorth = netWorth.Add(growth).Add(savings)
		}

		adjusted := netWorth
		if !inflation.IsZero() {
			adjusted = netWorth.Div(inflation)
		}

		row := ProjectedYear{
			Year:                      y,
			Age:                       baseAge + y,
			AnnualIncome:              income.Round(2),
			AnnualExpenses:            expenses.Round(2),
			AnnualSavings:             savings.Round(2),
			InvestmentGrowth:          growth.Round(2),
			NetWorth:                  netWorth.Round(2),
			InflationAdjustedNetWorth: adjusted.Round(2),
		}
		out.ProjectedYears = append(out.ProjectedYears, row)

		if out.Milestones.MillionaireYear == nil && netWorth.GreaterThanOrEqual(MillionaireThreshold) {
			year, age := row.Year, row.Age
			out.Milestones.MillionaireYear = &year
			out.Milestones.MillionaireAge = &age
		}
	}
	return out
}
