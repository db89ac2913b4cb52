package finance

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProjectShape(t *testing.T) {
	p := Project(ProjectionParams{
		CurrentNetWorth: dec(t, "10000"),
		AnnualIncome:    dec(t, "60000"),
		AnnualExpenses:  dec(t, "40000"),
		Assumptions:     Assumptions{IncomeGrowthRate: 3, InvestmentReturn: 7, InflationRate: 2},
	})

	if p.Years != DefaultProjectionYears {
		t.Errorf("Years = %d, want %d", p.Years, DefaultProjectionYears)
	}
	if len(p.ProjectedYears) != DefaultProjectionYears+1 {
		t.Fatalf("expected %d rows, got %d", DefaultProjectionYears+1, len(p.ProjectedYears))
	}
	first := p.ProjectedYears[0]
	if first.Year != 0 || first.Age != DefaultBaseAge {
		t.Errorf("year 0 = (%d, age %d)", first.Year, first.Age)
	}
	assertDecimal(t, "year0.NetWorth", first.NetWorth, "10000")
	assertDecimal(t, "year0.InvestmentGrowth", first.InvestmentGrowth, "0")

	last := p.ProjectedYears[30]
	if last.Year != 30 || last.Age != DefaultBaseAge+30 {
		t.Errorf("last row = (%d, age %d)", last.Year, last.Age)
	}
	if p.ExpenseGrowth != ExpenseGrowthFlat {
		t.Errorf("ExpenseGrowth = %q, want flat", p.ExpenseGrowth)
	}
}

func TestProjectFirstYear(t *testing.T) {
	p := Project(ProjectionParams{
		CurrentNetWorth: dec(t, "100000"),
		AnnualIncome:    dec(t, "50000"),
		AnnualExpenses:  dec(t, "30000"),
		Assumptions:     Assumptions{IncomeGrowthRate: 10, InvestmentReturn: 5},
		Years:           1,
		BaseAge:         40,
	})

	y1 := p.ProjectedYears[1]
	assertDecimal(t, "AnnualIncome", y1.AnnualIncome, "55000")
	assertDecimal(t, "AnnualExpenses", y1.AnnualExpenses, "30000")
	assertDecimal(t, "AnnualSavings", y1.AnnualSavings, "25000")
	assertDecimal(t, "InvestmentGrowth", y1.InvestmentGrowth, "5000")
	assertDecimal(t, "NetWorth", y1.NetWorth, "130000")
	if y1.Age != 41 {
		t.Errorf("Age = %d, want 41", y1.Age)
	}
}

func TestProjectIncomeCompounding(t *testing.T) {
	const rate = 4.5
	p := Project(ProjectionParams{
		AnnualIncome:   dec(t, "72000"),
		AnnualExpenses: dec(t, "50000"),
		Assumptions:    Assumptions{IncomeGrowthRate: rate},
		Years:          25,
	})

	base := p.ProjectedYears[0].AnnualIncome.InexactFloat64()
	for _, row := range p.ProjectedYears {
		want := base * math.Pow(1+rate/100, float64(row.Year))
		got := row.AnnualIncome.InexactFloat64()
		if math.Abs(got-want) > 0.01 {
			t.Errorf("year %d income = %.4f, want %.4f", row.Year, got, want)
		}
	}
}

func TestProjectMonotonicUnderPositiveSavings(t *testing.T) {
	tests := []struct {
		name     string
		netWorth string
		ret      float64
	}{
		{"positive_start", "25000", 6},
		{"negative_start", "-80000", 8},
		{"zero_return", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(ProjectionParams{
				CurrentNetWorth: dec(t, tt.netWorth),
				AnnualIncome:    dec(t, "65000"),
				AnnualExpenses:  dec(t, "45000"),
				Assumptions:     Assumptions{IncomeGrowthRate: 2, InvestmentReturn: tt.ret, InflationRate: 3},
				Years:           40,
			})

			for i := 1; i < len(p.ProjectedYears); i++ {
				prev, cur := p.ProjectedYears[i-1].NetWorth, p.ProjectedYears[i].NetWorth
				if cur.LessThan(prev) {
					t.Fatalf("net worth decreased at year %d: %s -> %s", i, prev, cur)
				}
			}
		})
	}
}

func TestProjectMillionaireMilestone(t *testing.T) {
	p := Project(ProjectionParams{
		CurrentNetWorth: dec(t, "900000"),
		AnnualIncome:    dec(t, "100000"),
		AnnualExpenses:  dec(t, "40000"),
		Assumptions:     Assumptions{InvestmentReturn: 5},
		Years:           10,
		BaseAge:         50,
	})

	// 900000 * 1.05 + 60000 = 1005000
	if p.Milestones.MillionaireYear == nil {
		t.Fatal("expected millionaire milestone")
	}
	if *p.Milestones.MillionaireYear != 1 {
		t.Errorf("MillionaireYear = %d, want 1", *p.Milestones.MillionaireYear)
	}
	if *p.Milestones.MillionaireAge != 51 {
		t.Errorf("MillionaireAge = %d, want 51", *p.Milestones.MillionaireAge)
	}

	never := Project(ProjectionParams{
		AnnualIncome:   dec(t, "30000"),
		AnnualExpenses: dec(t, "29000"),
		Years:          5,
	})
	if never.Milestones.MillionaireYear != nil || never.Milestones.MillionaireAge != nil {
		t.Error("expected no milestone")
	}
}

func TestProjectExpenseGrowthPolicies(t *testing.T) {
	params := ProjectionParams{
		AnnualIncome:   dec(t, "50000"),
		AnnualExpenses: dec(t, "40000"),
		Assumptions:    Assumptions{InflationRate: 10},
		Years:          2,
	}

	flat := Project(params)
	assertDecimal(t, "flat year2 expenses", flat.ProjectedYears[2].AnnualExpenses, "40000")

	params.ExpenseGrowth = ExpenseGrowthInflation
	inflated := Project(params)
	assertDecimal(t, "inflated year2 expenses", inflated.ProjectedYears[2].AnnualExpenses, "48400")
}

func TestProjectInflationAdjustment(t *testing.T) {
	p := Project(ProjectionParams{
		CurrentNetWorth: dec(t, "100000"),
		Assumptions:     Assumptions{InflationRate: 25},
		Years:           1,
	})

	// no savings, no return: 100000 / 1.25
	assertDecimal(t, "adjusted", p.ProjectedYears[1].InflationAdjustedNetWorth, "80000")
	if !p.ProjectedYears[0].InflationAdjustedNetWorth.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("year 0 should not be deflated, got %s", p.ProjectedYears[0].InflationAdjustedNetWorth)
	}
}
