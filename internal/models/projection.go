package models

// Projection is a saved what-if scenario for the financial projection engine.
// Rates are percentages (7.0 means 7%).
type Projection struct {
	Base
	UserID           string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name             string  `gorm:"not null" json:"name"`
	Description      string  `json:"description"`
	IncomeGrowthRate float64 `gorm:"not null;default:0" json:"income_growth_rate"`
	InvestmentReturn float64 `gorm:"not null;default:0" json:"investment_return"`
	InflationRate    float64 `gorm:"not null;default:0" json:"inflation_rate"`
	Years            int     `gorm:"not null;default:30" json:"years"`
	CurrentAge       int     `gorm:"not null;default:30" json:"current_age"`
}
