package services

import (
	"time"

	"finance4all/internal/models"
	"finance4all/internal/validator"
)

// CreateUserInput registers the caller's profile. Email defaults to the
// token's email claim.
type CreateUserInput struct {
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

// UpdateUserInput changes profile fields. Role may only be changed by admins.
type UpdateUserInput struct {
	Email       *string      `json:"email" validate:"omitnil,email"`
	DisplayName *string      `json:"displayName" validate:"omitnil,max=100"`
	Role        *models.Role `json:"role" validate:"omitnil,oneof=USER ADMIN"`
}

// CreateAccountInput is the payload for a new account.
type CreateAccountInput struct {
	Name         string             `json:"name" validate:"required,notblank,max=100"`
	Type         models.AccountType `json:"type" validate:"required,account_type"`
	Balance      float64            `json:"balance" validate:"finite"`
	Currency     string             `json:"currency" validate:"len=3"`
	InterestRate *float64           `json:"interestRate" validate:"omitnil,finite,gte=0,lte=100"`
	Institution  string             `json:"institution" validate:"max=100"`
	Description  string             `json:"description" validate:"max=500"`
}

// UpdateAccountInput changes the set fields of an account.
type UpdateAccountInput struct {
	Name         *string             `json:"name" validate:"omitnil,notblank,max=100"`
	Type         *models.AccountType `json:"type" validate:"omitnil,account_type"`
	Balance      *float64            `json:"balance" validate:"omitnil,finite"`
	Currency     *string             `json:"currency" validate:"omitnil,len=3"`
	InterestRate *float64            `json:"interestRate" validate:"omitnil,finite,gte=0,lte=100"`
	Institution  *string             `json:"institution" validate:"omitnil,max=100"`
	Description  *string             `json:"description" validate:"omitnil,max=500"`
	IsActive     *bool               `json:"isActive"`
}

// CreateTransactionInput is the payload for a new transaction. Amount is
// always positive; the direction comes from Type.
type CreateTransactionInput struct {
	AccountID   string                 `json:"accountId" validate:"required,uuid"`
	CategoryID  *string                `json:"categoryId" validate:"omitnil,uuid"`
	Type        models.TransactionType `json:"type" validate:"required,transaction_type"`
	Amount      float64                `json:"amount" validate:"finite,gt=0"`
	Description string                 `json:"description" validate:"max=200"`
	Date        *time.Time             `json:"date"`
}

// UpdateTransactionInput changes the set fields of a transaction.
// ClearCategory removes the category.
type UpdateTransactionInput struct {
	AccountID     *string                 `json:"accountId" validate:"omitnil,uuid"`
	CategoryID    *string                 `json:"categoryId" validate:"omitnil,uuid"`
	ClearCategory bool                    `json:"clearCategory"`
	Type          *models.TransactionType `json:"type" validate:"omitnil,transaction_type"`
	Amount        *float64                `json:"amount" validate:"omitnil,finite,gt=0"`
	Description   *string                 `json:"description" validate:"omitnil,max=200"`
	Date          *time.Time              `json:"date"`
}

// CreateCategoryInput is the payload for a new category.
type CreateCategoryInput struct {
	Name  string              `json:"name" validate:"required,notblank,max=50"`
	Type  models.CategoryType `json:"type" validate:"required,category_type"`
	Color string              `json:"color" validate:"required,hex_color"`
	Icon  string              `json:"icon" validate:"max=50"`
}

// UpdateCategoryInput changes the set fields of a category. The type of a
// category is fixed once created.
type UpdateCategoryInput struct {
	Name  *string `json:"name" validate:"omitnil,notblank,max=50"`
	Color *string `json:"color" validate:"omitnil,hex_color"`
	Icon  *string `json:"icon" validate:"omitnil,max=50"`
}

// CreateBudgetInput is the payload for a new budget.
type CreateBudgetInput struct {
	CategoryID string              `json:"categoryId" validate:"required,uuid"`
	Name       string              `json:"name" validate:"required,notblank,max=100"`
	Amount     float64             `json:"amount" validate:"finite,gt=0"`
	Period     models.BudgetPeriod `json:"period" validate:"required,budget_period"`
	StartDate  time.Time           `json:"startDate" validate:"required"`
	EndDate    *time.Time          `json:"endDate"`
}

// CheckFields enforces that the end date follows the start date.
func (in CreateBudgetInput) CheckFields() []validator.FieldError {
	return validator.EndAfterStart("endDate", in.StartDate, in.EndDate)
}

// UpdateBudgetInput changes the set fields of a budget. ClearEndDate makes
// the budget open-ended.
type UpdateBudgetInput struct {
	Name         *string              `json:"name" validate:"omitnil,notblank,max=100"`
	Amount       *float64             `json:"amount" validate:"omitnil,finite,gt=0"`
	Period       *models.BudgetPeriod `json:"period" validate:"omitnil,budget_period"`
	StartDate    *time.Time           `json:"startDate"`
	EndDate      *time.Time           `json:"endDate"`
	ClearEndDate bool                 `json:"clearEndDate"`
	IsActive     *bool                `json:"isActive"`
}

// CreateProjectionInput is the payload for a saved scenario. Rates are percentages.
type CreateProjectionInput struct {
	Name             string  `json:"name" validate:"required,notblank,max=100"`
	Description      string  `json:"description" validate:"max=500"`
	IncomeGrowthRate float64 `json:"incomeGrowthRate" validate:"finite,gte=-100,lte=100"`
	InvestmentReturn float64 `json:"investmentReturn" validate:"finite,gte=-100,lte=100"`
	InflationRate    float64 `json:"inflationRate" validate:"finite,gte=-10,lte=50"`
	Years            int     `json:"years" validate:"omitempty,min=1,max=100"`
	CurrentAge       int     `json:"currentAge" validate:"omitempty,min=1,max=120"`
}

// UpdateProjectionInput changes the set fields of a scenario.
type UpdateProjectionInput struct {
	Name             *string  `json:"name" validate:"omitnil,notblank,max=100"`
	Description      *string  `json:"description" validate:"omitnil,max=500"`
	IncomeGrowthRate *float64 `json:"incomeGrowthRate" validate:"omitnil,finite,gte=-100,lte=100"`
	InvestmentReturn *float64 `json:"investmentReturn" validate:"omitnil,finite,gte=-100,lte=100"`
	InflationRate    *float64 `json:"inflationRate" validate:"omitnil,finite,gte=-10,lte=50"`
	Years            *int     `json:"years" validate:"omitnil,min=1,max=100"`
	CurrentAge       *int     `json:"currentAge" validate:"omitnil,min=1,max=120"`
}

// CalculateProjectionInput runs the engine without saving a scenario.
// Years and CurrentAge fall back to the configured defaults.
type CalculateProjectionInput struct {
	IncomeGrowthRate float64 `json:"incomeGrowthRate" validate:"finite,gte=-100,lte=100"`
	InvestmentReturn float64 `json:"investmentReturn" validate:"finite,gte=-100,lte=100"`
	InflationRate    float64 `json:"inflationRate" validate:"finite,gte=-10,lte=50"`
	Years            int     `json:"years" validate:"omitempty,min=1,max=100"`
	CurrentAge       int     `json:"currentAge" validate:"omitempty,min=1,max=120"`
}
