package models

import (
	"github.com/shopspring/decimal"
)

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking       AccountType = "CHECKING"
	AccountTypeSavings        AccountType = "SAVINGS"
	AccountTypeInvestment     AccountType = "INVESTMENT"
	AccountTypeCreditCard     AccountType = "CREDIT_CARD"
	AccountTypeLoan           AccountType = "LOAN"
	AccountTypeMortgage       AccountType = "MORTGAGE"
	AccountTypeOtherAsset     AccountType = "OTHER_ASSET"
	AccountTypeOtherLiability AccountType = "OTHER_LIABILITY"
)

// AccountCategory groups account types for net worth aggregation
type AccountCategory string

const (
	AccountCategoryAsset      AccountCategory = "ASSET"
	AccountCategoryInvestment AccountCategory = "INVESTMENT"
	AccountCategoryDebt       AccountCategory = "DEBT"
	AccountCategoryLiability  AccountCategory = "LIABILITY"
)

var accountCategories = map[AccountType]AccountCategory{
	AccountTypeChecking:       AccountCategoryAsset,
	AccountTypeSavings:        AccountCategoryAsset,
	AccountTypeOtherAsset:     AccountCategoryAsset,
	AccountTypeInvestment:     AccountCategoryInvestment,
	AccountTypeCreditCard:     AccountCategoryDebt,
	AccountTypeLoan:           AccountCategoryDebt,
	AccountTypeMortgage:       AccountCategoryLiability,
	AccountTypeOtherLiability: AccountCategoryLiability,
}

// AccountTypes lists every supported account type
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeChecking,
		AccountTypeSavings,
		AccountTypeInvestment,
		AccountTypeCreditCard,
		AccountTypeLoan,
		AccountTypeMortgage,
		AccountTypeOtherAsset,
		AccountTypeOtherLiability,
	}
}

// IsValid reports whether t is a supported account type
func (t AccountType) IsValid() bool {
	_, ok := accountCategories[t]
	return ok
}

// CategoryForType returns the category an account type belongs to.
// Unknown types are treated as assets.
func CategoryForType(t AccountType) AccountCategory {
	if c, ok := accountCategories[t]; ok {
		return c
	}
	return AccountCategoryAsset
}

// Account represents a financial account in the system. Debt and liability
// balances are stored as negative numbers.
type Account struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"not null" json:"name"`
	Type         AccountType     `gorm:"not null" json:"type"`
	Description  string          `json:"description"`
	Institution  string          `json:"institution,omitempty"`
	Balance      decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"balance"`
	Currency     string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	InterestRate *float64        `json:"interest_rate,omitempty"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
}

// Category derives the account category from its type
func (a *Account) Category() AccountCategory {
	return CategoryForType(a.Type)
}
