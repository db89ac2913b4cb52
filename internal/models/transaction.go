package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether t is a supported transaction type
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a financial transaction in the system.
// Amount is always positive; the sign comes from Type.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  *string         `gorm:"type:uuid;index" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// Relationships
	Account  *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// SignedAmount returns the amount with the sign implied by the type
func (t *Transaction) SignedAmount() decimal.Decimal {
	return SignedAmount(t.Type, t.Amount)
}

// SignedAmount applies the sign for a transaction type to a positive amount
func SignedAmount(transactionType TransactionType, amount decimal.Decimal) decimal.Decimal {
	if transactionType == TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}
