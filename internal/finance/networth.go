// Package finance holds the pure aggregation and projection routines behind
// the analytics endpoints. Nothing in this package performs I/O; callers load
// accounts and transactions and pass them in.
package finance

import (
	"time"

	"finance4all/internal/models"

	"github.com/shopspring/decimal"
)

// NetWorth is the per-category breakdown of a user's accounts.
type NetWorth struct {
	TotalAssets      decimal.Decimal  `json:"total_assets"`
	TotalInvestments decimal.Decimal  `json:"total_investments"`
	TotalDebts       decimal.Decimal  `json:"total_debts"`
	TotalLiabilities decimal.Decimal  `json:"total_liabilities"`
	NetWorth         decimal.Decimal  `json:"net_worth"`
	Accounts         []models.Account `json:"accounts"`
	CalculatedAt     time.Time        `json:"calculated_at"`
}

// CalculateNetWorth sums account balances by category. Debt and liability
// balances count by magnitude regardless of the stored sign, so all four
// totals are non-negative for debts and liabilities.
func CalculateNetWorth(accounts []models.Account, now time.Time) NetWorth {
	nw := NetWorth{
		TotalAssets:      decimal.Zero,
		TotalInvestments: decimal.Zero,
		TotalDebts:       decimal.Zero,
		TotalLiabilities: decimal.Zero,
		Accounts:         accounts,
		CalculatedAt:     now,
	}
	if nw.Accounts == nil {
		nw.Accounts = []models.Account{}
	}

	for i := range accounts {
		balance := accounts[i].Balance
		switch accounts[i].Category() {
		case models.AccountCategoryInvestment:
			nw.TotalInvestments = nw.TotalInvestments.Add(balance)
		case models.AccountCategoryDebt:
			nw.TotalDebts = nw.TotalDebts.Add(balance.Abs())
		case models.AccountCategoryLiability:
			nw.TotalLiabilities = nw.TotalLiabilities.Add(balance.Abs())
		default:
			nw.TotalAssets = nw.TotalAssets.Add(balance)
		}
	}

	nw.NetWorth = nw.TotalAssets.
		Add(nw.TotalInvestments).
		Sub(nw.TotalDebts).
		Sub(nw.TotalLiabilities)
	return nw
}
