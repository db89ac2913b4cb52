package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NetWorthSnapshot records a user's net worth breakdown at a point in time
type NetWorthSnapshot struct {
	Base
	UserID           string          `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_user_time" json:"user_id"`
	RecordedAt       time.Time       `gorm:"not null;uniqueIndex:idx_snapshot_user_time" json:"recorded_at"`
	TotalAssets      decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"total_assets"`
	TotalInvestments decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"total_investments"`
	TotalDebts       decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"total_debts"`
	TotalLiabilities decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"total_liabilities"`
	NetWorth         decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"net_worth"`
}
