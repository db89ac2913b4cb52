package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
)

// snapshotService records net worth history.
type snapshotService struct {
	db *gorm.DB
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB) SnapshotServicer {
	return &snapshotService{db: db}
}

// ComputeAndRecordSnapshots stores a net worth snapshot for every user with
// an active account. Re-running for the same recordedAt overwrites the
// earlier values.
func (s *snapshotService) ComputeAndRecordSnapshots(ctx context.Context, recordedAt time.Time) (int, error) {
	recordedAt = recordedAt.UTC()

	var userIDs []string
	if err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("is_active = ?", true).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return 0, internalError(err)
	}

	count := 0
	for _, userID := range userIDs {
		var accounts []models.Account
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND is_active = ?", userID, true).
			Find(&accounts).Error; err != nil {
			return count, internalError(err)
		}

		nw := finance.CalculateNetWorth(accounts, recordedAt)
		snapshot := &models.NetWorthSnapshot{
			UserID:           userID,
			RecordedAt:       recordedAt,
			TotalAssets:      nw.TotalAssets,
			TotalInvestments: nw.TotalInvestments,
			TotalDebts:       nw.TotalDebts,
			TotalLiabilities: nw.TotalLiabilities,
			NetWorth:         nw.NetWorth,
		}

		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "recorded_at"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_assets", "total_investments", "total_debts", "total_liabilities", "net_worth", "updated_at",
			}),
		}).Create(snapshot).Error
		if err != nil {
			return count, internalError(err)
		}
		count++
	}

	return count, nil
}

// GetSnapshots returns paginated snapshots for a user within a date range,
// newest first.
func (s *snapshotService) GetSnapshots(ctx context.Context, userID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.NetWorthSnapshot{}).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at <= ?", userID, from.UTC(), to.UTC())

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, internalError(err)
	}

	var snapshots []models.NetWorthSnapshot
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, internalError(err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}
