package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/uuid"
)

// findByID loads a row by primary key. Malformed ids and missing rows both
// map to notFound.
func findByID[T any](ctx context.Context, db *gorm.DB, id string, notFound *apperrors.AppError, preloads ...string) (*T, error) {
	if !uuid.IsValid(id) {
		return nil, notFound
	}

	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}

	var row T
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, internalError(err)
	}
	return &row, nil
}

// requireOwner returns FORBIDDEN unless the row belongs to userID.
func requireOwner(ownerID, userID string) error {
	if ownerID != userID {
		return apperrors.ErrForbidden
	}
	return nil
}

func internalError(err error) error {
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// passThrough keeps AppErrors returned from inside a gorm transaction and
// wraps anything else.
func passThrough(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return internalError(err)
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func auditOrNop(a AuditServicer) AuditServicer {
	if a == nil {
		return nopAudit{}
	}
	return a
}

type nopAudit struct{}

func (nopAudit) Log(context.Context, string, string, string, string, map[string]interface{}) {}
