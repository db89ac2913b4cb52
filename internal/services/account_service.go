package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/validator"
)

const defaultCurrency = "USD"

// accountService handles account-related business logic.
type accountService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, audit AuditServicer) AccountServicer {
	return &accountService{db: db, audit: auditOrNop(audit)}
}

// normalizeBalance stores debt and liability balances as negative numbers
// regardless of the sign the caller sent.
func normalizeBalance(t models.AccountType, balance decimal.Decimal) decimal.Decimal {
	switch models.CategoryForType(t) {
	case models.AccountCategoryDebt, models.AccountCategoryLiability:
		return balance.Abs().Neg()
	}
	return balance
}

// CreateAccount creates a new account for a user
func (s *accountService) CreateAccount(ctx context.Context, userID string, in CreateAccountInput) (*models.Account, error) {
	if in.Currency == "" {
		in.Currency = defaultCurrency
	}
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		Type:         in.Type,
		Description:  in.Description,
		Institution:  in.Institution,
		Balance:      normalizeBalance(in.Type, money(in.Balance)),
		Currency:     strings.ToUpper(in.Currency),
		InterestRate: in.InterestRate,
		IsActive:     true,
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, userID, "CREATE_ACCOUNT", "account", account.ID, map[string]interface{}{
		"name":    account.Name,
		"type":    account.Type,
		"balance": account.Balance.String(),
	})
	return account, nil
}

// GetUserAccounts lists a user's accounts ordered by name. Inactive accounts
// are skipped unless includeInactive is set.
func (s *accountService) GetUserAccounts(ctx context.Context, userID string, includeInactive bool) ([]models.Account, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var accounts []models.Account
	if err := q.Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, internalError(err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(ctx context.Context, userID, accountID string) (*models.Account, error) {
	account, err := findByID[models.Account](ctx, s.db, accountID, apperrors.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(account.UserID, userID); err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAccount applies the set fields of in. Changing the type re-applies
// the sign rule to the balance.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID string, in UpdateAccountInput) (*models.Account, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		updates["type"] = *in.Type
		account.Type = *in.Type
	}
	if in.Balance != nil {
		updates["balance"] = normalizeBalance(account.Type, money(*in.Balance))
	} else if in.Type != nil {
		updates["balance"] = normalizeBalance(account.Type, account.Balance)
	}
	if in.Currency != nil {
		updates["currency"] = strings.ToUpper(*in.Currency)
	}
	if in.InterestRate != nil {
		updates["interest_rate"] = *in.InterestRate
	}
	if in.Institution != nil {
		updates["institution"] = *in.Institution
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	if len(updates) == 0 {
		return account, nil
	}

	if err := s.db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, userID, "UPDATE_ACCOUNT", "account", accountID, auditChanges(updates))
	return s.GetAccountByID(ctx, userID, accountID)
}

// DeleteAccount removes an account together with its transactions.
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		return internalError(err)
	}

	s.audit.Log(ctx, userID, "DELETE_ACCOUNT", "account", accountID, map[string]interface{}{"name": account.Name})
	return nil
}

// UpdateAccountBalance adds delta to the account balance. It must be called
// inside the caller's database transaction.
func (s *accountService) UpdateAccountBalance(tx *gorm.DB, accountID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	result := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta.String()))
	if result.Error != nil {
		return internalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// auditChanges renders decimal values as strings so the audit JSON keeps
// their exact representation.
func auditChanges(updates map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if d, ok := v.(decimal.Decimal); ok {
			out[k] = d.String()
			continue
		}
		out[k] = v
	}
	return out
}
