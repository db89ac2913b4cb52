package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/validator"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	accountService  AccountServicer
	categoryService CategoryServicer
	audit           AuditServicer
	now             func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, categoryService CategoryServicer, audit AuditServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		accountService:  accountService,
		categoryService: categoryService,
		audit:           auditOrNop(audit),
		now:             time.Now,
	}
}

// CreateTransaction records a transaction and moves the account balance by
// its signed amount in the same database transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, in CreateTransactionInput) (*models.Transaction, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	account, err := s.accountService.GetAccountByID(ctx, userID, in.AccountID)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, *in.CategoryID, in.Type); err != nil {
			return nil, err
		}
	}

	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      money(in.Amount),
		Description: in.Description,
		Date:        date.UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
		return s.accountService.UpdateAccountBalance(tx, account.ID, transaction.SignedAmount())
	})
	if err != nil {
		return nil, passThrough(err)
	}

	s.audit.Log(ctx, userID, "CREATE_TRANSACTION", "transaction", transaction.ID, map[string]interface{}{
		"account_id": transaction.AccountID,
		"type":       transaction.Type,
		"amount":     transaction.Amount.String(),
	})
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions,
// newest first.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if filter.AccountID != nil {
		if _, err := s.accountService.GetAccountByID(ctx, userID, *filter.AccountID); err != nil {
			return nil, err
		}
	}

	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, internalError(err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order("date DESC").Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, internalError(err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionsInPeriod returns every transaction of the user dated inside
// the period, with categories loaded for aggregation.
func (s *transactionService) GetTransactionsInPeriod(ctx context.Context, userID string, period finance.Period) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, period.Start.UTC(), period.End.UTC()).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, internalError(err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	transaction, err := findByID[models.Transaction](ctx, s.db, transactionID, apperrors.ErrTransactionNotFound, "Category")
	if err != nil {
		return nil, err
	}
	if err := requireOwner(transaction.UserID, userID); err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction applies the set fields of in. The old amount is taken
// off its account and the new amount applied, so moving a transaction
// between accounts keeps both balances right.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, in UpdateTransactionInput) (*models.Transaction, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	existing, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Category = nil
	if in.AccountID != nil && *in.AccountID != existing.AccountID {
		account, err := s.accountService.GetAccountByID(ctx, userID, *in.AccountID)
		if err != nil {
			return nil, err
		}
		updated.AccountID = account.ID
	}
	if in.Type != nil {
		updated.Type = *in.Type
	}
	if in.Amount != nil {
		updated.Amount = money(*in.Amount)
	}
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.Date != nil {
		updated.Date = in.Date.UTC()
	}
	switch {
	case in.ClearCategory:
		updated.CategoryID = nil
	case in.CategoryID != nil:
		updated.CategoryID = in.CategoryID
	}
	if updated.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, *updated.CategoryID, updated.Type); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.accountService.UpdateAccountBalance(tx, existing.AccountID, existing.SignedAmount().Neg()); err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"account_id":  updated.AccountID,
			"category_id": updated.CategoryID,
			"type":        updated.Type,
			"amount":      updated.Amount,
			"description": updated.Description,
			"date":        updated.Date,
		}).Error; err != nil {
			return err
		}
		return s.accountService.UpdateAccountBalance(tx, updated.AccountID, updated.SignedAmount())
	})
	if err != nil {
		return nil, passThrough(err)
	}

	s.audit.Log(ctx, userID, "UPDATE_TRANSACTION", "transaction", transactionID, map[string]interface{}{
		"account_id": updated.AccountID,
		"type":       updated.Type,
		"amount":     updated.Amount.String(),
	})
	return s.GetTransactionByID(ctx, userID, transactionID)
}

// DeleteTransaction deletes a transaction and reverses its effect on the
// account balance
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Transaction{}, "id = ?", transaction.ID).Error; err != nil {
			return err
		}
		return s.accountService.UpdateAccountBalance(tx, transaction.AccountID, transaction.SignedAmount().Neg())
	})
	if err != nil {
		return passThrough(err)
	}

	s.audit.Log(ctx, userID, "DELETE_TRANSACTION", "transaction", transactionID, map[string]interface{}{
		"amount": transaction.Amount.String(),
	})
	return nil
}

// checkCategory verifies the category is visible to the user and has the
// same type as the transaction.
func (s *transactionService) checkCategory(ctx context.Context, userID, categoryID string, txType models.TransactionType) error {
	category, err := s.categoryService.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if string(category.Type) != string(txType) {
		return apperrors.WithFields([]apperrors.FieldError{{
			Field:   "categoryId",
			Message: "category type must match transaction type",
		}})
	}
	return nil
}
