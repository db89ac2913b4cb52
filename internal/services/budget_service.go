package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/validator"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db              *gorm.DB
	categoryService CategoryServicer
	audit           AuditServicer
	now             func() time.Time
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categoryService CategoryServicer, audit AuditServicer) BudgetServicer {
	return &budgetService{
		db:              db,
		categoryService: categoryService,
		audit:           auditOrNop(audit),
		now:             time.Now,
	}
}

// CreateBudget creates a new budget for an expense category.
func (s *budgetService) CreateBudget(ctx context.Context, userID string, in CreateBudgetInput) (*models.Budget, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	category, err := s.expenseCategory(ctx, userID, in.CategoryID)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Name:       strings.TrimSpace(in.Name),
		Amount:     money(in.Amount),
		Period:     in.Period,
		StartDate:  in.StartDate.UTC(),
		EndDate:    utcPtr(in.EndDate),
		IsActive:   true,
	}

	if err := s.db.WithContext(ctx).Create(budget).Error; err != nil {
		return nil, internalError(err)
	}
	budget.Category = category

	s.audit.Log(ctx, userID, "CREATE_BUDGET", "budget", budget.ID, map[string]interface{}{
		"name":        budget.Name,
		"category_id": budget.CategoryID,
		"amount":      budget.Amount.String(),
		"period":      budget.Period,
	})
	return budget, nil
}

// GetUserBudgets returns the user's budgets with optional filters.
func (s *budgetService) GetUserBudgets(ctx context.Context, userID string, filter BudgetFilter) ([]models.Budget, error) {
	q := s.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Period != nil {
		q = q.Where("period = ?", *filter.Period)
	}

	var budgets []models.Budget
	if err := q.Order("name ASC").Find(&budgets).Error; err != nil {
		return nil, internalError(err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	budget, err := findByID[models.Budget](ctx, s.db, budgetID, apperrors.ErrBudgetNotFound, "Category")
	if err != nil {
		return nil, err
	}
	if err := requireOwner(budget.UserID, userID); err != nil {
		return nil, err
	}
	return budget, nil
}

// UpdateBudget updates an existing budget's fields. The date rule is checked
// against the merged result.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, in UpdateBudgetInput) (*models.Budget, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Amount != nil {
		updates["amount"] = money(*in.Amount)
	}
	if in.Period != nil {
		updates["period"] = *in.Period
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	start := budget.StartDate
	if in.StartDate != nil {
		start = in.StartDate.UTC()
		updates["start_date"] = start
	}
	end := budget.EndDate
	switch {
	case in.ClearEndDate:
		end = nil
		updates["end_date"] = nil
	case in.EndDate != nil:
		end = utcPtr(in.EndDate)
		updates["end_date"] = *end
	}
	if fields := validator.EndAfterStart("endDate", start, end); len(fields) > 0 {
		return nil, apperrors.WithFields(fields)
	}

	if len(updates) == 0 {
		return budget, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Budget{}).Where("id = ?", budget.ID).Updates(updates).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, userID, "UPDATE_BUDGET", "budget", budgetID, auditChanges(updates))
	return s.GetBudgetByID(ctx, userID, budgetID)
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Budget{}, "id = ?", budget.ID).Error; err != nil {
		return internalError(err)
	}

	s.audit.Log(ctx, userID, "DELETE_BUDGET", "budget", budgetID, map[string]interface{}{"name": budget.Name})
	return nil
}

// GetBudgetProgress calculates spending vs budget for the period window
// containing now, clipped to the budget's own start and end dates.
func (s *budgetService) GetBudgetProgress(ctx context.Context, userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.progress(ctx, budget)
}

func (s *budgetService) progress(ctx context.Context, budget *models.Budget) (*BudgetProgress, error) {
	now := s.now().UTC()
	period := finance.BudgetPeriodRange(budget.Period, now).Clip(&budget.StartDate, budget.EndDate)

	spent := decimal.Zero
	if !period.Empty() {
		var amounts []decimal.Decimal
		err := s.db.WithContext(ctx).Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
				budget.UserID, budget.CategoryID, models.TransactionTypeExpense, period.Start, period.End).
			Pluck("amount", &amounts).Error
		if err != nil {
			return nil, internalError(err)
		}
		for _, a := range amounts {
			spent = spent.Add(a)
		}
	}

	var percentage float64
	if budget.Amount.IsPositive() {
		percentage = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	return &BudgetProgress{
		Budget:     budget,
		Budgeted:   budget.Amount,
		Spent:      spent,
		Remaining:  budget.Amount.Sub(spent),
		Percentage: percentage,
		Period:     period,
	}, nil
}

// expenseCategory loads a category the user may use for a budget. Only
// expense categories can be budgeted.
func (s *budgetService) expenseCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category, err := s.categoryService.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != models.CategoryTypeExpense {
		return nil, apperrors.WithFields([]apperrors.FieldError{{
			Field:   "categoryId",
			Message: "must be an expense category",
		}})
	}
	return category, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
