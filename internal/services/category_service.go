package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/validator"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, audit AuditServicer) CategoryServicer {
	return &categoryService{db: db, audit: auditOrNop(audit)}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, userID string, in CreateCategoryInput) (*models.Category, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := s.ensureUniqueName(ctx, userID, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID: &userID,
		Name:   name,
		Type:   in.Type,
		Color:  strings.ToUpper(in.Color),
		Icon:   in.Icon,
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, userID, "CREATE_CATEGORY", "category", category.ID, map[string]interface{}{
		"name": category.Name,
		"type": category.Type,
	})
	return category, nil
}

// GetUserCategories returns the user's own categories plus the system
// defaults, optionally restricted to one type.
func (s *categoryService) GetUserCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Where("user_id = ? OR user_id IS NULL", userID)
	if categoryType != nil {
		q = q.Where("type = ?", *categoryType)
	}

	var categories []models.Category
	if err := q.Order("type ASC").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, internalError(err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category the user owns or a system default
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category, err := findByID[models.Category](ctx, s.db, categoryID, apperrors.ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}
	if category.IsDefault() {
		return category, nil
	}
	if err := requireOwner(*category.UserID, userID); err != nil {
		return nil, err
	}
	return category, nil
}

// ownedCategory is GetCategoryByID for mutations: defaults are read-only.
func (s *categoryService) ownedCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault() {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "Default categories cannot be modified")
	}
	return category, nil
}

// UpdateCategory updates an existing category
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, in UpdateCategoryInput) (*models.Category, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(name, category.Name) {
			if err := s.ensureUniqueName(ctx, userID, name, category.ID); err != nil {
				return nil, err
			}
		}
		updates["name"] = name
	}
	if in.Color != nil {
		updates["color"] = strings.ToUpper(*in.Color)
	}
	if in.Icon != nil {
		updates["icon"] = *in.Icon
	}

	if len(updates) == 0 {
		return category, nil
	}

	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, userID, "UPDATE_CATEGORY", "category", categoryID, updates)
	return s.GetCategoryByID(ctx, userID, categoryID)
}

// DeleteCategory removes a category. Its transactions become uncategorized
// and budgets tracking it are removed.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return internalError(err)
	}

	s.audit.Log(ctx, userID, "DELETE_CATEGORY", "category", categoryID, map[string]interface{}{"name": category.Name})
	return nil
}

// ensureUniqueName rejects a name the user already uses, ignoring case.
// exceptID skips the category being renamed.
func (s *categoryService) ensureUniqueName(ctx context.Context, userID, name, exceptID string) error {
	q := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return internalError(err)
	}
	if count > 0 {
		return apperrors.WithMessage(apperrors.ErrConflict, "A category with this name already exists")
	}
	return nil
}
