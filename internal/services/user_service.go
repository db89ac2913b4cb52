package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"finance4all/internal/auth"
	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/validator"
)

// userService handles user-related business logic.
type userService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, audit AuditServicer) UserServicer {
	return &userService{db: db, audit: auditOrNop(audit)}
}

// CreateUser registers a profile for the verified identity
func (s *userService) CreateUser(ctx context.Context, claims auth.Claims, in CreateUserInput) (*models.User, error) {
	if claims.UID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		email = strings.ToLower(claims.Email)
	}
	if email == "" {
		return nil, apperrors.WithFields([]apperrors.FieldError{{Field: "email", Message: "is required"}})
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("firebase_uid = ?", claims.UID).
		Count(&count).Error; err != nil {
		return nil, internalError(err)
	}
	if count > 0 {
		return nil, apperrors.ErrUserExists
	}

	user := &models.User{
		FirebaseUID: claims.UID,
		Email:       email,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Role:        models.RoleUser,
	}
	if claims.HasRole {
		user.Role = claims.Role
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, user.ID, "CREATE_USER", "user", user.ID, map[string]interface{}{"email": user.Email})
	return user, nil
}

// GetUserByID retrieves a user by ID. Callers may read their own profile;
// admins may read any.
func (s *userService) GetUserByID(ctx context.Context, actor *auth.Identity, id string) (*models.User, error) {
	user, err := findByID[models.User](ctx, s.db, id, apperrors.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if err := canManage(actor, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByFirebaseUID retrieves the profile linked to a Firebase UID
func (s *userService) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, internalError(err)
	}
	return &user, nil
}

// ListUsers returns every user. Admin only.
func (s *userService) ListUsers(ctx context.Context, actor *auth.Identity, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.User{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, internalError(err)
	}

	var users []models.User
	if err := base.Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, internalError(err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateUser changes profile fields. Only admins may change roles.
func (s *userService) UpdateUser(ctx context.Context, actor *auth.Identity, id string, in UpdateUserInput) (*models.User, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.Role != nil && *in.Role != user.Role {
		if !actor.IsAdmin() {
			return nil, apperrors.WithMessage(apperrors.ErrForbidden, "Only admins can change roles")
		}
		updates["role"] = *in.Role
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, internalError(err)
		}
		s.audit.Log(ctx, actor.UserID(), "UPDATE_USER", "user", user.ID, updates)
	}
	return user, nil
}

// DeleteUser removes the user and every row the user owns in one transaction.
func (s *userService) DeleteUser(ctx context.Context, actor *auth.Identity, id string) error {
	user, err := s.GetUserByID(ctx, actor, id)
	if err != nil {
		return err
	}

	owned := []interface{}{
		&models.Transaction{},
		&models.Budget{},
		&models.Category{},
		&models.Account{},
		&models.Projection{},
		&models.NetWorthSnapshot{},
		&models.AuditLog{},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range owned {
			if err := tx.Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return internalError(err)
	}

	if actor.UserID() != user.ID {
		s.audit.Log(ctx, actor.UserID(), "DELETE_USER", "user", user.ID, nil)
	}
	return nil
}

// canManage allows callers to act on themselves and admins to act on anyone.
func canManage(actor *auth.Identity, userID string) error {
	if actor == nil {
		return apperrors.ErrUnauthenticated
	}
	if actor.UserID() == userID || actor.IsAdmin() {
		return nil
	}
	return apperrors.ErrForbidden
}
