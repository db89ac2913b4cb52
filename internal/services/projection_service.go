package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/validator"
)

// ProjectionDefaults are applied when a request leaves a value unset.
type ProjectionDefaults struct {
	Years          int
	BaseAge        int
	InflateExpense bool
}

func (d ProjectionDefaults) withFallbacks() ProjectionDefaults {
	if d.Years <= 0 {
		d.Years = finance.DefaultProjectionYears
	}
	if d.BaseAge <= 0 {
		d.BaseAge = finance.DefaultBaseAge
	}
	return d
}

// projectionService stores scenarios and runs the projection engine against
// the user's current finances.
type projectionService struct {
	db        *gorm.DB
	analytics AnalyticsServicer
	defaults  ProjectionDefaults
	audit     AuditServicer
	now       func() time.Time
}

// NewProjectionService creates a new ProjectionServicer.
func NewProjectionService(db *gorm.DB, analytics AnalyticsServicer, defaults ProjectionDefaults, audit AuditServicer) ProjectionServicer {
	return &projectionService{
		db:        db,
		analytics: analytics,
		defaults:  defaults.withFallbacks(),
		audit:     auditOrNop(audit),
		now:       time.Now,
	}
}

// CreateProjection saves a new scenario.
func (s *projectionService) CreateProjection(ctx context.Context, userID string, in CreateProjectionInput) (*models.Projection, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	projection := &models.Projection{
		UserID:           userID,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		IncomeGrowthRate: in.IncomeGrowthRate,
		InvestmentReturn: in.InvestmentReturn,
		InflationRate:    in.InflationRate,
		Years:            orDefault(in.Years, s.defaults.Years),
		CurrentAge:       orDefault(in.CurrentAge, s.defaults.BaseAge),
	}

	if err := s.db.WithContext(ctx).Create(projection).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, userID, "CREATE_PROJECTION", "projection", projection.ID, map[string]interface{}{"name": projection.Name})
	return projection, nil
}

// GetUserProjections lists the user's saved scenarios, newest first.
func (s *projectionService) GetUserProjections(ctx context.Context, userID string) ([]models.Projection, error) {
	var projections []models.Projection
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projections).Error; err != nil {
		return nil, internalError(err)
	}
	return projections, nil
}

// GetProjectionByID returns a scenario if it belongs to the user.
func (s *projectionService) GetProjectionByID(ctx context.Context, userID, projectionID string) (*models.Projection, error) {
	projection, err := findByID[models.Projection](ctx, s.db, projectionID, apperrors.ErrProjectionNotFound)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(projection.UserID, userID); err != nil {
		return nil, err
	}
	return projection, nil
}

// UpdateProjection changes the set fields of a scenario.
func (s *projectionService) UpdateProjection(ctx context.Context, userID, projectionID string, in UpdateProjectionInput) (*models.Projection, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	projection, err := s.GetProjectionByID(ctx, userID, projectionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IncomeGrowthRate != nil {
		updates["income_growth_rate"] = *in.IncomeGrowthRate
	}
	if in.InvestmentReturn != nil {
		updates["investment_return"] = *in.InvestmentReturn
	}
	if in.InflationRate != nil {
		updates["inflation_rate"] = *in.InflationRate
	}
	if in.Years != nil {
		updates["years"] = *in.Years
	}
	if in.CurrentAge != nil {
		updates["current_age"] = *in.CurrentAge
	}

	if len(updates) == 0 {
		return projection, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Projection{}).Where("id = ?", projection.ID).Updates(updates).Error; err != nil {
		return nil, internalError(err)
	}

	s.audit.Log(ctx, userID, "UPDATE_PROJECTION", "projection", projectionID, updates)
	return s.GetProjectionByID(ctx, userID, projectionID)
}

// DeleteProjection removes a scenario.
func (s *projectionService) DeleteProjection(ctx context.Context, userID, projectionID string) error {
	projection, err := s.GetProjectionByID(ctx, userID, projectionID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Projection{}, "id = ?", projection.ID).Error; err != nil {
		return internalError(err)
	}

	s.audit.Log(ctx, userID, "DELETE_PROJECTION", "projection", projectionID, map[string]interface{}{"name": projection.Name})
	return nil
}

// Calculate runs the engine with ad-hoc assumptions.
func (s *projectionService) Calculate(ctx context.Context, userID string, in CalculateProjectionInput) (*finance.Projection, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	assumptions := finance.Assumptions{
		IncomeGrowthRate: in.IncomeGrowthRate,
		InvestmentReturn: in.InvestmentReturn,
		InflationRate:    in.InflationRate,
	}
	return s.project(ctx, userID, assumptions, orDefault(in.Years, s.defaults.Years), orDefault(in.CurrentAge, s.defaults.BaseAge))
}

// Run runs the engine with a saved scenario's assumptions.
func (s *projectionService) Run(ctx context.Context, userID, projectionID string) (*finance.Projection, error) {
	projection, err := s.GetProjectionByID(ctx, userID, projectionID)
	if err != nil {
		return nil, err
	}

	assumptions := finance.Assumptions{
		IncomeGrowthRate: projection.IncomeGrowthRate,
		InvestmentReturn: projection.InvestmentReturn,
		InflationRate:    projection.InflationRate,
	}
	return s.project(ctx, userID, assumptions, orDefault(projection.Years, s.defaults.Years), orDefault(projection.CurrentAge, s.defaults.BaseAge))
}

// project seeds the engine with the current net worth and the trailing
// twelve months of income and expenses.
func (s *projectionService) project(ctx context.Context, userID string, assumptions finance.Assumptions, years, baseAge int) (*finance.Projection, error) {
	var (
		nw *finance.NetWorth
		cf *finance.CashFlow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nw, err = s.analytics.NetWorth(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cf, err = s.analytics.CashFlow(gctx, userID, finance.TrailingYear(s.now().UTC()))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	growth := finance.ExpenseGrowthFlat
	if s.defaults.InflateExpense {
		growth = finance.ExpenseGrowthInflation
	}

	result := finance.Project(finance.ProjectionParams{
		CurrentNetWorth: nw.NetWorth,
		AnnualIncome:    cf.TotalIncome,
		AnnualExpenses:  cf.TotalExpenses,
		Assumptions:     assumptions,
		Years:           years,
		BaseAge:         baseAge,
		ExpenseGrowth:   growth,
	})
	return &result, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
