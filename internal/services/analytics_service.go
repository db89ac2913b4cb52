package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/finance"
	"finance4all/internal/pagination"
)

const recentTransactionsLimit = 5

// analyticsService computes aggregates from the other services' data.
type analyticsService struct {
	accountService     AccountServicer
	transactionService TransactionServicer
	budgetService      BudgetServicer
	now                func() time.Time
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(accountService AccountServicer, transactionService TransactionServicer, budgetService BudgetServicer) AnalyticsServicer {
	return &analyticsService{
		accountService:     accountService,
		transactionService: transactionService,
		budgetService:      budgetService,
		now:                time.Now,
	}
}

// NetWorth aggregates the balances of the user's active accounts.
func (s *analyticsService) NetWorth(ctx context.Context, userID string) (*finance.NetWorth, error) {
	accounts, err := s.accountService.GetUserAccounts(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	nw := finance.CalculateNetWorth(accounts, s.now().UTC())
	return &nw, nil
}

// CashFlow aggregates the user's transactions inside period.
func (s *analyticsService) CashFlow(ctx context.Context, userID string, period finance.Period) (*finance.CashFlow, error) {
	if period.Empty() {
		return nil, apperrors.WithFields([]apperrors.FieldError{{Field: "endDate", Message: "must be after startDate"}})
	}

	transactions, err := s.transactionService.GetTransactionsInPeriod(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	cf := finance.CalculateCashFlow(transactions, period)
	return &cf, nil
}

// Dashboard gathers the home screen aggregates concurrently.
func (s *analyticsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	now := s.now().UTC()
	d := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nw, err := s.NetWorth(gctx, userID)
		d.NetWorth = nw
		return err
	})
	g.Go(func() error {
		cf, err := s.CashFlow(gctx, userID, finance.MonthRange(now))
		d.MonthCashFlow = cf
		return err
	})
	g.Go(func() error {
		cf, err := s.CashFlow(gctx, userID, finance.YearToDate(now))
		d.YearToDateCashFlow = cf
		return err
	})
	g.Go(func() error {
		progress, err := s.activeBudgetProgress(gctx, userID)
		d.Budgets = progress
		return err
	})
	g.Go(func() error {
		page := pagination.PageRequest{Page: 1, PageSize: recentTransactionsLimit}
		recent, err := s.transactionService.GetUserTransactions(gctx, userID, TransactionFilter{}, page)
		if err != nil {
			return err
		}
		d.RecentTransactions = recent.Data
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *analyticsService) activeBudgetProgress(ctx context.Context, userID string) ([]BudgetProgress, error) {
	active := true
	budgets, err := s.budgetService.GetUserBudgets(ctx, userID, BudgetFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	out := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		p, err := s.budgetService.GetBudgetProgress(ctx, userID, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
