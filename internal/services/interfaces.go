package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finance4all/internal/auth"
	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
// Methods taking an actor enforce that callers only touch their own profile
// unless they are admins.
type UserServicer interface {
	CreateUser(ctx context.Context, claims auth.Claims, in CreateUserInput) (*models.User, error)
	GetUserByID(ctx context.Context, actor *auth.Identity, id string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	ListUsers(ctx context.Context, actor *auth.Identity, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(ctx context.Context, actor *auth.Identity, id string, in UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor *auth.Identity, id string) error
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(ctx context.Context, userID string, in CreateAccountInput) (*models.Account, error)
	GetUserAccounts(ctx context.Context, userID string, includeInactive bool) ([]models.Account, error)
	GetAccountByID(ctx context.Context, userID, accountID string) (*models.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, in UpdateAccountInput) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
	UpdateAccountBalance(tx *gorm.DB, accountID string, delta decimal.Decimal) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID string, in CreateCategoryInput) (*models.Category, error)
	GetUserCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, in UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, in CreateTransactionInput) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionsInPeriod(ctx context.Context, userID string, period finance.Period) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, in UpdateTransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	Budget     *models.Budget  `json:"budget"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Period     finance.Period  `json:"period"`
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	IsActive *bool
	Period   *models.BudgetPeriod
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID string, in CreateBudgetInput) (*models.Budget, error)
	GetUserBudgets(ctx context.Context, userID string, filter BudgetFilter) ([]models.Budget, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, in UpdateBudgetInput) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	GetBudgetProgress(ctx context.Context, userID, budgetID string) (*BudgetProgress, error)
}

// ProjectionServicer manages saved scenarios and runs the projection engine.
type ProjectionServicer interface {
	CreateProjection(ctx context.Context, userID string, in CreateProjectionInput) (*models.Projection, error)
	GetUserProjections(ctx context.Context, userID string) ([]models.Projection, error)
	GetProjectionByID(ctx context.Context, userID, projectionID string) (*models.Projection, error)
	UpdateProjection(ctx context.Context, userID, projectionID string, in UpdateProjectionInput) (*models.Projection, error)
	DeleteProjection(ctx context.Context, userID, projectionID string) error
	Calculate(ctx context.Context, userID string, in CalculateProjectionInput) (*finance.Projection, error)
	Run(ctx context.Context, userID, projectionID string) (*finance.Projection, error)
}

// Dashboard is the aggregate view shown on the home screen.
type Dashboard struct {
	NetWorth           *finance.NetWorth    `json:"net_worth"`
	MonthCashFlow      *finance.CashFlow    `json:"month_cash_flow"`
	YearToDateCashFlow *finance.CashFlow    `json:"year_to_date_cash_flow"`
	Budgets            []BudgetProgress     `json:"budgets"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// AnalyticsServicer computes aggregate metrics on demand.
type AnalyticsServicer interface {
	NetWorth(ctx context.Context, userID string) (*finance.NetWorth, error)
	CashFlow(ctx context.Context, userID string, period finance.Period) (*finance.CashFlow, error)
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

// SnapshotServicer records and reads net worth history.
type SnapshotServicer interface {
	ComputeAndRecordSnapshots(ctx context.Context, recordedAt time.Time) (int, error)
	GetSnapshots(ctx context.Context, userID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID string, changes map[string]interface{})
}
