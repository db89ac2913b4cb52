package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"finance4all/internal/auth"
	apperrors "finance4all/internal/errors"
	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/services"
)

// Services are the business services the resolvers delegate to.
type Services struct {
	Users        services.UserServicer
	Accounts     services.AccountServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Projections  services.ProjectionServicer
	Analytics    services.AnalyticsServicer
	Snapshots    services.SnapshotServicer
}

// Resolver is the root resolver for both queries and mutations.
type Resolver struct {
	svc Services
	now func() time.Time
}

// NewResolver creates the root resolver.
func NewResolver(svc Services) *Resolver {
	return &Resolver{svc: svc, now: time.Now}
}

// caller returns the verified identity, registered or not.
func caller(ctx context.Context) (*auth.Identity, error) {
	identity, ok := auth.FromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	return identity, nil
}

// callerID returns the stored user id of a registered caller.
func callerID(ctx context.Context) (string, error) {
	identity, err := caller(ctx)
	if err != nil {
		return "", err
	}
	if !identity.Registered() {
		return "", apperrors.ErrUserNotRegistered
	}
	return identity.UserID(), nil
}

func optTime(t *graphql.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

func optIDString(id *graphql.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func (r *Resolver) Hello() string {
	return "Hello from Finance4All!"
}

// Me returns the caller's profile, or null when the caller holds a valid
// token but has not registered yet.
func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.Registered() {
		return nil, nil
	}
	return &userResolver{u: identity.User}, nil
}

func (r *Resolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*userResolver, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	user, err := r.svc.Users.GetUserByID(ctx, identity, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &userResolver{u: user}, nil
}

type pageArgs struct {
	Page     *int32
	PageSize *int32
}

func (r *Resolver) Users(ctx context.Context, args pageArgs) (*userPageResolver, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	page, err := r.svc.Users.ListUsers(ctx, identity, pagination.FromOptional(args.Page, args.PageSize))
	if err != nil {
		return nil, err
	}
	return newUserPage(page), nil
}

func (r *Resolver) Accounts(ctx context.Context, args struct{ IncludeInactive *bool }) ([]*accountResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	includeInactive := args.IncludeInactive != nil && *args.IncludeInactive
	accounts, err := r.svc.Accounts.GetUserAccounts(ctx, userID, includeInactive)
	if err != nil {
		return nil, err
	}
	return newAccounts(accounts), nil
}

func (r *Resolver) Account(ctx context.Context, args struct{ ID graphql.ID }) (*accountResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	account, err := r.svc.Accounts.GetAccountByID(ctx, userID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &accountResolver{a: account}, nil
}

type transactionFilterInput struct {
	FromDate   *graphql.Time
	ToDate     *graphql.Time
	Type       *string
	CategoryID *graphql.ID
	AccountID  *graphql.ID
}

func (in *transactionFilterInput) toFilter() services.TransactionFilter {
	if in == nil {
		return services.TransactionFilter{}
	}
	f := services.TransactionFilter{
		FromDate:   optTime(in.FromDate),
		ToDate:     optTime(in.ToDate),
		CategoryID: optIDString(in.CategoryID),
		AccountID:  optIDString(in.AccountID),
	}
	if in.Type != nil {
		t := models.TransactionType(*in.Type)
		f.Type = &t
	}
	return f
}

func (r *Resolver) Transactions(ctx context.Context, args struct {
	Filter   *transactionFilterInput
	Page     *int32
	PageSize *int32
}) (*transactionPageResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	page, err := r.svc.Transactions.GetUserTransactions(ctx, userID, args.Filter.toFilter(), pagination.FromOptional(args.Page, args.PageSize))
	if err != nil {
		return nil, err
	}
	return &transactionPageResolver{pageMeta: newPageMeta(page), items: newTransactions(page.Data)}, nil
}

func (r *Resolver) Transaction(ctx context.Context, args struct{ ID graphql.ID }) (*transactionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	transaction, err := r.svc.Transactions.GetTransactionByID(ctx, userID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &transactionResolver{t: transaction}, nil
}

func (r *Resolver) Categories(ctx context.Context, args struct{ Type *string }) ([]*categoryResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	var categoryType *models.CategoryType
	if args.Type != nil {
		t := models.CategoryType(*args.Type)
		categoryType = &t
	}
	categories, err := r.svc.Categories.GetUserCategories(ctx, userID, categoryType)
	if err != nil {
		return nil, err
	}
	out := make([]*categoryResolver, len(categories))
	for i := range categories {
		out[i] = &categoryResolver{c: &categories[i]}
	}
	return out, nil
}

func (r *Resolver) Category(ctx context.Context, args struct{ ID graphql.ID }) (*categoryResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	category, err := r.svc.Categories.GetCategoryByID(ctx, userID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &categoryResolver{c: category}, nil
}

func (r *Resolver) Budgets(ctx context.Context, args struct {
	IsActive *bool
	Period   *string
}) ([]*budgetResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	filter := services.BudgetFilter{IsActive: args.IsActive}
	if args.Period != nil {
		p := models.BudgetPeriod(*args.Period)
		filter.Period = &p
	}
	budgets, err := r.svc.Budgets.GetUserBudgets(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*budgetResolver, len(budgets))
	for i := range budgets {
		out[i] = &budgetResolver{b: &budgets[i]}
	}
	return out, nil
}

func (r *Resolver) Budget(ctx context.Context, args struct{ ID graphql.ID }) (*budgetResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	budget, err := r.svc.Budgets.GetBudgetByID(ctx, userID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &budgetResolver{b: budget}, nil
}

func (r *Resolver) BudgetProgress(ctx context.Context, args struct{ ID graphql.ID }) (*budgetProgressResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := r.svc.Budgets.GetBudgetProgress(ctx, userID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &budgetProgressResolver{p: progress}, nil
}

func (r *Resolver) Projections(ctx context.Context) ([]*projectionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	projections, err := r.svc.Projections.GetUserProjections(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*projectionResolver, len(projections))
	for i := range projections {
		out[i] = &projectionResolver{p: &projections[i]}
	}
	return out, nil
}

func (r *Resolver) Projection(ctx context.Context, args struct{ ID graphql.ID }) (*projectionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	projection, err := r.svc.Projections.GetProjectionByID(ctx, userID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &projectionResolver{p: projection}, nil
}

func (r *Resolver) NetWorth(ctx context.Context) (*netWorthResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	nw, err := r.svc.Analytics.NetWorth(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &netWorthResolver{nw: nw}, nil
}

// CashFlow defaults to the current calendar month; a lone bound is paired
// with the matching edge of that month.
func (r *Resolver) CashFlow(ctx context.Context, args struct {
	StartDate *graphql.Time
	EndDate   *graphql.Time
}) (*cashFlowResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	period := finance.MonthRange(r.now().UTC())
	if args.StartDate != nil {
		period.Start = args.StartDate.Time
	}
	if args.EndDate != nil {
		period.End = args.EndDate.Time
	}
	cf, err := r.svc.Analytics.CashFlow(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	return &cashFlowResolver{cf: cf}, nil
}

type assumptionsInput struct {
	IncomeGrowthRate float64
	InvestmentReturn float64
	InflationRate    float64
}

func (r *Resolver) FinancialProjection(ctx context.Context, args struct {
	Assumptions assumptionsInput
	Years       *int32
	CurrentAge  *int32
}) (*financialProjectionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := services.CalculateProjectionInput{
		IncomeGrowthRate: args.Assumptions.IncomeGrowthRate,
		InvestmentReturn: args.Assumptions.InvestmentReturn,
		InflationRate:    args.Assumptions.InflationRate,
		Years:            intValue(args.Years),
		CurrentAge:       intValue(args.CurrentAge),
	}
	projection, err := r.svc.Projections.Calculate(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return &financialProjectionResolver{p: projection}, nil
}

func (r *Resolver) RunProjection(ctx context.Context, args struct{ ID graphql.ID }) (*financialProjectionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	projection, err := r.svc.Projections.Run(ctx, userID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &financialProjectionResolver{p: projection}, nil
}

// NetWorthHistory defaults to the trailing twelve months.
func (r *Resolver) NetWorthHistory(ctx context.Context, args struct {
	From     *graphql.Time
	To       *graphql.Time
	Page     *int32
	PageSize *int32
}) (*snapshotPageResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	period := finance.TrailingYear(r.now().UTC())
	if args.From != nil {
		period.Start = args.From.Time
	}
	if args.To != nil {
		period.End = args.To.Time
	}
	if period.Empty() {
		return nil, apperrors.WithFields([]apperrors.FieldError{{Field: "to", Message: "must be after from"}})
	}

	page, err := r.svc.Snapshots.GetSnapshots(ctx, userID, period.Start, period.End, pagination.FromOptional(args.Page, args.PageSize))
	if err != nil {
		return nil, err
	}
	items := make([]*snapshotResolver, len(page.Data))
	for i := range page.Data {
		items[i] = &snapshotResolver{s: &page.Data[i]}
	}
	return &snapshotPageResolver{pageMeta: newPageMeta(page), items: items}, nil
}

func (r *Resolver) Dashboard(ctx context.Context) (*dashboardResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	d, err := r.svc.Analytics.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dashboardResolver{d: d}, nil
}

func intValue(v *int32) int {
	if v == nil {
		return 0
	}
	return int(*v)
}
