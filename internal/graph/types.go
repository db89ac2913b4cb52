package graph

import (
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/services"
)

func gqlTime(t time.Time) graphql.Time {
	return graphql.Time{Time: t}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optID(id *string) *graphql.ID {
	if id == nil {
		return nil
	}
	gid := graphql.ID(*id)
	return &gid
}

func optInt(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}

// pageMeta carries the paging fields shared by every page type.
type pageMeta struct {
	page, pageSize, totalPages int
	totalItems                 int64
}

func newPageMeta[T any](p *pagination.PageResponse[T]) pageMeta {
	return pageMeta{page: p.Page, pageSize: p.PageSize, totalPages: p.TotalPages, totalItems: p.TotalItems}
}

func (m pageMeta) Page() int32       { return int32(m.page) }
func (m pageMeta) PageSize() int32   { return int32(m.pageSize) }
func (m pageMeta) TotalItems() int32 { return int32(m.totalItems) }
func (m pageMeta) TotalPages() int32 { return int32(m.totalPages) }
func (m pageMeta) HasNext() bool     { return m.page < m.totalPages }

// User

type userResolver struct{ u *models.User }

func (r *userResolver) ID() graphql.ID       { return graphql.ID(r.u.ID) }
func (r *userResolver) FirebaseUID() string  { return r.u.FirebaseUID }
func (r *userResolver) Email() string        { return r.u.Email }
func (r *userResolver) DisplayName() *string { return optString(r.u.DisplayName) }
func (r *userResolver) Role() string         { return string(r.u.Role) }
func (r *userResolver) CreatedAt() graphql.Time {
	return gqlTime(r.u.CreatedAt)
}
func (r *userResolver) UpdatedAt() graphql.Time {
	return gqlTime(r.u.UpdatedAt)
}

type userPageResolver struct {
	pageMeta
	items []*userResolver
}

func (r *userPageResolver) Items() []*userResolver { return r.items }

func newUserPage(p *pagination.PageResponse[models.User]) *userPageResolver {
	items := make([]*userResolver, len(p.Data))
	for i := range p.Data {
		items[i] = &userResolver{u: &p.Data[i]}
	}
	return &userPageResolver{pageMeta: newPageMeta(p), items: items}
}

// Account

type accountResolver struct{ a *models.Account }

func newAccounts(accounts []models.Account) []*accountResolver {
	out := make([]*accountResolver, len(accounts))
	for i := range accounts {
		out[i] = &accountResolver{a: &accounts[i]}
	}
	return out
}

func (r *accountResolver) ID() graphql.ID         { return graphql.ID(r.a.ID) }
func (r *accountResolver) Name() string           { return r.a.Name }
func (r *accountResolver) Type() string           { return string(r.a.Type) }
func (r *accountResolver) Category() string       { return string(r.a.Category()) }
func (r *accountResolver) Balance() Decimal       { return newDecimal(r.a.Balance) }
func (r *accountResolver) Currency() string       { return r.a.Currency }
func (r *accountResolver) InterestRate() *float64 { return r.a.InterestRate }
func (r *accountResolver) Institution() *string   { return optString(r.a.Institution) }
func (r *accountResolver) Description() *string   { return optString(r.a.Description) }
func (r *accountResolver) IsActive() bool         { return r.a.IsActive }
func (r *accountResolver) CreatedAt() graphql.Time {
	return gqlTime(r.a.CreatedAt)
}
func (r *accountResolver) UpdatedAt() graphql.Time {
	return gqlTime(r.a.UpdatedAt)
}

// Category

type categoryResolver struct{ c *models.Category }

func newCategory(c *models.Category) *categoryResolver {
	if c == nil {
		return nil
	}
	return &categoryResolver{c: c}
}

func (r *categoryResolver) ID() graphql.ID  { return graphql.ID(r.c.ID) }
func (r *categoryResolver) Name() string    { return r.c.Name }
func (r *categoryResolver) Type() string    { return string(r.c.Type) }
func (r *categoryResolver) Color() string   { return r.c.Color }
func (r *categoryResolver) Icon() *string   { return optString(r.c.Icon) }
func (r *categoryResolver) IsDefault() bool { return r.c.IsDefault() }

// Transaction

type transactionResolver struct{ t *models.Transaction }

func newTransactions(transactions []models.Transaction) []*transactionResolver {
	out := make([]*transactionResolver, len(transactions))
	for i := range transactions {
		out[i] = &transactionResolver{t: &transactions[i]}
	}
	return out
}

func (r *transactionResolver) ID() graphql.ID              { return graphql.ID(r.t.ID) }
func (r *transactionResolver) AccountID() graphql.ID       { return graphql.ID(r.t.AccountID) }
func (r *transactionResolver) CategoryID() *graphql.ID     { return optID(r.t.CategoryID) }
func (r *transactionResolver) Category() *categoryResolver { return newCategory(r.t.Category) }
func (r *transactionResolver) Type() string                { return string(r.t.Type) }
func (r *transactionResolver) Amount() Decimal             { return newDecimal(r.t.Amount) }
func (r *transactionResolver) Description() *string        { return optString(r.t.Description) }
func (r *transactionResolver) Date() graphql.Time          { return gqlTime(r.t.Date) }
func (r *transactionResolver) CreatedAt() graphql.Time     { return gqlTime(r.t.CreatedAt) }

type transactionPageResolver struct {
	pageMeta
	items []*transactionResolver
}

func (r *transactionPageResolver) Items() []*transactionResolver { return r.items }

// Budget

type budgetResolver struct{ b *models.Budget }

func (r *budgetResolver) ID() graphql.ID              { return graphql.ID(r.b.ID) }
func (r *budgetResolver) Name() string                { return r.b.Name }
func (r *budgetResolver) CategoryID() graphql.ID      { return graphql.ID(r.b.CategoryID) }
func (r *budgetResolver) Category() *categoryResolver { return newCategory(r.b.Category) }
func (r *budgetResolver) Amount() Decimal             { return newDecimal(r.b.Amount) }
func (r *budgetResolver) Period() string              { return string(r.b.Period) }
func (r *budgetResolver) StartDate() graphql.Time     { return gqlTime(r.b.StartDate) }
func (r *budgetResolver) IsActive() bool              { return r.b.IsActive }

func (r *budgetResolver) EndDate() *graphql.Time {
	if r.b.EndDate == nil {
		return nil
	}
	t := gqlTime(*r.b.EndDate)
	return &t
}

type periodResolver struct{ p finance.Period }

func (r *periodResolver) Start() graphql.Time { return gqlTime(r.p.Start) }
func (r *periodResolver) End() graphql.Time   { return gqlTime(r.p.End) }

type budgetProgressResolver struct{ p *services.BudgetProgress }

func (r *budgetProgressResolver) Budget() *budgetResolver { return &budgetResolver{b: r.p.Budget} }
func (r *budgetProgressResolver) Budgeted() Decimal       { return newDecimal(r.p.Budgeted) }
func (r *budgetProgressResolver) Spent() Decimal          { return newDecimal(r.p.Spent) }
func (r *budgetProgressResolver) Remaining() Decimal      { return newDecimal(r.p.Remaining) }
func (r *budgetProgressResolver) Percentage() float64     { return r.p.Percentage }
func (r *budgetProgressResolver) Period() *periodResolver { return &periodResolver{p: r.p.Period} }

// Projection

type projectionResolver struct{ p *models.Projection }

func (r *projectionResolver) ID() graphql.ID            { return graphql.ID(r.p.ID) }
func (r *projectionResolver) Name() string              { return r.p.Name }
func (r *projectionResolver) Description() *string      { return optString(r.p.Description) }
func (r *projectionResolver) IncomeGrowthRate() float64 { return r.p.IncomeGrowthRate }
func (r *projectionResolver) InvestmentReturn() float64 { return r.p.InvestmentReturn }
func (r *projectionResolver) InflationRate() float64    { return r.p.InflationRate }
func (r *projectionResolver) Years() int32              { return int32(r.p.Years) }
func (r *projectionResolver) CurrentAge() int32         { return int32(r.p.CurrentAge) }
func (r *projectionResolver) CreatedAt() graphql.Time   { return gqlTime(r.p.CreatedAt) }

// Analytics

type netWorthResolver struct{ nw *finance.NetWorth }

func (r *netWorthResolver) TotalAssets() Decimal         { return newDecimal(r.nw.TotalAssets) }
func (r *netWorthResolver) TotalInvestments() Decimal    { return newDecimal(r.nw.TotalInvestments) }
func (r *netWorthResolver) TotalDebts() Decimal          { return newDecimal(r.nw.TotalDebts) }
func (r *netWorthResolver) TotalLiabilities() Decimal    { return newDecimal(r.nw.TotalLiabilities) }
func (r *netWorthResolver) NetWorth() Decimal            { return newDecimal(r.nw.NetWorth) }
func (r *netWorthResolver) Accounts() []*accountResolver { return newAccounts(r.nw.Accounts) }
func (r *netWorthResolver) CalculatedAt() graphql.Time   { return gqlTime(r.nw.CalculatedAt) }

type categoryAmountResolver struct{ a finance.CategoryAmount }

func (r *categoryAmountResolver) CategoryID() *graphql.ID { return optID(r.a.CategoryID) }
func (r *categoryAmountResolver) CategoryName() string    { return r.a.CategoryName }
func (r *categoryAmountResolver) Color() *string          { return optString(r.a.Color) }
func (r *categoryAmountResolver) Amount() Decimal         { return newDecimal(r.a.Amount) }

func newCategoryAmounts(amounts []finance.CategoryAmount) []*categoryAmountResolver {
	out := make([]*categoryAmountResolver, len(amounts))
	for i, a := range amounts {
		out[i] = &categoryAmountResolver{a: a}
	}
	return out
}

type monthlyCashFlowResolver struct{ m finance.MonthlyCashFlow }

func (r *monthlyCashFlowResolver) Month() string        { return r.m.Month }
func (r *monthlyCashFlowResolver) Income() Decimal      { return newDecimal(r.m.Income) }
func (r *monthlyCashFlowResolver) Expenses() Decimal    { return newDecimal(r.m.Expenses) }
func (r *monthlyCashFlowResolver) NetCashFlow() Decimal { return newDecimal(r.m.NetCashFlow) }

type cashFlowResolver struct{ cf *finance.CashFlow }

func (r *cashFlowResolver) TotalIncome() Decimal   { return newDecimal(r.cf.TotalIncome) }
func (r *cashFlowResolver) TotalExpenses() Decimal { return newDecimal(r.cf.TotalExpenses) }
func (r *cashFlowResolver) NetCashFlow() Decimal   { return newDecimal(r.cf.NetCashFlow) }
func (r *cashFlowResolver) Period() *periodResolver {
	return &periodResolver{p: r.cf.Period}
}

func (r *cashFlowResolver) IncomeByCategory() []*categoryAmountResolver {
	return newCategoryAmounts(r.cf.IncomeByCategory)
}

func (r *cashFlowResolver) ExpensesByCategory() []*categoryAmountResolver {
	return newCategoryAmounts(r.cf.ExpensesByCategory)
}

func (r *cashFlowResolver) MonthlyBreakdown() []*monthlyCashFlowResolver {
	out := make([]*monthlyCashFlowResolver, len(r.cf.MonthlyBreakdown))
	for i, m := range r.cf.MonthlyBreakdown {
		out[i] = &monthlyCashFlowResolver{m: m}
	}
	return out
}

type assumptionsResolver struct{ a finance.Assumptions }

func (r *assumptionsResolver) IncomeGrowthRate() float64 { return r.a.IncomeGrowthRate }
func (r *assumptionsResolver) InvestmentReturn() float64 { return r.a.InvestmentReturn }
func (r *assumptionsResolver) InflationRate() float64    { return r.a.InflationRate }

type projectedYearResolver struct{ y finance.ProjectedYear }

func (r *projectedYearResolver) Year() int32               { return int32(r.y.Year) }
func (r *projectedYearResolver) Age() int32                { return int32(r.y.Age) }
func (r *projectedYearResolver) AnnualIncome() Decimal     { return newDecimal(r.y.AnnualIncome) }
func (r *projectedYearResolver) AnnualExpenses() Decimal   { return newDecimal(r.y.AnnualExpenses) }
func (r *projectedYearResolver) AnnualSavings() Decimal    { return newDecimal(r.y.AnnualSavings) }
func (r *projectedYearResolver) InvestmentGrowth() Decimal { return newDecimal(r.y.InvestmentGrowth) }
func (r *projectedYearResolver) NetWorth() Decimal         { return newDecimal(r.y.NetWorth) }
func (r *projectedYearResolver) InflationAdjustedNetWorth() Decimal {
	return newDecimal(r.y.InflationAdjustedNetWorth)
}

type milestonesResolver struct{ m finance.Milestones }

func (r *milestonesResolver) MillionaireYear() *int32 { return optInt(r.m.MillionaireYear) }
func (r *milestonesResolver) MillionaireAge() *int32  { return optInt(r.m.MillionaireAge) }

type financialProjectionResolver struct{ p *finance.Projection }

func (r *financialProjectionResolver) AnnualIncome() Decimal   { return newDecimal(r.p.AnnualIncome) }
func (r *financialProjectionResolver) AnnualExpenses() Decimal { return newDecimal(r.p.AnnualExpenses) }
func (r *financialProjectionResolver) Years() int32            { return int32(r.p.Years) }
func (r *financialProjectionResolver) ExpenseGrowth() string   { return string(r.p.ExpenseGrowth) }

func (r *financialProjectionResolver) CurrentNetWorth() Decimal {
	return newDecimal(r.p.CurrentNetWorth)
}

func (r *financialProjectionResolver) Assumptions() *assumptionsResolver {
	return &assumptionsResolver{a: r.p.Assumptions}
}

func (r *financialProjectionResolver) ProjectedYears() []*projectedYearResolver {
	out := make([]*projectedYearResolver, len(r.p.ProjectedYears))
	for i, y := range r.p.ProjectedYears {
		out[i] = &projectedYearResolver{y: y}
	}
	return out
}

func (r *financialProjectionResolver) Milestones() *milestonesResolver {
	return &milestonesResolver{m: r.p.Milestones}
}

type snapshotResolver struct{ s *models.NetWorthSnapshot }

func (r *snapshotResolver) ID() graphql.ID            { return graphql.ID(r.s.ID) }
func (r *snapshotResolver) RecordedAt() graphql.Time  { return gqlTime(r.s.RecordedAt) }
func (r *snapshotResolver) TotalAssets() Decimal      { return newDecimal(r.s.TotalAssets) }
func (r *snapshotResolver) TotalInvestments() Decimal { return newDecimal(r.s.TotalInvestments) }
func (r *snapshotResolver) TotalDebts() Decimal       { return newDecimal(r.s.TotalDebts) }
func (r *snapshotResolver) TotalLiabilities() Decimal { return newDecimal(r.s.TotalLiabilities) }
func (r *snapshotResolver) NetWorth() Decimal         { return newDecimal(r.s.NetWorth) }

type snapshotPageResolver struct {
	pageMeta
	items []*snapshotResolver
}

func (r *snapshotPageResolver) Items() []*snapshotResolver { return r.items }

type dashboardResolver struct{ d *services.Dashboard }

func (r *dashboardResolver) NetWorth() *netWorthResolver {
	return &netWorthResolver{nw: r.d.NetWorth}
}

func (r *dashboardResolver) MonthCashFlow() *cashFlowResolver {
	return &cashFlowResolver{cf: r.d.MonthCashFlow}
}

func (r *dashboardResolver) YearToDateCashFlow() *cashFlowResolver {
	return &cashFlowResolver{cf: r.d.YearToDateCashFlow}
}

func (r *dashboardResolver) Budgets() []*budgetProgressResolver {
	out := make([]*budgetProgressResolver, len(r.d.Budgets))
	for i := range r.d.Budgets {
		out[i] = &budgetProgressResolver{p: &r.d.Budgets[i]}
	}
	return out
}

func (r *dashboardResolver) RecentTransactions() []*transactionResolver {
	return newTransactions(r.d.RecentTransactions)
}
