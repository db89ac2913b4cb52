package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"finance4all/internal/models"
	"finance4all/internal/services"
)

// Input objects mirror the SDL. Nullable fields are pointers.

type createUserInput struct {
	Email       *string
	DisplayName *string
}

type updateUserInput struct {
	Email       *string
	DisplayName *string
	Role        *string
}

type createAccountInput struct {
	Name         string
	Type         string
	Balance      *float64
	Currency     *string
	InterestRate *float64
	Institution  *string
	Description  *string
}

type updateAccountInput struct {
	Name         *string
	Type         *string
	Balance      *float64
	Currency     *string
	InterestRate *float64
	Institution  *string
	Description  *string
	IsActive     *bool
}

type createTransactionInput struct {
	AccountID   graphql.ID
	CategoryID  *graphql.ID
	Type        string
	Amount      float64
	Description *string
	Date        *graphql.Time
}

type updateTransactionInput struct {
	AccountID     *graphql.ID
	CategoryID    *graphql.ID
	ClearCategory *bool
	Type          *string
	Amount        *float64
	Description   *string
	Date          *graphql.Time
}

type createCategoryInput struct {
	Name  string
	Type  string
	Color string
	Icon  *string
}

type updateCategoryInput struct {
	Name  *string
	Color *string
	Icon  *string
}

type createBudgetInput struct {
	CategoryID graphql.ID
	Name       string
	Amount     float64
	Period     string
	StartDate  graphql.Time
	EndDate    *graphql.Time
}

type updateBudgetInput struct {
	Name         *string
	Amount       *float64
	Period       *string
	StartDate    *graphql.Time
	EndDate      *graphql.Time
	ClearEndDate *bool
	IsActive     *bool
}

type createProjectionInput struct {
	Name             string
	Description      *string
	IncomeGrowthRate float64
	InvestmentReturn float64
	InflationRate    float64
	Years            *int32
	CurrentAge       *int32
}

type updateProjectionInput struct {
	Name             *string
	Description      *string
	IncomeGrowthRate *float64
	InvestmentReturn *float64
	InflationRate    *float64
	Years            *int32
	CurrentAge       *int32
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func optIntPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

// Users

func (r *Resolver) CreateUser(ctx context.Context, args struct{ Input *createUserInput }) (*userResolver, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	var in services.CreateUserInput
	if args.Input != nil {
		in.Email = stringValue(args.Input.Email)
		in.DisplayName = stringValue(args.Input.DisplayName)
	}
	user, err := r.svc.Users.CreateUser(ctx, identity.Claims, in)
	if err != nil {
		return nil, err
	}
	return &userResolver{u: user}, nil
}

func (r *Resolver) UpdateUser(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateUserInput
}) (*userResolver, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	in := services.UpdateUserInput{
		Email:       args.Input.Email,
		DisplayName: args.Input.DisplayName,
	}
	if args.Input.Role != nil {
		role := models.Role(*args.Input.Role)
		in.Role = &role
	}
	user, err := r.svc.Users.UpdateUser(ctx, identity, string(args.ID), in)
	if err != nil {
		return nil, err
	}
	return &userResolver{u: user}, nil
}

func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	identity, err := caller(ctx)
	if err != nil {
		return false, err
	}
	if err := r.svc.Users.DeleteUser(ctx, identity, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

// Accounts

func (r *Resolver) CreateAccount(ctx context.Context, args struct{ Input createAccountInput }) (*accountResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := services.CreateAccountInput{
		Name:         args.Input.Name,
		Type:         models.AccountType(args.Input.Type),
		Currency:     stringValue(args.Input.Currency),
		InterestRate: args.Input.InterestRate,
		Institution:  stringValue(args.Input.Institution),
		Description:  stringValue(args.Input.Description),
	}
	if args.Input.Balance != nil {
		in.Balance = *args.Input.Balance
	}
	account, err := r.svc.Accounts.CreateAccount(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return &accountResolver{a: account}, nil
}

func (r *Resolver) UpdateAccount(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateAccountInput
}) (*accountResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := services.UpdateAccountInput{
		Name:         args.Input.Name,
		Balance:      args.Input.Balance,
		Currency:     args.Input.Currency,
		InterestRate: args.Input.InterestRate,
		Institution:  args.Input.Institution,
		Description:  args.Input.Description,
		IsActive:     args.Input.IsActive,
	}
	if args.Input.Type != nil {
		t := models.AccountType(*args.Input.Type)
		in.Type = &t
	}
	account, err := r.svc.Accounts.UpdateAccount(ctx, userID, string(args.ID), in)
	if err != nil {
		return nil, err
	}
	return &accountResolver{a: account}, nil
}

func (r *Resolver) DeleteAccount(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return false, err
	}
	if err := r.svc.Accounts.DeleteAccount(ctx, userID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

// Transactions

func (r *Resolver) CreateTransaction(ctx context.Context, args struct{ Input createTransactionInput }) (*transactionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := services.CreateTransactionInput{
		AccountID:   string(args.Input.AccountID),
		CategoryID:  optIDString(args.Input.CategoryID),
		Type:        models.TransactionType(args.Input.Type),
		Amount:      args.Input.Amount,
		Description: stringValue(args.Input.Description),
		Date:        optTime(args.Input.Date),
	}
	created, err := r.svc.Transactions.CreateTransaction(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	// Reload so the category is populated.
	transaction, err := r.svc.Transactions.GetTransactionByID(ctx, userID, created.ID)
	if err != nil {
		return nil, err
	}
	return &transactionResolver{t: transaction}, nil
}

func (r *Resolver) UpdateTransaction(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateTransactionInput
}) (*transactionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := services.UpdateTransactionInput{
		AccountID:     optIDString(args.Input.AccountID),
		CategoryID:    optIDString(args.Input.CategoryID),
		ClearCategory: boolValue(args.Input.ClearCategory),
		Amount:        args.Input.Amount,
		Description:   args.Input.Description,
		Date:          optTime(args.Input.Date),
	}
	if args.Input.Type != nil {
		t := models.TransactionType(*args.Input.Type)
		in.Type = &t
	}
	transaction, err := r.svc.Transactions.UpdateTransaction(ctx, userID, string(args.ID), in)
	if err != nil {
		return nil, err
	}
	return &transactionResolver{t: transaction}, nil
}

func (r *Resolver) DeleteTransaction(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return false, err
	}
	if err := r.svc.Transactions.DeleteTransaction(ctx, userID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

// Categories

func (r *Resolver) CreateCategory(ctx context.Context, args struct{ Input createCategoryInput }) (*categoryResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	category, err := r.svc.Categories.CreateCategory(ctx, userID, services.CreateCategoryInput{
		Name:  args.Input.Name,
		Type:  models.CategoryType(args.Input.Type),
		Color: args.Input.Color,
		Icon:  stringValue(args.Input.Icon),
	})
	if err != nil {
		return nil, err
	}
	return &categoryResolver{c: category}, nil
}

func (r *Resolver) UpdateCategory(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateCategoryInput
}) (*categoryResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	category, err := r.svc.Categories.UpdateCategory(ctx, userID, string(args.ID), services.UpdateCategoryInput{
		Name:  args.Input.Name,
		Color: args.Input.Color,
		Icon:  args.Input.Icon,
	})
	if err != nil {
		return nil, err
	}
	return &categoryResolver{c: category}, nil
}

func (r *Resolver) DeleteCategory(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return false, err
	}
	if err := r.svc.Categories.DeleteCategory(ctx, userID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

// Budgets

func (r *Resolver) CreateBudget(ctx context.Context, args struct{ Input createBudgetInput }) (*budgetResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	budget, err := r.svc.Budgets.CreateBudget(ctx, userID, services.CreateBudgetInput{
		CategoryID: string(args.Input.CategoryID),
		Name:       args.Input.Name,
		Amount:     args.Input.Amount,
		Period:     models.BudgetPeriod(args.Input.Period),
		StartDate:  args.Input.StartDate.Time,
		EndDate:    optTime(args.Input.EndDate),
	})
	if err != nil {
		return nil, err
	}
	return &budgetResolver{b: budget}, nil
}

func (r *Resolver) UpdateBudget(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateBudgetInput
}) (*budgetResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := services.UpdateBudgetInput{
		Name:         args.Input.Name,
		Amount:       args.Input.Amount,
		StartDate:    optTime(args.Input.StartDate),
		EndDate:      optTime(args.Input.EndDate),
		ClearEndDate: boolValue(args.Input.ClearEndDate),
		IsActive:     args.Input.IsActive,
	}
	if args.Input.Period != nil {
		p := models.BudgetPeriod(*args.Input.Period)
		in.Period = &p
	}
	budget, err := r.svc.Budgets.UpdateBudget(ctx, userID, string(args.ID), in)
	if err != nil {
		return nil, err
	}
	return &budgetResolver{b: budget}, nil
}

func (r *Resolver) DeleteBudget(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return false, err
	}
	if err := r.svc.Budgets.DeleteBudget(ctx, userID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

// Projections

func (r *Resolver) CreateProjection(ctx context.Context, args struct{ Input createProjectionInput }) (*projectionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	projection, err := r.svc.Projections.CreateProjection(ctx, userID, services.CreateProjectionInput{
		Name:             args.Input.Name,
		Description:      stringValue(args.Input.Description),
		IncomeGrowthRate: args.Input.IncomeGrowthRate,
		InvestmentReturn: args.Input.InvestmentReturn,
		InflationRate:    args.Input.InflationRate,
		Years:            intValue(args.Input.Years),
		CurrentAge:       intValue(args.Input.CurrentAge),
	})
	if err != nil {
		return nil, err
	}
	return &projectionResolver{p: projection}, nil
}

func (r *Resolver) UpdateProjection(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateProjectionInput
}) (*projectionResolver, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	projection, err := r.svc.Projections.UpdateProjection(ctx, userID, string(args.ID), services.UpdateProjectionInput{
		Name:             args.Input.Name,
		Description:      args.Input.Description,
		IncomeGrowthRate: args.Input.IncomeGrowthRate,
		InvestmentReturn: args.Input.InvestmentReturn,
		InflationRate:    args.Input.InflationRate,
		Years:            optIntPtr(args.Input.Years),
		CurrentAge:       optIntPtr(args.Input.CurrentAge),
	})
	if err != nil {
		return nil, err
	}
	return &projectionResolver{p: projection}, nil
}

func (r *Resolver) DeleteProjection(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return false, err
	}
	if err := r.svc.Projections.DeleteProjection(ctx, userID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}
