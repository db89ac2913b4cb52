package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"finance4all/internal/auth"
	"finance4all/internal/config"
	"finance4all/internal/database"
	"finance4all/internal/graph"
	"finance4all/internal/handlers"
	"finance4all/internal/logger"
	"finance4all/internal/middleware"
	"finance4all/internal/reporting"
	"finance4all/internal/services"
	"finance4all/internal/validator"

	_ "finance4all/internal/docs" // Import swagger docs
)

// @title           Finance4All API
// @version         1.0
// @description     Personal finance tracking: accounts, transactions, budgets, net worth, cash flow and multi-year projections.

// @host      localhost:4000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a Firebase ID token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.Env, cfg.ServiceName)
	defer logger.Sync()
	log := logger.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	reporter := newReporter(cfg)
	defer reporter.Close()

	validator.Register()

	router, err := setupRouter(cfg, dbManager.DB(), verifier, reporter)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Starting Finance4All API", "port", cfg.Port, "env", cfg.Env, "auth", cfg.AuthProvider)
		log.Infof("GraphQL endpoint available at http://localhost:%s/graphql", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	if cfg.AuthProvider == config.AuthProviderLocal {
		logger.Get().Warn("Using local token verification; do not use outside development")
		return auth.NewLocalVerifier(cfg.LocalAuthSecret)
	}
	return auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
}

// newReporter publishes error events to AMQP when a broker is configured and
// falls back to the log otherwise.
func newReporter(cfg *config.Config) reporting.Reporter {
	log := logger.Named("reporting")
	if cfg.ErrorReportingAMQPURL == "" {
		return reporting.NewLogReporter(log)
	}
	r, err := reporting.NewAMQPReporter(cfg.ErrorReportingAMQPURL, cfg.ErrorReportingExchange, cfg.ErrorReportingQueue, log)
	if err != nil {
		log.Warnw("AMQP error reporting unavailable, falling back to log", "error", err)
		return reporting.NewLogReporter(log)
	}
	return r
}

func setupRouter(cfg *config.Config, db *gorm.DB, verifier auth.Verifier, reporter reporting.Reporter) (*gin.Engine, error) {
	// Initialize services
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db, auditService)
	accountService := services.NewAccountService(db, auditService)
	categoryService := services.NewCategoryService(db, auditService)
	transactionService := services.NewTransactionService(db, accountService, categoryService, auditService)
	budgetService := services.NewBudgetService(db, categoryService, auditService)
	analyticsService := services.NewAnalyticsService(accountService, transactionService, budgetService)
	projectionService := services.NewProjectionService(db, analyticsService, services.ProjectionDefaults{
		Years:          cfg.ProjectionYears,
		BaseAge:        cfg.ProjectionBaseAge,
		InflateExpense: cfg.ProjectionInflateExpenses,
	}, auditService)
	snapshotService := services.NewSnapshotService(db)

	// GraphQL
	schema, err := graph.NewSchema(graph.NewResolver(graph.Services{
		Users:        userService,
		Accounts:     accountService,
		Categories:   categoryService,
		Transactions: transactionService,
		Budgets:      budgetService,
		Projections:  projectionService,
		Analytics:    analyticsService,
		Snapshots:    snapshotService,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}
	graphHandler := graph.NewHandler(schema, cfg.IsProduction(), reporter, cfg.ServiceName, cfg.Env)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.ServiceName, cfg.ServiceVersion, cfg.Env)
	userHandler := handlers.NewUserHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, transactionService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	projectionHandler := handlers.NewProjectionHandler(projectionService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, projectionService, snapshotService)
	exportHandler := handlers.NewExportHandler(accountService, transactionService, projectionService)
	pipelineHandler := handlers.NewPipelineHandler(snapshotService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler(cfg.IsProduction(), reporter, cfg.ServiceName, cfg.Env))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// GraphQL lets anonymous requests through; resolvers decide.
	gql := router.Group("/graphql", middleware.Authenticate(verifier, userService, false))
	gql.POST("", graphHandler.Serve)
	gql.GET("", graphHandler.Serve)

	v1 := router.Group("/api/v1")

	// Registration needs a valid token but no stored profile yet.
	v1.POST("/users", middleware.Authenticate(verifier, userService, true), userHandler.CreateUser)

	pipeline := v1.Group("/pipeline", middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/snapshots", pipelineHandler.ComputeSnapshots)

	protected := v1.Group("", middleware.Authenticate(verifier, userService, true), middleware.RequireUser())

	protected.GET("/profile", userHandler.GetProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/transactions", accountHandler.GetAccountTransactions)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	projections := protected.Group("/projections")
	projections.POST("", projectionHandler.CreateProjection)
	projections.GET("", projectionHandler.GetProjections)
	projections.GET("/:id", projectionHandler.GetProjection)
	projections.PUT("/:id", projectionHandler.UpdateProjection)
	projections.DELETE("/:id", projectionHandler.DeleteProjection)
	projections.POST("/:id/run", projectionHandler.RunProjection)

	analytics := protected.Group("/analytics")
	analytics.GET("/net-worth", analyticsHandler.NetWorth)
	analytics.GET("/net-worth/history", analyticsHandler.NetWorthHistory)
	analytics.GET("/cash-flow", analyticsHandler.CashFlow)
	analytics.POST("/projection", analyticsHandler.Projection)
	analytics.GET("/dashboard", analyticsHandler.Dashboard)

	export := protected.Group("/export")
	export.GET("/transactions", exportHandler.ExportTransactions)
	export.GET("/projections/:id", exportHandler.ExportProjection)

	return router, nil
}
