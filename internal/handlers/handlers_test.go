package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finance4all/internal/auth"
	"finance4all/internal/finance"
	"finance4all/internal/middleware"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/services"
)

const (
	testUserID    = "0190f5a2-7c3e-7b1a-9d2e-000000000001"
	testAccountID = "0190f5a2-7c3e-7b1a-9d2e-0000000000a1"
)

// --- mock account service ---

type mockAccountService struct {
	createAccountFn   func(userID string, in services.CreateAccountInput) (*models.Account, error)
	getUserAccountsFn func(userID string, includeInactive bool) ([]models.Account, error)
	getAccountByIDFn  func(userID, accountID string) (*models.Account, error)
	updateAccountFn   func(userID, accountID string, in services.UpdateAccountInput) (*models.Account, error)
	deleteAccountFn   func(userID, accountID string) error
}

func (m *mockAccountService) CreateAccount(_ context.Context, userID string, in services.CreateAccountInput) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(userID, in)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetUserAccounts(_ context.Context, userID string, includeInactive bool) ([]models.Account, error) {
	if m.getUserAccountsFn != nil {
		return m.getUserAccountsFn(userID, includeInactive)
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) GetAccountByID(_ context.Context, userID, accountID string) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(_ context.Context, userID, accountID string, in services.UpdateAccountInput) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(userID, accountID, in)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) DeleteAccount(_ context.Context, userID, accountID string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(userID, accountID)
	}
	return nil
}

func (m *mockAccountService) UpdateAccountBalance(*gorm.DB, string, decimal.Decimal) error {
	return nil
}

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn   func(userID string, in services.CreateTransactionInput) (*models.Transaction, error)
	getUserTransactionsFn func(userID string, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
	updateTransactionFn   func(userID, transactionID string, in services.UpdateTransactionInput) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID string) error
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID string, in services.CreateTransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(_ context.Context, userID string, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionsInPeriod(context.Context, string, finance.Period) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) GetTransactionByID(_ context.Context, userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, userID, transactionID string, in services.UpdateTransactionInput) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

// --- mock projection service ---

type mockProjectionService struct {
	getProjectionByIDFn func(userID, projectionID string) (*models.Projection, error)
	calculateFn         func(userID string, in services.CalculateProjectionInput) (*finance.Projection, error)
	runFn               func(userID, projectionID string) (*finance.Projection, error)
}

func (m *mockProjectionService) CreateProjection(_ context.Context, _ string, in services.CreateProjectionInput) (*models.Projection, error) {
	return &models.Projection{Name: in.Name}, nil
}

func (m *mockProjectionService) GetUserProjections(context.Context, string) ([]models.Projection, error) {
	return []models.Projection{}, nil
}

func (m *mockProjectionService) GetProjectionByID(_ context.Context, userID, projectionID string) (*models.Projection, error) {
	if m.getProjectionByIDFn != nil {
		return m.getProjectionByIDFn(userID, projectionID)
	}
	return &models.Projection{}, nil
}

func (m *mockProjectionService) UpdateProjection(context.Context, string, string, services.UpdateProjectionInput) (*models.Projection, error) {
	return &models.Projection{}, nil
}

func (m *mockProjectionService) DeleteProjection(context.Context, string, string) error {
	return nil
}

func (m *mockProjectionService) Calculate(_ context.Context, userID string, in services.CalculateProjectionInput) (*finance.Projection, error) {
	if m.calculateFn != nil {
		return m.calculateFn(userID, in)
	}
	return &finance.Projection{}, nil
}

func (m *mockProjectionService) Run(_ context.Context, userID, projectionID string) (*finance.Projection, error) {
	if m.runFn != nil {
		return m.runFn(userID, projectionID)
	}
	return &finance.Projection{}, nil
}

// verify interface compliance
var (
	_ services.AccountServicer     = (*mockAccountService)(nil)
	_ services.TransactionServicer = (*mockTransactionService)(nil)
	_ services.ProjectionServicer  = (*mockProjectionService)(nil)
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter returns an engine with the error middleware installed and, when
// userID is set, an authenticated caller.
func newRouter(userID string) (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	r.Use(middleware.ErrorHandler(false, nil, "test", "test"))
	if userID == "" {
		return r, r.Group("")
	}
	return r, r.Group("", injectUser(userID))
}

func injectUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := &models.User{Base: models.Base{ID: userID}, FirebaseUID: "uid-" + userID, Role: models.RoleUser}
		identity := auth.NewIdentity(auth.Claims{UID: user.FirebaseUID, Email: "user@example.com"}, user)
		c.Set("identity", identity)
		c.Set("userID", userID)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
