package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/services"
)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r, g := newRouter(testUserID)
	g.POST("/transactions", handler.CreateTransaction)
	g.GET("/transactions", handler.GetUserTransactions)
	g.GET("/transactions/:id", handler.GetTransactionByID)
	g.PUT("/transactions/:id", handler.UpdateTransaction)
	g.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 and passes the date", func(t *testing.T) {
		var captured services.CreateTransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(userID string, in services.CreateTransactionInput) (*models.Transaction, error) {
				captured = in
				return &models.Transaction{
					UserID:    userID,
					AccountID: in.AccountID,
					Type:      in.Type,
					Amount:    decimal.NewFromFloat(in.Amount),
					Date:      *in.Date,
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions",
			`{"accountId":"`+testAccountID+`","type":"EXPENSE","amount":42.5,"date":"2025-03-10T12:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Date == nil || !captured.Date.Equal(mustTime(t, "2025-03-10T12:00:00Z")) {
			t.Errorf("date not decoded: %v", captured.Date)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["amount"] != "42.5" {
			t.Errorf("expected amount 42.5 as string, got %v", tx["amount"])
		}
	})

	t.Run("maps category mismatch to 400", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(string, services.CreateTransactionInput) (*models.Transaction, error) {
				return nil, apperrors.WithFields([]apperrors.FieldError{{Field: "categoryId", Message: "category type must match transaction type"}})
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions", `{"accountId":"`+testAccountID+`","type":"INCOME","amount":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BAD_USER_INPUT")
	})
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions?from_date=2025-01-01&to_date=2025-01-31&type=EXPENSE&category_id=c1&account_id=a1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.FromDate == nil || !gotFilter.FromDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected from %v", gotFilter.FromDate)
		}
		wantTo := time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC)
		if gotFilter.ToDate == nil || !gotFilter.ToDate.Equal(wantTo) {
			t.Errorf("plain to_date should cover the whole day, got %v", gotFilter.ToDate)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Errorf("unexpected type %v", gotFilter.Type)
		}
		if *gotFilter.CategoryID != "c1" || *gotFilter.AccountID != "a1" {
			t.Error("id filters not passed")
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"bad date", "?from_date=yesterday"},
		{"bad type", "?type=TRANSFER"},
		{"page size too large", "?page_size=500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

			rec := doRequest(r, "GET", "/transactions"+tt.query, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "BAD_USER_INPUT")
		})
	}
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	var captured services.UpdateTransactionInput
	txSvc := &mockTransactionService{
		updateTransactionFn: func(_, id string, in services.UpdateTransactionInput) (*models.Transaction, error) {
			captured = in
			return &models.Transaction{Base: models.Base{ID: id}}, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc))

	rec := doRequest(r, "PUT", "/transactions/t1", `{"amount":10,"clearCategory":true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Amount == nil || *captured.Amount != 10 || !captured.ClearCategory {
		t.Errorf("unexpected input %+v", captured)
	}
}

func TestTransactionHandler_GetAndDelete(t *testing.T) {
	txSvc := &mockTransactionService{
		getTransactionByIDFn: func(string, string) (*models.Transaction, error) {
			return nil, apperrors.ErrTransactionNotFound
		},
		deleteTransactionFn: func(string, string) error {
			return apperrors.ErrForbidden
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc))

	if rec := doRequest(r, "GET", "/transactions/t1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET: expected 404, got %d", rec.Code)
	}
	if rec := doRequest(r, "DELETE", "/transactions/t1", ""); rec.Code != http.StatusForbidden {
		t.Errorf("DELETE: expected 403, got %d", rec.Code)
	}
}
