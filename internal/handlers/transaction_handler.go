package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record income or an expense. The account balance moves by the signed amount.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateTransactionInput true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Failure     404 {object} middleware.ErrorResponse "Account or category not found"
// @Failure     500 {object} middleware.ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.CreateTransactionInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles listing transactions with filters
// @Summary     List transactions
// @Description Paginated list of the caller's transactions, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from_date   query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       type        query string false "INCOME or EXPENSE"
// @Param       category_id query string false "Category ID"
// @Param       account_id  query string false "Account ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} middleware.ErrorResponse "Invalid filter"
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// transactionFilterFromQuery reads the list filters shared by the listing and
// export endpoints.
func transactionFilterFromQuery(c *gin.Context) (services.TransactionFilter, error) {
	var f services.TransactionFilter

	from, err := queryTime(c, "from_date", false)
	if err != nil {
		return f, err
	}
	to, err := queryTime(c, "to_date", true)
	if err != nil {
		return f, err
	}
	f.FromDate, f.ToDate = from, to

	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if !t.IsValid() {
			return f, apperrors.WithFields([]apperrors.FieldError{{Field: "type", Message: "must be INCOME or EXPENSE"}})
		}
		f.Type = &t
	}
	f.CategoryID = queryString(c, "category_id")
	f.AccountID = queryString(c, "account_id")
	return f, nil
}

// GetTransactionByID handles retrieving a single transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     403 {object} middleware.ErrorResponse "Not the owner"
// @Failure     404 {object} middleware.ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles changing a transaction
// @Summary     Update transaction
// @Description Balances of the old and new account are corrected in the same database transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                          true "Transaction ID"
// @Param       request body services.UpdateTransactionInput true "Fields to change"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     404 {object} middleware.ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.UpdateTransactionInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles removing a transaction
// @Summary     Delete transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204
// @Failure     404 {object} middleware.ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
