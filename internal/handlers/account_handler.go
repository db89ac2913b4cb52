package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance4all/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService     services.AccountServicer
	transactionService services.TransactionServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, transactionService services.TransactionServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, transactionService: transactionService}
}

// CreateAccount handles the creation of a new account.
// @Summary     Create an account
// @Description Create a new account for the authenticated user. Debt and liability balances are stored negative.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateAccountInput true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Failure     500 {object} middleware.ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.CreateAccountInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetUserAccounts handles listing the caller's accounts.
// @Summary     List accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       include_inactive query bool false "Include deactivated accounts"
// @Success     200 {object} map[string][]models.Account
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Router      /accounts [get]
func (h *AccountHandler) GetUserAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	includeInactive, err := queryBool(c, "include_inactive")
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.GetUserAccounts(c.Request.Context(), userID, includeInactive != nil && *includeInactive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetAccountByID handles retrieving a single account.
// @Summary     Get account by ID
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account
// @Failure     403 {object} middleware.ErrorResponse "Not the owner"
// @Failure     404 {object} middleware.ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles changing an account's fields.
// @Summary     Update account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                      true "Account ID"
// @Param       request body services.UpdateAccountInput true "Fields to change"
// @Success     200 {object} models.Account
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     404 {object} middleware.ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.UpdateAccountInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles removing an account together with its transactions.
// @Summary     Delete account
// @Tags        accounts
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     204
// @Failure     404 {object} middleware.ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAccountTransactions handles listing the transactions of one account.
// @Summary     List account transactions
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Account ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     404 {object} middleware.ErrorResponse "Account not found"
// @Router      /accounts/{id}/transactions [get]
func (h *AccountHandler) GetAccountTransactions(c *gin.Context) {
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

	accountID := c.Param("id")
	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID,
		services.TransactionFilter{AccountID: &accountID}, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
