package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/finance"
	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/services"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	transactionsSheet = "Transactions"
	projectionSheet   = "Projection"
	assumptionsSheet  = "Assumptions"
)

var transactionColumns = []string{"Date", "Type", "Amount", "Account", "Category", "Description"}

var projectionColumns = []string{
	"Year", "Age", "Income", "Expenses", "Savings", "Investment Growth", "Net Worth", "Net Worth (today's money)",
}

// ExportHandler streams user data as downloadable files.
type ExportHandler struct {
	accountService     services.AccountServicer
	transactionService services.TransactionServicer
	projectionService  services.ProjectionServicer
	now                func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(accountService services.AccountServicer, transactionService services.TransactionServicer, projectionService services.ProjectionServicer) *ExportHandler {
	return &ExportHandler{
		accountService:     accountService,
		transactionService: transactionService,
		projectionService:  projectionService,
		now:                time.Now,
	}
}

// ExportTransactions writes the filtered transactions as CSV or XLSX.
// @Summary     Export transactions
// @Tags        export
// @Produce     text/csv
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       format      query string false "csv (default) or xlsx"
// @Param       from_date   query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       type        query string false "INCOME or EXPENSE"
// @Param       category_id query string false "Category ID"
// @Param       account_id  query string false "Account ID"
// @Success     200 {file} file
// @Failure     400 {object} middleware.ErrorResponse "Invalid filter or format"
// @Router      /export/transactions [get]
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		respondWithError(c, apperrors.WithFields([]apperrors.FieldError{{Field: "format", Message: "must be csv or xlsx"}}))
		return
	}

	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	transactions, err := h.allTransactions(ctx, userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountNames, err := h.accountNames(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows := make([][]string, 0, len(transactions))
	for i := range transactions {
		rows = append(rows, transactionRow(&transactions[i], accountNames))
	}

	filename := fmt.Sprintf("transactions_%s.%s", h.now().UTC().Format("20060102"), format)
	if format == "csv" {
		h.writeCSV(c, filename, rows)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, transactionsSheet, transactionColumns, stringRows(rows)); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	h.writeWorkbook(c, f, filename)
}

// ExportProjection runs a saved scenario and writes the result as XLSX.
// @Summary     Export projection
// @Tags        export
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       id path string true "Projection ID"
// @Success     200 {file} file
// @Failure     404 {object} middleware.ErrorResponse "Projection not found"
// @Router      /export/projections/{id} [get]
func (h *ExportHandler) ExportProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	scenario, err := h.projectionService.GetProjectionByID(ctx, userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.projectionService.Run(ctx, userID, scenario.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := writeProjectionWorkbook(f, scenario, result); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	h.writeWorkbook(c, f, fmt.Sprintf("projection_%s_%s.xlsx", scenario.ID, h.now().UTC().Format("20060102")))
}

// allTransactions pages through every transaction matching filter.
func (h *ExportHandler) allTransactions(ctx context.Context, userID string, filter services.TransactionFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	page := pagination.PageRequest{Page: 1, PageSize: pagination.MaxPageSize}
	for {
		result, err := h.transactionService.GetUserTransactions(ctx, userID, filter, page)
		if err != nil {
			return nil, err
		}
		out = append(out, result.Data...)
		if !result.HasNext() {
			return out, nil
		}
		page.Page++
	}
}

func (h *ExportHandler) accountNames(ctx context.Context, userID string) (map[string]string, error) {
	accounts, err := h.accountService.GetUserAccounts(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return names, nil
}

func transactionRow(t *models.Transaction, accountNames map[string]string) []string {
	category := finance.UncategorizedName
	if t.Category != nil {
		category = t.Category.Name
	}
	return []string{
		t.Date.UTC().Format(dateLayout),
		string(t.Type),
		t.SignedAmount().StringFixed(2),
		accountNames[t.AccountID],
		category,
		t.Description,
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, filename string, rows [][]string) {
	c.Header("Content-Type", contentTypeCSV)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(transactionColumns)
	_ = w.WriteAll(rows)
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}

func (h *ExportHandler) writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// writeSheet fills a sheet with a bold header row and the given rows. The
// first call renames the workbook's default sheet.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if f.SheetCount == 1 && f.GetSheetName(0) == "Sheet1" {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

func stringRows(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

func writeProjectionWorkbook(f *excelize.File, scenario *models.Projection, result *finance.Projection) error {
	rows := make([][]interface{}, 0, len(result.ProjectedYears))
	for _, y := range result.ProjectedYears {
		rows = append(rows, []interface{}{
			y.Year,
			y.Age,
			y.AnnualIncome.InexactFloat64(),
			y.AnnualExpenses.InexactFloat64(),
			y.AnnualSavings.InexactFloat64(),
			y.InvestmentGrowth.InexactFloat64(),
			y.NetWorth.InexactFloat64(),
			y.InflationAdjustedNetWorth.InexactFloat64(),
		})
	}
	if err := writeSheet(f, projectionSheet, projectionColumns, rows); err != nil {
		return err
	}

	millionaireYear := interface{}("not reached")
	if result.Milestones.MillionaireYear != nil {
		millionaireYear = *result.Milestones.MillionaireYear
	}
	summary := [][]interface{}{
		{"Scenario", scenario.Name},
		{"Income growth rate (%)", result.Assumptions.IncomeGrowthRate},
		{"Investment return (%)", result.Assumptions.InvestmentReturn},
		{"Inflation rate (%)", result.Assumptions.InflationRate},
		{"Years", result.Years},
		{"Expense growth", string(result.ExpenseGrowth)},
		{"Current net worth", result.CurrentNetWorth.InexactFloat64()},
		{"Annual income", result.AnnualIncome.InexactFloat64()},
		{"Annual expenses", result.AnnualExpenses.InexactFloat64()},
		{"Millionaire year", millionaireYear},
	}
	return writeSheet(f, assumptionsSheet, []string{"Assumption", "Value"}, summary)
}
