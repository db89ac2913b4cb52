package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finance4all/internal/finance"
	"finance4all/internal/services"
)

// AnalyticsHandler serves the computed views over a user's finances.
type AnalyticsHandler struct {
	analyticsService  services.AnalyticsServicer
	projectionService services.ProjectionServicer
	snapshotService   services.SnapshotServicer
	now               func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer, projectionService services.ProjectionServicer, snapshotService services.SnapshotServicer) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:  analyticsService,
		projectionService: projectionService,
		snapshotService:   snapshotService,
		now:               time.Now,
	}
}

// NetWorth returns the current net worth breakdown.
// @Summary     Net worth
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} finance.NetWorth
// @Router      /analytics/net-worth [get]
func (h *AnalyticsHandler) NetWorth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nw, err := h.analyticsService.NetWorth(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"net_worth": nw})
}

// NetWorthHistory returns recorded snapshots, newest first. The range
// defaults to the last year.
// @Summary     Net worth history
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.NetWorthSnapshot]
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /analytics/net-worth/history [get]
func (h *AnalyticsHandler) NetWorthHistory(c *gin.Context) {
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

	period, err := h.periodFromQuery(c, "from_date", "to_date", finance.TrailingYear(h.now().UTC()))
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.snapshotService.GetSnapshots(c.Request.Context(), userID, period.Start, period.End, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CashFlow returns income and expenses over a period, the current month by
// default.
// @Summary     Cash flow
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} finance.CashFlow
// @Failure     400 {object} middleware.ErrorResponse "Invalid period"
// @Router      /analytics/cash-flow [get]
func (h *AnalyticsHandler) CashFlow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodFromQuery(c, "start_date", "end_date", finance.MonthRange(h.now().UTC()))
	if err != nil {
		respondWithError(c, err)
		return
	}

	cf, err := h.analyticsService.CashFlow(c.Request.Context(), userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cash_flow": cf})
}

// Projection runs the engine with ad-hoc assumptions without saving them.
// @Summary     Financial projection
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CalculateProjectionInput true "Assumptions"
// @Success     200 {object} finance.Projection
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /analytics/projection [post]
func (h *AnalyticsHandler) Projection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.CalculateProjectionInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.projectionService.Calculate(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": result})
}

// Dashboard returns the home screen aggregates.
// @Summary     Dashboard
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard
// @Router      /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	d, err := h.analyticsService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}

// periodFromQuery overrides the bounds of def with the given query
// parameters. A plain end date covers the whole day.
func (h *AnalyticsHandler) periodFromQuery(c *gin.Context, fromKey, toKey string, def finance.Period) (finance.Period, error) {
	period := def
	from, err := queryTime(c, fromKey, false)
	if err != nil {
		return period, err
	}
	to, err := queryTime(c, toKey, true)
	if err != nil {
		return period, err
	}
	if from != nil {
		period.Start = *from
	}
	if to != nil {
		period.End = *to
	}
	return period, nil
}
