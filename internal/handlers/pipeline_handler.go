package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finance4all/internal/logger"
	"finance4all/internal/services"
)

// PipelineHandler serves the endpoints called by scheduled jobs.
type PipelineHandler struct {
	snapshotService services.SnapshotServicer
	now             func() time.Time
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(snapshotService services.SnapshotServicer) *PipelineHandler {
	return &PipelineHandler{snapshotService: snapshotService, now: time.Now}
}

// ComputeSnapshotsRequest represents the request payload for computing snapshots.
// RecordedAt defaults to the current time.
type ComputeSnapshotsRequest struct {
	RecordedAt *time.Time `json:"recorded_at"`
}

// ComputeSnapshots handles computing and recording net worth snapshots.
// @Summary     Compute net worth snapshots
// @Description Compute and record a net worth snapshot for every user with an active account
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key  header   string                   true  "Pipeline API key"
// @Param       request    body     ComputeSnapshotsRequest  false "Snapshot parameters"
// @Success     200        {object} map[string]int           "Snapshots recorded count"
// @Failure     400        {object} middleware.ErrorResponse "Invalid input"
// @Failure     401        {object} middleware.ErrorResponse "Invalid API key"
// @Failure     503        {object} middleware.ErrorResponse "Pipeline not configured"
// @Router      /pipeline/snapshots [post]
func (h *PipelineHandler) ComputeSnapshots(c *gin.Context) {
	var req ComputeSnapshotsRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, err)
			return
		}
	}

	recordedAt := h.now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	count, err := h.snapshotService.ComputeAndRecordSnapshots(c.Request.Context(), recordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("net worth snapshots recorded", "count", count, "recorded_at", recordedAt.UTC())
	c.JSON(http.StatusOK, gin.H{"snapshots_recorded": count})
}
