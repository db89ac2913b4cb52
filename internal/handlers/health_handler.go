package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the liveness and index endpoints.
type HealthHandler struct {
	service string
	version string
	env     string
	started time.Time
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler. Uptime is measured from the
// moment it is created.
func NewHealthHandler(service, version, env string) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		env:     env,
		started: time.Now(),
		now:     time.Now,
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
}

// Health reports that the process is up.
// @Summary     Health check
// @Tags        ops
// @Produce     json
// @Success     200 {object} HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Service:     h.service,
		Version:     h.version,
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(h.started).Seconds(),
		Environment: h.env,
	})
}

// Root lists where the API surfaces live.
// @Summary     Service index
// @Tags        ops
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     h.service,
		"version":     h.version,
		"environment": h.env,
		"graphql":     "/graphql",
		"health":      "/health",
		"docs":        "/swagger/index.html",
	})
}
