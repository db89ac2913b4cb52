package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/logger"
	"finance4all/internal/middleware"
	"finance4all/internal/reporting"
)

// CodeValidationFailed marks errors raised while parsing or validating a
// document, before any resolver ran.
const CodeValidationFailed = "GRAPHQL_VALIDATION_FAILED"

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL requests on a Gin route.
type Handler struct {
	schema     *graphql.Schema
	production bool
	reporter   reporting.Reporter
	service    string
	env        string
}

// NewHandler wraps schema. In production error messages are masked and every
// error is forwarded to reporter.
func NewHandler(schema *graphql.Schema, production bool, reporter reporting.Reporter, service, env string) *Handler {
	if reporter == nil {
		reporter = reporting.Nop{}
	}
	return &Handler{
		schema:     schema,
		production: production,
		reporter:   reporter,
		service:    service,
		env:        env,
	}
}

// Serve executes a query sent as a POST body, or as GET query parameters.
func (h *Handler) Serve(c *gin.Context) {
	var req Request
	switch c.Request.Method {
	case http.MethodGet:
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				h.badRequest(c, "variables must be a JSON object")
				return
			}
		}
	default:
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, "request body must be a JSON object with a query")
			return
		}
	}
	if strings.TrimSpace(req.Query) == "" {
		h.badRequest(c, "query must not be empty")
		return
	}

	resp := h.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	for _, qe := range resp.Errors {
		h.present(c, req.OperationName, qe)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	qe := &gqlerrors.QueryError{Message: message}
	h.present(c, "", qe)
	c.JSON(http.StatusBadRequest, &graphql.Response{Errors: []*gqlerrors.QueryError{qe}})
}

// present rewrites qe in place into the client-facing form: a code under
// extensions, field errors for validation failures, masked messages in
// production.
func (h *Handler) present(c *gin.Context, operation string, qe *gqlerrors.QueryError) {
	var public *apperrors.AppError
	switch {
	case qe.ResolverError != nil:
		public = apperrors.Public(qe.ResolverError, h.production)
		h.log(qe.ResolverError, operation, qe.Path)
	case len(qe.Path) > 0:
		// A resolver panicked.
		public = apperrors.Public(fmt.Errorf("%s", qe.Message), h.production)
		h.log(public.Internal, operation, qe.Path)
	default:
		public = &apperrors.AppError{Code: CodeValidationFailed, Message: qe.Message}
		if h.production {
			public.Message = apperrors.GenericMessage
		}
	}

	if h.production {
		h.report(c, operation, qe, public)
	}

	qe.Message = public.Message
	qe.Extensions = public.Extensions()
}

func (h *Handler) log(err error, operation string, path []interface{}) {
	var appErr *apperrors.AppError
	switch {
	case !errors.As(err, &appErr):
		logger.Get().Errorw("unexpected resolver error",
			"error", err.Error(),
			"operation", operation,
			"path", pathString(path),
		)
	case appErr.Internal != nil:
		logger.Get().Errorw("resolver error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"operation", operation,
			"path", pathString(path),
		)
	}
}

func (h *Handler) report(c *gin.Context, operation string, qe *gqlerrors.QueryError, public *apperrors.AppError) {
	if operation == "" {
		operation = "anonymous"
	}
	event := reporting.Event{
		Code:       public.Code,
		Message:    qe.Message,
		Operation:  operation,
		Path:       pathString(qe.Path),
		RequestID:  middleware.GetRequestID(c),
		UserID:     middleware.GetUserID(c),
		Service:    h.service,
		Env:        h.env,
		OccurredAt: time.Now().UTC(),
	}
	if public.Internal != nil {
		event.Internal = public.Internal.Error()
	}
	h.reporter.Report(c.Request.Context(), event)
}

func pathString(path []interface{}) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}
