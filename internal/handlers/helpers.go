package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/middleware"
	"finance4all/internal/pagination"
)

const dateLayout = "2006-01-02"

// getUserID returns the registered caller's user id.
// Returns ErrUnauthenticated if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return "", apperrors.ErrUnauthenticated
	}
	return userID, nil
}

// respondWithError hands err to the error middleware, which writes the
// response, and stops the handler chain.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindJSON decodes the request body into dst. Field rules are checked by the
// services, so only malformed JSON fails here.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid request body: "+err.Error())
	}
	return nil
}

// bindPage reads page and page_size from the query string.
func bindPage(c *gin.Context) (pagination.PageRequest, error) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	page.Defaults()
	return page, nil
}

// parseTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// queryTime parses an optional date query parameter. When endOfDay is set a
// plain date covers the whole day.
func queryTime(c *gin.Context, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, apperrors.WithFields([]apperrors.FieldError{{Field: key, Message: err.Error()}})
	}
	if endOfDay && len(raw) == len(dateLayout) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.WithFields([]apperrors.FieldError{{Field: key, Message: "must be true or false"}})
	}
	return &b, nil
}

// queryString returns a pointer to a non-empty query parameter.
func queryString(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}
