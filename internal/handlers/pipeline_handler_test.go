package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/middleware"
)

func setupPipelineRouter(snapshots *mockSnapshotService, apiKey string) *gin.Engine {
	return newPipelineRouter(snapshots, apiKey, false)
}

func newPipelineRouter(snapshots *mockSnapshotService, apiKey string, production bool) *gin.Engine {
	h := NewPipelineHandler(snapshots)
	h.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(middleware.ErrorHandler(production, nil, "test", "test"))
	r.POST("/pipeline/snapshots", middleware.PipelineAuthMiddleware(apiKey), h.ComputeSnapshots)
	return r
}

func doPipelineRequest(r *gin.Engine, apiKey, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/pipeline/snapshots", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPipelineHandler_ComputeSnapshots(t *testing.T) {
	t.Run("uses recorded_at from body", func(t *testing.T) {
		var got time.Time
		snapshots := &mockSnapshotService{
			computeFn: func(recordedAt time.Time) (int, error) {
				got = recordedAt
				return 3, nil
			},
		}
		r := setupPipelineRouter(snapshots, "k")

		rec := doPipelineRequest(r, "k", `{"recorded_at":"2025-05-31T23:00:00Z"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Equal(mustTime(t, "2025-05-31T23:00:00Z")) {
			t.Errorf("unexpected recordedAt %v", got)
		}
		if parseJSON(t, rec)["snapshots_recorded"].(float64) != 3 {
			t.Error("expected count 3")
		}
	})

	t.Run("defaults recorded_at to now", func(t *testing.T) {
		var got time.Time
		snapshots := &mockSnapshotService{
			computeFn: func(recordedAt time.Time) (int, error) {
				got = recordedAt
				return 0, nil
			},
		}
		r := setupPipelineRouter(snapshots, "k")

		rec := doPipelineRequest(r, "k", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected recordedAt %v", got)
		}
	})
}

func TestPipelineHandler_APIKey(t *testing.T) {
	tests := []struct {
		name        string
		configured  string
		sent        string
		production  bool
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "wrong key",
			configured:  "secret-pipeline-key",
			sent:        "wrong-key",
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperrors.ErrInvalidAPIKey.Code,
			wantMessage: apperrors.ErrInvalidAPIKey.Message,
		},
		{
			name:        "missing key",
			configured:  "secret-pipeline-key",
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperrors.ErrInvalidAPIKey.Code,
			wantMessage: apperrors.ErrInvalidAPIKey.Message,
		},
		{
			name:        "prefix of the key",
			configured:  "secret-pipeline-key",
			sent:        "secret-pipeline",
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperrors.ErrInvalidAPIKey.Code,
			wantMessage: apperrors.ErrInvalidAPIKey.Message,
		},
		{
			name:        "not configured",
			sent:        "anything",
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    apperrors.ErrPipelineOff.Code,
			wantMessage: apperrors.ErrPipelineOff.Message,
		},
		{
			name:        "production hides the message",
			configured:  "secret-pipeline-key",
			sent:        "wrong-key",
			production:  true,
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperrors.ErrInvalidAPIKey.Code,
			wantMessage: apperrors.GenericMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			snapshots := &mockSnapshotService{
				computeFn: func(time.Time) (int, error) {
					called = true
					return 0, nil
				},
			}
			r := newPipelineRouter(snapshots, tt.configured, tt.production)

			rec := doPipelineRequest(r, tt.sent, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp middleware.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if resp.Error.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Error.Message, tt.wantMessage)
			}
			if called {
				t.Error("snapshots must not be computed without a valid key")
			}
		})
	}
}
