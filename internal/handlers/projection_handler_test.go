package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/finance"
	"finance4all/internal/models"
)

func setupProjectionRouter(handler *ProjectionHandler) *gin.Engine {
	r, g := newRouter(testUserID)
	g.POST("/projections", handler.CreateProjection)
	g.GET("/projections", handler.GetProjections)
	g.GET("/projections/:id", handler.GetProjection)
	g.PUT("/projections/:id", handler.UpdateProjection)
	g.DELETE("/projections/:id", handler.DeleteProjection)
	g.POST("/projections/:id/run", handler.RunProjection)
	return r
}

func TestProjectionHandler_CRUD(t *testing.T) {
	r := setupProjectionRouter(NewProjectionHandler(&mockProjectionService{}))

	rec := doRequest(r, "POST", "/projections", `{"name":"Base","investmentReturn":7}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	if p := parseJSON(t, rec)["projection"].(map[string]interface{}); p["name"] != "Base" {
		t.Errorf("unexpected projection %v", p)
	}

	if rec := doRequest(r, "GET", "/projections", ""); rec.Code != http.StatusOK {
		t.Errorf("list: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(r, "PUT", "/projections/p1", `{"years":10}`); rec.Code != http.StatusOK {
		t.Errorf("update: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(r, "DELETE", "/projections/p1", ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
}

func TestProjectionHandler_RunProjection(t *testing.T) {
	t.Run("returns the projection", func(t *testing.T) {
		var gotID string
		svc := &mockProjectionService{
			runFn: func(_, id string) (*finance.Projection, error) {
				gotID = id
				return &finance.Projection{Years: 5, ProjectedYears: make([]finance.ProjectedYear, 5)}, nil
			},
		}
		r := setupProjectionRouter(NewProjectionHandler(svc))

		rec := doRequest(r, "POST", "/projections/p1/run", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != "p1" {
			t.Errorf("expected p1, got %s", gotID)
		}
		years := parseJSON(t, rec)["projection"].(map[string]interface{})["projected_years"].([]interface{})
		if len(years) != 5 {
			t.Errorf("expected 5 years, got %d", len(years))
		}
	})

	t.Run("maps not found", func(t *testing.T) {
		svc := &mockProjectionService{
			getProjectionByIDFn: func(string, string) (*models.Projection, error) { return nil, apperrors.ErrProjectionNotFound },
			runFn:               func(string, string) (*finance.Projection, error) { return nil, apperrors.ErrProjectionNotFound },
		}
		r := setupProjectionRouter(NewProjectionHandler(svc))

		if rec := doRequest(r, "POST", "/projections/p1/run", ""); rec.Code != http.StatusNotFound {
			t.Errorf("run: expected 404, got %d", rec.Code)
		}
		if rec := doRequest(r, "GET", "/projections/p1", ""); rec.Code != http.StatusNotFound {
			t.Errorf("get: expected 404, got %d", rec.Code)
		}
	})
}
