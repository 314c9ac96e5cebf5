package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mhoran-dev/relmap/internal/handlers"
	"github.com/mhoran-dev/relmap/internal/models"
	"github.com/mhoran-dev/relmap/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphTestRouter mounts the handler behind chi so URL params resolve.
func graphTestRouter(handler *handlers.GraphHandler, user *models.User) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, handlers.WithUserContext(req, user))
		})
	})
	r.Post("/graphs", handler.Create)
	r.Get("/graphs/mine", handler.ListMine)
	r.Get("/graphs/{id}", handler.Get)
	r.Delete("/graphs/{id}", handler.Delete)
	return r
}

func TestGraphCreate_Success(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}
	mockGraph := &handlers.MockGraphService{
		CreateGraphFunc: func(ctx context.Context, owner *models.User, req *services.CreateGraphRequest) (*services.GraphResponse, error) {
			assert.Equal(t, int64(7), owner.ID)
			return &services.GraphResponse{
				Graph: services.GraphView{ID: "graph-1", Name: req.Graph.Name, OwnerUserID: owner.ID},
				Nodes: []services.NodeView{{ID: "node-1", Title: "Alice"}},
				Edges: []services.EdgeView{},
			}, nil
		},
	}

	router := graphTestRouter(handlers.NewGraphHandler(mockGraph), user)
	req := handlers.NewTestRequest(t, "POST", "/graphs", services.CreateGraphRequest{
		Graph: services.GraphInput{Name: "Family"},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp services.GraphResponse
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "Family", resp.Graph.Name)
	require.Len(t, resp.Nodes, 1)
}

func TestGraphCreate_ServiceError(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}
	mockGraph := &handlers.MockGraphService{
		CreateGraphFunc: func(ctx context.Context, owner *models.User, req *services.CreateGraphRequest) (*services.GraphResponse, error) {
			return nil, models.NewValidationError("edge endpoints must reference known nodes")
		},
	}

	router := graphTestRouter(handlers.NewGraphHandler(mockGraph), user)
	req := handlers.NewTestRequest(t, "POST", "/graphs", services.CreateGraphRequest{
		Graph: services.GraphInput{Name: "Family"},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "edge endpoints must reference known nodes")
}

func TestGraphGet_PassesURLParam(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}
	var requestedID string
	mockGraph := &handlers.MockGraphService{
		GetByIDFunc: func(ctx context.Context, owner *models.User, id string) (*services.GraphResponse, error) {
			requestedID = id
			return &services.GraphResponse{Graph: services.GraphView{ID: id}}, nil
		},
	}

	router := graphTestRouter(handlers.NewGraphHandler(mockGraph), user)
	req := handlers.NewTestRequest(t, "GET", "/graphs/abc-123", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", requestedID)
}

func TestGraphGet_NotFound(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}
	router := graphTestRouter(handlers.NewGraphHandler(&handlers.MockGraphService{}), user)
	req := handlers.NewTestRequest(t, "GET", "/graphs/missing", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "graph not found")
}

func TestGraphListMine(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}
	mockGraph := &handlers.MockGraphService{
		ListMineFunc: func(ctx context.Context, owner *models.User) ([]services.GraphView, error) {
			return []services.GraphView{{ID: "graph-1", Name: "Family"}}, nil
		},
	}

	router := graphTestRouter(handlers.NewGraphHandler(mockGraph), user)
	req := handlers.NewTestRequest(t, "GET", "/graphs/mine", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string][]services.GraphView
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp["graphs"], 1)
	assert.Equal(t, "Family", resp["graphs"][0].Name)
}

func TestGraphDelete(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}
	var deletedID string
	mockGraph := &handlers.MockGraphService{
		DeleteFunc: func(ctx context.Context, owner *models.User, id string) error {
			deletedID = id
			return nil
		},
	}

	router := graphTestRouter(handlers.NewGraphHandler(mockGraph), user)
	req := handlers.NewTestRequest(t, "DELETE", "/graphs/abc-123", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc-123", deletedID)
}

func TestGraphHandlers_RequireUser(t *testing.T) {
	handler := handlers.NewGraphHandler(&handlers.MockGraphService{})

	req := handlers.NewTestRequest(t, "POST", "/graphs", services.CreateGraphRequest{})
	w := httptest.NewRecorder()
	handler.Create(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = handlers.NewTestRequest(t, "GET", "/graphs/mine", nil)
	w = httptest.NewRecorder()
	handler.ListMine(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
