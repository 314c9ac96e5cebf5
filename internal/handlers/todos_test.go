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

func todoTestRouter(handler *handlers.TodoHandler, user *models.User) http.Handler {
	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, handlers.WithUserContext(req, user))
			})
		})
	}
	r.Get("/todos", handler.List)
	r.Post("/todos", handler.Create)
	r.Post("/todos/{id}/vote", handler.Vote)
	r.Patch("/todos/{id}", handler.UpdateStatus)
	return r
}

func TestTodoList(t *testing.T) {
	var requestedLimit int
	mockTodo := &handlers.MockTodoService{
		ListFunc: func(ctx context.Context, limit int) ([]services.TodoView, error) {
			requestedLimit = limit
			return []services.TodoView{{ID: 1, Title: "Fix layout", Status: models.TodoStatusPending}}, nil
		},
	}

	router := todoTestRouter(handlers.NewTodoHandler(mockTodo), nil)

	req := handlers.NewTestRequest(t, "GET", "/todos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp []services.TodoView
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, 0, requestedLimit)

	req = handlers.NewTestRequest(t, "GET", "/todos?limit=5", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, requestedLimit)
}

func TestTodoList_InvalidLimit(t *testing.T) {
	router := todoTestRouter(handlers.NewTodoHandler(&handlers.MockTodoService{}), nil)

	req := handlers.NewTestRequest(t, "GET", "/todos?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = handlers.NewTestRequest(t, "GET", "/todos?limit=-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTodoCreate(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}
	mockTodo := &handlers.MockTodoService{
		CreateFunc: func(ctx context.Context, owner *models.User, title, content, author, status string) (*services.TodoView, error) {
			require.NotNil(t, owner)
			userID := owner.ID
			return &services.TodoView{ID: 1, Title: title, Content: content, Author: author, Status: models.TodoStatusPending, UserID: &userID}, nil
		},
	}

	router := todoTestRouter(handlers.NewTodoHandler(mockTodo), user)
	req := handlers.NewTestRequest(t, "POST", "/todos", handlers.CreateTodoRequest{
		Title:   "Fix layout",
		Content: "Nodes overlap on import",
		Author:  "sam",
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp services.TodoView
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "Fix layout", resp.Title)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, int64(7), *resp.UserID)
}

func TestTodoCreate_MissingFields(t *testing.T) {
	router := todoTestRouter(handlers.NewTodoHandler(&handlers.MockTodoService{}), &models.User{ID: 7})
	req := handlers.NewTestRequest(t, "POST", "/todos", handlers.CreateTodoRequest{Title: "only a title"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTodoVote(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}

	var votedID int64
	var votedDelta int
	mockTodo := &handlers.MockTodoService{
		VoteFunc: func(ctx context.Context, id int64, delta int) (*services.TodoView, error) {
			votedID = id
			votedDelta = delta
			return &services.TodoView{ID: id, Heat: 1}, nil
		},
	}

	router := todoTestRouter(handlers.NewTodoHandler(mockTodo), user)

	// Absent delta defaults to an upvote.
	req := handlers.NewTestRequest(t, "POST", "/todos/3/vote", map[string]any{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), votedID)
	assert.Equal(t, 1, votedDelta)

	req = handlers.NewTestRequest(t, "POST", "/todos/3/vote", handlers.VoteRequest{Delta: intPtr(-1)})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, votedDelta)
}

func TestTodoVote_BadID(t *testing.T) {
	router := todoTestRouter(handlers.NewTodoHandler(&handlers.MockTodoService{}), &models.User{ID: 7})
	req := handlers.NewTestRequest(t, "POST", "/todos/abc/vote", map[string]any{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoUpdateStatus(t *testing.T) {
	user := &models.User{ID: 7, IsActive: true}

	mockTodo := &handlers.MockTodoService{
		UpdateStatusFunc: func(ctx context.Context, id int64, status string) (*services.TodoView, error) {
			return &services.TodoView{ID: id, Status: status}, nil
		},
	}

	router := todoTestRouter(handlers.NewTodoHandler(mockTodo), user)
	req := handlers.NewTestRequest(t, "PATCH", "/todos/3", handlers.UpdateTodoRequest{Status: models.TodoStatusCompleted})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp services.TodoView
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, models.TodoStatusCompleted, resp.Status)
}

func intPtr(i int) *int { return &i }
