package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mhoran-dev/relmap/internal/auth"
	"github.com/mhoran-dev/relmap/internal/models"
	"github.com/mhoran-dev/relmap/internal/services"
	pkghttp "github.com/mhoran-dev/relmap/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithUserContext injects an authenticated user, standing in for the auth
// middleware.
func WithUserContext(req *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserContextKey, user)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error body with the
// expected message
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	var body pkghttp.ErrorResponse
	AssertJSONResponse(t, w, expectedStatus, &body)
	assert.Equal(t, expectedError, body.Error)
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, email, password, nickname string, meta services.RequestMeta) (*services.AuthResponse, error)
	LoginFunc          func(ctx context.Context, email, password string, meta services.RequestMeta) (*services.AuthResponse, error)
	RefreshFunc        func(ctx context.Context, refreshToken string, meta services.RequestMeta) (*services.AuthResponse, error)
	LogoutFunc         func(ctx context.Context, refreshToken string) error
	ChangePasswordFunc func(ctx context.Context, user *models.User, currentPassword, newPassword string) error
}

func (m *MockAuthService) Register(ctx context.Context, email, password, nickname string, meta services.RequestMeta) (*services.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, nickname, meta)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, meta services.RequestMeta) (*services.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, meta)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string, meta services.RequestMeta) (*services.AuthResponse, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken, meta)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, user, currentPassword, newPassword)
	}
	return nil
}

// MockGraphService implements GraphServiceInterface for testing
type MockGraphService struct {
	CreateGraphFunc func(ctx context.Context, owner *models.User, req *services.CreateGraphRequest) (*services.GraphResponse, error)
	ListMineFunc    func(ctx context.Context, owner *models.User) ([]services.GraphView, error)
	GetByIDFunc     func(ctx context.Context, owner *models.User, id string) (*services.GraphResponse, error)
	DeleteFunc      func(ctx context.Context, owner *models.User, id string) error
}

func (m *MockGraphService) CreateGraph(ctx context.Context, owner *models.User, req *services.CreateGraphRequest) (*services.GraphResponse, error) {
	if m.CreateGraphFunc != nil {
		return m.CreateGraphFunc(ctx, owner, req)
	}
	return nil, models.ErrInternalServer
}

func (m *MockGraphService) ListMine(ctx context.Context, owner *models.User) ([]services.GraphView, error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, owner)
	}
	return []services.GraphView{}, nil
}

func (m *MockGraphService) GetByID(ctx context.Context, owner *models.User, id string) (*services.GraphResponse, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, owner, id)
	}
	return nil, models.NewNotFoundError("graph not found")
}

func (m *MockGraphService) Delete(ctx context.Context, owner *models.User, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, owner, id)
	}
	return nil
}

// MockTodoService implements TodoServiceInterface for testing
type MockTodoService struct {
	ListFunc         func(ctx context.Context, limit int) ([]services.TodoView, error)
	CreateFunc       func(ctx context.Context, owner *models.User, title, content, author, status string) (*services.TodoView, error)
	VoteFunc         func(ctx context.Context, id int64, delta int) (*services.TodoView, error)
	UpdateStatusFunc func(ctx context.Context, id int64, status string) (*services.TodoView, error)
}

func (m *MockTodoService) List(ctx context.Context, limit int) ([]services.TodoView, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return []services.TodoView{}, nil
}

func (m *MockTodoService) Create(ctx context.Context, owner *models.User, title, content, author, status string) (*services.TodoView, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, owner, title, content, author, status)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTodoService) Vote(ctx context.Context, id int64, delta int) (*services.TodoView, error) {
	if m.VoteFunc != nil {
		return m.VoteFunc(ctx, id, delta)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTodoService) UpdateStatus(ctx context.Context, id int64, status string) (*services.TodoView, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, models.ErrInternalServer
}

// MockChatService implements ChatServiceInterface for testing
type MockChatService struct {
	GenerateFunc func(ctx context.Context, model, prompt string) (string, error)
}

func (m *MockChatService) Generate(ctx context.Context, model, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, model, prompt)
	}
	return "", models.ErrInternalServer
}
