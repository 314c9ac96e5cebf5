package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mhoran-dev/relmap/internal/auth"
	"github.com/mhoran-dev/relmap/internal/models"
	"github.com/mhoran-dev/relmap/internal/services"
	pkghttp "github.com/mhoran-dev/relmap/pkg/http"
)

// TodoServiceInterface defines the interface for todo business logic
type TodoServiceInterface interface {
	List(ctx context.Context, limit int) ([]services.TodoView, error)
	Create(ctx context.Context, owner *models.User, title, content, author, status string) (*services.TodoView, error)
	Vote(ctx context.Context, id int64, delta int) (*services.TodoView, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*services.TodoView, error)
}

// TodoHandler handles todo board HTTP requests
type TodoHandler struct {
	service TodoServiceInterface
}

func NewTodoHandler(service TodoServiceInterface) *TodoHandler {
	return &TodoHandler{service: service}
}

type CreateTodoRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required"`
	Status  string `json:"status"`
}

type VoteRequest struct {
	Delta *int `json:"delta"`
}

type UpdateTodoRequest struct {
	Status string `json:"status"`
}

// List returns the board, newest first
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			pkghttp.WriteBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	todos, err := h.service.List(r.Context(), limit)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, todos)
}

// Create adds a todo, bound to the authenticated caller
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r)

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	todo, err := h.service.Create(r.Context(), user, req.Title, req.Content, req.Author, req.Status)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, todo)
}

// Vote nudges a todo's heat up or down
func (h *TodoHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteNotFound(w, "todo not found")
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}

	todo, err := h.service.Vote(r.Context(), id, delta)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, todo)
}

// UpdateStatus moves a todo between board columns
func (h *TodoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteNotFound(w, "todo not found")
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	todo, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, todo)
}
