package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mhoran-dev/relmap/internal/auth"
	"github.com/mhoran-dev/relmap/internal/models"
	"github.com/mhoran-dev/relmap/internal/services"
	pkghttp "github.com/mhoran-dev/relmap/pkg/http"
)

// GraphServiceInterface defines the interface for graph business logic
type GraphServiceInterface interface {
	CreateGraph(ctx context.Context, owner *models.User, req *services.CreateGraphRequest) (*services.GraphResponse, error)
	ListMine(ctx context.Context, owner *models.User) ([]services.GraphView, error)
	GetByID(ctx context.Context, owner *models.User, id string) (*services.GraphResponse, error)
	Delete(ctx context.Context, owner *models.User, id string) error
}

// GraphHandler handles graph-related HTTP requests
type GraphHandler struct {
	service GraphServiceInterface
}

func NewGraphHandler(service GraphServiceInterface) *GraphHandler {
	return &GraphHandler{service: service}
}

// Create materializes a graph payload in one transaction
func (h *GraphHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "authorization required")
		return
	}

	var req services.CreateGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.CreateGraph(r.Context(), user, &req)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, resp)
}

// ListMine returns the caller's graphs
func (h *GraphHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "authorization required")
		return
	}

	graphs, err := h.service.ListMine(r.Context(), user)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string][]services.GraphView{"graphs": graphs})
}

// Get returns one owned graph with its full node and edge set
func (h *GraphHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "authorization required")
		return
	}

	resp, err := h.service.GetByID(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Delete removes an owned graph and everything in it
func (h *GraphHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "authorization required")
		return
	}

	if err := h.service.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
