package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	pkghttp "github.com/mhoran-dev/relmap/pkg/http"
)

// ChatServiceInterface defines the interface for the chat proxy
type ChatServiceInterface interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ChatHandler handles chat proxy HTTP requests
type ChatHandler struct {
	service ChatServiceInterface
}

func NewChatHandler(service ChatServiceInterface) *ChatHandler {
	return &ChatHandler{service: service}
}

type ChatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model"`
}

type ChatResponse struct {
	Text string `json:"text"`
}

// Generate forwards a prompt to the upstream model and returns its reply
func (h *ChatHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	text, err := h.service.Generate(r.Context(), req.Model, req.Prompt)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ChatResponse{Text: text})
}
