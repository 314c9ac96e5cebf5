package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mhoran-dev/relmap/internal/models"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// allowedChatModels is the closed set of models the proxy will forward to.
var allowedChatModels = map[string]bool{
	"gemini-3-pro-preview": true,
	"gemini-2.5-flash":     true,
	"gemini-2.0-flash":     true,
}

// ChatService proxies prompts to the Gemini generateContent API. The
// upstream is treated as a black box: prompt in, text out.
type ChatService struct {
	apiKey       string
	defaultModel string
	baseURL      string
	client       *http.Client
	logger       *slog.Logger
}

func NewChatService(apiKey, defaultModel string, logger *slog.Logger) *ChatService {
	return &ChatService{
		apiKey:       apiKey,
		defaultModel: defaultModel,
		baseURL:      defaultGeminiBaseURL,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// SetBaseURL overrides the upstream endpoint. Used by tests.
func (s *ChatService) SetBaseURL(baseURL string) {
	s.baseURL = strings.TrimRight(baseURL, "/")
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate forwards the prompt to the named model and returns the generated
// text. The model must be on the allow-list; an empty model falls back to
// the configured default.
func (s *ChatService) Generate(ctx context.Context, model, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", models.NewValidationError("prompt is required")
	}

	model = strings.TrimSpace(model)
	if model != "" && !allowedChatModels[model] {
		return "", models.NewValidationError("model must be one of: " + allowedModelList())
	}
	if model == "" {
		model = s.defaultModel
	}
	if !allowedChatModels[model] {
		s.logger.Error("configured chat model is not on the allow-list", slog.String("model", model))
		return "", models.ErrInternalServer
	}

	if s.apiKey == "" {
		s.logger.Error("chat api key is not configured")
		return "", models.ErrInternalServer
	}

	text, err := s.callUpstream(ctx, model, prompt)
	if err != nil {
		s.logger.Error("chat generation failed", slog.String("model", model), slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	if text == "" {
		s.logger.Error("chat upstream returned empty response", slog.String("model", model))
		return "", models.ErrInternalServer
	}

	return text, nil
}

func (s *ChatService) callUpstream(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode upstream response: %w", err)
	}

	if len(parsed.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return strings.TrimSpace(sb.String()), nil
}

func allowedModelList() string {
	names := make([]string, 0, len(allowedChatModels))
	for name := range allowedChatModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
