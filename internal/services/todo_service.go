package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mhoran-dev/relmap/internal/models"
)

// TodoRepository defines the todo store operations
type TodoRepository interface {
	List(ctx context.Context, limit int) ([]*models.Todo, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	UpdateHeat(ctx context.Context, id int64, heat int) (*models.Todo, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Todo, error)
}

// TodoService handles the shared todo board.
type TodoService struct {
	repo   TodoRepository
	logger *slog.Logger
}

func NewTodoService(repo TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{repo: repo, logger: logger}
}

type TodoView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	Author    string `json:"author"`
	Heat      int    `json:"heat"`
	UserID    *int64 `json:"user_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (s *TodoService) List(ctx context.Context, limit int) ([]TodoView, error) {
	todos, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list todos", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	views := make([]TodoView, 0, len(todos))
	for _, todo := range todos {
		views = append(views, todoToView(todo))
	}

	return views, nil
}

func (s *TodoService) Create(ctx context.Context, owner *models.User, title, content, author, status string) (*TodoView, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	author = strings.TrimSpace(author)
	status = strings.TrimSpace(status)
	if status == "" {
		status = models.TodoStatusPending
	}

	if title == "" || content == "" || author == "" {
		return nil, models.NewValidationError("title, content, and author are required")
	}
	if !models.ValidTodoStatus(status) {
		return nil, models.NewValidationError("status must be one of Pending, In Progress, Completed")
	}

	todo := &models.Todo{
		Title:   title,
		Content: content,
		Status:  status,
		Author:  author,
	}
	if owner != nil {
		todo.UserID = &owner.ID
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		s.logger.Error("failed to create todo", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	view := todoToView(created)
	return &view, nil
}

// Vote adjusts a todo's heat by ±1; heat never drops below zero.
func (s *TodoService) Vote(ctx context.Context, id int64, delta int) (*TodoView, error) {
	if delta != 1 && delta != -1 {
		return nil, models.NewValidationError("delta must be -1 or 1")
	}

	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("todo not found")
		}
		s.logger.Error("failed to get todo", slog.Int64("todo_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	heat := todo.Heat + delta
	if heat < 0 {
		heat = 0
	}

	updated, err := s.repo.UpdateHeat(ctx, id, heat)
	if err != nil {
		s.logger.Error("failed to update todo heat", slog.Int64("todo_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	view := todoToView(updated)
	return &view, nil
}

func (s *TodoService) UpdateStatus(ctx context.Context, id int64, status string) (*TodoView, error) {
	status = strings.TrimSpace(status)
	if status != "" && !models.ValidTodoStatus(status) {
		return nil, models.NewValidationError("status must be one of Pending, In Progress, Completed")
	}

	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("todo not found")
		}
		s.logger.Error("failed to get todo", slog.Int64("todo_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// An empty status leaves the row untouched, matching the permissive
	// PATCH contract.
	if status == "" {
		view := todoToView(todo)
		return &view, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error("failed to update todo status", slog.Int64("todo_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	view := todoToView(updated)
	return &view, nil
}

func todoToView(todo *models.Todo) TodoView {
	return TodoView{
		ID:        todo.ID,
		Title:     todo.Title,
		Content:   todo.Content,
		Status:    todo.Status,
		Author:    todo.Author,
		Heat:      todo.Heat,
		UserID:    todo.UserID,
		CreatedAt: todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt: todo.UpdatedAt.Format(time.RFC3339),
	}
}
