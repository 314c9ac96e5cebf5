package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhoran-dev/relmap/internal/database"
	"github.com/mhoran-dev/relmap/internal/models"
)

const todoColumns = `id, title, content, status, author, heat, user_id, created_at, updated_at`

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(db *database.DB) *TodoRepository {
	return &TodoRepository{pool: db.Pool}
}

func scanTodoRow(scanner rowScanner) (*models.Todo, error) {
	var todo models.Todo

	err := scanner.Scan(
		&todo.ID, &todo.Title, &todo.Content, &todo.Status,
		&todo.Author, &todo.Heat, &todo.UserID,
		&todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &todo, nil
}

func (r *TodoRepository) List(ctx context.Context, limit int) ([]*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodoRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	return scanTodoRow(r.pool.QueryRow(ctx, query, id))
}

func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	query := `
		INSERT INTO todos (title, content, status, author, heat, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + todoColumns

	return scanTodoRow(r.pool.QueryRow(ctx, query,
		todo.Title, todo.Content, todo.Status, todo.Author,
		todo.Heat, todo.UserID, todo.CreatedAt, todo.UpdatedAt,
	))
}

func (r *TodoRepository) UpdateHeat(ctx context.Context, id int64, heat int) (*models.Todo, error) {
	query := `
		UPDATE todos SET heat = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + todoColumns

	return scanTodoRow(r.pool.QueryRow(ctx, query, heat, time.Now(), id))
}

func (r *TodoRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Todo, error) {
	query := `
		UPDATE todos SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + todoColumns

	return scanTodoRow(r.pool.QueryRow(ctx, query, status, time.Now(), id))
}
