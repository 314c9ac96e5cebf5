package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mhoran-dev/relmap/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc            func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*models.User, error)
	CreateFunc             func(ctx context.Context, user *models.User) (*models.User, error)
	RecordLoginFailureFunc func(ctx context.Context, id int64, failedCount int, lockedUntil *time.Time) error
	RecordLoginSuccessFunc func(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHashFunc func(ctx context.Context, id int64, passwordHash string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) RecordLoginFailure(ctx context.Context, id int64, failedCount int, lockedUntil *time.Time) error {
	if m.RecordLoginFailureFunc != nil {
		return m.RecordLoginFailureFunc(ctx, id, failedCount, lockedUntil)
	}
	return nil
}

func (m *MockUserRepository) RecordLoginSuccess(ctx context.Context, id int64, at time.Time) error {
	if m.RecordLoginSuccessFunc != nil {
		return m.RecordLoginSuccessFunc(ctx, id, at)
	}
	return nil
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, id, passwordHash)
	}
	return nil
}

// MockRefreshTokenRepository implements RefreshTokenRepository for testing
type MockRefreshTokenRepository struct {
	CreateFunc    func(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)
	GetByHashFunc func(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeFunc    func(ctx context.Context, tokenHash string, at time.Time) error
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	token.ID = 1
	token.CreatedAt = time.Now()
	return token, nil
}

func (m *MockRefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	if m.GetByHashFunc != nil {
		return m.GetByHashFunc(ctx, tokenHash)
	}
	return nil, models.ErrNotFound
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tokenHash string, at time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenHash, at)
	}
	return nil
}

// MockGraphRepository implements GraphRepository for testing. Created rows get
// deterministic sequential ids so tests can assert endpoint resolution.
type MockGraphRepository struct {
	CreateGraphTxFunc  func(ctx context.Context, tx pgx.Tx, graph *models.Graph) (*models.Graph, error)
	CreateNodeTxFunc   func(ctx context.Context, tx pgx.Tx, node *models.Node) (*models.Node, error)
	CreateLayoutTxFunc func(ctx context.Context, tx pgx.Tx, layout *models.NodeLayout) error
	CreateEdgeTxFunc   func(ctx context.Context, tx pgx.Tx, edge *models.Edge) (*models.Edge, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.Graph, error)
	ListByOwnerFunc    func(ctx context.Context, ownerUserID int64) ([]*models.Graph, error)
	ListNodesFunc      func(ctx context.Context, graphID string) ([]*models.Node, error)
	ListEdgesFunc      func(ctx context.Context, graphID string) ([]*models.Edge, error)
	DeleteTxFunc       func(ctx context.Context, tx pgx.Tx, graphID string) error

	nodeSeq int
	edgeSeq int

	CreatedNodes   []*models.Node
	CreatedLayouts []*models.NodeLayout
	CreatedEdges   []*models.Edge
}

func (m *MockGraphRepository) CreateGraphTx(ctx context.Context, tx pgx.Tx, graph *models.Graph) (*models.Graph, error) {
	if m.CreateGraphTxFunc != nil {
		return m.CreateGraphTxFunc(ctx, tx, graph)
	}
	graph.ID = "graph-1"
	graph.CreatedAt = time.Now()
	graph.UpdatedAt = graph.CreatedAt
	return graph, nil
}

func (m *MockGraphRepository) CreateNodeTx(ctx context.Context, tx pgx.Tx, node *models.Node) (*models.Node, error) {
	if m.CreateNodeTxFunc != nil {
		return m.CreateNodeTxFunc(ctx, tx, node)
	}
	m.nodeSeq++
	node.ID = fmt.Sprintf("node-%d", m.nodeSeq)
	node.CreatedAt = time.Now()
	node.UpdatedAt = node.CreatedAt
	m.CreatedNodes = append(m.CreatedNodes, node)
	return node, nil
}

func (m *MockGraphRepository) CreateLayoutTx(ctx context.Context, tx pgx.Tx, layout *models.NodeLayout) error {
	if m.CreateLayoutTxFunc != nil {
		return m.CreateLayoutTxFunc(ctx, tx, layout)
	}
	m.CreatedLayouts = append(m.CreatedLayouts, layout)
	return nil
}

func (m *MockGraphRepository) CreateEdgeTx(ctx context.Context, tx pgx.Tx, edge *models.Edge) (*models.Edge, error) {
	if m.CreateEdgeTxFunc != nil {
		return m.CreateEdgeTxFunc(ctx, tx, edge)
	}
	m.edgeSeq++
	edge.ID = fmt.Sprintf("edge-%d", m.edgeSeq)
	edge.CreatedAt = time.Now()
	edge.UpdatedAt = edge.CreatedAt
	m.CreatedEdges = append(m.CreatedEdges, edge)
	return edge, nil
}

func (m *MockGraphRepository) GetByID(ctx context.Context, id string) (*models.Graph, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockGraphRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.Graph, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerUserID)
	}
	return []*models.Graph{}, nil
}

func (m *MockGraphRepository) ListNodes(ctx context.Context, graphID string) ([]*models.Node, error) {
	if m.ListNodesFunc != nil {
		return m.ListNodesFunc(ctx, graphID)
	}
	return []*models.Node{}, nil
}

func (m *MockGraphRepository) ListEdges(ctx context.Context, graphID string) ([]*models.Edge, error) {
	if m.ListEdgesFunc != nil {
		return m.ListEdgesFunc(ctx, graphID)
	}
	return []*models.Edge{}, nil
}

func (m *MockGraphRepository) DeleteTx(ctx context.Context, tx pgx.Tx, graphID string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, graphID)
	}
	return nil
}

// MockTxRunner implements TxRunner without a real database. It records
// whether the callback reported an error, standing in for rollback.
type MockTxRunner struct {
	RolledBack bool
}

func (m *MockTxRunner) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	if err := fn(nil); err != nil {
		m.RolledBack = true
		return err
	}
	return nil
}

// MockTodoRepository implements TodoRepository for testing
type MockTodoRepository struct {
	ListFunc         func(ctx context.Context, limit int) ([]*models.Todo, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*models.Todo, error)
	CreateFunc       func(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	UpdateHeatFunc   func(ctx context.Context, id int64, heat int) (*models.Todo, error)
	UpdateStatusFunc func(ctx context.Context, id int64, status string) (*models.Todo, error)
}

func (m *MockTodoRepository) List(ctx context.Context, limit int) ([]*models.Todo, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return []*models.Todo{}, nil
}

func (m *MockTodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockTodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, todo)
	}
	todo.ID = 1
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	return todo, nil
}

func (m *MockTodoRepository) UpdateHeat(ctx context.Context, id int64, heat int) (*models.Todo, error) {
	if m.UpdateHeatFunc != nil {
		return m.UpdateHeatFunc(ctx, id, heat)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTodoRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Todo, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, models.ErrInternalServer
}

// NewTestUser builds an active user carrying the given password hash.
func NewTestUser(id int64, email string, passwordHash string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        email,
		Nickname:     "Test User",
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
