package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhoran-dev/relmap/internal/database"
	"github.com/mhoran-dev/relmap/internal/models"
)

// GraphRepository persists graphs, nodes, layouts, and edges. All writes are
// transaction-scoped so the service layer can commit a whole graph payload as
// one unit.
type GraphRepository struct {
	pool *pgxpool.Pool
}

func NewGraphRepository(db *database.DB) *GraphRepository {
	return &GraphRepository{pool: db.Pool}
}

const graphColumns = `id, owner_user_id, name, description, visibility, created_at, updated_at`

func scanGraphRow(scanner rowScanner) (*models.Graph, error) {
	var graph models.Graph
	var visibility string

	err := scanner.Scan(
		&graph.ID, &graph.OwnerUserID, &graph.Name, &graph.Description,
		&visibility, &graph.CreatedAt, &graph.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	graph.Visibility = models.Visibility(visibility)
	return &graph, nil
}

func (r *GraphRepository) CreateGraphTx(ctx context.Context, tx pgx.Tx, graph *models.Graph) (*models.Graph, error) {
	graph.ID = uuid.New().String()
	now := time.Now()
	graph.CreatedAt = now
	graph.UpdatedAt = now

	query := `
		INSERT INTO graphs (id, owner_user_id, name, description, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + graphColumns

	return scanGraphRow(tx.QueryRow(ctx, query,
		graph.ID, graph.OwnerUserID, graph.Name, graph.Description,
		string(graph.Visibility), graph.CreatedAt, graph.UpdatedAt,
	))
}

func (r *GraphRepository) CreateNodeTx(ctx context.Context, tx pgx.Tx, node *models.Node) (*models.Node, error) {
	node.ID = uuid.New().String()
	now := time.Now()
	node.CreatedAt = now
	node.UpdatedAt = now

	query := `
		INSERT INTO nodes (id, graph_id, node_type, title, avatar_url, summary, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		node.ID, node.GraphID, string(node.NodeType), node.Title,
		node.AvatarURL, node.Summary, node.Data, node.CreatedAt, node.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return node, nil
}

func (r *GraphRepository) CreateLayoutTx(ctx context.Context, tx pgx.Tx, layout *models.NodeLayout) error {
	now := time.Now()
	layout.CreatedAt = now
	layout.UpdatedAt = now

	query := `
		INSERT INTO node_layouts (node_id, x, y, width, height, pinned, z_index, style, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		layout.NodeID, layout.X, layout.Y, layout.Width, layout.Height,
		layout.Pinned, layout.ZIndex, layout.Style, layout.CreatedAt, layout.UpdatedAt,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}

	return nil
}

func (r *GraphRepository) CreateEdgeTx(ctx context.Context, tx pgx.Tx, edge *models.Edge) (*models.Edge, error) {
	edge.ID = uuid.New().String()
	now := time.Now()
	edge.CreatedAt = now
	edge.UpdatedAt = now

	var status *string
	if edge.Status != nil {
		s := string(*edge.Status)
		status = &s
	}

	query := `
		INSERT INTO edges (id, from_node_id, to_node_id, label, strength, status, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		edge.ID, edge.FromNodeID, edge.ToNodeID, edge.Label,
		edge.Strength, status, edge.Meta, edge.CreatedAt, edge.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return edge, nil
}

func (r *GraphRepository) GetByID(ctx context.Context, id string) (*models.Graph, error) {
	query := `SELECT ` + graphColumns + ` FROM graphs WHERE id = $1`

	return scanGraphRow(r.pool.QueryRow(ctx, query, id))
}

// ListByOwner returns the caller's graphs, most recently updated first.
func (r *GraphRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.Graph, error) {
	query := `SELECT ` + graphColumns + ` FROM graphs WHERE owner_user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query graphs: %w", err)
	}
	defer rows.Close()

	graphs := make([]*models.Graph, 0)
	for rows.Next() {
		graph, err := scanGraphRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan graph: %w", err)
		}
		graphs = append(graphs, graph)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return graphs, nil
}

func (r *GraphRepository) ListNodes(ctx context.Context, graphID string) ([]*models.Node, error) {
	query := `
		SELECT id, graph_id, node_type, title, avatar_url, summary, data, created_at, updated_at
		FROM nodes WHERE graph_id = $1 ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, graphID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]*models.Node, 0)
	for rows.Next() {
		var node models.Node
		var nodeType string
		err := rows.Scan(
			&node.ID, &node.GraphID, &nodeType, &node.Title,
			&node.AvatarURL, &node.Summary, &node.Data,
			&node.CreatedAt, &node.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		node.NodeType = models.NodeType(nodeType)
		nodes = append(nodes, &node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return nodes, nil
}

// ListEdges returns every edge whose source node belongs to the graph. Edges
// are only ever created between nodes of one graph, so this is the full set.
func (r *GraphRepository) ListEdges(ctx context.Context, graphID string) ([]*models.Edge, error) {
	query := `
		SELECT e.id, e.from_node_id, e.to_node_id, e.label, e.strength, e.status, e.meta, e.created_at, e.updated_at
		FROM edges e
		JOIN nodes n ON e.from_node_id = n.id
		WHERE n.graph_id = $1
		ORDER BY e.created_at
	`

	rows, err := r.pool.Query(ctx, query, graphID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	edges := make([]*models.Edge, 0)
	for rows.Next() {
		var edge models.Edge
		var status *string
		err := rows.Scan(
			&edge.ID, &edge.FromNodeID, &edge.ToNodeID, &edge.Label,
			&edge.Strength, &status, &edge.Meta,
			&edge.CreatedAt, &edge.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		if status != nil {
			s := models.EdgeStatus(*status)
			edge.Status = &s
		}
		edges = append(edges, &edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return edges, nil
}

// DeleteTx removes a graph together with its layouts, edges, and nodes.
// Postgres has no ORM-managed cascades here, so the order matters: layouts
// and edges reference nodes, nodes reference the graph.
func (r *GraphRepository) DeleteTx(ctx context.Context, tx pgx.Tx, graphID string) error {
	statements := []string{
		`DELETE FROM node_layouts WHERE node_id IN (SELECT id FROM nodes WHERE graph_id = $1)`,
		`DELETE FROM edges WHERE from_node_id IN (SELECT id FROM nodes WHERE graph_id = $1)
			OR to_node_id IN (SELECT id FROM nodes WHERE graph_id = $1)`,
		`DELETE FROM nodes WHERE graph_id = $1`,
		`DELETE FROM graphs WHERE id = $1`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, graphID); err != nil {
			return database.MapPostgresError(err)
		}
	}

	return nil
}
