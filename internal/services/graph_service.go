package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mhoran-dev/relmap/internal/models"
)

// GraphRepository defines the graph store operations. Write methods are
// transaction-scoped so a whole payload commits or rolls back as one unit.
type GraphRepository interface {
	CreateGraphTx(ctx context.Context, tx pgx.Tx, graph *models.Graph) (*models.Graph, error)
	CreateNodeTx(ctx context.Context, tx pgx.Tx, node *models.Node) (*models.Node, error)
	CreateLayoutTx(ctx context.Context, tx pgx.Tx, layout *models.NodeLayout) error
	CreateEdgeTx(ctx context.Context, tx pgx.Tx, edge *models.Edge) (*models.Edge, error)
	GetByID(ctx context.Context, id string) (*models.Graph, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.Graph, error)
	ListNodes(ctx context.Context, graphID string) ([]*models.Node, error)
	ListEdges(ctx context.Context, graphID string) ([]*models.Edge, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, graphID string) error
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error
}

// GraphService builds and reads relationship graphs.
type GraphService struct {
	db     TxRunner
	repo   GraphRepository
	logger *slog.Logger
}

func NewGraphService(db TxRunner, repo GraphRepository, logger *slog.Logger) *GraphService {
	return &GraphService{db: db, repo: repo, logger: logger}
}

// Payload DTOs

type GraphInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Visibility  string  `json:"visibility"`
}

type PositionInput struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type NodeInput struct {
	ID        string         `json:"id"` // client-supplied provisional id
	Title     string         `json:"title"`
	NodeType  string         `json:"node_type"`
	AvatarURL *string        `json:"avatar_url"`
	Summary   *string        `json:"summary"`
	Data      map[string]any `json:"data"`
	Position  *PositionInput `json:"position"`
	Style     map[string]any `json:"style"`
}

type EdgeInput struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Label  *string        `json:"label"`
	Type   *string        `json:"type"`
	Style  map[string]any `json:"style"`
}

type CreateGraphRequest struct {
	Graph GraphInput  `json:"graph"`
	Nodes []NodeInput `json:"nodes"`
	Edges []EdgeInput `json:"edges"`
}

// Response views

type GraphView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Visibility  string `json:"visibility"`
	OwnerUserID int64  `json:"owner_user_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type NodeView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	NodeType string `json:"node_type"`
	GraphID  string `json:"graph_id"`
}

type EdgeView struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Label  *string `json:"label"`
	Type   any     `json:"type"`
}

type GraphResponse struct {
	Graph GraphView  `json:"graph"`
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// CreateGraph materializes a graph with its nodes, layouts, and edges as one
// atomic transaction. Client-supplied provisional node ids are resolved to
// server-assigned ids before edges are persisted; any validation failure
// rolls back everything created so far.
func (s *GraphService) CreateGraph(ctx context.Context, owner *models.User, req *CreateGraphRequest) (*GraphResponse, error) {
	graphName := strings.TrimSpace(req.Graph.Name)
	if graphName == "" {
		return nil, models.NewValidationError("graph name is required")
	}

	visibility, err := models.ParseVisibility(req.Graph.Visibility)
	if err != nil {
		return nil, err
	}

	var response *GraphResponse

	err = s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		graph, err := s.repo.CreateGraphTx(ctx, tx, &models.Graph{
			OwnerUserID: owner.ID,
			Name:        graphName,
			Description: req.Graph.Description,
			Visibility:  visibility,
		})
		if err != nil {
			return fmt.Errorf("failed to create graph: %w", err)
		}

		createdNodes := make([]*models.Node, 0, len(req.Nodes))
		createdEdges := make([]*models.Edge, 0, len(req.Edges))
		clientIDMap := make(map[string]string)

		for _, nodeInput := range req.Nodes {
			title := strings.TrimSpace(nodeInput.Title)
			if title == "" {
				return models.NewValidationError("node title is required")
			}

			nodeType, err := models.ParseNodeType(nodeInput.NodeType)
			if err != nil {
				return err
			}

			if nodeInput.ID != "" {
				if _, seen := clientIDMap[nodeInput.ID]; seen {
					return models.NewConflictError(
						fmt.Sprintf("node id '%s' is duplicated in payload", nodeInput.ID))
				}
			}

			data := nodeInput.Data
			if data == nil {
				data = map[string]any{}
			}

			node, err := s.repo.CreateNodeTx(ctx, tx, &models.Node{
				GraphID:   graph.ID,
				NodeType:  nodeType,
				Title:     title,
				AvatarURL: nodeInput.AvatarURL,
				Summary:   nodeInput.Summary,
				Data:      data,
			})
			if err != nil {
				return fmt.Errorf("failed to create node: %w", err)
			}

			if nodeInput.ID != "" {
				clientIDMap[nodeInput.ID] = node.ID
			}
			createdNodes = append(createdNodes, node)

			if nodeInput.Position == nil || nodeInput.Position.X == nil || nodeInput.Position.Y == nil {
				return models.NewValidationError("node position requires x and y")
			}

			// Width and height live on the layout row itself, not in its
			// style bag.
			var width, height *float64
			layoutStyle := make(map[string]any, len(nodeInput.Style))
			for key, value := range nodeInput.Style {
				layoutStyle[key] = value
			}
			if raw, ok := layoutStyle["width"]; ok {
				delete(layoutStyle, "width")
				if f, ok := toFloat(raw); ok {
					width = &f
				}
			}
			if raw, ok := layoutStyle["height"]; ok {
				delete(layoutStyle, "height")
				if f, ok := toFloat(raw); ok {
					height = &f
				}
			}
			if len(layoutStyle) == 0 {
				layoutStyle = nil
			}

			err = s.repo.CreateLayoutTx(ctx, tx, &models.NodeLayout{
				NodeID: node.ID,
				X:      *nodeInput.Position.X,
				Y:      *nodeInput.Position.Y,
				Width:  width,
				Height: height,
				Style:  layoutStyle,
			})
			if err != nil {
				return fmt.Errorf("failed to create node layout: %w", err)
			}
		}

		for _, edgeInput := range req.Edges {
			if edgeInput.Source == "" || edgeInput.Target == "" {
				return models.NewValidationError("edge source and target are required")
			}

			sourceID, sourceOK := clientIDMap[edgeInput.Source]
			targetID, targetOK := clientIDMap[edgeInput.Target]
			if !sourceOK || !targetOK {
				return models.NewValidationError("edge endpoints must reference known nodes")
			}

			meta := map[string]any{
				"type":  nil,
				"style": nil,
			}
			if edgeInput.Type != nil {
				meta["type"] = *edgeInput.Type
			}
			if edgeInput.Style != nil {
				meta["style"] = edgeInput.Style
			}

			edge, err := s.repo.CreateEdgeTx(ctx, tx, &models.Edge{
				FromNodeID: sourceID,
				ToNodeID:   targetID,
				Label:      edgeInput.Label,
				Meta:       meta,
			})
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			createdEdges = append(createdEdges, edge)
		}

		response = serializeGraph(graph, createdNodes, createdEdges)
		return nil
	})

	if err != nil {
		var statusErr *models.StatusError
		if errors.As(err, &statusErr) {
			return nil, statusErr
		}
		s.logger.Error("graph creation failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("graph created",
		slog.String("graph_id", response.Graph.ID),
		slog.Int64("owner_user_id", owner.ID),
		slog.Int("nodes", len(response.Nodes)),
		slog.Int("edges", len(response.Edges)),
	)

	return response, nil
}

// ListMine returns the caller's graphs, most recently updated first.
func (s *GraphService) ListMine(ctx context.Context, owner *models.User) ([]GraphView, error) {
	graphs, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		s.logger.Error("failed to list graphs", slog.Int64("owner_user_id", owner.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	views := make([]GraphView, 0, len(graphs))
	for _, graph := range graphs {
		views = append(views, graphToView(graph))
	}

	return views, nil
}

// GetByID returns the graph with its full node and edge set. Ownership
// mismatches are reported as not-found so graph existence never leaks.
func (s *GraphService) GetByID(ctx context.Context, owner *models.User, id string) (*GraphResponse, error) {
	graph, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("graph not found")
		}
		s.logger.Error("failed to get graph", slog.String("graph_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if graph.OwnerUserID != owner.ID {
		return nil, models.NewNotFoundError("graph not found")
	}

	nodes, err := s.repo.ListNodes(ctx, graph.ID)
	if err != nil {
		s.logger.Error("failed to list nodes", slog.String("graph_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	edges, err := s.repo.ListEdges(ctx, graph.ID)
	if err != nil {
		s.logger.Error("failed to list edges", slog.String("graph_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return serializeGraph(graph, nodes, edges), nil
}

// Delete removes an owned graph together with its nodes, layouts, and edges
// in one transaction.
func (s *GraphService) Delete(ctx context.Context, owner *models.User, id string) error {
	graph, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewNotFoundError("graph not found")
		}
		s.logger.Error("failed to get graph", slog.String("graph_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	if graph.OwnerUserID != owner.ID {
		return models.NewNotFoundError("graph not found")
	}

	err = s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.DeleteTx(ctx, tx, graph.ID)
	})
	if err != nil {
		s.logger.Error("failed to delete graph", slog.String("graph_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("graph deleted", slog.String("graph_id", graph.ID), slog.Int64("owner_user_id", owner.ID))
	return nil
}

func graphToView(graph *models.Graph) GraphView {
	return GraphView{
		ID:          graph.ID,
		Name:        graph.Name,
		Visibility:  string(graph.Visibility),
		OwnerUserID: graph.OwnerUserID,
		CreatedAt:   graph.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   graph.UpdatedAt.Format(time.RFC3339),
	}
}

func serializeGraph(graph *models.Graph, nodes []*models.Node, edges []*models.Edge) *GraphResponse {
	nodeViews := make([]NodeView, 0, len(nodes))
	for _, node := range nodes {
		nodeViews = append(nodeViews, NodeView{
			ID:       node.ID,
			Title:    node.Title,
			NodeType: string(node.NodeType),
			GraphID:  node.GraphID,
		})
	}

	edgeViews := make([]EdgeView, 0, len(edges))
	for _, edge := range edges {
		var edgeType any
		if edge.Meta != nil {
			edgeType = edge.Meta["type"]
		}
		edgeViews = append(edgeViews, EdgeView{
			ID:     edge.ID,
			Source: edge.FromNodeID,
			Target: edge.ToNodeID,
			Label:  edge.Label,
			Type:   edgeType,
		})
	}

	return &GraphResponse{
		Graph: graphToView(graph),
		Nodes: nodeViews,
		Edges: edgeViews,
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
