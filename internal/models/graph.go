package models

import (
	"strings"
	"time"
)

// Visibility is the read-exposure tier of a graph.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
	VisibilityPublic  Visibility = "public"
)

// ParseVisibility maps a raw payload value onto the closed visibility set.
// An empty value defaults to private; anything unrecognized is rejected.
func ParseVisibility(raw string) (Visibility, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return VisibilityPrivate, nil
	}
	switch Visibility(value) {
	case VisibilityPrivate, VisibilityShared, VisibilityPublic:
		return Visibility(value), nil
	}
	return "", NewValidationError("visibility must be private, shared, or public")
}

// NodeType gives a node a semantic category describing what it represents.
type NodeType string

const (
	NodeTypePerson NodeType = "person"
	NodeTypeOrg    NodeType = "org"
	NodeTypePlace  NodeType = "place"
	NodeTypeEvent  NodeType = "event"
	NodeTypeCustom NodeType = "custom"
)

// ParseNodeType maps a raw payload value onto the closed node type set,
// defaulting to custom when empty.
func ParseNodeType(raw string) (NodeType, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return NodeTypeCustom, nil
	}
	switch NodeType(value) {
	case NodeTypePerson, NodeTypeOrg, NodeTypePlace, NodeTypeEvent, NodeTypeCustom:
		return NodeType(value), nil
	}
	return "", NewValidationError("node_type must be person, org, place, event, or custom")
}

// EdgeStatus describes the lifecycle state of a relationship.
type EdgeStatus string

const (
	EdgeStatusActive  EdgeStatus = "active"
	EdgeStatusPast    EdgeStatus = "past"
	EdgeStatusBlocked EdgeStatus = "blocked"
)

type Graph struct {
	ID          string
	OwnerUserID int64
	Name        string
	Description *string
	Visibility  Visibility
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Node struct {
	ID        string
	GraphID   string
	NodeType  NodeType
	Title     string
	AvatarURL *string
	Summary   *string
	Data      map[string]any // open-ended attribute bag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NodeLayout is the 1:1 placement row for a node; created and deleted
// together with it.
type NodeLayout struct {
	NodeID    string
	X         float64
	Y         float64
	Width     *float64
	Height    *float64
	Pinned    bool
	ZIndex    int
	Style     map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Edge struct {
	ID         string
	FromNodeID string
	ToNodeID   string
	Label      *string
	Strength   *int16
	Status     *EdgeStatus
	Meta       map[string]any // carries the edge's semantic type and display style
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
