package engine

import (
	"context"

	"github.com/labx/labrest/internal/graph"
)

// GraphStore is the slice of the graph client the engine depends on. The
// production implementation is *graph.Client; tests use an in-memory fake.
type GraphStore interface {
	AddVertex(ctx context.Context, label string, properties map[string]any) graph.Result
	AddEdge(ctx context.Context, label, fromID, toID string, properties map[string]any) graph.Result
	UpdateVertex(ctx context.Context, label, internalID string, properties map[string]any) graph.Result
	QueryVertices(ctx context.Context, label string, filters map[string]any, limit, skip int) graph.Result
	DeleteVertices(ctx context.Context, label string, ids []string) graph.Result
}
