package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreateVertex(t *testing.T) {
	b := NewCypherBuilder()
	query, err := b.BuildCreateVertex("Patient", map[string]any{
		"user_id":    "AB123456CD",
		"first_name": "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, "CREATE (n:Patient) SET n.first_name = $p0, n.user_id = $p1 RETURN elementId(n) AS id", query)
	assert.Equal(t, map[string]any{"p0": "Ana", "p1": "AB123456CD"}, b.Params())
}

func TestBuildCreateVertex_NoProperties(t *testing.T) {
	b := NewCypherBuilder()
	query, err := b.BuildCreateVertex("Patient", nil)
	require.NoError(t, err)
	assert.Equal(t, "CREATE (n:Patient) RETURN elementId(n) AS id", query)
	assert.Empty(t, b.Params())
}

func TestBuildCreateVertex_RejectsInjection(t *testing.T) {
	tests := []struct {
		name  string
		label string
		props map[string]any
	}{
		{"label with space", "Patient Vertex", nil},
		{"label with quote", `Patient") DETACH DELETE (n`, nil},
		{"property with backtick", "Patient", map[string]any{"a`b": 1}},
		{"empty label", "", nil},
		{"property with dash", "Patient", map[string]any{"first-name": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCypherBuilder()
			_, err := b.BuildCreateVertex(tt.label, tt.props)
			assert.Error(t, err)
		})
	}
}

func TestBuildUpdateVertex(t *testing.T) {
	b := NewCypherBuilder()
	query, err := b.BuildUpdateVertex("Patient", "4:abc:1", map[string]any{"phone": "9876543210"})
	require.NoError(t, err)

	assert.Equal(t, "MATCH (n:Patient) WHERE elementId(n) = $p0 SET n.phone = $p1 RETURN elementId(n) AS id", query)
	assert.Equal(t, "4:abc:1", b.Params()["p0"])
}

func TestBuildUpdateVertex_EmptyDiff(t *testing.T) {
	b := NewCypherBuilder()
	_, err := b.BuildUpdateVertex("Patient", "4:abc:1", map[string]any{})
	assert.Error(t, err)
}

func TestBuildQueryVertices(t *testing.T) {
	b := NewCypherBuilder()
	query, err := b.BuildQueryVertices("Order", map[string]any{"order_id": "O-77"}, 10, 5)
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (n:Order) WHERE n.order_id = $p0 RETURN elementId(n) AS id, properties(n) AS props SKIP $p1 LIMIT $p2",
		query)
	assert.Equal(t, map[string]any{"p0": "O-77", "p1": 5, "p2": 10}, b.Params())
}

func TestBuildQueryVertices_NoFilters(t *testing.T) {
	b := NewCypherBuilder()
	query, err := b.BuildQueryVertices("Order", nil, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:Order) RETURN elementId(n) AS id, properties(n) AS props LIMIT $p0", query)
}

func TestBuildCreateEdge(t *testing.T) {
	b := NewCypherBuilder()
	query, err := b.BuildCreateEdge("HAS_ATTRIBUTE", "4:e:1", "4:a:2", nil)
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (from) WHERE elementId(from) = $p0 MATCH (to) WHERE elementId(to) = $p1 MERGE (from)-[r:HAS_ATTRIBUTE]->(to) RETURN elementId(r) AS id",
		query)
}

func TestBuildCreateEdge_InvalidLabel(t *testing.T) {
	b := NewCypherBuilder()
	_, err := b.BuildCreateEdge("has attribute", "a", "b", nil)
	assert.Error(t, err)
}
