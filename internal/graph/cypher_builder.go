package graph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// CypherBuilder builds safe, parameterized Cypher queries for the generic
// vertex CRUD paths. Every value travels as a bound parameter; labels and
// property names are validated against a strict identifier pattern so nothing
// caller-controlled is ever spliced into query text unchecked.
type CypherBuilder struct {
	params  map[string]any
	counter int
}

// NewCypherBuilder creates a query builder.
func NewCypherBuilder() *CypherBuilder {
	return &CypherBuilder{params: make(map[string]any)}
}

// AddParam adds a parameter and returns its placeholder.
func (b *CypherBuilder) AddParam(value any) string {
	name := fmt.Sprintf("p%d", b.counter)
	b.counter++
	b.params[name] = value
	return "$" + name
}

// Params returns the accumulated bindings map.
func (b *CypherBuilder) Params() map[string]any {
	return b.params
}

// BuildCreateVertex builds a CREATE query setting one clause per property and
// returning the store's internal id.
func (b *CypherBuilder) BuildCreateVertex(label string, properties map[string]any) (string, error) {
	if !isValidIdentifier(label) {
		return "", fmt.Errorf("invalid vertex label: %q", label)
	}

	setClauses := make([]string, 0, len(properties))
	for _, key := range sortedKeys(properties) {
		if !isValidIdentifier(key) {
			return "", fmt.Errorf("invalid property key: %q", key)
		}
		setClauses = append(setClauses, fmt.Sprintf("n.%s = %s", key, b.AddParam(properties[key])))
	}

	query := fmt.Sprintf("CREATE (n:%s)", label)
	if len(setClauses) > 0 {
		query += " SET " + strings.Join(setClauses, ", ")
	}
	return query + " RETURN elementId(n) AS id", nil
}

// BuildUpdateVertex builds a property-set query for an existing vertex,
// touching only the supplied fields.
func (b *CypherBuilder) BuildUpdateVertex(label, internalID string, properties map[string]any) (string, error) {
	if !isValidIdentifier(label) {
		return "", fmt.Errorf("invalid vertex label: %q", label)
	}
	if len(properties) == 0 {
		return "", fmt.Errorf("no properties to update")
	}

	idParam := b.AddParam(internalID)
	setClauses := make([]string, 0, len(properties))
	for _, key := range sortedKeys(properties) {
		if !isValidIdentifier(key) {
			return "", fmt.Errorf("invalid property key: %q", key)
		}
		setClauses = append(setClauses, fmt.Sprintf("n.%s = %s", key, b.AddParam(properties[key])))
	}

	return fmt.Sprintf(
		"MATCH (n:%s) WHERE elementId(n) = %s SET %s RETURN elementId(n) AS id",
		label, idParam, strings.Join(setClauses, ", "),
	), nil
}

// BuildQueryVertices builds a filtered, paginated read returning each match's
// internal id and property map.
func (b *CypherBuilder) BuildQueryVertices(label string, filters map[string]any, limit, skip int) (string, error) {
	if !isValidIdentifier(label) {
		return "", fmt.Errorf("invalid vertex label: %q", label)
	}

	where := make([]string, 0, len(filters))
	for _, key := range sortedKeys(filters) {
		if !isValidIdentifier(key) {
			return "", fmt.Errorf("invalid filter key: %q", key)
		}
		where = append(where, fmt.Sprintf("n.%s = %s", key, b.AddParam(filters[key])))
	}

	query := fmt.Sprintf("MATCH (n:%s)", label)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " RETURN elementId(n) AS id, properties(n) AS props"
	if skip > 0 {
		query += " SKIP " + b.AddParam(skip)
	}
	if limit > 0 {
		query += " LIMIT " + b.AddParam(limit)
	}
	return query, nil
}

// BuildCreateEdge builds an edge-insertion query between two vertices
// addressed by internal id.
func (b *CypherBuilder) BuildCreateEdge(edgeLabel, fromID, toID string, properties map[string]any) (string, error) {
	if !isValidIdentifier(edgeLabel) {
		return "", fmt.Errorf("invalid edge label: %q", edgeLabel)
	}

	fromParam := b.AddParam(fromID)
	toParam := b.AddParam(toID)

	var propsClause string
	if len(properties) > 0 {
		clauses := make([]string, 0, len(properties))
		for _, key := range sortedKeys(properties) {
			if !isValidIdentifier(key) {
				return "", fmt.Errorf("invalid edge property key: %q", key)
			}
			clauses = append(clauses, fmt.Sprintf("r.%s = %s", key, b.AddParam(properties[key])))
		}
		propsClause = " SET " + strings.Join(clauses, ", ")
	}

	return fmt.Sprintf(
		"MATCH (from) WHERE elementId(from) = %s MATCH (to) WHERE elementId(to) = %s MERGE (from)-[r:%s]->(to)%s RETURN elementId(r) AS id",
		fromParam, toParam, edgeLabel, propsClause,
	), nil
}

// isValidIdentifier reports whether s is safe as a Cypher label or property
// name: letter or underscore first, then alphanumerics or underscores.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	matched, _ := regexp.MatchString(`^[a-zA-Z_][a-zA-Z0-9_]*$`, s)
	return matched
}

// sortedKeys keeps generated clause order deterministic for tests and logs.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
