package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/labx/labrest/internal/errors"
	"github.com/labx/labrest/internal/graph"
)

// GraphReader is the slice of the graph client the resolver needs.
type GraphReader interface {
	Submit(ctx context.Context, query string, bindings map[string]any) ([]map[string]any, error)
}

// Resolver resolves entity specs from the graph's meta-vertices, caching each
// (entity, mode) for the process lifetime.
type Resolver struct {
	reader GraphReader
	cache  *Cache
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the given cache. The catalogue's
// own meta-entity specs are preloaded for the write and read modes so the
// spec-management path never has to resolve itself out of an empty graph.
func NewResolver(reader GraphReader, cache *Cache) *Resolver {
	for _, mode := range []string{"POST", "GET"} {
		for _, spec := range BuiltinSpecs(mode) {
			cache.Put(spec)
		}
	}
	return &Resolver{
		reader: reader,
		cache:  cache,
		logger: slog.Default().With("component", "spec_resolver"),
	}
}

// Cache exposes the underlying spec cache for invalidation by the
// spec-management path.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// GetSpec returns the resolved spec for (entity, mode), resolving from the
// graph catalogue on a cache miss. A missing EntityMeta vertex is
// SpecNotFound; an entity with zero attributes is valid.
func (r *Resolver) GetSpec(ctx context.Context, entity, mode string) (*EntitySpec, error) {
	if spec, ok := r.cache.Get(entity, mode); ok {
		return spec, nil
	}

	attrs, err := r.resolveAttributes(ctx, entity)
	if err != nil {
		return nil, err
	}

	edges, err := r.resolveEdgeDeclarations(ctx, entity)
	if err != nil {
		return nil, err
	}

	spec := NewEntitySpec(entity, mode, attrs, edges)
	r.cache.Put(spec)
	r.logger.Info("spec resolved",
		"entity", entity,
		"mode", mode,
		"attributes", len(attrs),
		"edge_declarations", len(edges))
	return spec, nil
}

// resolveAttributes walks from the entity's meta-vertex along HAS_ATTRIBUTE
// edges. The OPTIONAL MATCH keeps "entity missing" (zero rows) distinct from
// "entity with zero attributes" (one row with a null attribute).
func (r *Resolver) resolveAttributes(ctx context.Context, entity string) ([]EntityAttribute, error) {
	query := fmt.Sprintf(
		"MATCH (e:%s {name: $name}) OPTIONAL MATCH (e)-[:%s]->(a:%s) "+
			"RETURN elementId(a) AS id, properties(a) AS props",
		MetaEntityLabel, HasAttributeEdge, MetaAttributeLabel)

	rows, err := r.reader.Submit(ctx, query, map[string]any{"name": entity})
	if err != nil {
		return nil, errors.GraphConnectionError(err, fmt.Sprintf("spec resolution failed for entity %s", entity))
	}
	if len(rows) == 0 {
		return nil, errors.SpecNotFoundf("no entity metadata found for %q", entity)
	}

	var attrs []EntityAttribute
	for _, row := range rows {
		props, ok := row["props"].(map[string]any)
		if !ok || props == nil {
			continue // entity exists with zero attributes
		}
		flat := graph.FlattenProperties(props)

		attr := EntityAttribute{
			Name:         stringProp(flat, "name"),
			DeclaredType: stringProp(flat, "type"),
			Description:  stringProp(flat, "description"),
			Mandatory:    boolProp(flat, "mandatory"),
		}
		if id, ok := row["id"]; ok && id != nil {
			attr.MetaID = fmt.Sprintf("%v", id)
		}
		if attr.Name == "" {
			r.logger.Warn("skipping attribute meta-vertex without a name", "entity", entity, "id", attr.MetaID)
			continue
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// resolveEdgeDeclarations collects every EdgeMeta whose from or to side names
// the entity.
func (r *Resolver) resolveEdgeDeclarations(ctx context.Context, entity string) ([]EdgeDeclaration, error) {
	query := fmt.Sprintf(
		"MATCH (m:%s) WHERE m.from = $name OR m.to = $name "+
			"RETURN elementId(m) AS id, properties(m) AS props",
		MetaEdgeLabel)

	rows, err := r.reader.Submit(ctx, query, map[string]any{"name": entity})
	if err != nil {
		return nil, errors.GraphConnectionError(err, fmt.Sprintf("edge declaration lookup failed for entity %s", entity))
	}

	var decls []EdgeDeclaration
	for _, row := range rows {
		props, ok := row["props"].(map[string]any)
		if !ok {
			continue
		}
		flat := graph.FlattenProperties(props)
		decl := EdgeDeclaration{
			Name: stringProp(flat, "name"),
			From: stringProp(flat, "from"),
			To:   stringProp(flat, "to"),
		}
		if id, ok := row["id"]; ok && id != nil {
			decl.MetaID = fmt.Sprintf("%v", id)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func stringProp(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func boolProp(props map[string]any, key string) bool {
	switch v := props[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}
