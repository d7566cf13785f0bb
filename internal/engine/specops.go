package engine

import (
	"context"
	"fmt"

	"github.com/labx/labrest/internal/errors"
	"github.com/labx/labrest/internal/graph"
	"github.com/labx/labrest/internal/models"
	"github.com/labx/labrest/internal/schema"
)

// Spec-management operations. The schema catalogue is itself entity data, so
// these are upserts into the meta entity types through the same engine.
// Successful mutations invalidate the affected cache entries; the original
// behavior of serving stale specs until restart was a latent bug, not a
// design choice.

// AddEntitySpec registers a new entity type in the catalogue.
func (o *Orchestrator) AddEntitySpec(ctx context.Context, name, description string) (models.BatchResult, error) {
	record := map[string]any{"name": name}
	if description != "" {
		record["description"] = description
	}
	return o.UpsertBatch(ctx, schema.MetaEntityLabel, []map[string]any{record})
}

// AddEntityAttributes upserts attribute declarations and links them to the
// entity's meta-vertex, then invalidates the entity's cached specs.
func (o *Orchestrator) AddEntityAttributes(ctx context.Context, entity string, attrs []map[string]any) (models.BatchResult, error) {
	metaID, err := o.metaVertexID(ctx, schema.MetaEntityLabel, entity)
	if err != nil {
		return models.BatchResult{OverallStatus: models.BatchFailed}, err
	}

	result, err := o.UpsertBatch(ctx, schema.MetaAttributeLabel, qualifyAttributes(entity, attrs))
	if err != nil {
		return result, err
	}

	o.linkAttributes(ctx, metaID, result.Results)
	o.resolver.Cache().Invalidate(entity)
	return result, nil
}

// AddEdgeSpec registers an edge declaration between two entity types and
// invalidates both sides' cached specs.
func (o *Orchestrator) AddEdgeSpec(ctx context.Context, name, from, to, description string) (models.BatchResult, error) {
	record := map[string]any{"name": name, "from": from, "to": to}
	if description != "" {
		record["description"] = description
	}

	result, err := o.UpsertBatch(ctx, schema.MetaEdgeLabel, []map[string]any{record})
	if err != nil {
		return result, err
	}

	o.resolver.Cache().Invalidate(from)
	o.resolver.Cache().Invalidate(to)
	return result, nil
}

// AddEdgeAttributes upserts attribute declarations onto an edge's
// meta-vertex and invalidates the specs of the entities the edge touches.
func (o *Orchestrator) AddEdgeAttributes(ctx context.Context, edgeName string, attrs []map[string]any) (models.BatchResult, error) {
	metaID, err := o.metaVertexID(ctx, schema.MetaEdgeLabel, edgeName)
	if err != nil {
		return models.BatchResult{OverallStatus: models.BatchFailed}, err
	}

	result, err := o.UpsertBatch(ctx, schema.MetaAttributeLabel, qualifyAttributes(edgeName, attrs))
	if err != nil {
		return result, err
	}
	o.linkAttributes(ctx, metaID, result.Results)

	// The edge declaration names the entities whose specs may now be stale.
	res := o.store.QueryVertices(ctx, schema.MetaEdgeLabel, map[string]any{"name": edgeName}, 1, 0)
	if res.Status == graph.StatusSuccess && len(res.Data) > 0 {
		if props, ok := res.Data[0]["properties"].(map[string]any); ok {
			for _, side := range []string{"from", "to"} {
				if v, ok := props[side]; ok && v != nil {
					o.resolver.Cache().Invalidate(fmt.Sprintf("%v", v))
				}
			}
		}
	}
	return result, nil
}

// qualifyAttributes stamps each attribute record with its owner-scoped
// identity. Attribute names are only unique within their owner; matching on
// the bare name would make two owners declaring the same attribute share one
// meta-vertex, leaving the second owner unlinked and letting it overwrite the
// first owner's declared type.
func qualifyAttributes(owner string, attrs []map[string]any) []map[string]any {
	out := make([]map[string]any, len(attrs))
	for i, attr := range attrs {
		record := make(map[string]any, len(attr)+1)
		for k, v := range attr {
			record[k] = v
		}
		if name, ok := record["name"].(string); ok && name != "" {
			record["qualified_name"] = owner + "." + name
		}
		out[i] = record
	}
	return out
}

// metaVertexID finds the internal id of a catalogue vertex by name.
func (o *Orchestrator) metaVertexID(ctx context.Context, label, name string) (string, error) {
	res := o.store.QueryVertices(ctx, label, map[string]any{"name": name}, 1, 0)
	if res.Status == graph.StatusError {
		return "", errors.GraphConnectionError(fmt.Errorf("%s", res.Message),
			fmt.Sprintf("%s lookup failed for %q", label, name))
	}
	if len(res.Data) == 0 {
		return "", errors.SpecNotFoundf("no %s vertex found for %q", label, name)
	}
	return fmt.Sprintf("%v", res.Data[0]["id"]), nil
}

// linkAttributes connects freshly inserted attribute meta-vertices to their
// owner. Updated attributes are already linked.
func (o *Orchestrator) linkAttributes(ctx context.Context, ownerID string, outcomes []models.RecordOutcome) {
	for _, outcome := range outcomes {
		if outcome.Status != models.StatusInserted || outcome.ID == "" {
			continue
		}
		res := o.store.AddEdge(ctx, schema.HasAttributeEdge, ownerID, outcome.ID, nil)
		if res.Status != graph.StatusSuccess {
			o.logger.Warn("attribute link failed",
				"owner", ownerID, "attribute", outcome.ID, "error", res.Message)
		}
	}
}
