package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/labx/labrest/internal/errors"
	"github.com/labx/labrest/internal/graph"
	"github.com/labx/labrest/internal/models"
	"github.com/labx/labrest/internal/schema"
)

// Default pagination for list queries.
const (
	DefaultListLimit = 100
	DefaultListSkip  = 0
)

// Orchestrator is the public operation surface of the engine. It composes
// spec resolution, duplicate detection, input transformation and the graph
// client into the full upsert/list/delete algorithms.
type Orchestrator struct {
	store       GraphStore
	resolver    *schema.Resolver
	dedupe      *DuplicateResolver
	transform   *Transformer
	logger      *slog.Logger
	maxParallel int
}

// NewOrchestrator wires the engine together. maxParallel bounds per-batch
// record fan-out; graph round trips are additionally bounded by the client's
// worker pool.
func NewOrchestrator(store GraphStore, resolver *schema.Resolver, maxParallel int) *Orchestrator {
	if maxParallel <= 0 {
		maxParallel = 8
	}
	return &Orchestrator{
		store:       store,
		resolver:    resolver,
		dedupe:      NewDuplicateResolver(store),
		transform:   NewTransformer(),
		logger:      slog.Default().With("component", "orchestrator"),
		maxParallel: maxParallel,
	}
}

// UpsertBatch resolves the entity's spec, partitions the records into
// matched/unmatched, updates the matched ones (diff-only writes) and inserts
// the rest with their edges. Each record yields exactly one outcome; outcomes
// across records complete in no particular order.
func (o *Orchestrator) UpsertBatch(ctx context.Context, entity string, records []map[string]any) (models.BatchResult, error) {
	if len(records) == 0 {
		return models.BatchResult{OverallStatus: models.BatchSkipped}, nil
	}

	batchID := uuid.NewString()
	logger := o.logger.With("batch_id", batchID, "entity", entity)
	logger.Info("upsert batch started", "records", len(records))

	spec, err := o.resolver.GetSpec(ctx, entity, "POST")
	if err != nil {
		return batchFailure(records, err), err
	}

	partition, err := o.dedupe.Partition(ctx, entity, records)
	if err != nil {
		return batchFailure(records, err), err
	}

	outcomes := make([]models.RecordOutcome, len(records))

	g := errgroup.Group{}
	g.SetLimit(o.maxParallel)

	for _, match := range partition.Matched {
		match := match
		g.Go(func() error {
			outcomes[match.Index] = o.updateMatched(ctx, entity, spec, match)
			return nil
		})
	}

	splits := o.transform.Split(spec, partition.Unmatched)
	for i, cand := range partition.Unmatched {
		cand := cand
		split := splits[i]
		g.Go(func() error {
			outcomes[cand.Index] = o.insertUnmatched(ctx, entity, cand.Record, split)
			return nil
		})
	}
	g.Wait()

	result := Aggregate(outcomes)
	logger.Info("upsert batch finished",
		"status", result.OverallStatus,
		"matched", len(partition.Matched),
		"unmatched", len(partition.Unmatched))
	return result, nil
}

// updateMatched writes the changed-field diff for an existing vertex. A
// matched record is known to exist, so a store-level not_found is an error
// here, never a not_found outcome.
func (o *Orchestrator) updateMatched(ctx context.Context, entity string, spec *schema.EntitySpec, match Match) models.RecordOutcome {
	split := o.transform.SplitFields(spec, match.Record)

	res := o.store.UpdateVertex(ctx, entity, match.InternalID, split.Vertex)
	outcome := models.RecordOutcome{Record: match.Record, ID: match.InternalID}
	switch res.Status {
	case graph.StatusSuccess:
		outcome.Status = models.StatusUpdated
	case graph.StatusNotUpdated:
		outcome.Status = models.StatusNotUpdated
	default:
		outcome.Status = models.StatusError
		outcome.Message = res.Message
	}
	return outcome
}

// insertUnmatched creates the vertex, then its edges. A failed edge leaves
// the record inserted (the vertex exists) but notes the failure on the
// outcome.
func (o *Orchestrator) insertUnmatched(ctx context.Context, entity string, record map[string]any, split SplitRecord) models.RecordOutcome {
	res := o.store.AddVertex(ctx, entity, split.Vertex)
	if res.Status != graph.StatusSuccess {
		return models.RecordOutcome{
			Record:  record,
			Status:  models.StatusError,
			Message: res.Message,
		}
	}

	outcome := models.RecordOutcome{Record: record, Status: models.StatusInserted, ID: res.ID}
	for _, ws := range GroupEdges(res.ID, split.Edges) {
		for _, row := range ws.Rows {
			edgeRes := o.store.AddEdge(ctx, ws.Label, row.From, row.To, row.Properties)
			if edgeRes.Status != graph.StatusSuccess {
				o.logger.Warn("edge insert failed",
					"entity", entity, "edge", ws.Label,
					"from", row.From, "to", row.To, "error", edgeRes.Message)
				outcome.Message = fmt.Sprintf("edge %s failed: %s", ws.Label, edgeRes.Message)
			}
		}
	}
	return outcome
}

// DeleteBatch deletes vertices by internal id, reporting not_found
// separately from deleted. An empty id list is a client error and never
// reaches the graph.
func (o *Orchestrator) DeleteBatch(ctx context.Context, entity string, ids []string) (models.BatchResult, error) {
	if len(ids) == 0 {
		err := errors.ValidationErrorf("delete batch for %s carries no ids", entity)
		return models.BatchResult{OverallStatus: models.BatchFailed}, err
	}

	res := o.store.DeleteVertices(ctx, entity, ids)
	if res.Status == graph.StatusError {
		err := errors.GraphConnectionError(fmt.Errorf("%s", res.Message), "delete batch failed")
		return batchFailureIDs(ids, err), err
	}

	outcomes := make([]models.RecordOutcome, 0, len(res.Data))
	for _, row := range res.Data {
		outcome := models.RecordOutcome{ID: fmt.Sprintf("%v", row["id"])}
		switch fmt.Sprintf("%v", row["status"]) {
		case graph.StatusDeleted:
			outcome.Status = models.StatusDeleted
		case graph.StatusNotFound:
			outcome.Status = models.StatusNotFound
			outcome.Message = "vertex not found"
		default:
			outcome.Status = models.StatusError
			if msg, ok := row["message"]; ok {
				outcome.Message = fmt.Sprintf("%v", msg)
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return Aggregate(outcomes), nil
}

// List reads vertices of an entity type with property-equality filters drawn
// from params. Zero rows is a not_found result, not an error; callers must
// be able to tell an empty result from a failed query.
func (o *Orchestrator) List(ctx context.Context, entity string, params []map[string]any) (graph.Result, error) {
	spec, err := o.resolver.GetSpec(ctx, entity, "GET")
	if err != nil {
		return graph.Result{Status: graph.StatusError, Message: err.Error()}, err
	}

	filters := make(map[string]any)
	for _, entry := range params {
		for key, value := range entry {
			if key == "limit" || key == "skip" {
				continue
			}
			attr, ok := spec.Attribute(key)
			if !ok || attr.Kind.IsEdge() {
				continue
			}
			filters[key] = value
		}
	}

	limit, skip := DefaultListLimit, DefaultListSkip
	if len(params) > 0 {
		limit = intParam(params[0], "limit", limit)
		skip = intParam(params[0], "skip", skip)
	}

	res := o.store.QueryVertices(ctx, entity, filters, limit, skip)
	if res.Status != graph.StatusSuccess {
		return res, nil
	}
	if len(res.Data) == 0 {
		return graph.Result{Status: graph.StatusNotFound}, nil
	}
	return res, nil
}

func intParam(entry map[string]any, key string, fallback int) int {
	v, ok := entry[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return fallback
}

// batchFailure builds the all-error result for batch-fatal failures (spec
// resolution, store connectivity).
func batchFailure(records []map[string]any, err error) models.BatchResult {
	outcomes := make([]models.RecordOutcome, len(records))
	for i, record := range records {
		outcomes[i] = models.RecordOutcome{
			Record:  record,
			Status:  models.StatusError,
			Message: err.Error(),
		}
	}
	result := Aggregate(outcomes)
	result.OverallStatus = models.BatchFailed
	return result
}

func batchFailureIDs(ids []string, err error) models.BatchResult {
	outcomes := make([]models.RecordOutcome, len(ids))
	for i, id := range ids {
		outcomes[i] = models.RecordOutcome{
			ID:      id,
			Status:  models.StatusError,
			Message: err.Error(),
		}
	}
	result := Aggregate(outcomes)
	result.OverallStatus = models.BatchFailed
	return result
}
