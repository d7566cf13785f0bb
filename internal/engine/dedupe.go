package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labx/labrest/internal/errors"
	"github.com/labx/labrest/internal/graph"
	"github.com/labx/labrest/internal/schema"
)

// Match is a record found to already exist in the graph.
type Match struct {
	Index      int
	Record     map[string]any
	InternalID string
	Existing   map[string]any
}

// Candidate is a record with no existing vertex, headed for the insert path.
type Candidate struct {
	Index  int
	Record map[string]any
}

// Partition holds the matched/unmatched split of a batch. Every input record
// lands in exactly one side.
type Partition struct {
	Matched   []Match
	Unmatched []Candidate
}

// DuplicateResolver detects which incoming records already exist in the graph
// by their entity's unique business key, making upserts idempotent under
// retries.
type DuplicateResolver struct {
	store  GraphStore
	logger *slog.Logger
}

// NewDuplicateResolver creates a resolver over the given store.
func NewDuplicateResolver(store GraphStore) *DuplicateResolver {
	return &DuplicateResolver{
		store:  store,
		logger: slog.Default().With("component", "dedupe"),
	}
}

// Partition routes each record to matched (existing vertex found, internal id
// attached) or unmatched (to be inserted). A record lacking its unique key is
// never rejected; it goes to unmatched with a warning. Lookup failures are
// store connectivity problems and abort the whole call.
func (d *DuplicateResolver) Partition(ctx context.Context, entity string, records []map[string]any) (Partition, error) {
	key := schema.UniqueKeyFor(entity)

	var p Partition
	for i, record := range records {
		value, ok := record[key]
		if !ok || value == nil {
			d.logger.Warn("record missing unique key, routing to insert path",
				"entity", entity, "key", key, "index", i)
			p.Unmatched = append(p.Unmatched, Candidate{Index: i, Record: record})
			continue
		}

		res := d.store.QueryVertices(ctx, entity, map[string]any{key: value}, 1, 0)
		if res.Status == graph.StatusError {
			return Partition{}, errors.GraphConnectionError(
				fmt.Errorf("%s", res.Message),
				fmt.Sprintf("duplicate lookup failed for %s.%s=%v", entity, key, value))
		}

		if len(res.Data) == 0 {
			p.Unmatched = append(p.Unmatched, Candidate{Index: i, Record: record})
			continue
		}

		row := res.Data[0]
		match := Match{
			Index:      i,
			Record:     record,
			InternalID: fmt.Sprintf("%v", row["id"]),
		}
		if props, ok := row["properties"].(map[string]any); ok {
			match.Existing = props
		}
		p.Matched = append(p.Matched, match)
	}

	d.logger.Debug("batch partitioned",
		"entity", entity,
		"matched", len(p.Matched),
		"unmatched", len(p.Unmatched))
	return p, nil
}
