package engine

import (
	"fmt"
	"log/slog"

	"github.com/labx/labrest/internal/models"
	"github.com/labx/labrest/internal/schema"
)

// EdgeRef is one edge-typed field occurrence: the record should be connected
// to Target under Label. FromParent flips the direction (ParentEdge).
type EdgeRef struct {
	Label      string
	Target     string
	FromParent bool
}

// SplitRecord is one record's fields divided into vertex-scoped properties
// and edge references, per the resolved spec.
type SplitRecord struct {
	Index  int
	Vertex map[string]any
	Edges  []EdgeRef
}

// Transformer shapes flat client records into vertex and edge write-sets
// using a resolved EntitySpec.
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer creates a transformer.
func NewTransformer() *Transformer {
	return &Transformer{logger: slog.Default().With("component", "transform")}
}

// Split routes each field of each record by its declared type: edge markers
// produce EdgeRefs (one per target in a possibly list-valued field),
// everything else becomes a vertex property. Fields absent from the spec are
// dropped, never errored - the catalogue is mutable at runtime and unknown
// keys must not take requests down.
func (t *Transformer) Split(spec *schema.EntitySpec, records []Candidate) []SplitRecord {
	out := make([]SplitRecord, 0, len(records))
	for _, cand := range records {
		out = append(out, t.splitOne(spec, cand.Index, cand.Record))
	}
	return out
}

// SplitFields divides a single record's fields, for the update path where
// only the vertex-scoped portion is written.
func (t *Transformer) SplitFields(spec *schema.EntitySpec, record map[string]any) SplitRecord {
	return t.splitOne(spec, 0, record)
}

func (t *Transformer) splitOne(spec *schema.EntitySpec, index int, record map[string]any) SplitRecord {
	sr := SplitRecord{Index: index, Vertex: make(map[string]any)}

	for field, value := range record {
		attr, ok := spec.Attribute(field)
		if !ok {
			t.logger.Debug("dropping field absent from spec", "entity", spec.Entity, "field", field)
			continue
		}

		if !attr.Kind.IsEdge() {
			sr.Vertex[field] = value
			continue
		}

		for _, target := range edgeTargets(value, attr.Kind) {
			sr.Edges = append(sr.Edges, EdgeRef{
				Label:      attr.Name,
				Target:     target,
				FromParent: attr.Kind == schema.KindParent,
			})
		}
	}
	return sr
}

// edgeTargets extracts target vertex ids from an edge-typed field value.
// Multi-valued markers accept lists; a scalar is tolerated either way.
func edgeTargets(value any, kind schema.AttrKind) []string {
	if value == nil {
		return nil
	}
	if list, ok := value.([]any); ok {
		targets := make([]string, 0, len(list))
		for _, v := range list {
			if v != nil {
				targets = append(targets, fmt.Sprintf("%v", v))
			}
		}
		if !kind.Multi() && len(targets) > 1 {
			targets = targets[:1]
		}
		return targets
	}
	return []string{fmt.Sprintf("%v", value)}
}

// GroupEdges collects a record's edge refs into labeled write-sets, with the
// record's own internal id on the near side of each row.
func GroupEdges(internalID string, refs []EdgeRef) []models.EdgeWriteSet {
	byLabel := make(map[string]*models.EdgeWriteSet)
	var order []string

	for _, ref := range refs {
		row := models.EdgeRow{From: internalID, To: ref.Target}
		if ref.FromParent {
			row.From, row.To = ref.Target, internalID
		}

		ws, ok := byLabel[ref.Label]
		if !ok {
			ws = &models.EdgeWriteSet{Label: ref.Label}
			byLabel[ref.Label] = ws
			order = append(order, ref.Label)
		}
		ws.Rows = append(ws.Rows, row)
	}

	out := make([]models.EdgeWriteSet, 0, len(order))
	for _, label := range order {
		out = append(out, *byLabel[label])
	}
	return out
}
