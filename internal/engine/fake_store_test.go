package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/labx/labrest/internal/graph"
)

// fakeStore is an in-memory GraphStore for engine tests. It mirrors the real
// client's envelope semantics, including diff-only updates and per-id delete
// outcomes, and counts write calls so tests can assert that no-op updates
// never reach the store.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int
	vertices map[string]*fakeVertex
	edges    []fakeEdge

	submitRows []map[string]any
	submitErr  error

	failAdd    bool
	failUpdate bool
	failQuery  bool
	failEdge   bool

	addCalls         int
	updateWriteCalls int
	queryCalls       int
	deleteCalls      int
	edgeCalls        int
}

type fakeVertex struct {
	label string
	props map[string]any
}

type fakeEdge struct {
	label    string
	from, to string
}

func newFakeStore() *fakeStore {
	return &fakeStore{vertices: make(map[string]*fakeVertex)}
}

func (f *fakeStore) Submit(context.Context, string, map[string]any) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitRows, f.submitErr
}

func (f *fakeStore) AddVertex(_ context.Context, label string, properties map[string]any) graph.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.failAdd {
		return graph.Result{Status: graph.StatusError, Message: "insert refused"}
	}

	f.nextID++
	id := fmt.Sprintf("v%d", f.nextID)
	props := make(map[string]any, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	f.vertices[id] = &fakeVertex{label: label, props: props}
	return graph.Result{Status: graph.StatusSuccess, ID: id}
}

func (f *fakeStore) AddEdge(_ context.Context, label, fromID, toID string, _ map[string]any) graph.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edgeCalls++
	if f.failEdge {
		return graph.Result{Status: graph.StatusError, Message: "edge refused"}
	}
	f.edges = append(f.edges, fakeEdge{label: label, from: fromID, to: toID})
	return graph.Result{Status: graph.StatusSuccess, ID: fmt.Sprintf("e%d", len(f.edges))}
}

func (f *fakeStore) UpdateVertex(_ context.Context, label, internalID string, properties map[string]any) graph.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return graph.Result{Status: graph.StatusError, Message: "update refused"}
	}

	v, ok := f.vertices[internalID]
	if !ok || v.label != label {
		return graph.Result{Status: graph.StatusNotFound, Message: "vertex not found"}
	}

	changed := graph.DiffProperties(v.props, properties)
	if len(changed) == 0 {
		return graph.Result{Status: graph.StatusNotUpdated, ID: internalID}
	}

	f.updateWriteCalls++
	for k, val := range changed {
		v.props[k] = val
	}
	return graph.Result{Status: graph.StatusSuccess, ID: internalID}
}

func (f *fakeStore) QueryVertices(_ context.Context, label string, filters map[string]any, limit, skip int) graph.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.failQuery {
		return graph.Result{Status: graph.StatusError, Message: "query refused"}
	}

	res := graph.Result{Status: graph.StatusSuccess}
	matched := 0
	for i := 1; i <= f.nextID; i++ {
		id := fmt.Sprintf("v%d", i)
		v, ok := f.vertices[id]
		if !ok || v.label != label || !matchesFilters(v.props, filters) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		if limit > 0 && len(res.Data) >= limit {
			break
		}
		props := make(map[string]any, len(v.props))
		for k, val := range v.props {
			props[k] = val
		}
		res.Data = append(res.Data, map[string]any{"id": id, "properties": props})
	}
	return res
}

func (f *fakeStore) DeleteVertices(_ context.Context, label string, ids []string) graph.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++

	res := graph.Result{Status: graph.StatusSuccess}
	for _, id := range ids {
		v, ok := f.vertices[id]
		if !ok || v.label != label {
			res.Data = append(res.Data, map[string]any{"id": id, "status": graph.StatusNotFound})
			continue
		}
		delete(f.vertices, id)
		res.Data = append(res.Data, map[string]any{"id": id, "status": graph.StatusDeleted})
	}
	return res
}

func matchesFilters(props, filters map[string]any) bool {
	for k, want := range filters {
		got, ok := props[k]
		if !ok || graph.NormalizeValue(got) != graph.NormalizeValue(want) {
			return false
		}
	}
	return true
}

// countVertices returns how many vertices of a label exist.
func (f *fakeStore) countVertices(label string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.vertices {
		if v.label == label {
			n++
		}
	}
	return n
}
