package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labx/labrest/internal/errors"
)

func TestPartition_SplitsByUniqueKey(t *testing.T) {
	store := newFakeStore()
	store.AddVertex(context.Background(), "Patient", map[string]any{"user_id": "AB123456CD", "age": "30"})

	records := []map[string]any{
		{"user_id": "AB123456CD", "age": 31}, // exists
		{"user_id": "ZZ999999ZZ"},            // new
		{"first_name": "NoKey"},              // missing unique key
	}

	p, err := NewDuplicateResolver(store).Partition(context.Background(), "Patient", records)
	require.NoError(t, err)

	require.Len(t, p.Matched, 1)
	assert.Equal(t, 0, p.Matched[0].Index)
	assert.Equal(t, "v1", p.Matched[0].InternalID)
	assert.Equal(t, "30", p.Matched[0].Existing["age"])

	require.Len(t, p.Unmatched, 2)
	assert.Equal(t, 1, p.Unmatched[0].Index)
	assert.Equal(t, 2, p.Unmatched[1].Index)
}

func TestPartition_Completeness(t *testing.T) {
	store := newFakeStore()
	store.AddVertex(context.Background(), "Order", map[string]any{"order_id": "O-1"})
	store.AddVertex(context.Background(), "Order", map[string]any{"order_id": "O-3"})

	records := []map[string]any{
		{"order_id": "O-1"},
		{"order_id": "O-2"},
		{"order_id": "O-3"},
		{"order_id": "O-4"},
		{"untagged": true},
	}

	p, err := NewDuplicateResolver(store).Partition(context.Background(), "Order", records)
	require.NoError(t, err)

	assert.Equal(t, len(records), len(p.Matched)+len(p.Unmatched))

	seen := make(map[int]bool)
	for _, m := range p.Matched {
		assert.False(t, seen[m.Index])
		seen[m.Index] = true
	}
	for _, c := range p.Unmatched {
		assert.False(t, seen[c.Index])
		seen[c.Index] = true
	}
	assert.Len(t, seen, len(records))
}

func TestPartition_LookupFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.failQuery = true

	_, err := NewDuplicateResolver(store).Partition(context.Background(), "Patient",
		[]map[string]any{{"user_id": "AB123456CD"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeGraphConnection))
}
