package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenProperties(t *testing.T) {
	props := map[string]any{
		"single":  []any{"value"},
		"multi":   []any{"a", "b"},
		"scalar":  42,
		"empty":   []any{},
		"nothing": nil,
	}

	flat := FlattenProperties(props)

	assert.Equal(t, "value", flat["single"])
	assert.Equal(t, []any{"a", "b"}, flat["multi"])
	assert.Equal(t, 42, flat["scalar"])
	assert.Equal(t, []any{}, flat["empty"])
	assert.Nil(t, flat["nothing"])
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "30", "30"},
		{"int", 30, "30"},
		{"int64", int64(30), "30"},
		{"float whole", 30.0, "30"},
		{"float fraction", 30.5, "30.5"},
		{"bool", true, "true"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.in))
		})
	}
}

func TestDiffProperties_PartialDiff(t *testing.T) {
	// Existing age "30" vs incoming int 30 normalizes equal; only the new
	// phone field should be written.
	existing := map[string]any{"age": "30"}
	incoming := map[string]any{"age": 30, "phone": "9876543210"}

	changed := DiffProperties(existing, incoming)

	assert.Equal(t, map[string]any{"phone": "9876543210"}, changed)
}

func TestDiffProperties_ValueChange(t *testing.T) {
	existing := map[string]any{"age": "30", "city": "Pune"}
	incoming := map[string]any{"age": 31, "city": "Pune"}

	changed := DiffProperties(existing, incoming)

	assert.Equal(t, map[string]any{"age": 31}, changed)
}

func TestDiffProperties_NoChange(t *testing.T) {
	existing := map[string]any{"age": int64(30), "name": "Ana"}
	incoming := map[string]any{"age": "30", "name": "Ana"}

	assert.Empty(t, DiffProperties(existing, incoming))
}
