package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache()

	_, ok := c.Get("Patient", "POST")
	assert.False(t, ok)

	spec := NewEntitySpec("Patient", "POST", nil, nil)
	c.Put(spec)

	got, ok := c.Get("Patient", "POST")
	require.True(t, ok)
	assert.Same(t, spec, got)

	// Different mode is a separate entry.
	_, ok = c.Get("Patient", "GET")
	assert.False(t, ok)
}

func TestCacheInvalidateDropsAllModes(t *testing.T) {
	c := NewCache()
	c.Put(NewEntitySpec("Patient", "POST", nil, nil))
	c.Put(NewEntitySpec("Patient", "GET", nil, nil))
	c.Put(NewEntitySpec("Order", "POST", nil, nil))

	c.Invalidate("Patient")

	_, ok := c.Get("Patient", "POST")
	assert.False(t, ok)
	_, ok = c.Get("Patient", "GET")
	assert.False(t, ok)
	_, ok = c.Get("Order", "POST")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			c.Put(NewEntitySpec("Patient", "POST", nil, nil))
		}
	}()
	for i := 0; i < 500; i++ {
		c.Get("Patient", "POST")
	}
	<-done
}
