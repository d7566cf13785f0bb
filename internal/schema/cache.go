package schema

import (
	"log/slog"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is the process-wide (entity, mode) -> EntitySpec store. Entries never
// expire and are only removed by explicit invalidation from the
// spec-management path; steady-state request traffic is append-only.
type Cache struct {
	specs  *gocache.Cache
	logger *slog.Logger
}

// NewCache creates an empty spec cache.
func NewCache() *Cache {
	return &Cache{
		specs:  gocache.New(gocache.NoExpiration, 0),
		logger: slog.Default().With("component", "spec_cache"),
	}
}

func cacheKey(entity, mode string) string {
	return entity + "|" + mode
}

// Get returns the cached spec for (entity, mode), if resolved before.
func (c *Cache) Get(entity, mode string) (*EntitySpec, bool) {
	v, ok := c.specs.Get(cacheKey(entity, mode))
	if !ok {
		return nil, false
	}
	return v.(*EntitySpec), true
}

// Put stores a resolved spec. Specs are immutable, so a concurrent double
// resolve overwriting an identical entry is harmless.
func (c *Cache) Put(spec *EntitySpec) {
	c.specs.Set(cacheKey(spec.Entity, spec.Mode), spec, gocache.NoExpiration)
	c.logger.Debug("spec cached", "entity", spec.Entity, "mode", spec.Mode, "attributes", len(spec.Attributes))
}

// Invalidate drops every cached mode of an entity. Called after
// spec-management mutations so later requests re-resolve from the catalogue.
func (c *Cache) Invalidate(entity string) {
	prefix := entity + "|"
	for key := range c.specs.Items() {
		if strings.HasPrefix(key, prefix) {
			c.specs.Delete(key)
		}
	}
	c.logger.Debug("spec cache invalidated", "entity", entity)
}

// Len returns the number of cached specs.
func (c *Cache) Len() int {
	return c.specs.ItemCount()
}
