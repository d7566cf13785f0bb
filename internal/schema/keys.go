package schema

// uniqueKeys is the static entity-to-unique-business-key map used for
// idempotent upsert matching. The business key is caller-visible and distinct
// from the store's internal vertex id.
var uniqueKeys = map[string]string{
	"Patient":  "user_id",
	"Order":    "order_id",
	"Provider": "provider_id",

	// Schema catalogue entities, managed through the same engine. Attribute
	// names are only unique within their owning entity or edge, so
	// AttributeMeta keys on the owner-qualified name instead.
	MetaEntityLabel:    "name",
	MetaAttributeLabel: "qualified_name",
	MetaEdgeLabel:      "name",
}

// DefaultUniqueKey applies to entity types without an explicit registration.
const DefaultUniqueKey = "id"

// UniqueKeyFor returns the unique business key field for an entity type.
func UniqueKeyFor(entity string) string {
	if key, ok := uniqueKeys[entity]; ok {
		return key
	}
	return DefaultUniqueKey
}

// RegisterUniqueKey adds or overrides an entity's unique key. Intended for
// process startup wiring, not concurrent use.
func RegisterUniqueKey(entity, field string) {
	uniqueKeys[entity] = field
}
