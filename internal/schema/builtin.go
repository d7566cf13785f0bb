package schema

// Labels of the catalogue's own meta-vertices. The schema for regular
// entities lives in the graph as EntityMeta vertices with HAS_ATTRIBUTE edges
// to AttributeMeta vertices; EdgeMeta vertices declare relationships.
const (
	MetaEntityLabel    = "EntityMeta"
	MetaAttributeLabel = "AttributeMeta"
	MetaEdgeLabel      = "EdgeMeta"
	HasAttributeEdge   = "HAS_ATTRIBUTE"
)

// BuiltinSpecs returns the compiled-in specs for the catalogue entities
// themselves, in the given mode. Without these the engine could not upsert
// meta-vertices before any meta-vertices exist.
func BuiltinSpecs(mode string) []*EntitySpec {
	return []*EntitySpec{
		NewEntitySpec(MetaEntityLabel, mode, []EntityAttribute{
			{Name: "name", DeclaredType: "String", Mandatory: true},
			{Name: "description", DeclaredType: "String"},
		}, nil),
		NewEntitySpec(MetaAttributeLabel, mode, []EntityAttribute{
			{Name: "name", DeclaredType: "String", Mandatory: true},
			{Name: "qualified_name", DeclaredType: "String", Mandatory: true},
			{Name: "type", DeclaredType: "String", Mandatory: true},
			{Name: "description", DeclaredType: "String"},
			{Name: "mandatory", DeclaredType: "Boolean"},
		}, nil),
		NewEntitySpec(MetaEdgeLabel, mode, []EntityAttribute{
			{Name: "name", DeclaredType: "String", Mandatory: true},
			{Name: "from", DeclaredType: "String", Mandatory: true},
			{Name: "to", DeclaredType: "String", Mandatory: true},
			{Name: "description", DeclaredType: "String"},
		}, nil),
	}
}
