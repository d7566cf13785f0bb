package schema

// AttrKind is the closed set of declared attribute kinds. The three edge
// markers were free-form strings in the schema catalogue; they are parsed
// into this enum exactly once, at spec-resolution time.
type AttrKind int

const (
	// KindProperty - ordinary vertex-scoped property.
	KindProperty AttrKind = iota
	// KindChildOne - single outgoing child relationship.
	KindChildOne
	// KindChildMulti - list-valued outgoing child relationships.
	KindChildMulti
	// KindParent - incoming relationship from a parent vertex.
	KindParent
)

// Edge marker strings as they appear in AttributeMeta declared types.
const (
	DeclaredChildOne   = "ChildEdge - One"
	DeclaredChildMulti = "ChildEdge - Multi"
	DeclaredParent     = "ParentEdge"
)

// ParseAttrKind maps a declared type onto the closed enum. Anything that is
// not an edge marker is a plain property, including declared types added to
// the catalogue after this build.
func ParseAttrKind(declaredType string) AttrKind {
	switch declaredType {
	case DeclaredChildOne:
		return KindChildOne
	case DeclaredChildMulti:
		return KindChildMulti
	case DeclaredParent:
		return KindParent
	default:
		return KindProperty
	}
}

// IsEdge reports whether the kind routes a field into the edge write path.
func (k AttrKind) IsEdge() bool {
	return k != KindProperty
}

// Multi reports whether the kind accepts list-valued targets.
func (k AttrKind) Multi() bool {
	return k == KindChildMulti
}

// EntityAttribute is one resolved attribute declaration. Names are unique
// within a spec.
type EntityAttribute struct {
	Name         string   `json:"name"`
	DeclaredType string   `json:"declared_type"`
	Kind         AttrKind `json:"-"`
	Description  string   `json:"description,omitempty"`
	Mandatory    bool     `json:"mandatory"`
	MetaID       string   `json:"meta_id,omitempty"`
}

// EdgeDeclaration is one resolved edge-catalogue entry touching an entity.
type EdgeDeclaration struct {
	Name   string `json:"name"`
	From   string `json:"from"`
	To     string `json:"to"`
	MetaID string `json:"meta_id,omitempty"`
}

// EntitySpec is the resolved shape of one entity type in one mode. Immutable
// once resolved; identified by (Entity, Mode).
type EntitySpec struct {
	Entity           string            `json:"entity"`
	Mode             string            `json:"mode"`
	Attributes       []EntityAttribute `json:"attributes"`
	EdgeDeclarations []EdgeDeclaration `json:"edge_declarations,omitempty"`

	byName map[string]int
}

// NewEntitySpec builds a spec and its attribute index. Duplicate attribute
// names keep the first declaration.
func NewEntitySpec(entity, mode string, attrs []EntityAttribute, edges []EdgeDeclaration) *EntitySpec {
	s := &EntitySpec{
		Entity:           entity,
		Mode:             mode,
		Attributes:       attrs,
		EdgeDeclarations: edges,
		byName:           make(map[string]int, len(attrs)),
	}
	for i := range s.Attributes {
		if s.Attributes[i].Kind == KindProperty {
			s.Attributes[i].Kind = ParseAttrKind(s.Attributes[i].DeclaredType)
		}
		if _, dup := s.byName[s.Attributes[i].Name]; !dup {
			s.byName[s.Attributes[i].Name] = i
		}
	}
	return s
}

// Attribute looks up a declaration by field name.
func (s *EntitySpec) Attribute(name string) (EntityAttribute, bool) {
	i, ok := s.byName[name]
	if !ok {
		return EntityAttribute{}, false
	}
	return s.Attributes[i], true
}
