package load

import (
	"fmt"
	"strings"
)

// Schema represents one entity declaration that was scanned from a source file.
type Schema struct {
	// Name holds the entity type name. It is unique across a run.
	Name string `json:"name,omitempty"`
	// Path of the file that declares the entity body.
	Path string `json:"path,omitempty"`
	// Line of the entity header in Path.
	Line int `json:"line,omitempty"`
	// Migration holds the highest migration number that redefines
	// the entity table name. Zero means no migration does.
	Migration int `json:"migration,omitempty"`
	// Fields holds the stored properties in declaration order.
	Fields []*Field `json:"fields,omitempty"`
	// Computed holds the properties without storage backing.
	Computed []*Field `json:"computed,omitempty"`
	// Edges holds the relation wrappers declared on the entity.
	Edges []*Edge `json:"edges,omitempty"`
	// Init holds the designated initializer parameters.
	Init []*InitParam `json:"init,omitempty"`
	// Aliases maps locally declared newtypes to their underlying primitive.
	Aliases map[string]string `json:"aliases,omitempty"`
	// Enums maps locally declared enumerations to their ordered case names.
	Enums map[string][]string `json:"enums,omitempty"`
	// JSON holds the locally declared JSON aggregate type names.
	JSON []string `json:"json,omitempty"`
}

// Field is a stored or computed property of a Schema.
type Field struct {
	Name string `json:"name,omitempty"`
	// Type is the declared type text, including a trailing "?" marker.
	Type string `json:"type,omitempty"`
	Line int    `json:"line,omitempty"`
}

// Edge is a relation declared with a "not loaded" wrapper.
type Edge struct {
	Name string `json:"name,omitempty"`
	// Rel is the wrapper kind, e.g. Parent, Children or Siblings.
	Rel string `json:"rel,omitempty"`
	// Type is the target entity.
	Type string `json:"type,omitempty"`
}

// InitParam is one initializer parameter.
type InitParam struct {
	Name       string `json:"name,omitempty"`
	HasDefault bool   `json:"has_default,omitempty"`
}

// NewSchema returns an empty schema for the given entity.
func NewSchema(name, path string) *Schema {
	return &Schema{
		Name:    name,
		Path:    path,
		Aliases: make(map[string]string),
		Enums:   make(map[string][]string),
	}
}

// Pos returns the filename:line position of the entity header.
func (s *Schema) Pos() string {
	return fmt.Sprintf("%s:%d", s.Path, s.Line)
}

// Optional reports if the declared type carries the optionality marker.
func (f *Field) Optional() bool {
	return strings.HasSuffix(f.Type, "?")
}

// Bare returns the declared type without the optionality marker.
func (f *Field) Bare() string {
	return strings.TrimSuffix(f.Type, "?")
}

// InitParam returns the initializer parameter with the given name.
func (s *Schema) InitParam(name string) (*InitParam, bool) {
	for _, p := range s.Init {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Edge returns the relation with the given name.
func (s *Schema) Edge(name string) (*Edge, bool) {
	for _, e := range s.Edges {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Newtype returns the underlying primitive of a locally declared newtype.
func (s *Schema) Newtype(name string) (string, bool) {
	prim, ok := s.Aliases[name]
	return prim, ok
}

// IsEnum reports if name is a locally declared enumeration.
func (s *Schema) IsEnum(name string) bool {
	_, ok := s.Enums[name]
	return ok
}

// IsJSON reports if name is a locally declared JSON aggregate.
func (s *Schema) IsJSON(name string) bool {
	for _, j := range s.JSON {
		if j == name {
			return true
		}
	}
	return false
}

func (s *Schema) addJSON(name string) {
	if !s.IsJSON(name) {
		s.JSON = append(s.JSON, name)
	}
}

func (s *Schema) hasComputed(name string) bool {
	for _, f := range s.Computed {
		if f.Name == name {
			return true
		}
	}
	return false
}
