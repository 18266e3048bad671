package gen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/duetgen/compiler/load"
)

// ModelsRoot is the directory that holds the entity sources, relative to
// the project root.
const ModelsRoot = "Sources/App/Models"

// Type represents one entity of the graph and the information the
// emitter needs to generate its conformances.
type Type struct {
	*Config
	schema *load.Schema
	types  *load.Types
	// Name holds the entity type name.
	Name string
	// Fields holds the stored properties in declaration order.
	Fields []*load.Field
}

// NewType creates a new type from the scanned schema. types is the global
// type registry the columns are resolved against.
func NewType(c *Config, schema *load.Schema, types *load.Types) (*Type, error) {
	if !isIdent(schema.Name) || !unicode.IsUpper(rune(schema.Name[0])) {
		return nil, NewSchemaError(schema.Name, "", "entity name must be an exported identifier", nil)
	}
	if c == nil {
		c = MustNewConfig()
	}
	if types == nil {
		types = load.NewTypes()
	}
	seen := make(map[string]struct{}, len(schema.Fields))
	for _, f := range schema.Fields {
		switch _, ok := seen[f.Name]; {
		case !isIdent(f.Name):
			return nil, NewSchemaError(schema.Name, f.Name, fmt.Sprintf("invalid property name %q", f.Name), nil)
		case ok:
			return nil, NewSchemaError(schema.Name, f.Name, fmt.Sprintf("property %q redeclared", f.Name), nil)
		case strings.TrimSpace(f.Type) == "" || f.Type == "?":
			return nil, NewSchemaError(schema.Name, f.Name, "missing property type", nil)
		}
		seen[f.Name] = struct{}{}
	}
	return &Type{
		Config: c,
		schema: schema,
		types:  types,
		Name:   schema.Name,
		Fields: schema.Fields,
	}, nil
}

// Schema returns the scanned declaration of the type.
func (t *Type) Schema() *load.Schema { return t.schema }

// Migration returns the highest migration number that renames the table,
// or zero.
func (t *Type) Migration() int { return t.schema.Migration }

// TableName returns the table name expression of the type. A type with a
// migration refers to the migration constant, others use the quoted
// plural of the lower-cased type name.
func (t *Type) TableName() string {
	if n := t.schema.Migration; n > 0 {
		return fmt.Sprintf("M%d.tableName", n)
	}
	return strconv.Quote(pluralize(cases.Lower(language.Und).String(t.Name)))
}

// CamelCaseName returns the type name with a lower-cased first letter.
func (t *Type) CamelCaseName() string {
	return inflect.CamelizeDownFirst(t.Name)
}

// Dir returns the directory that holds the sources of the type. An entry
// in customSubdirs overrides the default "/<Name>s" subdirectory.
func (t *Type) Dir(customSubdirs map[string]string) string {
	subdir, ok := customSubdirs[t.Name]
	if !ok {
		subdir = "/" + t.Name + "s"
	}
	return ModelsRoot + subdir
}

// Columns resolves every stored property for the given purpose. For
// inserts, side-loaded properties and an optional soft-delete timestamp
// are left out.
func (t *Type) Columns(purpose Purpose) ([]*Column, error) {
	columns := make([]*Column, 0, len(t.Fields))
	for _, f := range t.Fields {
		if purpose == Insert && f.Name == "deletedAt" && f.Type != "Date" {
			continue
		}
		c, err := Resolve(t, f, purpose)
		if err != nil {
			return nil, err
		}
		if purpose == Insert && c.SideLoaded {
			continue
		}
		columns = append(columns, c)
	}
	return columns, nil
}

// InsertColumns returns the columns of the insert set.
func (t *Type) InsertColumns() ([]*Column, error) {
	return t.Columns(Insert)
}

// pluralize applies the table naming rule: a consonant followed by "y"
// becomes "ies", anything else gets an "s".
func pluralize(s string) string {
	if n := len(s); n > 1 && s[n-1] == 'y' && unicode.IsLetter(rune(s[n-2])) && !strings.ContainsRune("aeiou", rune(s[n-2])) {
		return s[:n-1] + "ies"
	}
	return s + "s"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
