package load

import (
	"maps"
	"regexp"
	"strings"
)

var (
	taggedRe   = regexp.MustCompile(`^(\s*)(?:public )?typealias (\w+) = Tagged<(.+)>$`)
	enumRe     = regexp.MustCompile(`^(\s*)(?:public )?enum ([A-Z]\w*): String\b[^{]*\{`)
	jsonableRe = regexp.MustCompile(`^(\s*)(?:public )?(?:final )?(?:struct|class|enum|extension) ([A-Z][\w.]*)\b[^{]*\bPostgresJsonable\b`)
	caseRe     = regexp.MustCompile(`^\s*case\s+([A-Za-z_]\w*.*)$`)
)

// Kind classifies a bare type name.
type Kind uint8

// Type name classes.
const (
	KindUnknown Kind = iota
	KindPrimitive
	KindNewtype
	KindEnum
	KindJSON
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindPrimitive: "primitive",
	KindNewtype:   "newtype",
	KindEnum:      "enum",
	KindJSON:      "json",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// primitives are the type names the host language and the storage
// library know without declaration.
var primitives = map[string]struct{}{
	"Id":     {},
	"Int":    {},
	"Int64":  {},
	"String": {},
	"Bool":   {},
	"Date":   {},
	"Double": {},
	"UUID":   {},
}

// Types is the global type registry. It holds the declarations of every
// scanned file and is read-only once ScanTypes returns.
type Types struct {
	// Aliases maps newtypes to their underlying primitive.
	Aliases map[string]string
	// Enums maps enumerations to their ordered case names.
	Enums map[string][]string
	// JSON holds the JSON aggregate type names.
	JSON map[string]struct{}
	// sideLoaded maps "Entity.property" to the declared type it is
	// registered with. An empty type matches any declared type.
	sideLoaded map[string]string
}

// TypesOption configures the global type registry.
type TypesOption func(*Types)

// WithAliases adds newtype aliases declared outside of the scanned sources.
// They take precedence over scanned declarations of the same name.
func WithAliases(aliases map[string]string) TypesOption {
	return func(t *Types) {
		maps.Copy(t.Aliases, aliases)
	}
}

// WithSideLoaded registers properties that are populated by other means
// and must never be read for storage. Keys are "Entity.property".
func WithSideLoaded(props map[string]string) TypesOption {
	return func(t *Types) {
		maps.Copy(t.sideLoaded, props)
	}
}

// NewTypes returns an empty registry with the given options applied.
func NewTypes(opts ...TypesOption) *Types {
	t := &Types{
		Aliases:    make(map[string]string),
		Enums:      make(map[string][]string),
		JSON:       make(map[string]struct{}),
		sideLoaded: make(map[string]string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ScanTypes builds the global type registry from every given file, not
// only the ones with model info. Declarations at any nesting level are
// registered, so a property may reference a type declared in any file.
func ScanTypes(files []*File, opts ...TypesOption) *Types {
	t := NewTypes()
	for _, f := range files {
		t.scan(f)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Types) scan(f *File) {
	c := newCursor(f.Source)
	for line, ok := c.next(); ok; line, ok = c.next() {
		if m := jsonableRe.FindStringSubmatch(line); m != nil {
			t.JSON[m[2]] = struct{}{}
		}
		if m := taggedRe.FindStringSubmatch(line); m != nil {
			t.Aliases[m[2]] = taggedPrimitive(m[3])
			continue
		}
		if m := enumRe.FindStringSubmatch(line); m != nil {
			t.Enums[m[2]] = scanEnumCases(c.fork(), line)
		}
	}
}

// Classify returns the class of a bare type name and, for newtypes,
// the underlying primitive.
func (t *Types) Classify(name string) (Kind, string) {
	if t.IsJSON(name) {
		return KindJSON, ""
	}
	if _, ok := primitives[name]; ok {
		return KindPrimitive, ""
	}
	if prim, ok := t.Newtype(name); ok {
		return KindNewtype, prim
	}
	if t.IsEnum(name) {
		return KindEnum, ""
	}
	return KindUnknown, ""
}

// Newtype returns the underlying primitive of a newtype.
func (t *Types) Newtype(name string) (string, bool) {
	prim, ok := t.Aliases[name]
	return prim, ok
}

// IsEnum reports if name is a registered enumeration.
func (t *Types) IsEnum(name string) bool {
	_, ok := t.Enums[name]
	return ok
}

// IsJSON reports if name is a registered JSON aggregate.
func (t *Types) IsJSON(name string) bool {
	_, ok := t.JSON[name]
	return ok
}

// SideLoaded reports if the property of the entity, declared with the given
// type, is registered as side-loaded.
func (t *Types) SideLoaded(entity, prop, typ string) bool {
	registered, ok := t.sideLoaded[entity+"."+prop]
	return ok && (registered == "" || registered == typ)
}

// taggedPrimitive returns the wrapped primitive of the generic arguments of
// a Tagged declaration. It is the last top-level argument.
func taggedPrimitive(args string) string {
	parts := splitTopLevel(args, ',')
	return strings.TrimSpace(parts[len(parts)-1])
}

// scanEnumCases collects the case names of the enumeration opened by line
// from c. Only cases declared directly in the enumeration body are taken.
func scanEnumCases(c *cursor, line string) []string {
	cases := []string{}
	depth := strings.Count(line, "{") - strings.Count(line, "}")
	for depth > 0 {
		line, ok := c.next()
		if !ok {
			break
		}
		line = stripComment(line)
		if m := caseRe.FindStringSubmatch(line); m != nil && depth == 1 {
			for _, p := range splitTopLevel(m[1], ',') {
				if name := ident(p); name != "" {
					cases = append(cases, name)
				}
			}
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return cases
}
