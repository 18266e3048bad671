package gen

import (
	"fmt"
	"regexp"

	"github.com/syssam/duetgen/compiler/load"
	"github.com/syssam/duetgen/schema/field"
)

// Purpose selects the column set a property is resolved for.
type Purpose uint8

const (
	// Inspect resolves columns of the generic projection.
	Inspect Purpose = iota
	// Insert resolves columns written when a row is created.
	Insert
)

func (p Purpose) String() string {
	if p == Insert {
		return "insert"
	}
	return "inspect"
}

// Column is the storage encoding of one property.
type Column struct {
	// Name is the property name.
	Name string
	// Type is the storage column variant.
	Type field.Type
	// Arg is the access expression passed to the variant. It is empty for
	// variants without a value.
	Arg string
	// SideLoaded is set for properties that are never read for storage.
	SideLoaded bool
}

// Value returns the storage value expression, e.g. ".int(fooId?.rawValue)".
func (c *Column) Value() string {
	return c.Type.Case(c.Arg)
}

// prop is one property under resolution.
type prop struct {
	t       *Type
	f       *load.Field
	purpose Purpose
}

// chain returns the member access operator of the property.
func (p *prop) chain() string {
	if p.f.Optional() {
		return "?."
	}
	return "."
}

func (p *prop) column(typ field.Type, arg string) *Column {
	return &Column{Name: p.f.Name, Type: typ, Arg: arg}
}

func (p *prop) errorf(format string, args ...any) *ResolveError {
	return &ResolveError{
		Type:     p.t.Name,
		Field:    p.f.Name,
		TypeName: p.f.Type,
		Message:  fmt.Sprintf(format, args...),
	}
}

// rule maps a property to a column. A nil column means the rule does
// not apply.
type rule struct {
	name  string
	apply func(*prop) (*Column, error)
}

// rules is the ordered resolution chain. The first rule that applies wins.
var rules = []rule{
	{"sideLoaded", sideLoadedRule},
	{"serverTimestamp", serverTimestampRule},
	{"json", jsonRule},
	{"foreignKey", foreignKeyRule},
	{"primitive", primitiveRule},
	{"newtype", newtypeRule},
	{"enum", enumRule},
}

// Resolve returns the storage encoding of the stored property f of t.
func Resolve(t *Type, f *load.Field, purpose Purpose) (*Column, error) {
	p := &prop{t: t, f: f, purpose: purpose}
	for _, r := range rules {
		c, err := r.apply(p)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}
		t.logger().Debug("resolved column",
			"entity", t.Name,
			"property", f.Name,
			"type", f.Type,
			"purpose", purpose,
			"rule", r.name,
			"variant", c.Type,
		)
		return c, nil
	}
	// enumRule always applies or fails.
	return nil, p.errorf("no encoding rule applies")
}

func sideLoadedRule(p *prop) (*Column, error) {
	if !p.t.types.SideLoaded(p.t.Name, p.f.Name, p.f.Type) {
		return nil, nil
	}
	c := p.column(field.TypeNull, "")
	c.SideLoaded = true
	return c, nil
}

func serverTimestampRule(p *prop) (*Column, error) {
	if p.purpose != Insert || p.f.Type != "Date" || (p.f.Name != "createdAt" && p.f.Name != "updatedAt") {
		return nil, nil
	}
	if param, ok := p.t.schema.InitParam(p.f.Name); ok && !param.HasDefault {
		return nil, nil
	}
	return p.column(field.TypeCurrentTimestamp, ""), nil
}

func jsonRule(p *prop) (*Column, error) {
	bare := p.f.Bare()
	if !p.t.schema.IsJSON(bare) && !p.t.types.IsJSON(bare) {
		return nil, nil
	}
	return p.column(field.TypeJSON, p.f.Name+p.chain()+"toPostgresJson"), nil
}

var foreignKeyRe = regexp.MustCompile(`^.+\.Id\??$`)

func foreignKeyRule(p *prop) (*Column, error) {
	if !foreignKeyRe.MatchString(p.f.Type) {
		return nil, nil
	}
	return p.column(field.TypeUUID, p.f.Name), nil
}

// primitiveColumns maps exact declared types to their variant and the
// accessor appended to the property name.
var primitiveColumns = map[string]struct {
	typ    field.Type
	access string
}{
	"NonEmpty<[Int]>":  {field.TypeIntArray, ".array"},
	"NonEmpty<[Int]>?": {field.TypeIntArray, "?.array"},
	"Seconds<Double>":  {field.TypeDouble, ".rawValue"},
	"Seconds<Int>":     {field.TypeInt, ".rawValue"},
	"Cents<Int>":       {field.TypeInt, ".rawValue"},
	"Date":             {field.TypeDate, ""},
	"Date?":            {field.TypeDate, ""},
	"Int64":            {field.TypeInt64, ""},
	"Int64?":           {field.TypeInt64, ""},
	"Int":              {field.TypeInt, ""},
	"Int?":             {field.TypeInt, ""},
	"Bool":             {field.TypeBool, ""},
	"Bool?":            {field.TypeBool, ""},
	"String":           {field.TypeString, ""},
	"String?":          {field.TypeString, ""},
}

func primitiveRule(p *prop) (*Column, error) {
	if p.f.Type == "Id" {
		return p.column(field.TypeID, "self"), nil
	}
	pc, ok := primitiveColumns[p.f.Type]
	if !ok {
		return nil, nil
	}
	return p.column(pc.typ, p.f.Name+pc.access), nil
}

func newtypeRule(p *prop) (*Column, error) {
	bare := p.f.Bare()
	prim, ok := p.t.schema.Newtype(bare)
	if !ok {
		if prim, ok = p.t.types.Newtype(bare); !ok {
			return nil, nil
		}
	}
	switch prim {
	case "Int":
		return p.column(field.TypeInt, p.f.Name+p.chain()+"rawValue"), nil
	case "Int64":
		return p.column(field.TypeInt64, p.f.Name+p.chain()+"rawValue"), nil
	case "String":
		return p.column(field.TypeString, p.f.Name+p.chain()+"rawValue"), nil
	case "UUID":
		return p.column(field.TypeUUID, p.f.Name), nil
	default:
		return nil, p.errorf("tagged subtype %s not implemented", prim)
	}
}

func enumRule(p *prop) (*Column, error) {
	if p.t.StrictEnums {
		bare := p.f.Bare()
		if !p.t.schema.IsEnum(bare) && !p.t.types.IsEnum(bare) {
			return nil, p.errorf("%s is not a registered enumeration", bare)
		}
	}
	return p.column(field.TypeEnum, p.f.Name), nil
}
