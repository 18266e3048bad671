package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/duetgen/compiler/load"
)

// mockThing returns the schema of an entity named Thing with the given
// name and type pairs as stored properties.
func mockThing(props ...string) *load.Schema {
	s := load.NewSchema("Thing", "Sources/App/Models/Things/Thing.swift")
	for i := 0; i+1 < len(props); i += 2 {
		s.Fields = append(s.Fields, &load.Field{Name: props[i], Type: props[i+1]})
	}
	return s
}

func TestType(t *testing.T) {
	require := require.New(t)
	typ, err := NewType(nil, mockThing("id", "Id", "foo", "String"), nil)
	require.NoError(err)
	require.NotNil(typ)
	require.Equal("Thing", typ.Name)
	require.Len(typ.Fields, 2)
	require.Equal(DefaultHeader, typ.Header)

	_, err = NewType(nil, mockThing("foo", "Int", "foo", "String"), nil)
	require.EqualError(err, `duetgen: schema error on type Thing field foo: property "foo" redeclared`)
	require.True(IsSchemaError(err))

	_, err = NewType(nil, mockThing("foo-bar", "Int"), nil)
	require.EqualError(err, `duetgen: schema error on type Thing field foo-bar: invalid property name "foo-bar"`)

	_, err = NewType(nil, mockThing("foo", ""), nil)
	require.EqualError(err, "duetgen: schema error on type Thing field foo: missing property type")

	_, err = NewType(nil, load.NewSchema("thing", ""), nil)
	require.EqualError(err, "duetgen: schema error on type thing: entity name must be an exported identifier")

	_, err = NewType(nil, load.NewSchema("", ""), nil)
	require.Error(err)
}

func TestType_TableName(t *testing.T) {
	tests := []struct {
		name      string
		migration int
		expected  string
	}{
		{"Thing", 1, "M1.tableName"},
		{"Thing", 14, "M14.tableName"},
		{"Thing", 0, `"things"`},
		{"Category", 0, `"categories"`},
		{"Key", 0, `"keys"`},
		{"Survey", 0, `"surveys"`},
		{"Y", 0, `"ys"`},
		{"GitCommit", 0, `"gitcommits"`},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			s := load.NewSchema(tt.name, "")
			s.Migration = tt.migration
			typ, err := NewType(nil, s, nil)
			require.NoError(t, err)
			require.Equal(t, tt.expected, typ.TableName())
		})
	}
}

func TestType_Names(t *testing.T) {
	require := require.New(t)
	typ, err := NewType(nil, load.NewSchema("GitCommit", ""), nil)
	require.NoError(err)
	require.Equal("gitCommit", typ.CamelCaseName())
	require.Equal("Sources/App/Models/GitCommits", typ.Dir(nil))
	require.Equal("Sources/App/Models/Git/Commits", typ.Dir(map[string]string{"GitCommit": "/Git/Commits"}))
	require.Equal("Sources/App/Models/GitCommits", typ.Dir(map[string]string{"Other": "/Others"}))
}

func TestType_Columns(t *testing.T) {
	require := require.New(t)
	types := load.NewTypes(load.WithSideLoaded(map[string]string{"Thing.tags": "[Tag]"}))
	s := mockThing(
		"id", "Id",
		"tags", "[Tag]",
		"createdAt", "Date",
		"deletedAt", "Date?",
	)
	typ, err := NewType(nil, s, types)
	require.NoError(err)

	inspect, err := typ.Columns(Inspect)
	require.NoError(err)
	require.Equal([]string{".id(self)", ".null", ".date(createdAt)", ".date(deletedAt)"}, values(inspect))

	insert, err := typ.InsertColumns()
	require.NoError(err)
	require.Equal([]string{"id", "createdAt"}, names(insert))
	require.Equal([]string{".id(self)", ".currentTimestamp"}, values(insert))

	s.Fields[3].Type = "Date"
	insert, err = typ.InsertColumns()
	require.NoError(err)
	require.Equal([]string{"id", "createdAt", "deletedAt"}, names(insert), "a non-optional deletedAt is inserted")
}

func TestGraph(t *testing.T) {
	require := require.New(t)
	a := load.NewSchema("Alpha", "Sources/App/Models/Alpha.swift")
	b := load.NewSchema("Beta", "Sources/App/Models/Beta.swift")
	g, err := NewGraph(nil, []*load.Schema{b, a}, nil)
	require.NoError(err)
	require.Len(g.Nodes, 2)
	require.Equal("Beta", g.Nodes[0].Name, "nodes keep scan order")
	require.NotNil(g.Types)

	typ, ok := g.Lookup("Alpha")
	require.True(ok)
	require.Equal(a, typ.Schema())
	_, ok = g.Lookup("Gamma")
	require.False(ok)

	dup := load.NewSchema("Alpha", "Sources/App/Models/Other.swift")
	_, err = NewGraph(nil, []*load.Schema{a, dup}, nil)
	require.Error(err)
	require.True(IsSchemaError(err))
	require.Contains(err.Error(), "previous declaration at Sources/App/Models/Alpha.swift:0")

	_, err = NewGraph(nil, []*load.Schema{load.NewSchema("bad name", "")}, nil)
	require.True(IsSchemaError(err))
}

func TestGraph_Config(t *testing.T) {
	cfg := MustNewConfig(WithStrictEnums(true))
	g, err := NewGraph(cfg, []*load.Schema{mockThing("id", "Id")}, nil)
	require.NoError(t, err)
	require.True(t, g.Nodes[0].StrictEnums, "types share the graph config")
}

func names(columns []*Column) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		out = append(out, c.Name)
	}
	return out
}

func values(columns []*Column) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		out = append(out, c.Value())
	}
	return out
}
