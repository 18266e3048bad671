package gen

import (
	"fmt"

	"github.com/syssam/duetgen/compiler/load"
)

// Graph holds the entities of one generator run and the global type
// registry they are resolved against. It is read-only once built.
type Graph struct {
	*Config
	// Nodes are the entities in scan order.
	Nodes []*Type
	// Types is the global type registry.
	Types *load.Types
	nodes map[string]*Type
}

// NewGraph creates a new graph from the scanned schemas. A nil config
// means the default configuration.
func NewGraph(c *Config, schemas []*load.Schema, types *load.Types) (*Graph, error) {
	if c == nil {
		c = MustNewConfig()
	}
	if types == nil {
		types = load.NewTypes()
	}
	g := &Graph{
		Config: c,
		Nodes:  make([]*Type, 0, len(schemas)),
		Types:  types,
		nodes:  make(map[string]*Type, len(schemas)),
	}
	for _, s := range schemas {
		if prev, ok := g.nodes[s.Name]; ok {
			return nil, NewSchemaError(s.Name, "", fmt.Sprintf("entity redeclared, previous declaration at %s", prev.schema.Pos()), nil)
		}
		t, err := NewType(c, s, types)
		if err != nil {
			return nil, err
		}
		g.nodes[t.Name] = t
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}

// Lookup returns the entity with the given name.
func (g *Graph) Lookup(name string) (*Type, bool) {
	t, ok := g.nodes[name]
	return t, ok
}
