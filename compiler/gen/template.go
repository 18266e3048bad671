package gen

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed template/*.tmpl
var templateDir embed.FS

var templates = template.Must(template.New("duetgen").ParseFS(templateDir, "template/*.tmpl"))

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", NewGenerationError("render", "", fmt.Sprintf("execute template %q", name), err)
	}
	return b.String(), nil
}

// IdentifiableConformance renders the identity conformance of t.
func IdentifiableConformance(t *Type) (string, error) {
	return execute("identifiable", t)
}

// CodingKeys renders the coding keys of t, one case per stored property
// in declaration order.
func CodingKeys(t *Type) (string, error) {
	return execute("codingKeys", t)
}

// SQLConformance renders the storage conformance of t: the projection
// switch over every column and the insert set.
func SQLConformance(t *Type) (string, error) {
	cases, err := t.Columns(Inspect)
	if err != nil {
		return "", err
	}
	inserts, err := t.InsertColumns()
	if err != nil {
		return "", err
	}
	return execute("sql", struct {
		Name, TableName string
		Cases, Inserts  []*Column
	}{
		Name:      t.Name,
		TableName: t.TableName(),
		Cases:     cases,
		Inserts:   inserts,
	})
}

// DuetFile renders the aggregated identity and coding conformances of
// every entity of g.
func DuetFile(g *Graph) (string, error) {
	return execute("duet", g)
}

// SQLFile renders the aggregated storage conformances of every entity of g.
func SQLFile(g *Graph) (string, error) {
	conformances := make([]string, 0, len(g.Nodes))
	for _, t := range g.Nodes {
		code, err := SQLConformance(t)
		if err != nil {
			return "", err
		}
		conformances = append(conformances, code)
	}
	return execute("sqlFile", struct {
		Header       string
		Conformances []string
	}{
		Header:       g.Header,
		Conformances: conformances,
	})
}
