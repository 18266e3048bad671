package gen

// Extension generates one additional artifact per entity, for example an
// exposed-API wrapper or a test fixture. Path is relative to the project
// root. An empty path skips the entity.
type Extension interface {
	Name() string
	Generate(*Type) (path, code string, err error)
}

// ExtensionFunc returns an Extension backed by fn.
func ExtensionFunc(name string, fn func(*Type) (string, string, error)) Extension {
	return &funcExtension{name: name, fn: fn}
}

type funcExtension struct {
	name string
	fn   func(*Type) (string, string, error)
}

func (e *funcExtension) Name() string { return e.name }

func (e *funcExtension) Generate(t *Type) (string, string, error) {
	return e.fn(t)
}

// Extend runs every configured extension for t.
func Extend(t *Type) ([]*Artifact, error) {
	var artifacts []*Artifact
	for _, ext := range t.Extensions {
		path, code, err := ext.Generate(t)
		if err != nil {
			return nil, NewGenerationError("extension", path, ext.Name()+" for "+t.Name, err)
		}
		if path == "" {
			continue
		}
		artifacts = append(artifacts, &Artifact{Name: t.Name + " " + ext.Name(), Path: path, Code: code})
	}
	return artifacts, nil
}
