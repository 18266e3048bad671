package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/duetgen/compiler/gen"
)

// Config is the project configuration of a generator run.
type Config struct {
	// ModelsSearchPaths are glob patterns, relative to the project root,
	// of the candidate source files.
	ModelsSearchPaths []string `json:"modelsSearchPaths" yaml:"modelsSearchPaths"`
	// DuetConformancesLocation is the output file of the identity and
	// coding conformances. Required.
	DuetConformancesLocation string `json:"duetConformancesLocation" yaml:"duetConformancesLocation"`
	// DuetSQLConformancesLocation is the output file of the storage
	// conformances. Empty disables them.
	DuetSQLConformancesLocation string `json:"duetSqlConformancesLocation,omitempty" yaml:"duetSqlConformancesLocation,omitempty"`
	// GraphQLConformancesDir and MocksDir are the output directories of
	// the exposed-type and fixture extensions.
	GraphQLConformancesDir string `json:"graphqlConformancesDir,omitempty" yaml:"graphqlConformancesDir,omitempty"`
	MocksDir               string `json:"mocksDir,omitempty" yaml:"mocksDir,omitempty"`
	// TypeAliases declares newtypes that are not found in the sources.
	TypeAliases map[string]string `json:"typealiases,omitempty" yaml:"typealiases,omitempty"`
	// ModelDirs maps entity names to a custom models subdirectory.
	ModelDirs map[string]string `json:"modelDirs,omitempty" yaml:"modelDirs,omitempty"`
	// SideLoaded maps "Entity.property" to its declared type.
	SideLoaded map[string]string `json:"sideLoaded,omitempty" yaml:"sideLoaded,omitempty"`
	// StrictEnums requires enumerations to be declared.
	StrictEnums bool `json:"strictEnums,omitempty" yaml:"strictEnums,omitempty"`
}

// PackageFile is the default configuration file. The configuration is
// read from its "duet" key.
const PackageFile = "package.json"

// LoadConfig reads the configuration of the project at root. An empty
// path reads the "duet" key of the project package.json; a ".json" path
// is read the same way; any other path is read as YAML. Environment
// variables override the file.
func LoadConfig(root, path string) (*Config, error) {
	if path == "" {
		path = PackageFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var pkg struct {
			Duet *Config `json:"duet"`
		}
		if err := json.Unmarshal(buf, &pkg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if pkg.Duet == nil {
			return nil, gen.NewConfigError("duet", nil, fmt.Sprintf("missing duet configuration in %s", path))
		}
		cfg = pkg.Duet
	} else if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required options.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DuetConformancesLocation) == "" {
		return gen.NewConfigError("duetConformancesLocation", nil, "missing required option")
	}
	if len(c.ModelsSearchPaths) == 0 {
		return gen.NewConfigError("modelsSearchPaths", nil, "at least one search path is required")
	}
	for name := range c.SideLoaded {
		if entity, prop, ok := strings.Cut(name, "."); !ok || entity == "" || prop == "" {
			return gen.NewConfigError("sideLoaded", name, `keys must have the form "Entity.property"`)
		}
	}
	return nil
}

// applyEnv applies the DUETGEN_* environment overrides.
func (c *Config) applyEnv() {
	c.DuetConformancesLocation = getenv("DUETGEN_DUET_CONFORMANCES_LOCATION", c.DuetConformancesLocation)
	c.DuetSQLConformancesLocation = getenv("DUETGEN_SQL_CONFORMANCES_LOCATION", c.DuetSQLConformancesLocation)
	c.StrictEnums = getenvBool("DUETGEN_STRICT_ENUMS", c.StrictEnums)
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}
