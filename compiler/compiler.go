// Package compiler runs the generator: it collects the declarations of a
// project, builds the model registry and renders and writes the generated
// conformances.
package compiler

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/syssam/duetgen/compiler/gen"
	"github.com/syssam/duetgen/compiler/load"
)

// Options configures one generator run.
type Options struct {
	// Root is the project root. Search paths and output locations are
	// relative to it.
	Root string
	// Config is the project configuration.
	Config *Config
	// Model restricts the per-entity extension artifacts to one entity.
	// The aggregated conformance files always cover every entity.
	Model string
	// Perform writes the artifacts. Otherwise they are printed to Out.
	Perform bool
	// Out receives the dry-run output. Defaults to os.Stdout.
	Out io.Writer
	// Extensions generate additional per-entity artifacts.
	Extensions []gen.Extension
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Result holds the outcome of a run.
type Result struct {
	Graph     *gen.Graph
	Artifacts []*gen.Artifact
}

// Load runs the collect phase: it reads every candidate file, scans the
// global types and the entities and builds the model registry. All files
// are scanned before anything is resolved.
func Load(ctx context.Context, opts Options) (*gen.Graph, error) {
	if opts.Config == nil {
		return nil, gen.NewConfigError("config", nil, "missing project configuration")
	}
	cfg, logger := opts.Config, opts.logger()
	files, err := load.ReadFiles(ctx, opts.Root, cfg.ModelsSearchPaths)
	if err != nil {
		return nil, err
	}
	types := load.ScanTypes(files,
		load.WithAliases(cfg.TypeAliases),
		load.WithSideLoaded(cfg.SideLoaded),
	)
	schemas, err := load.ScanModels(files)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected declarations",
		"files", len(files),
		"entities", len(schemas),
		"newtypes", len(types.Aliases),
		"enums", len(types.Enums),
		"json", len(types.JSON),
	)
	gcfg, err := gen.NewConfig(
		gen.WithStrictEnums(cfg.StrictEnums),
		gen.WithModelDirs(cfg.ModelDirs),
		gen.WithExtensions(opts.Extensions...),
		gen.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(gcfg, schemas, types)
}

// Render runs the resolve phase and returns every artifact of g.
func Render(g *gen.Graph, cfg *Config, model string) ([]*gen.Artifact, error) {
	nodes := g.Nodes
	if model != "" {
		t, ok := g.Lookup(model)
		if !ok {
			return nil, gen.NewConfigError("model", model, "unknown entity")
		}
		nodes = []*gen.Type{t}
	}

	duet, err := gen.DuetFile(g)
	if err != nil {
		return nil, err
	}
	artifacts := []*gen.Artifact{{Name: "duet conformances", Path: cfg.DuetConformancesLocation, Code: duet}}
	if cfg.DuetSQLConformancesLocation != "" {
		code, err := gen.SQLFile(g)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, &gen.Artifact{Name: "sql conformances", Path: cfg.DuetSQLConformancesLocation, Code: code})
	}
	for _, t := range nodes {
		extra, err := gen.Extend(t)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, extra...)
	}
	return artifacts, nil
}

// Generate runs both phases and hands the artifacts to the writer. A
// fatal error in any phase aborts the run before anything is written.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	g, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	artifacts, err := Render(g, opts.Config, opts.Model)
	if err != nil {
		return nil, err
	}
	w := gen.NewWriter(opts.Root).WithLogger(opts.logger())
	if !opts.Perform {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		w = w.WithDryRun(out)
	}
	if err := w.Write(ctx, artifacts); err != nil {
		return nil, err
	}
	return &Result{Graph: g, Artifacts: artifacts}, nil
}
