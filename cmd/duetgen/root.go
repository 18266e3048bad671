package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/duetgen/compiler"
)

// App holds the state shared by the commands.
type App struct {
	root    string
	config  string
	verbose bool
	logger  *slog.Logger
}

func newGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the conformances. Prints them unless --perform is set",
		Args:  cobra.NoArgs,
		RunE:  app.handleGenerate,
	}
	cmd.Flags().BoolP("perform", "p", false, "write the generated files")
	cmd.Flags().StringP("model", "m", "", "restrict per-entity artifacts to one entity")
	return cmd
}

func newModelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the collected entities with their table names",
		Args:  cobra.NoArgs,
		RunE:  app.handleModels,
	}
	return cmd
}

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate and write the conformances whenever a source file changes",
		Args:  cobra.NoArgs,
		RunE:  app.handleWatch,
	}
	return cmd
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "duetgen",
		Short:         "Generate Duet conformances for the entities of a project",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.setup(cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&app.root, "root", ".", "project root")
	cmd.PersistentFlags().StringVarP(&app.config, "config", "c", "", "configuration file (default: the duet key of package.json)")
	cmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "log every resolved column")
	cmd.AddCommand(
		newGenerateCmd(app),
		newModelsCmd(app),
		newWatchCmd(app),
	)
	return cmd
}

func (a *App) setup(stderr io.Writer) {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// options returns the run options of the project.
func (a *App) options(cmd *cobra.Command) (compiler.Options, error) {
	cfg, err := compiler.LoadConfig(a.root, a.config)
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{
		Root:   a.root,
		Config: cfg,
		Out:    cmd.OutOrStdout(),
		Logger: a.logger,
	}, nil
}

func (a *App) handleGenerate(cmd *cobra.Command, _ []string) error {
	opts, err := a.options(cmd)
	if err != nil {
		return err
	}
	opts.Perform, _ = cmd.Flags().GetBool("perform")
	opts.Model, _ = cmd.Flags().GetString("model")
	res, err := compiler.Generate(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if opts.Perform {
		for _, art := range res.Artifacts {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s\n", art.Name, art.Path)
		}
	}
	return nil
}

func (a *App) handleModels(cmd *cobra.Command, _ []string) error {
	opts, err := a.options(cmd)
	if err != nil {
		return err
	}
	g, err := compiler.Load(cmd.Context(), opts)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tTABLE\tFIELDS\tSOURCE")
	for _, t := range g.Nodes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Name, t.TableName(), len(t.Fields), t.Schema().Pos())
	}
	return tw.Flush()
}

// Execute initializes and runs the root command. It is the single entry point
// for the command-line interface.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app := &App{}
	rootCmd := newRootCmd(app)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
