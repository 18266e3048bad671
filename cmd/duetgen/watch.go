package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/duetgen/compiler"
)

// debounce groups the events of one save into a single run.
const debounce = 150 * time.Millisecond

func (a *App) handleWatch(cmd *cobra.Command, _ []string) error {
	opts, err := a.options(cmd)
	if err != nil {
		return err
	}
	opts.Perform = true

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	for _, dir := range watchDirs(opts.Root, opts.Config.ModelsSearchPaths) {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	outputs := outputPaths(opts)
	a.regenerate(cmd, opts)
	return watch(cmd.Context(), w, outputs, func() { a.regenerate(cmd, opts) })
}

// regenerate runs the generator once. Failures are reported and the watch
// continues.
func (a *App) regenerate(cmd *cobra.Command, opts compiler.Options) {
	start := time.Now()
	res, err := compiler.Generate(cmd.Context(), opts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d files for %d entities in %s\n",
		len(res.Artifacts), len(res.Graph.Nodes), time.Since(start).Round(time.Millisecond))
}

// watch calls run once per burst of relevant source events until ctx is
// done or the watcher is closed.
func watch(ctx context.Context, w *fsnotify.Watcher, outputs map[string]struct{}, run func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = w.Add(ev.Name)
					continue
				}
			}
			if !relevant(ev, outputs) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-fire:
			fire = nil
			run()
		}
	}
}

// relevant reports if ev changes a source file. Writes of the generated
// files are ignored.
func relevant(ev fsnotify.Event, outputs map[string]struct{}) bool {
	if !strings.HasSuffix(ev.Name, ".swift") || ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := outputs[path]
	return !ok
}

func outputPaths(opts compiler.Options) map[string]struct{} {
	outputs := make(map[string]struct{})
	for _, p := range []string{opts.Config.DuetConformancesLocation, opts.Config.DuetSQLConformancesLocation} {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(opts.Root, p)
		}
		if abs, err := filepath.Abs(p); err == nil {
			outputs[abs] = struct{}{}
		}
	}
	return outputs
}

// watchDirs returns every existing directory under the static prefix of
// the patterns.
func watchDirs(root string, patterns []string) []string {
	var (
		dirs []string
		seen = make(map[string]struct{})
	)
	for _, pattern := range patterns {
		base := staticPrefix(pattern)
		if !filepath.IsAbs(base) {
			base = filepath.Join(root, base)
		}
		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				dirs = append(dirs, path)
			}
			return nil
		})
	}
	return dirs
}

// staticPrefix returns the leading directories of pattern that contain no
// glob meta characters.
func staticPrefix(pattern string) string {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	for i, part := range parts {
		if strings.ContainsAny(part, "*?[{\\") {
			return filepath.FromSlash(strings.Join(parts[:i], "/"))
		}
	}
	// A plain file path.
	return filepath.Dir(filepath.FromSlash(pattern))
}
