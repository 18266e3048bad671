package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Artifact is one rendered output file.
type Artifact struct {
	// Name describes the artifact in diagnostics, e.g. "duet conformances".
	Name string
	// Path is relative to the writer root unless absolute.
	Path string
	Code string
}

// Writer persists rendered artifacts with parallel execution. In dry-run
// mode it prints them instead.
type Writer struct {
	root    string
	dryRun  io.Writer
	workers int
	logger  *slog.Logger
	metrics *WriterMetrics
}

// WriterMetrics tracks write results.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a new writer for the given project root.
func NewWriter(root string) *Writer {
	return &Writer{
		root:    root,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithDryRun makes the writer print artifacts to out instead of writing them.
func (w *Writer) WithDryRun(out io.Writer) *Writer {
	w.dryRun = out
	return w
}

// WithLogger sets the logger.
func (w *Writer) WithLogger(l *slog.Logger) *Writer {
	if l != nil {
		w.logger = l
	}
	return w
}

// Metrics returns the write metrics.
func (w *Writer) Metrics() *WriterMetrics {
	return w.metrics
}

// Write persists all artifacts. Paths are checked before the first file
// is written. Every artifact is staged to a temporary file next to its
// target first; targets are replaced only after all of them are staged.
func (w *Writer) Write(ctx context.Context, artifacts []*Artifact) error {
	for _, a := range artifacts {
		if a.Path == "" {
			return NewGenerationError("write", "", fmt.Sprintf("missing path for %s", a.Name), nil)
		}
	}
	if w.dryRun != nil {
		return w.print(artifacts)
	}

	staged := make([]string, len(artifacts))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for i, a := range artifacts {
		i, a := i, a
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			tmp, err := w.stage(a)
			staged[i] = tmp
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		removeAll(staged)
		return err
	}

	for i, a := range artifacts {
		if err := os.Rename(staged[i], w.path(a)); err != nil {
			removeAll(staged[i:])
			return NewGenerationError("write", a.Path, "replace file", err)
		}
		w.metrics.FilesWritten++
		w.metrics.TotalBytes += int64(len(a.Code))
		w.logger.Info("wrote generated code", "name", a.Name, "path", a.Path, "bytes", len(a.Code))
	}
	return nil
}

func (w *Writer) print(artifacts []*Artifact) error {
	for _, a := range artifacts {
		if _, err := fmt.Fprintf(w.dryRun, "Write generated %s to filepath: %q:\n\n%s\n\n\n", a.Name, a.Path, a.Code); err != nil {
			return NewGenerationError("write", a.Path, "print artifact", err)
		}
	}
	return nil
}

// path returns the target file of a.
func (w *Writer) path(a *Artifact) string {
	if filepath.IsAbs(a.Path) {
		return a.Path
	}
	return filepath.Join(w.root, filepath.FromSlash(a.Path))
}

// stage writes the code of a to a temporary file in the target directory
// and returns its name.
func (w *Writer) stage(a *Artifact) (string, error) {
	path := w.path(a)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", NewGenerationError("write", a.Path, "create directory", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", NewGenerationError("write", a.Path, "create file", err)
	}
	_, err = f.WriteString(a.Code)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(f.Name(), 0o644)
	}
	if err != nil {
		os.Remove(f.Name())
		return "", NewGenerationError("write", a.Path, "write file", err)
	}
	return f.Name(), nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		if p != "" {
			os.Remove(p)
		}
	}
}
