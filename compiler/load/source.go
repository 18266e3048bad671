package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"golang.org/x/sync/errgroup"
)

// File is one candidate source file.
type File struct {
	// Path is slash separated and relative to the project root.
	Path   string
	Source string
}

// readWorkers bounds the number of files read at once.
const readWorkers = 8

// ReadFiles expands the glob patterns relative to root and reads every
// matched file. Patterns support "**". A file matched by more than one
// pattern is read once. The result is ordered by pattern, then path.
func ReadFiles(ctx context.Context, root string, patterns []string) ([]*File, error) {
	var (
		paths []string
		seen  = make(map[string]struct{})
	)
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := doublestar.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand search path %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			if st, err := os.Stat(m); err != nil || st.IsDir() {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}

	files := make([]*File, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(readWorkers)
	for i, p := range paths {
		i, p := i, p
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			files[i] = &File{Path: relPath(root, p), Source: string(buf)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	return filepath.ToSlash(path)
}

// HasModelInfo reports if the path may declare entity bodies or extensions.
// Generated code, repositories and resolvers never do.
func HasModelInfo(path string) bool {
	if !strings.Contains(path, "/Models/") &&
		!strings.Contains(path, "/Migrations/") &&
		!strings.Contains(path, "/Entities/") {
		return false
	}
	for _, s := range []string{"Generated", "Repository", "Resolver"} {
		if strings.Contains(path, s) {
			return false
		}
	}
	return true
}
