package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPrefix(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"Sources/App/Models/**/*.swift", filepath.FromSlash("Sources/App/Models")},
		{"Sources/App/*.swift", filepath.FromSlash("Sources/App")},
		{"*.swift", ""},
		{"Sources/App/Types.swift", filepath.FromSlash("Sources/App")},
		{"Sources/{App,Shared}/*.swift", "Sources"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, staticPrefix(tt.pattern))
		})
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Sources", "App", "Models", "Admin"), 0o755))

	dirs := watchDirs(root, []string{
		"Sources/App/Models/**/*.swift",
		"Sources/App/Models/*.swift",
		"Sources/Missing/*.swift",
	})
	assert.Equal(t, []string{
		filepath.Join(root, "Sources", "App", "Models"),
		filepath.Join(root, "Sources", "App", "Models", "Admin"),
	}, dirs)
}

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "Generated", "Duet.swift")
	outputs := map[string]struct{}{out: {}}
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write source", fsnotify.Event{Name: filepath.Join(root, "Post.swift"), Op: fsnotify.Write}, true},
		{"remove source", fsnotify.Event{Name: filepath.Join(root, "Post.swift"), Op: fsnotify.Remove}, true},
		{"chmod", fsnotify.Event{Name: filepath.Join(root, "Post.swift"), Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(root, "Package.resolved"), Op: fsnotify.Write}, false},
		{"generated output", fsnotify.Event{Name: out, Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev, outputs))
		})
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, w, nil, func() { runs <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Post.swift"), []byte("// post"), 0o644))
	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("no run after a source change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
