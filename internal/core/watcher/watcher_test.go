// # internal/core/watcher/watcher_test.go
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func waitFor(t *testing.T, changed <-chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == filepath.ToSlash(want) {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change event on %s", want)
		}
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, []string{"dist"}, []string{"auto_import.d.ts"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "Button.tsx")
	if err := os.WriteFile(testFile, []byte("export default function Button() {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, testFile, 2*time.Second)

	// Declaration output and non-script files must not trigger rebuilds.
	for _, name := range []string{"auto_import.d.ts", "notes.md"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("excluded files triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "components")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "Card.ts")
	if err := os.WriteFile(subFile, []byte("export const Card = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, subFile, 2*time.Second)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.ts")
	newPath := filepath.Join(tmpDir, "new.ts")
	if err := os.WriteFile(oldPath, []byte("export const a = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, newPath, 2*time.Second)
}

func TestWatcher_Filters(t *testing.T) {
	w, err := NewWatcher(10*time.Millisecond, nil, []string{"*.generated.ts"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if !w.shouldExcludeDir("/p/node_modules") || !w.shouldExcludeDir("/p/.git") {
		t.Fatal("expected dependency and VCS directories to be excluded")
	}
	if w.shouldExcludeDir("/p/src") {
		t.Fatal("expected source directories to be watched")
	}
	if !w.shouldExcludeFile("styles.css") {
		t.Fatal("expected non-script files to be excluded")
	}
	if w.shouldExcludeFile("index.MTS") {
		t.Fatal("expected extension matching to ignore case")
	}
	if !w.shouldExcludeFile("api.generated.ts") {
		t.Fatal("expected file exclusions to apply")
	}

	w.SetExtensions(nil)
	if w.shouldExcludeFile("styles.css") {
		t.Fatal("expected an empty extension list to allow everything")
	}
}
