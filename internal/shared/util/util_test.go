package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./foo/bar  ", expected: "foo/bar"},
		{name: "Relative", input: "foo/../bar", expected: "bar"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestHasPathPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		prefix   string
		expected bool
	}{
		{name: "Exact", path: "foo/bar", prefix: "foo/bar", expected: true},
		{name: "Nested", path: "foo/bar/baz", prefix: "foo/bar", expected: true},
		{name: "Neighbor", path: "foo/barista", prefix: "foo/bar", expected: false},
		{name: "Shorter", path: "foo", prefix: "foo/bar", expected: false},
		{name: "MixedSeparators", path: `foo\bar\baz`, prefix: "foo/bar", expected: true},
		{name: "RelativePrefix", path: "./foo/bar/baz", prefix: "foo/bar", expected: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasPathPrefix(tc.path, tc.prefix); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"b": 2, "a": 1, "c": 3}
	keys := SortedStringKeys(m)
	expected := []string{"a", "b", "c"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("expected %q at %d, got %q", key, i, keys[i])
		}
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.txt")
	content := []byte("hello")

	if err := WriteFileWithDirs(path, content, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("expected %q, got %q", string(content), string(got))
	}
}

func TestWriteFileIfChanged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "types.d.ts")

	wrote, err := WriteFileIfChanged(path, []byte("a"), 0o644)
	if err != nil || !wrote {
		t.Fatalf("expected first write, got wrote=%v err=%v", wrote, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}

	wrote, err = WriteFileIfChanged(path, []byte("a"), 0o644)
	if err != nil || wrote {
		t.Fatalf("expected identical content to be skipped, got wrote=%v err=%v", wrote, err)
	}
	again, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if !again.ModTime().Equal(info.ModTime()) {
		t.Fatalf("expected mtime to be unchanged")
	}

	wrote, err = WriteFileIfChanged(path, []byte("b"), 0o644)
	if err != nil || !wrote {
		t.Fatalf("expected changed content to be written, got wrote=%v err=%v", wrote, err)
	}
}

func TestTrimExt(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"src/components/Button.tsx": "src/components/Button",
		"./index.d.ts":              "./index.d",
		"noext":                     "noext",
	}
	for in, want := range cases {
		if got := TrimExt(in); got != want {
			t.Fatalf("TrimExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsFileSpecifier(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"react":              false,
		"@scope/pkg":         false,
		"./src/a.ts":         true,
		"../shared/b.ts":     true,
		"/abs/project/c.tsx": true,
	}
	for spec, want := range cases {
		if got := IsFileSpecifier(spec); got != want {
			t.Errorf("IsFileSpecifier(%q) = %v, want %v", spec, got, want)
		}
	}
}

func TestRelativeSpecifier(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, target, want string
	}{
		{"/p/src", "/p/src/components/Button.tsx", "./components/Button.tsx"},
		{"/p/src/pages", "/p/src/components/Button.tsx", "../components/Button.tsx"},
		{"/p", "/p/auto.ts", "./auto.ts"},
	}
	for _, tc := range cases {
		got, ok := RelativeSpecifier(tc.from, tc.target)
		if !ok || got != tc.want {
			t.Errorf("RelativeSpecifier(%q, %q) = %q, %v, want %q", tc.from, tc.target, got, ok, tc.want)
		}
	}
}
