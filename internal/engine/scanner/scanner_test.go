// # internal/engine/scanner/scanner_test.go
package scanner

import (
	"autoimport/internal/core/errors"
	"autoimport/internal/engine/parser"
	"autoimport/internal/engine/symbols"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	p, err := parser.NewDefaultParser()
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(p, 16)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filepath.ToSlash(path)
}

func TestScanFile_RoundTrip(t *testing.T) {
	s := newTestScanner(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "foo.ts"), `export default function Foo() {}
export const Bar = () => {}
export { Bar as Baz }
`)

	got, err := s.ScanFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []symbols.Descriptor{
		{Origin: path, ExportedName: "Foo", Kind: symbols.Default},
		{Origin: path, ExportedName: "Bar", Kind: symbols.Named},
		{Origin: path, ExportedName: "Baz", Kind: symbols.Named},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanFile_StarReExportTransitivity(t *testing.T) {
	s := newTestScanner(t)
	root := t.TempDir()
	entry := writeFile(t, filepath.Join(root, "lib.ts"), "export * from './sub'\n")
	sub := writeFile(t, filepath.Join(root, "sub", "index.ts"), "export * from './deep'\nexport const Qux = 1\n")
	deep := writeFile(t, filepath.Join(root, "sub", "deep.tsx"), "export function Quux() {}\n")
	// index.ts is tried before index.js
	writeFile(t, filepath.Join(root, "sub", "index.js"), "export const Ignored = 1\n")

	got, err := s.ScanFile(entry)
	if err != nil {
		t.Fatal(err)
	}
	want := []symbols.Descriptor{
		{Origin: sub, ExportedName: "Qux", Kind: symbols.Named},
		{Origin: deep, ExportedName: "Quux", Kind: symbols.Named},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanFile_StarCycle(t *testing.T) {
	s := newTestScanner(t)
	root := t.TempDir()
	a := writeFile(t, filepath.Join(root, "a.ts"), "export * from './b'\nexport const A = 1\n")
	b := writeFile(t, filepath.Join(root, "b.ts"), "export * from './a'\nexport const B = 2\n")

	got, err := s.ScanFile(a)
	if err != nil {
		t.Fatal(err)
	}
	want := []symbols.Descriptor{
		{Origin: a, ExportedName: "A", Kind: symbols.Named},
		{Origin: b, ExportedName: "B", Kind: symbols.Named},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanFile_BareStarIsSkipped(t *testing.T) {
	s := newTestScanner(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "index.ts"), "export * from 'react'\nexport const Local = 1\n")

	got, err := s.ScanFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ExportedName != "Local" {
		t.Errorf("expected only the local export, got %v", got)
	}
}

func TestScanSource_ExportShapes(t *testing.T) {
	s := newTestScanner(t)
	path := "/virtual/button-group.tsx"
	got, err := s.ScanSource(path, []byte(`export default () => null
export * as icons from './icons-missing'
export type { Size } from './size'
export interface Props {}
export const { x, y } = point
`))
	if err != nil {
		t.Fatal(err)
	}
	want := []symbols.Descriptor{
		{Origin: path, ExportedName: "ButtonGroup", Kind: symbols.Default},
		{Origin: path, ExportedName: "icons", AsName: "icons", Kind: symbols.Namespace},
		{Origin: path, ExportedName: "Size", Kind: symbols.TypeOnly},
		{Origin: path, ExportedName: "Props", Kind: symbols.TypeOnly},
		{Origin: path, ExportedName: parser.PlaceholderName, Kind: symbols.Named},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanFile_ParseErrorIsFatal(t *testing.T) {
	s := newTestScanner(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "broken.ts"), "export const = ;\n")

	_, err := s.ScanFile(path)
	if !errors.IsCode(err, errors.CodeParse) {
		t.Fatalf("expected %s, got %v", errors.CodeParse, err)
	}
}

func TestScanFile_MissingFile(t *testing.T) {
	s := newTestScanner(t)
	_, err := s.ScanFile(filepath.Join(t.TempDir(), "nope.ts"))
	if !errors.IsCode(err, errors.CodeParse) {
		t.Fatalf("expected %s, got %v", errors.CodeParse, err)
	}
}

func TestScanFile_CacheInvalidatesOnChange(t *testing.T) {
	s := newTestScanner(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "mod.ts"), "export const One = 1\n")

	first, err := s.ScanFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || first[0].ExportedName != "One" {
		t.Fatalf("unexpected first scan: %v", first)
	}

	writeFile(t, path, "export const One = 1\nexport const Two = 2\n")
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	second, err := s.ScanFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 2 {
		t.Fatalf("expected cache to be invalidated, got %v", second)
	}
}

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"button":            "Button",
		"button-group":      "ButtonGroup",
		"date_picker-panel": "DatePickerPanel",
		"--odd__name":       "OddName",
		"":                  "",
	}
	for in, want := range cases {
		if got := PascalCase(in); got != want {
			t.Errorf("PascalCase(%q) = %q, want %q", in, got, want)
		}
	}
	if got := DefaultExportName("src/components/my-card.tsx"); got != "MyCard" {
		t.Errorf("DefaultExportName = %q, want MyCard", got)
	}
}
