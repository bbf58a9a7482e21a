// # internal/engine/dts/emitter.go
package dts

import (
	"autoimport/internal/engine/symbols"
	"autoimport/internal/shared/util"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// DefaultFile is the declaration file name used when dts is enabled
// without an explicit path.
const DefaultFile = "auto_import.d.ts"

const header = `/* eslint-disable */
/* prettier-ignore */
// noinspection JSUnusedGlobalSymbols
// Generated by autoimport. Do not edit.
export {}
`

// One declare global block per import shape, in this order.
var shapes = []struct {
	title string
	kind  symbols.BindingKind
}{
	{title: "default imports", kind: symbols.Default},
	{title: "named imports", kind: symbols.Named},
	{title: "aliased imports", kind: symbols.Namespace},
	{title: "type-only imports", kind: symbols.TypeOnly},
}

// Emitter writes the ambient declaration file. A zero Path disables it.
type Emitter struct {
	Root string
	Path string
}

// NewEmitter resolves file against root. An empty file disables emission.
func NewEmitter(root, file string) *Emitter {
	if file == "" {
		return &Emitter{Root: root}
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	return &Emitter{Root: root, Path: file}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.Path != ""
}

// Emit renders descs and writes them when the content differs from what is
// on disk. It reports whether the file was written.
func (e *Emitter) Emit(descs []symbols.Descriptor) (bool, error) {
	if !e.Enabled() {
		return false, nil
	}
	wrote, err := util.WriteFileIfChanged(e.Path, e.Render(descs), 0o644)
	if err != nil {
		return false, fmt.Errorf("write declaration file %s: %w", e.Path, err)
	}
	if wrote {
		slog.Info("declaration file updated", "path", filepath.ToSlash(e.Path), "symbols", len(descs))
	}
	return wrote, nil
}

// Render produces the declaration file content. Only the first descriptor
// per local name is declared, matching what the injector would import.
// Output is sorted so identical inputs yield identical bytes.
func (e *Emitter) Render(descs []symbols.Descriptor) []byte {
	seen := make(map[string]bool, len(descs))
	unique := make([]symbols.Descriptor, 0, len(descs))
	for _, d := range descs {
		if seen[d.LocalName()] {
			continue
		}
		seen[d.LocalName()] = true
		unique = append(unique, d)
	}
	symbols.Sort(unique)

	var b strings.Builder
	b.WriteString(header)
	for _, s := range shapes {
		var lines []string
		for _, d := range unique {
			if d.Kind == s.kind {
				lines = append(lines, e.declaration(d))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "// %s\ndeclare global {\n", s.title)
		for _, line := range lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}
	return []byte(b.String())
}

func (e *Emitter) declaration(d symbols.Descriptor) string {
	origin := e.specifier(d.Origin)
	switch d.Kind {
	case symbols.Default:
		return fmt.Sprintf("const %s: typeof import('%s')['default']", d.LocalName(), origin)
	case symbols.TypeOnly:
		return fmt.Sprintf("type %s = import('%s').%s", d.LocalName(), origin, d.ExportedName)
	default:
		return fmt.Sprintf("const %s: typeof import('%s')['%s']", d.LocalName(), origin, d.ExportedName)
	}
}

// specifier rewrites local file origins relative to the declaration file,
// without extension. Package origins are kept as written.
func (e *Emitter) specifier(origin string) string {
	if !util.IsFileSpecifier(origin) {
		return origin
	}
	abs := filepath.FromSlash(origin)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.Root, abs)
	}
	rel, ok := util.RelativeSpecifier(filepath.Dir(e.Path), abs)
	if !ok {
		return origin
	}
	return util.TrimExt(rel)
}
