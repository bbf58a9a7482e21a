// # internal/engine/packages/resolver.go
package packages

import (
	"autoimport/internal/core/errors"
	"autoimport/internal/engine/symbols"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultTypesEntry is used when package.json names no type entry.
const DefaultTypesEntry = "index.d.ts"

// DefaultStyleDir is the build directory used for browser targets.
const DefaultStyleDir = "es"

// Spec configures one component package resolver.
type Spec struct {
	Module string
	// Prefix is prepended to every harvested name to form the local binding.
	Prefix string
	Style  symbols.StyleImport
	// Target is the build target, "browser" or "node". It picks the build
	// directory stylesheets are imported from.
	Target string
}

// StyleDir maps a build target onto the package directory holding its
// stylesheets: "lib" for node, "es" otherwise.
func StyleDir(target string) string {
	if strings.EqualFold(target, "node") {
		return "lib"
	}
	return DefaultStyleDir
}

type packageManifest struct {
	Types   string `json:"types"`
	Typings string `json:"typings"`
}

var reExportDefault = regexp.MustCompile(`export\s+\{\s*default\s+as\s+(\w+)\s*\}\s+from\s+['"]\./(\w+)['"]\s*;?`)

// Resolve harvests `export { default as X } from './X'` lines from the
// package's published type entry. A missing type entry is fatal because the
// package was configured explicitly.
func Resolve(root string, spec Spec) ([]symbols.Descriptor, error) {
	pkgDir := filepath.Join(root, "node_modules", filepath.FromSlash(spec.Module))
	entry := TypesEntry(pkgDir)

	content, err := os.ReadFile(entry)
	if err != nil {
		de := &errors.DomainError{Code: errors.CodeNotFound, Message: "package type declarations not readable", Err: err}
		de.WithContext(errors.CtxPackage, spec.Module)
		de.WithContext(errors.CtxPath, filepath.ToSlash(entry))
		return nil, de
	}

	style := spec.Style
	if style.Mode != symbols.StyleNone {
		style.Dir = StyleDir(spec.Target)
	}

	names := HarvestComponents(string(content))
	out := make([]symbols.Descriptor, 0, len(names))
	for _, name := range names {
		d := symbols.Descriptor{
			Origin:       spec.Module,
			ExportedName: name,
			Kind:         symbols.Named,
			Style:        style,
		}
		if spec.Prefix != "" {
			d.Kind = symbols.Namespace
			d.AsName = spec.Prefix + name
		}
		out = append(out, d)
	}
	slog.Debug("package components resolved", "package", spec.Module, "entry", filepath.ToSlash(entry), "components", len(out))
	return out, nil
}

// TypesEntry locates the type declaration entry of the package in pkgDir:
// the first non-empty of "types" and "typings", else index.d.ts.
func TypesEntry(pkgDir string) string {
	rel := DefaultTypesEntry
	if data, err := os.ReadFile(filepath.Join(pkgDir, "package.json")); err == nil {
		var manifest packageManifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			slog.Warn("invalid package.json", "path", filepath.ToSlash(filepath.Join(pkgDir, "package.json")), "error", err)
		} else if manifest.Types != "" {
			rel = manifest.Types
		} else if manifest.Typings != "" {
			rel = manifest.Typings
		}
	}
	return filepath.Join(pkgDir, filepath.FromSlash(strings.TrimPrefix(rel, "./")))
}

// HarvestComponents returns the component names re-exported as defaults, in
// file order, without duplicates.
func HarvestComponents(content string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range reExportDefault.FindAllStringSubmatch(content, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// StyleImportPath renders the side-effect stylesheet import for one
// component, or "" when the policy imports nothing. A pattern containing
// "{name}" is taken relative to the module; any other pattern is a suffix
// under the component's build directory.
func StyleImportPath(module, name string, style symbols.StyleImport) string {
	dir := style.Dir
	if dir == "" {
		dir = DefaultStyleDir
	}
	switch style.Mode {
	case symbols.StyleSibling:
		return module + "/" + dir + "/" + name + "/style"
	case symbols.StylePattern:
		pattern := strings.TrimPrefix(style.Pattern, "/")
		if strings.Contains(pattern, "{name}") {
			return module + "/" + strings.ReplaceAll(pattern, "{name}", name)
		}
		return module + "/" + dir + "/" + name + "/" + pattern
	}
	return ""
}
