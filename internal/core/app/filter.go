package app

import (
	"autoimport/internal/engine/injector"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// TransformExtensions are the module ids Transform rewrites.
var TransformExtensions = map[string]bool{".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".vue": true}

type transformFilter struct {
	root    string
	include []glob.Glob
	exclude []glob.Glob
}

func newTransformFilter(root string, include, exclude []string) (*transformFilter, error) {
	inc, err := compileGlobs(include, "include")
	if err != nil {
		return nil, err
	}
	exc, err := compileGlobs(exclude, "exclude")
	if err != nil {
		return nil, err
	}
	return &transformFilter{root: filepath.ToSlash(root), include: inc, exclude: exc}, nil
}

// Allows reports whether fileID should be transformed. Patterns are tried
// against both the id as given and its root-relative form.
func (f *transformFilter) Allows(fileID string) bool {
	path := filepath.ToSlash(stripQuery(fileID))
	if !TransformExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	candidates := []string{path}
	if rel, ok := strings.CutPrefix(path, f.root+"/"); ok {
		candidates = append(candidates, rel)
	}

	matches := func(globs []glob.Glob) bool {
		for _, c := range candidates {
			if matchesAny(globs, c) {
				return true
			}
		}
		return false
	}
	if matches(f.exclude) {
		return false
	}
	return len(f.include) == 0 || matches(f.include)
}

func stripQuery(fileID string) string {
	if i := strings.IndexByte(fileID, '?'); i >= 0 {
		return fileID[:i]
	}
	return fileID
}

// Transform injects missing imports into one module against the current
// snapshot. Ids outside the filters are returned untouched with false.
func (e *Engine) Transform(fileID, content string) (string, bool, error) {
	if !e.filter.Allows(fileID) {
		return content, false, nil
	}

	res, err := e.injector.Inject(fileID, content, e.registry.Snapshot(),
		injector.WithExistingPriority(e.Config.ExistingPriority),
		injector.WithImportMode(e.importMode))
	if err != nil {
		return content, false, err
	}
	for _, n := range res.Skipped {
		slog.Info("import not injected", "file", fileID, "name", n.Name, "origin", n.Origin, "reason", n.Reason)
	}
	if res.Changed() {
		slog.Debug("imports injected", "file", fileID, "count", len(res.Injected))
	}
	return res.Content, res.Changed(), nil
}
