// # internal/engine/walker/walker.go
package walker

import (
	"autoimport/internal/engine/symbols"
	"autoimport/internal/shared/observability"
	"autoimport/internal/shared/util"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"go.opentelemetry.io/otel/attribute"
)

// ScriptExtensions are the files the walker hands to the scanner.
var ScriptExtensions = map[string]bool{".js": true, ".ts": true, ".jsx": true, ".tsx": true}

// DependencyDir is pruned during traversal, never descended into.
const DependencyDir = "node_modules"

// FileScanner scans one module file into descriptors.
type FileScanner interface {
	ScanFile(path string) ([]symbols.Descriptor, error)
}

type Options struct {
	// Dirs holds doublestar patterns matched against root-relative slash
	// paths. A plain directory matches every file beneath it. Empty matches
	// everything.
	Dirs             []string
	RespectGitignore bool
}

// Walk scans every matching script file under root and returns the merged
// descriptors. The first scan error aborts the walk.
func Walk(ctx context.Context, root string, opts Options, scanner FileScanner) ([]symbols.Descriptor, error) {
	ctx, span := observability.Tracer.Start(ctx, "walker.Walk")
	defer span.End()

	files, err := Files(ctx, root, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	var out []symbols.Descriptor
	for _, path := range files {
		descs, err := scanner.ScanFile(path)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		out = append(out, descs...)
	}
	slog.Debug("directory walk complete", "root", root, "files", len(files), "symbols", len(out))
	return out, nil
}

// Files lists the script files under root selected by opts, as slash paths
// in traversal order.
func Files(ctx context.Context, root string, opts Options) ([]string, error) {
	patterns := make([]string, 0, len(opts.Dirs))
	for _, p := range opts.Dirs {
		p = util.NormalizePatternPath(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid dirs pattern %q", p)
		}
		patterns = append(patterns, p)
	}

	var gi *ignore.GitIgnore
	if opts.RespectGitignore {
		gi = loadGitignore(root)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if d.Name() == DependencyDir {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !ScriptExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !matchesAny(patterns, rel) {
			return nil
		}
		files = append(files, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func matchesAny(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if util.HasPathPrefix(rel, p) {
			return true
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}
