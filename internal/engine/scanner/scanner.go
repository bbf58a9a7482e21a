// # internal/engine/scanner/scanner.go
package scanner

import (
	"autoimport/internal/core/errors"
	"autoimport/internal/engine/parser"
	"autoimport/internal/engine/symbols"
	"autoimport/internal/shared/observability"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxStarDepth bounds how many `export * from` hops a scan follows.
const MaxStarDepth = 32

// DefaultCacheSize is the number of parsed files the scanner remembers.
const DefaultCacheSize = 4096

// StarExtensions is the candidate order used when resolving `export * from`
// targets, both for directory index files and extension-less file paths.
var StarExtensions = []string{".mts", ".cts", ".ts", ".mjs", ".cjs", ".js", ".jsx", ".tsx"}

// Scanner turns module files into symbol descriptors. It is safe for
// concurrent use.
type Scanner struct {
	parser *parser.Parser
	cache  *lru.Cache[string, cacheEntry]
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	result  fileScan
}

// fileScan is what one file contributes on its own: its descriptors and the
// star re-export specifiers still to be followed.
type fileScan struct {
	descs []symbols.Descriptor
	stars []string
}

func New(p *parser.Parser, cacheSize int) (*Scanner, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create scan cache: %w", err)
	}
	return &Scanner{parser: p, cache: cache}, nil
}

// ScanFile scans path and every module it star re-exports, transitively.
// Descriptors from re-exported modules keep their own file as origin.
func (s *Scanner) ScanFile(path string) ([]symbols.Descriptor, error) {
	return s.scan(path, nil)
}

// ScanSource scans in-memory content as if it were stored at path. Star
// re-exports are still resolved against the filesystem.
func (s *Scanner) ScanSource(path string, content []byte) ([]symbols.Descriptor, error) {
	return s.scan(path, content)
}

type pending struct {
	path  string
	depth int
}

func (s *Scanner) scan(path string, content []byte) ([]symbols.Descriptor, error) {
	path = filepath.ToSlash(path)
	visited := map[string]bool{path: true}
	queue := []pending{{path: path}}
	var out []symbols.Descriptor

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		var (
			result fileScan
			err    error
		)
		if item.path == path && content != nil {
			result, err = s.scanContent(item.path, content)
		} else {
			result, err = s.scanCached(item.path)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, result.descs...)

		for _, spec := range result.stars {
			if !isRelative(spec) {
				slog.Debug("skipping bare star re-export", "file", item.path, "source", spec)
				continue
			}
			if item.depth+1 > MaxStarDepth {
				slog.Warn("star re-export chain too deep", "file", item.path, "source", spec, "max_depth", MaxStarDepth)
				continue
			}
			target, ok := ResolveStarTarget(filepath.Dir(filepath.FromSlash(item.path)), spec)
			if !ok {
				slog.Warn("unresolved star re-export", "file", item.path, "source", spec)
				continue
			}
			if visited[target] {
				continue
			}
			visited[target] = true
			queue = append(queue, pending{path: target, depth: item.depth + 1})
		}
	}
	return out, nil
}

func (s *Scanner) scanCached(path string) (fileScan, error) {
	info, err := os.Stat(filepath.FromSlash(path))
	if err != nil {
		return fileScan{}, errors.AddContext(errors.Wrap(err, errors.CodeParse, "read module"), errors.CtxPath, path)
	}
	if entry, ok := s.cache.Get(path); ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.result, nil
	}

	content, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		return fileScan{}, errors.AddContext(errors.Wrap(err, errors.CodeParse, "read module"), errors.CtxPath, path)
	}
	result, err := s.scanContent(path, content)
	if err != nil {
		return fileScan{}, err
	}
	s.cache.Add(path, cacheEntry{modTime: info.ModTime(), size: info.Size(), result: result})
	return result, nil
}

func (s *Scanner) scanContent(path string, content []byte) (fileScan, error) {
	start := time.Now()
	mod, err := s.parser.ParseModule(path, content)
	if err != nil {
		return fileScan{}, err
	}
	observability.ParsingDuration.WithLabelValues(mod.Language).Observe(time.Since(start).Seconds())
	observability.FilesScannedTotal.Inc()
	return descriptorsFromModule(path, mod), nil
}

// descriptorsFromModule maps one parsed module onto descriptors whose origin
// is path. Star re-exports are returned unresolved.
func descriptorsFromModule(path string, mod *parser.Module) fileScan {
	var result fileScan
	add := func(name string, kind symbols.BindingKind, as string) {
		result.descs = append(result.descs, symbols.Descriptor{
			Origin:       path,
			ExportedName: name,
			AsName:       as,
			Kind:         kind,
		})
	}

	for _, exp := range mod.Exports {
		switch exp.Kind {
		case parser.ExportDefault:
			name := exp.Name
			if name == "" || name == parser.PlaceholderName {
				name = DefaultExportName(path)
			}
			add(name, symbols.Default, "")
		case parser.ExportDeclaration:
			kind := symbols.Named
			if exp.Declaration == "interface" || exp.Declaration == "type" {
				kind = symbols.TypeOnly
			}
			add(exp.Name, kind, "")
		case parser.ExportNamed:
			for _, spec := range exp.Specifiers {
				kind := symbols.Named
				if spec.TypeOnly {
					kind = symbols.TypeOnly
				}
				add(spec.Exported, kind, "")
			}
		case parser.ExportNamespace:
			add(exp.Name, symbols.Namespace, exp.Name)
		case parser.ExportAll:
			result.stars = append(result.stars, exp.Source)
		}
	}
	return result
}

// ResolveStarTarget maps a relative star re-export specifier onto a file.
// A directory resolves to its first existing index file in StarExtensions
// order; anything else tries the exact path, then each extension appended.
func ResolveStarTarget(dir, spec string) (string, bool) {
	target := filepath.Join(dir, filepath.FromSlash(spec))
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		for _, ext := range StarExtensions {
			candidate := filepath.Join(target, "index"+ext)
			if isFile(candidate) {
				return filepath.ToSlash(candidate), true
			}
		}
		return "", false
	}
	if isFile(target) {
		return filepath.ToSlash(target), true
	}
	for _, ext := range StarExtensions {
		if isFile(target + ext) {
			return filepath.ToSlash(target + ext), true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".."
}
