// # internal/engine/injector/injector.go
package injector

import (
	"autoimport/internal/engine/parser"
	"autoimport/internal/engine/registry"
	"autoimport/internal/engine/symbols"
	"autoimport/internal/shared/observability"
	"autoimport/internal/shared/util"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ReasonExistingImport is the notice reason for an equal-priority duplicate.
const ReasonExistingImport = "existing import wins"

// Notice is an informational diagnostic about a candidate that was not
// injected.
type Notice struct {
	Name   string
	Origin string
	Reason string
}

type Result struct {
	Content  string
	Injected []symbols.Descriptor
	Skipped  []Notice
}

// Changed reports whether any import was injected.
func (r Result) Changed() bool {
	return len(r.Injected) > 0
}

// ImportMode controls how local file origins are written into injected
// import statements.
type ImportMode int

const (
	// ImportAbsolute keeps the scanned absolute path.
	ImportAbsolute ImportMode = iota
	// ImportRelative rewrites the path relative to the importing file.
	ImportRelative
)

// ParseImportMode accepts "absolute" (or "") and "relative".
func ParseImportMode(raw string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "absolute":
		return ImportAbsolute, nil
	case "relative":
		return ImportRelative, nil
	}
	return ImportAbsolute, fmt.Errorf("unknown import mode %q", raw)
}

type options struct {
	existingPriority int
	importMode       ImportMode
}

type Option func(*options)

// WithExistingPriority sets the priority assigned to imports the author
// already wrote. Defaults to 0.
func WithExistingPriority(p int) Option {
	return func(o *options) { o.existingPriority = p }
}

func WithImportMode(m ImportMode) Option {
	return func(o *options) { o.importMode = m }
}

// Injector prepends import statements for registry symbols a file uses but
// does not import. Inject depends only on its arguments.
type Injector struct {
	parser *parser.Parser
}

func New(p *parser.Parser) *Injector {
	return &Injector{parser: p}
}

// Inject rewrites content against one registry snapshot. Syntax errors in
// content are tolerated.
func (inj *Injector) Inject(fileID, content string, snap *registry.Snapshot, opts ...Option) (Result, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if IsVueID(fileID) {
		content = RewriteVueTemplate(content, snap)
	}

	mod, usage, err := inj.parser.Analyze(fileID, []byte(content))
	if err != nil {
		return Result{}, err
	}
	existing := existingFromModule(mod)

	res := Result{Content: content}
	var b strings.Builder
	claimed := map[string]bool{}
	for _, d := range snap.Descriptors() {
		local := d.LocalName()
		if claimed[local] || !usage.Eligible(local) {
			continue
		}
		claimed[local] = true

		if existing.Has(local) && d.Priority-cfg.existingPriority == 0 {
			res.Skipped = append(res.Skipped, Notice{Name: local, Origin: d.Origin, Reason: ReasonExistingImport})
			continue
		}
		b.WriteString(Statement(localize(d, fileID, cfg.importMode)))
		res.Injected = append(res.Injected, d)
	}

	observability.ImportsInjectedTotal.Add(float64(len(res.Injected)))
	observability.DuplicateSkipsTotal.Add(float64(len(res.Skipped)))
	if b.Len() > 0 {
		res.Content = b.String() + content
	}
	return res, nil
}

// localize rewrites an absolute local origin relative to the importing file.
// Package origins and virtual file ids are left alone.
func localize(d symbols.Descriptor, fileID string, mode ImportMode) symbols.Descriptor {
	if mode != ImportRelative || !util.IsFileSpecifier(d.Origin) {
		return d
	}
	file := filepath.ToSlash(stripQuery(fileID))
	if !filepath.IsAbs(filepath.FromSlash(file)) || !filepath.IsAbs(filepath.FromSlash(d.Origin)) {
		return d
	}
	if rel, ok := util.RelativeSpecifier(path.Dir(file), d.Origin); ok {
		d.Origin = rel
	}
	return d
}
