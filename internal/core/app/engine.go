package app

import (
	"autoimport/internal/core/config"
	"autoimport/internal/core/errors"
	"autoimport/internal/core/watcher"
	"autoimport/internal/engine/dts"
	"autoimport/internal/engine/injector"
	"autoimport/internal/engine/packages"
	"autoimport/internal/engine/parser"
	"autoimport/internal/engine/presets"
	"autoimport/internal/engine/registry"
	"autoimport/internal/engine/scanner"
	"autoimport/internal/engine/symbols"
	"autoimport/internal/engine/walker"
	"autoimport/internal/shared/observability"
	"autoimport/internal/shared/util"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Engine owns one project's registry and every component feeding it.
// Recompute and Transform may be called from different goroutines.
type Engine struct {
	// Config is the engine's own copy with an absolute root.
	Config *config.Config

	parser   *parser.Parser
	scanner  *scanner.Scanner
	injector *injector.Injector
	emitter  *dts.Emitter
	registry *registry.Registry

	ignore     []glob.Glob
	filter     *transformFilter
	limiter    *util.Limiter
	importMode injector.ImportMode

	watchMu       sync.Mutex
	activeWatcher *watcher.Watcher
}

// New builds the engine for cfg and runs the first recompute, so a
// returned Engine always holds a populated snapshot.
func New(cfg *config.Config) (*Engine, error) {
	return NewContext(context.Background(), cfg)
}

// NewContext is New with a caller context for the first pass. cfg is copied;
// the caller's value is not modified.
func NewContext(ctx context.Context, cfg *config.Config) (*Engine, error) {
	own := *cfg
	cfg = &own
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = root

	mode, err := injector.ParseImportMode(cfg.ImportMode)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid import_mode")
	}

	p, err := parser.NewDefaultParser()
	if err != nil {
		return nil, err
	}
	sc, err := scanner.New(p, cfg.Caches.Files)
	if err != nil {
		return nil, err
	}
	ignore, err := compileGlobs(cfg.Ignore, "ignore")
	if err != nil {
		return nil, err
	}
	filter, err := newTransformFilter(root, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		Config:   cfg,
		parser:   p,
		scanner:  sc,
		injector: injector.New(p),
		emitter:  dts.NewEmitter(root, cfg.Dts.File()),
		registry: registry.New(),
		ignore:   ignore,
		filter:   filter,
		limiter:  util.NewLimiter(cfg.Watch.MinInterval, 1),

		importMode: mode,
	}
	if _, err := e.RecomputeContext(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Snapshot returns the registry state Transform currently injects against.
func (e *Engine) Snapshot() *registry.Snapshot {
	return e.registry.Snapshot()
}

// DeclarationFile is the absolute path of the emitted declaration file, or
// "" when emission is disabled.
func (e *Engine) DeclarationFile() string {
	return e.emitter.Path
}

func (e *Engine) Recompute() (registry.Delta, error) {
	return e.RecomputeContext(context.Background())
}

// RecomputeContext collects descriptors from every source, diffs them
// against the registry and, on change, rewrites the declaration file and
// installs the new snapshot. Any source error fails the whole pass and
// leaves the registry as it was.
func (e *Engine) RecomputeContext(ctx context.Context) (registry.Delta, error) {
	passID := uuid.NewString()
	ctx, span := observability.Tracer.Start(ctx, "engine.Recompute")
	defer span.End()
	span.SetAttributes(attribute.String("pass_id", passID))

	start := time.Now()
	delta, err := e.recompute(ctx)
	observability.RecomputeDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		observability.RecomputeTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("recompute failed", "pass", passID, "error", err)
		return delta, err
	case delta.Changed:
		observability.RecomputeTotal.WithLabelValues("changed").Inc()
		slog.Info("registry updated",
			"pass", passID,
			"version", delta.Version,
			"added", len(delta.Added),
			"removed", len(delta.Removed),
			"duration", time.Since(start),
		)
	default:
		observability.RecomputeTotal.WithLabelValues("unchanged").Inc()
		slog.Debug("registry unchanged", "pass", passID, "version", delta.Version)
	}
	span.SetAttributes(attribute.Bool("changed", delta.Changed), attribute.Int64("version", int64(delta.Version)))
	return delta, nil
}

func (e *Engine) recompute(ctx context.Context) (registry.Delta, error) {
	next, err := e.collect(ctx)
	if err != nil {
		return registry.Delta{Version: e.registry.Snapshot().Version()}, err
	}
	return e.registry.Update(next, func(registry.Delta) error {
		if _, err := e.emitter.Emit(next); err != nil {
			return errors.AddContext(err, errors.CtxOperation, "emit declarations")
		}
		return nil
	})
}

// collect gathers presets, then packages, then local files, dropping
// ignored local names.
func (e *Engine) collect(ctx context.Context) ([]symbols.Descriptor, error) {
	cfg := e.Config
	descs := presets.Resolve(cfg.Presets)

	for _, r := range cfg.Resolvers {
		found, err := packages.Resolve(cfg.Root, packages.Spec{
			Module: r.Module,
			Prefix: r.Prefix,
			Style:  r.Style.StyleImport,
			Target: cfg.TargetEnv,
		})
		if err != nil {
			return nil, err
		}
		descs = append(descs, found...)
	}

	if len(cfg.Dirs) > 0 {
		local, err := walker.Walk(ctx, cfg.Root, walker.Options{
			Dirs:             cfg.Dirs,
			RespectGitignore: cfg.RespectGitignore,
		}, e.scanner)
		if err != nil {
			return nil, err
		}
		descs = append(descs, local...)
	}

	if len(e.ignore) == 0 {
		return descs, nil
	}
	return symbols.Filter(descs, func(d symbols.Descriptor) bool {
		return !matchesAny(e.ignore, d.LocalName())
	}), nil
}

func matchesAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
