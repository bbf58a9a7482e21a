// # cmd/autoimport/main.go
package main

import (
	"autoimport/internal/core/app"
	"autoimport/internal/core/config"
	"autoimport/internal/shared/observability"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

const VERSION = "0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	root       string
	once       bool
	inject     string
	verbose    bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flags := flag.NewFlagSet("autoimport", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.configPath, "config", "./"+config.DefaultFile, "Path to config file")
	flags.StringVar(&opts.root, "root", "", "Project root (overrides the config file)")
	flags.BoolVar(&opts.once, "once", false, "Recompute once and exit")
	flags.StringVar(&opts.inject, "inject", "", "Print the given file with missing imports injected and exit")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&opts.version, "version", false, "Print version and exit")
	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// run is main without the process exit, returning the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "autoimport v%s\n", VERSION)
		return 0
	}

	logLevel := slog.LevelInfo
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	// stdout is reserved for -inject output.
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg, fromFile, err := loadConfig(opts)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	engine, err := app.NewContext(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize engine", "error", err)
		return 1
	}
	defer engine.Close()

	if opts.inject != "" {
		return injectFile(engine, opts.inject, stdout)
	}

	snap := engine.Snapshot()
	slog.Info("registry ready", "root", cfg.Root, "symbols", snap.Len(), "version", snap.Version(), "dts", engine.DeclarationFile())
	if opts.once {
		return 0
	}

	holder := &engineHolder{current: engine}
	if addr := cfg.Observability.MetricsAddr; addr != "" {
		srv := NewObservabilityServer(addr, holder.status)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	if err := engine.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}

	if fromFile {
		cw := config.NewWatcher(opts.configPath, func(next *config.Config) {
			if opts.root != "" {
				next.Root = opts.root
			}
			holder.reload(ctx, next)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config watcher unavailable", "path", opts.configPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	<-ctx.Done()
	slog.Info("shutting down")
	holder.close()
	return 0
}

// loadConfig reads the config file. A missing file at the default location
// falls back to defaults rooted at -root or the working directory.
func loadConfig(opts options) (*config.Config, bool, error) {
	cfg, err := config.Load(opts.configPath)
	fromFile := err == nil
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || opts.configPath != "./"+config.DefaultFile {
			return nil, false, err
		}
		root := opts.root
		if root == "" {
			root = "."
		}
		cfg = config.Default(root)
	}
	if opts.root != "" {
		cfg.Root = opts.root
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, false, err
	}
	cfg.Root = abs
	return cfg, fromFile, nil
}

func injectFile(engine *app.Engine, path string, stdout io.Writer) int {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read file", "path", path, "error", err)
		return 1
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		slog.Error("failed to resolve file", "path", path, "error", err)
		return 1
	}
	out, _, err := engine.Transform(abs, string(content))
	if err != nil {
		slog.Error("transform failed", "path", path, "error", err)
		return 1
	}
	fmt.Fprint(stdout, out)
	return 0
}

// engineHolder swaps in a fresh engine when the config file changes. A
// config that fails to build leaves the running engine in place.
type engineHolder struct {
	mu      sync.Mutex
	current *app.Engine
}

func (h *engineHolder) reload(ctx context.Context, cfg *config.Config) {
	next, err := app.NewContext(ctx, cfg)
	if err != nil {
		slog.Error("config reload rejected", "error", err)
		return
	}
	if err := next.StartWatcher(ctx); err != nil {
		slog.Error("config reload rejected", "error", err)
		next.Close()
		return
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	h.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (h *engineHolder) status() healthStatus {
	h.mu.Lock()
	engine := h.current
	h.mu.Unlock()
	snap := engine.Snapshot()
	return healthStatus{Status: "up", Version: snap.Version(), Symbols: snap.Len()}
}

func (h *engineHolder) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		h.current.Close()
	}
}
