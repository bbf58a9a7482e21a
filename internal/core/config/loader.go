package config

import (
	"autoimport/internal/core/errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultFile        = "autoimport.toml"
	DefaultDebounce    = 300 * time.Millisecond
	DefaultMinInterval = 200 * time.Millisecond
	DefaultCacheFiles  = 4096
	DefaultImportMode  = ImportModeAbsolute
	DefaultTargetEnv   = TargetBrowser
)

// Accepted import_mode and target_env values.
const (
	ImportModeAbsolute = "absolute"
	ImportModeRelative = "relative"
	TargetBrowser      = "browser"
	TargetNode         = "node"
)

var DefaultExclude = []string{"**/node_modules/**"}

// Load reads a TOML config file. A relative root is resolved against the
// directory holding the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	cfg.Root = ResolveRelative(filepath.Dir(path), cfg.Root)

	ApplyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.AddContext(errors.Wrap(joinErrors(errs), errors.CodeValidationError, "invalid config"), errors.CtxPath, path)
	}
	return &cfg, nil
}

// Default is the configuration used when no file exists: scan nothing, emit
// the default declaration file under root.
func Default(root string) *Config {
	cfg := &Config{Root: root}
	ApplyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	if !cfg.Dts.set {
		cfg.Dts = Dts{Enabled: true, set: true}
	}
	if cfg.Dts.Enabled && strings.TrimSpace(cfg.Dts.Path) == "" {
		cfg.Dts.Path = DefaultDtsFile
	}
	if cfg.Exclude == nil {
		cfg.Exclude = append([]string(nil), DefaultExclude...)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Watch.MinInterval == 0 {
		cfg.Watch.MinInterval = DefaultMinInterval
	}
	cfg.ImportMode = strings.ToLower(strings.TrimSpace(cfg.ImportMode))
	if cfg.ImportMode == "" {
		cfg.ImportMode = DefaultImportMode
	}
	cfg.TargetEnv = strings.ToLower(strings.TrimSpace(cfg.TargetEnv))
	if cfg.TargetEnv == "" {
		cfg.TargetEnv = DefaultTargetEnv
	}
	if cfg.Caches.Files <= 0 {
		cfg.Caches.Files = DefaultCacheFiles
	}
	for i := range cfg.Dirs {
		cfg.Dirs[i] = filepath.ToSlash(strings.TrimSpace(cfg.Dirs[i]))
	}
}

// ResolveRelative joins value onto base unless value is already absolute.
func ResolveRelative(base, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Clean(filepath.Join(base, value))
}
