package config

import (
	"autoimport/internal/engine/presets"
	"autoimport/internal/engine/symbols"
	stderrors "errors"
	"fmt"
	"net"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// Validate reports every problem in cfg rather than stopping at the first.
func Validate(cfg *Config) []error {
	var errs []error
	errs = append(errs, validateDirs(cfg)...)
	errs = append(errs, validateGlobs("ignore", cfg.Ignore)...)
	errs = append(errs, validateGlobs("include", cfg.Include)...)
	errs = append(errs, validateGlobs("exclude", cfg.Exclude)...)
	errs = append(errs, validateModes(cfg)...)
	errs = append(errs, validatePresets(cfg)...)
	errs = append(errs, validateResolvers(cfg)...)
	errs = append(errs, validateWatch(cfg)...)
	errs = append(errs, validateObservability(cfg)...)
	return errs
}

func validateDirs(cfg *Config) []error {
	var errs []error
	for i, dir := range cfg.Dirs {
		if dir == "" {
			errs = append(errs, fmt.Errorf("dirs[%d] must not be empty", i))
			continue
		}
		if !doublestar.ValidatePattern(dir) {
			errs = append(errs, fmt.Errorf("dirs[%d] %q is not a valid pattern", i, dir))
		}
	}
	return errs
}

func validateGlobs(field string, patterns []string) []error {
	var errs []error
	for i, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			errs = append(errs, fmt.Errorf("%s[%d] must not be empty", field, i))
			continue
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d] %q is not a valid glob: %v", field, i, pattern, err))
		}
	}
	return errs
}

func validateModes(cfg *Config) []error {
	var errs []error
	switch cfg.ImportMode {
	case ImportModeAbsolute, ImportModeRelative:
	default:
		errs = append(errs, fmt.Errorf("import_mode must be %q or %q, got %q", ImportModeAbsolute, ImportModeRelative, cfg.ImportMode))
	}
	switch cfg.TargetEnv {
	case TargetBrowser, TargetNode:
	default:
		errs = append(errs, fmt.Errorf("target_env must be %q or %q, got %q", TargetBrowser, TargetNode, cfg.TargetEnv))
	}
	return errs
}

func validatePresets(cfg *Config) []error {
	var errs []error
	for i, spec := range cfg.Presets {
		switch s := spec.(type) {
		case presets.Named:
			if strings.TrimSpace(s.ID) == "" {
				errs = append(errs, fmt.Errorf("presets[%d] must not be an empty name", i))
			}
		case presets.ExplicitOrigin:
			if strings.TrimSpace(s.From) == "" {
				errs = append(errs, fmt.Errorf("presets[%d].from must not be empty", i))
			}
		case presets.CustomMap:
			for origin, items := range s {
				if strings.TrimSpace(origin) == "" {
					errs = append(errs, fmt.Errorf("presets[%d] has an empty origin", i))
				}
				for _, item := range items {
					if item.Name == "" {
						errs = append(errs, fmt.Errorf("presets[%d] %q has an empty name", i, origin))
					}
				}
			}
		}
	}
	return errs
}

func validateResolvers(cfg *Config) []error {
	var errs []error
	seen := make(map[string]bool, len(cfg.Resolvers))
	for i, r := range cfg.Resolvers {
		ref := fmt.Sprintf("resolvers[%d]", i)
		module := strings.TrimSpace(r.Module)
		if module == "" {
			errs = append(errs, fmt.Errorf("%s.module must not be empty", ref))
			continue
		}
		if seen[module] {
			errs = append(errs, fmt.Errorf("duplicate resolver module %q", module))
		}
		seen[module] = true
		if r.Style.Mode == symbols.StylePattern && strings.TrimSpace(r.Style.Pattern) == "" {
			errs = append(errs, fmt.Errorf("%s.style pattern must not be empty", ref))
		}
	}
	return errs
}

func validateWatch(cfg *Config) []error {
	var errs []error
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %v", cfg.Watch.Debounce))
	}
	if cfg.Watch.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("watch.min_interval must not be negative, got %v", cfg.Watch.MinInterval))
	}
	return errs
}

func validateObservability(cfg *Config) []error {
	addr := strings.TrimSpace(cfg.Observability.MetricsAddr)
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return []error{fmt.Errorf("observability.metrics_addr %q is not host:port: %v", addr, err)}
	}
	return nil
}

func joinErrors(errs []error) error {
	return stderrors.Join(errs...)
}
