package config

import (
	"autoimport/internal/engine/dts"
	"autoimport/internal/engine/presets"
	"autoimport/internal/engine/symbols"
	"fmt"
	"sort"
	"strings"
	"time"
)

type Config struct {
	Root             string        `toml:"root"`
	Dirs             []string      `toml:"dirs"`
	Presets          PresetList    `toml:"presets"`
	Ignore           []string      `toml:"ignore"`
	Dts              Dts           `toml:"dts"`
	Include          []string      `toml:"include"`
	Exclude          []string      `toml:"exclude"`
	RespectGitignore bool          `toml:"respect_gitignore"`
	ExistingPriority int           `toml:"existing_priority"`
	ImportMode       string        `toml:"import_mode"`
	TargetEnv        string        `toml:"target_env"`
	Resolvers        []Resolver    `toml:"resolvers"`
	Watch            Watch         `toml:"watch"`
	Caches           Caches        `toml:"caches"`
	Observability    Observability `toml:"observability"`
}

type Resolver struct {
	Module string `toml:"module"`
	Prefix string `toml:"prefix"`
	Style  Style  `toml:"style"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MinInterval throttles rebuilds triggered by bursts of file events.
	MinInterval time.Duration `toml:"min_interval"`
}

type Caches struct {
	Files int `toml:"files"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// PresetList decodes the mixed `presets` array: bare strings name a built-in
// bundle, `{ from, imports }` tables name one origin, any other table maps
// origins to item lists.
type PresetList []presets.Spec

func (l *PresetList) UnmarshalTOML(data any) error {
	raw, ok := data.([]any)
	if !ok {
		return fmt.Errorf("presets must be an array, got %T", data)
	}
	out := make(PresetList, 0, len(raw))
	for i, entry := range raw {
		spec, err := decodePreset(entry)
		if err != nil {
			return fmt.Errorf("presets[%d]: %w", i, err)
		}
		out = append(out, spec)
	}
	*l = out
	return nil
}

func decodePreset(entry any) (presets.Spec, error) {
	switch v := entry.(type) {
	case string:
		return presets.Named{ID: v}, nil
	case map[string]any:
		if from, ok := v["from"]; ok {
			return decodeExplicit(from, v["imports"])
		}
		custom := make(presets.CustomMap, len(v))
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, origin := range keys {
			items, ok := v[origin].([]any)
			if !ok {
				return nil, fmt.Errorf("%q must be an array of names", origin)
			}
			for j, item := range items {
				decoded, err := decodeItem(item)
				if err != nil {
					return nil, fmt.Errorf("%q[%d]: %w", origin, j, err)
				}
				custom[origin] = append(custom[origin], decoded)
			}
		}
		return custom, nil
	default:
		return nil, fmt.Errorf("expected a preset name or table, got %T", entry)
	}
}

func decodeExplicit(from, imports any) (presets.Spec, error) {
	origin, ok := from.(string)
	if !ok {
		return nil, fmt.Errorf("from must be a string, got %T", from)
	}
	list, ok := imports.([]any)
	if !ok {
		return nil, fmt.Errorf("imports must be an array of names")
	}
	spec := presets.ExplicitOrigin{From: origin}
	for j, name := range list {
		s, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("imports[%d] must be a string, got %T", j, name)
		}
		spec.Imports = append(spec.Imports, s)
	}
	return spec, nil
}

// decodeItem accepts "name" or ["name", "alias"].
func decodeItem(item any) (presets.Item, error) {
	switch v := item.(type) {
	case string:
		return presets.Item{Name: v}, nil
	case []any:
		if len(v) != 2 {
			return presets.Item{}, fmt.Errorf("alias pair must have two entries, got %d", len(v))
		}
		name, ok1 := v[0].(string)
		alias, ok2 := v[1].(string)
		if !ok1 || !ok2 {
			return presets.Item{}, fmt.Errorf("alias pair must hold two strings")
		}
		return presets.Item{Name: name, Alias: alias}, nil
	default:
		return presets.Item{}, fmt.Errorf("expected a name or [name, alias], got %T", item)
	}
}

// Dts is the declaration file setting. It decodes from a bool, a path string
// or a table with `enabled` and `path` keys.
type Dts struct {
	Enabled bool
	Path    string
	set     bool
}

const DefaultDtsFile = dts.DefaultFile

func (d *Dts) UnmarshalTOML(data any) error {
	d.set = true
	switch v := data.(type) {
	case bool:
		d.Enabled = v
	case string:
		d.Enabled = strings.TrimSpace(v) != ""
		d.Path = v
	case map[string]any:
		d.Enabled = true
		if raw, ok := v["enabled"]; ok {
			b, ok := raw.(bool)
			if !ok {
				return fmt.Errorf("dts.enabled must be a bool, got %T", raw)
			}
			d.Enabled = b
		}
		if raw, ok := v["path"]; ok {
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("dts.path must be a string, got %T", raw)
			}
			d.Path = s
		}
	default:
		return fmt.Errorf("dts must be a bool, a path or a table, got %T", data)
	}
	return nil
}

// File is the declaration file path, or "" when emission is disabled.
func (d Dts) File() string {
	if !d.Enabled {
		return ""
	}
	return d.Path
}

// Style decodes the resolver style policy: true means the sibling stylesheet,
// false or "none" disables it, "sibling" is explicit, anything else is a
// path pattern.
type Style struct {
	symbols.StyleImport
}

func (s *Style) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case bool:
		if v {
			s.Mode = symbols.StyleSibling
		} else {
			s.Mode = symbols.StyleNone
		}
		s.Pattern = ""
	case string:
		s.StyleImport = ParseStyle(v)
	default:
		return fmt.Errorf("style must be a bool or a string, got %T", data)
	}
	return nil
}

func ParseStyle(raw string) symbols.StyleImport {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "none", "false":
		return symbols.StyleImport{Mode: symbols.StyleNone}
	case "sibling", "true":
		return symbols.StyleImport{Mode: symbols.StyleSibling}
	default:
		return symbols.StyleImport{Mode: symbols.StylePattern, Pattern: raw}
	}
}
