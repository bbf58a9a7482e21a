// # internal/engine/presets/presets.go
package presets

import (
	"autoimport/internal/engine/symbols"
	"autoimport/internal/shared/util"
	"log/slog"
)

// Spec is one configured preset entry: Named, CustomMap or ExplicitOrigin.
type Spec interface {
	isPreset()
}

// Named selects a built-in bundle by id.
type Named struct {
	ID string
}

// Item is one custom preset entry. A non-empty Alias means "import Name,
// expose it as Alias".
type Item struct {
	Name  string
	Alias string
}

// CustomMap maps origins to the items imported from them.
type CustomMap map[string][]Item

// ExplicitOrigin lists plain names imported from one origin.
type ExplicitOrigin struct {
	From    string
	Imports []string
}

func (Named) isPreset()          {}
func (CustomMap) isPreset()      {}
func (ExplicitOrigin) isPreset() {}

// Resolve expands preset specs into descriptors, all at priority 0. Unknown
// built-in ids are logged and skipped.
func Resolve(specs []Spec) []symbols.Descriptor {
	var out []symbols.Descriptor
	for _, spec := range specs {
		switch s := spec.(type) {
		case Named:
			from, imports, ok := Builtin(s.ID)
			if !ok {
				slog.Warn("unknown preset", "preset", s.ID)
				continue
			}
			for _, name := range imports {
				out = append(out, named(from, name))
			}
		case CustomMap:
			for _, from := range util.SortedStringKeys(s) {
				for _, item := range s[from] {
					out = append(out, fromItem(from, item))
				}
			}
		case ExplicitOrigin:
			for _, name := range s.Imports {
				out = append(out, named(s.From, name))
			}
		}
	}
	return out
}

func named(from, name string) symbols.Descriptor {
	return symbols.Descriptor{Origin: from, ExportedName: name, Kind: symbols.Named}
}

func fromItem(from string, item Item) symbols.Descriptor {
	if item.Alias == "" {
		return named(from, item.Name)
	}
	return symbols.Descriptor{
		Origin:       from,
		ExportedName: item.Name,
		AsName:       item.Alias,
		Kind:         symbols.Namespace,
	}
}
