// Package symbols defines the descriptor model shared by every scanner,
// resolver and emitter in the engine.
package symbols

import (
	"fmt"
	"sort"
)

// BindingKind is the import/export shape of a descriptor.
type BindingKind int

const (
	Named BindingKind = iota
	Default
	Namespace
	TypeOnly
)

func (k BindingKind) String() string {
	switch k {
	case Default:
		return "default"
	case Namespace:
		return "namespace"
	case TypeOnly:
		return "type"
	default:
		return "named"
	}
}

// StyleMode selects the side-effect stylesheet import injected next to a
// package component.
type StyleMode int

const (
	StyleNone StyleMode = iota
	StyleSibling
	StylePattern
)

// StyleImport is the style-import policy attached to package descriptors.
// Pattern is only meaningful for StylePattern; "{name}" is replaced with the
// component's exported name. Dir is the package build directory holding the
// component stylesheets, "es" when empty.
type StyleImport struct {
	Mode    StyleMode
	Pattern string
	Dir     string
}

// Descriptor identifies one importable name. It is comparable, so == is the
// structural equality the diff engine relies on.
type Descriptor struct {
	Origin       string
	ExportedName string
	AsName       string
	Kind         BindingKind
	Priority     int
	Style        StyleImport
}

// Key is the identity of a descriptor inside a registry.
type Key struct {
	Origin       string
	ExportedName string
}

func (d Descriptor) Key() Key {
	return Key{Origin: d.Origin, ExportedName: d.ExportedName}
}

// LocalName is the binding a consuming file refers to.
func (d Descriptor) LocalName() string {
	if d.AsName != "" {
		return d.AsName
	}
	return d.ExportedName
}

func (d Descriptor) String() string {
	if d.AsName != "" && d.AsName != d.ExportedName {
		return fmt.Sprintf("%s as %s <%s> from %q", d.ExportedName, d.AsName, d.Kind, d.Origin)
	}
	return fmt.Sprintf("%s <%s> from %q", d.ExportedName, d.Kind, d.Origin)
}

// Sort orders descriptors by local name, then origin, then exported name.
// Used wherever output must be stable across runs.
func Sort(descs []Descriptor) {
	sort.SliceStable(descs, func(i, j int) bool {
		a, b := descs[i], descs[j]
		if a.LocalName() != b.LocalName() {
			return a.LocalName() < b.LocalName()
		}
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		if a.ExportedName != b.ExportedName {
			return a.ExportedName < b.ExportedName
		}
		return a.Kind < b.Kind
	})
}

// Filter returns the descriptors for which keep reports true.
func Filter(descs []Descriptor, keep func(Descriptor) bool) []Descriptor {
	out := make([]Descriptor, 0, len(descs))
	for _, d := range descs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
