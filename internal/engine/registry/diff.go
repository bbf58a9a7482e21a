// # internal/engine/registry/diff.go
package registry

import "autoimport/internal/engine/symbols"

// Delta reports what a recompute pass changed.
type Delta struct {
	Changed bool
	Added   []symbols.Descriptor
	Removed []symbols.Descriptor
	// Version is the snapshot version current after the pass.
	Version uint64
}

// Diff compares two descriptor multisets under structural equality. A
// cardinality mismatch is a change on its own; otherwise every member must
// be matched in both directions.
func Diff(prev, next []symbols.Descriptor) Delta {
	delta := Delta{Changed: len(prev) != len(next)}

	counts := make(map[symbols.Descriptor]int, len(prev))
	for _, d := range prev {
		counts[d]++
	}
	for _, d := range next {
		if counts[d] > 0 {
			counts[d]--
			continue
		}
		delta.Added = append(delta.Added, d)
	}

	for _, d := range prev {
		if counts[d] > 0 {
			counts[d]--
			delta.Removed = append(delta.Removed, d)
		}
	}

	if len(delta.Added) > 0 || len(delta.Removed) > 0 {
		delta.Changed = true
	}
	return delta
}
