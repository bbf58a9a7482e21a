// # internal/engine/registry/registry.go
package registry

import (
	"autoimport/internal/engine/symbols"
	"autoimport/internal/shared/observability"
	"fmt"
	"log/slog"
	"sync"
)

// Snapshot is an immutable, versioned view of every known descriptor.
// Preset and package entries come first, then local scan entries.
type Snapshot struct {
	version uint64
	descs   []symbols.Descriptor
	byLocal map[string][]int
}

func newSnapshot(version uint64, descs []symbols.Descriptor) *Snapshot {
	s := &Snapshot{
		version: version,
		descs:   append([]symbols.Descriptor(nil), descs...),
		byLocal: make(map[string][]int, len(descs)),
	}
	for i, d := range s.descs {
		s.byLocal[d.LocalName()] = append(s.byLocal[d.LocalName()], i)
	}
	return s
}

func (s *Snapshot) Version() uint64 { return s.version }

func (s *Snapshot) Len() int { return len(s.descs) }

// Descriptors returns a copy of the snapshot contents in registry order.
func (s *Snapshot) Descriptors() []symbols.Descriptor {
	return append([]symbols.Descriptor(nil), s.descs...)
}

// Has reports whether any descriptor binds local.
func (s *Snapshot) Has(local string) bool {
	return len(s.byLocal[local]) > 0
}

// Registry holds the current snapshot. Readers never block on a recompute
// pass; the lock is held only for the pointer swap itself.
type Registry struct {
	mu      sync.RWMutex
	current *Snapshot

	// pass serializes Update and Replace so there is exactly one writer.
	pass sync.Mutex
}

// testHookSwap runs inside the swap critical section.
var testHookSwap func()

func New() *Registry {
	return &Registry{current: newSnapshot(0, nil)}
}

// Snapshot returns the current snapshot. It is never nil.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Replace installs descs as the next snapshot version. If the swap panics
// the last-known-good snapshot stays current and is returned. Replace waits
// for any in-flight Update to finish.
func (r *Registry) Replace(descs []symbols.Descriptor) *Snapshot {
	r.pass.Lock()
	defer r.pass.Unlock()
	return r.swap(newSnapshot(0, descs))
}

func (r *Registry) swap(next *Snapshot) (installed *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("registry swap failed, keeping last snapshot", "version", r.current.version, "panic", fmt.Sprint(rec))
			installed = r.current
		}
	}()

	if testHookSwap != nil {
		testHookSwap()
	}
	next.version = r.current.version + 1
	r.current = next
	observability.RegistrySize.Set(float64(next.Len()))
	return next
}

// Update runs one diff pass: next is compared with the current snapshot and,
// when it differs, onChange runs before the snapshot is replaced. An
// onChange error leaves the registry untouched so the next pass retries.
func (r *Registry) Update(next []symbols.Descriptor, onChange func(Delta) error) (Delta, error) {
	r.pass.Lock()
	defer r.pass.Unlock()

	prev := r.Snapshot()
	delta := Diff(prev.descs, next)
	delta.Version = prev.version
	if !delta.Changed {
		return delta, nil
	}

	if onChange != nil {
		if err := onChange(delta); err != nil {
			return Delta{Version: prev.version}, err
		}
	}
	installed := r.swap(newSnapshot(0, next))
	delta.Version = installed.version
	return delta, nil
}
