// # internal/engine/registry/registry_test.go
package registry

import (
	"autoimport/internal/engine/symbols"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func desc(origin, name string) symbols.Descriptor {
	return symbols.Descriptor{Origin: origin, ExportedName: name, Kind: symbols.Named}
}

func TestDiff(t *testing.T) {
	a := desc("react", "useState")
	b := desc("react", "useEffect")
	aliased := a
	aliased.AsName = "useS"
	bumped := a
	bumped.Priority = 1

	cases := []struct {
		name    string
		prev    []symbols.Descriptor
		next    []symbols.Descriptor
		changed bool
	}{
		{name: "BothEmpty", changed: false},
		{name: "Equal", prev: []symbols.Descriptor{a, b}, next: []symbols.Descriptor{a, b}, changed: false},
		{name: "Reordered", prev: []symbols.Descriptor{a, b}, next: []symbols.Descriptor{b, a}, changed: false},
		{name: "Added", prev: []symbols.Descriptor{a}, next: []symbols.Descriptor{a, b}, changed: true},
		{name: "Removed", prev: []symbols.Descriptor{a, b}, next: []symbols.Descriptor{a}, changed: true},
		{name: "AliasChanged", prev: []symbols.Descriptor{a, b}, next: []symbols.Descriptor{aliased, b}, changed: true},
		{name: "PriorityChanged", prev: []symbols.Descriptor{a}, next: []symbols.Descriptor{bumped}, changed: true},
		{name: "DuplicateVsDistinct", prev: []symbols.Descriptor{a, a}, next: []symbols.Descriptor{a, b}, changed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Diff(tc.prev, tc.next); got.Changed != tc.changed {
				t.Fatalf("Diff changed = %v, want %v (delta %+v)", got.Changed, tc.changed, got)
			}
		})
	}
}

func TestDiff_AddedRemoved(t *testing.T) {
	a, b, c := desc("x", "A"), desc("x", "B"), desc("x", "C")
	got := Diff([]symbols.Descriptor{a, b}, []symbols.Descriptor{b, c})
	if diff := cmp.Diff([]symbols.Descriptor{c}, got.Added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]symbols.Descriptor{a}, got.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
}

// Changed must equal multiset inequality for arbitrary inputs.
func TestDiff_MatchesMultisetEquality(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []symbols.Descriptor{desc("a", "X"), desc("a", "Y"), desc("b", "X"), {Origin: "a", ExportedName: "X", Kind: symbols.Default}}
	pick := func() []symbols.Descriptor {
		n := rng.Intn(5)
		out := make([]symbols.Descriptor, n)
		for i := range out {
			out[i] = pool[rng.Intn(len(pool))]
		}
		return out
	}
	equal := func(x, y []symbols.Descriptor) bool {
		counts := map[symbols.Descriptor]int{}
		for _, d := range x {
			counts[d]++
		}
		for _, d := range y {
			counts[d]--
		}
		for _, n := range counts {
			if n != 0 {
				return false
			}
		}
		return true
	}
	for i := 0; i < 500; i++ {
		x, y := pick(), pick()
		if got := Diff(x, y).Changed; got != !equal(x, y) {
			t.Fatalf("Diff(%v, %v).Changed = %v", x, y, got)
		}
	}
}

func TestRegistry_UpdateIsIdempotent(t *testing.T) {
	r := New()
	if r.Snapshot().Version() != 0 || r.Snapshot().Len() != 0 {
		t.Fatalf("expected empty version 0 snapshot")
	}

	descs := []symbols.Descriptor{desc("react", "useState"), desc("./a.ts", "useState")}
	calls := 0
	onChange := func(Delta) error { calls++; return nil }

	first, err := r.Update(descs, onChange)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Changed || first.Version != 1 || calls != 1 {
		t.Fatalf("unexpected first delta %+v (calls %d)", first, calls)
	}

	second, err := r.Update(descs, onChange)
	if err != nil {
		t.Fatal(err)
	}
	if second.Changed || second.Version != 1 || calls != 1 {
		t.Fatalf("expected no-op second pass, got %+v (calls %d)", second, calls)
	}

	got := symbols.Filter(r.Snapshot().Descriptors(), func(d symbols.Descriptor) bool { return d.LocalName() == "useState" })
	if len(got) != 2 || got[0].Origin != "react" {
		t.Errorf("expected same-name entries to coexist in registry order, got %v", got)
	}
}

func TestRegistry_OnChangeErrorKeepsSnapshot(t *testing.T) {
	r := New()
	_, err := r.Update([]symbols.Descriptor{desc("a", "A")}, func(Delta) error { return errors.New("disk full") })
	if err == nil {
		t.Fatal("expected error")
	}
	if r.Snapshot().Version() != 0 {
		t.Fatalf("expected registry to keep version 0")
	}
}

func TestRegistry_SwapPanicRecovers(t *testing.T) {
	r := New()
	good := r.Replace([]symbols.Descriptor{desc("a", "A")})

	testHookSwap = func() { panic("simulated failure") }
	got := r.Replace([]symbols.Descriptor{desc("b", "B")})
	testHookSwap = nil

	if got != good || r.Snapshot() != good {
		t.Fatalf("expected last-known-good snapshot after panic")
	}

	next := r.Replace([]symbols.Descriptor{desc("c", "C")})
	if next.Version() != good.Version()+1 || !r.Snapshot().Has("C") {
		t.Fatalf("expected registry to keep working after recovery")
	}
}

func TestRegistry_ReplaceWaitsForUpdate(t *testing.T) {
	r := New()
	replaced := make(chan *Snapshot, 1)

	delta, err := r.Update([]symbols.Descriptor{desc("a", "A")}, func(Delta) error {
		go func() { replaced <- r.Replace([]symbols.Descriptor{desc("b", "B")}) }()
		select {
		case <-replaced:
			t.Error("Replace completed while an Update pass was in flight")
		case <-time.After(50 * time.Millisecond):
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if delta.Version != 1 {
		t.Fatalf("expected the update to install version 1, got %d", delta.Version)
	}

	select {
	case snap := <-replaced:
		if snap.Version() != 2 || !snap.Has("B") {
			t.Errorf("expected Replace to install version 2 after the update, got %d", snap.Version())
		}
	case <-time.After(time.Second):
		t.Fatal("Replace never completed after the update released the registry")
	}
	if got := r.Snapshot(); got.Version() != 2 || got.Has("A") {
		t.Errorf("expected the replaced snapshot to be current, got version %d", got.Version())
	}
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := r.Snapshot()
				// A snapshot is whole: every entry of version v is named v.
				for _, d := range snap.Descriptors() {
					if d.Origin != fmt.Sprint(snap.Version()) {
						t.Errorf("torn snapshot: version %d holds %v", snap.Version(), d)
						return
					}
				}
			}
		}()
	}

	for v := 1; v <= 200; v++ {
		origin := fmt.Sprint(v)
		if _, err := r.Update([]symbols.Descriptor{desc(origin, "A"), desc(origin, "B")}, nil); err != nil {
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()
}
