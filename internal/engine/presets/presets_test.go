// # internal/engine/presets/presets_test.go
package presets

import (
	"autoimport/internal/engine/symbols"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve_React(t *testing.T) {
	got := Resolve([]Spec{Named{ID: "react"}})
	var names []string
	for _, d := range got {
		if d.Origin != "react" || d.Kind != symbols.Named || d.Priority != 0 {
			t.Errorf("unexpected react descriptor: %v", d)
		}
		names = append(names, d.ExportedName)
	}
	want := []string{"useState", "useCallback", "useMemo", "useEffect", "useRef", "useContext", "useReducer"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("react preset mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_AllBuiltinsKnown(t *testing.T) {
	for _, id := range []string{"react", "react-router", "react-router-dom", "vue", "vue-router", "pinia"} {
		if got := Resolve([]Spec{Named{ID: id}}); len(got) == 0 {
			t.Errorf("expected built-in preset %q to resolve", id)
		}
	}
}

func TestResolve_UnknownSkipped(t *testing.T) {
	got := Resolve([]Spec{Named{ID: "svelte"}, ExplicitOrigin{From: "lodash-es", Imports: []string{"debounce"}}})
	want := []symbols.Descriptor{{Origin: "lodash-es", ExportedName: "debounce", Kind: symbols.Named}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_CustomMap(t *testing.T) {
	got := Resolve([]Spec{CustomMap{
		"@vueuse/core": {{Name: "useMouse"}, {Name: "useFetch", Alias: "useMyFetch"}},
		"axios":        {{Name: "default", Alias: "axios"}},
	}})
	want := []symbols.Descriptor{
		{Origin: "@vueuse/core", ExportedName: "useMouse", Kind: symbols.Named},
		{Origin: "@vueuse/core", ExportedName: "useFetch", AsName: "useMyFetch", Kind: symbols.Namespace},
		{Origin: "axios", ExportedName: "default", AsName: "axios", Kind: symbols.Namespace},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinReturnsCopy(t *testing.T) {
	_, imports, ok := Builtin("pinia")
	if !ok {
		t.Fatal("expected pinia preset")
	}
	imports[0] = "mutated"
	_, again, _ := Builtin("pinia")
	if again[0] == "mutated" {
		t.Fatal("Builtin must not expose the shared table")
	}
}
