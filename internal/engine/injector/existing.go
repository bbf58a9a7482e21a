// # internal/engine/injector/existing.go
package injector

import "autoimport/internal/engine/parser"

// ExistingImports indexes the imports a file already declares by local
// binding name. It is rebuilt for every Inject call.
type ExistingImports struct {
	Named      map[string]string
	TypeNamed  map[string]string
	Defaults   map[string]bool
	Namespaces map[string]bool
}

func existingFromModule(mod *parser.Module) *ExistingImports {
	ex := &ExistingImports{
		Named:      map[string]string{},
		TypeNamed:  map[string]string{},
		Defaults:   map[string]bool{},
		Namespaces: map[string]bool{},
	}
	for _, imp := range mod.Imports {
		if imp.Default != "" {
			ex.Defaults[imp.Default] = true
		}
		if imp.Namespace != "" {
			ex.Namespaces[imp.Namespace] = true
		}
		for _, spec := range imp.Named {
			if spec.TypeOnly {
				ex.TypeNamed[spec.Local] = spec.Imported
				continue
			}
			ex.Named[spec.Local] = spec.Imported
		}
	}
	return ex
}

// Has reports whether local is already bound by any import in the file,
// regardless of origin.
func (ex *ExistingImports) Has(local string) bool {
	if _, ok := ex.Named[local]; ok {
		return true
	}
	if _, ok := ex.TypeNamed[local]; ok {
		return true
	}
	return ex.Defaults[local] || ex.Namespaces[local]
}
