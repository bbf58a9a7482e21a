// # internal/engine/parser/types.go
package parser

// Module is the ES-module surface of one source file: its import
// statements and its export forms, in source order.
type Module struct {
	Path     string
	Language string
	Imports  []Import
	Exports  []Export
}

// Import is one `import ... from '...'` statement.
type Import struct {
	Source     string
	Default    string // import X from
	Namespace  string // import * as X from
	Named      []ImportSpecifier
	TypeOnly   bool // import type { ... }
	SideEffect bool // import './x.css'
	StartByte  uint
	EndByte    uint
	Location   Location
}

type ImportSpecifier struct {
	Imported string
	Local    string
	TypeOnly bool
}

type ExportKind int

const (
	// ExportDeclaration is `export const|function|class|... X`.
	ExportDeclaration ExportKind = iota
	// ExportDefault is any `export default` form, and `export { x as default }`.
	ExportDefault
	// ExportNamed is an export clause, with or without a source.
	ExportNamed
	// ExportNamespace is `export * as X from '...'`.
	ExportNamespace
	// ExportAll is `export * from '...'`.
	ExportAll
)

// Export is one exported binding, or one star re-export.
type Export struct {
	Kind ExportKind
	// Name is the bound identifier for declarations and named defaults.
	// Empty for anonymous default exports.
	Name string
	// Declaration is the declaring keyword ("const", "async function",
	// "interface", ...). Empty for non-declaration exports.
	Declaration string
	Specifiers  []ExportSpecifier
	Source      string
	TypeOnly    bool
	Location    Location
}

// ExportSpecifier keeps the local binding and the exported alias apart.
type ExportSpecifier struct {
	Local    string
	Exported string
	TypeOnly bool
}

type Location struct {
	File   string
	Line   int
	Column int
}

// PlaceholderName names bindings the extractor cannot express as a single
// identifier, such as destructuring patterns.
const PlaceholderName = "Anonymous"
