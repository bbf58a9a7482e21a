// # internal/engine/scanner/naming.go
package scanner

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultExportName derives the binding name for an anonymous default export
// from its file name: "button-group.tsx" becomes "ButtonGroup".
func DefaultExportName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return PascalCase(base)
}

// PascalCase splits on '-' and '_' and capitalizes every segment.
func PascalCase(name string) string {
	var b strings.Builder
	for _, segment := range strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' }) {
		r, size := utf8.DecodeRuneInString(segment)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(segment[size:])
	}
	return b.String()
}
