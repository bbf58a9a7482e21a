// # internal/engine/injector/render.go
package injector

import (
	"autoimport/internal/engine/packages"
	"autoimport/internal/engine/symbols"
	"fmt"
	"strings"
)

// Statement renders the import statement for one descriptor, followed by
// its style side-effect import when the descriptor carries a style policy.
func Statement(d symbols.Descriptor) string {
	origin := quote(d.Origin)
	var stmt string
	switch d.Kind {
	case symbols.Default:
		stmt = fmt.Sprintf("import %s from %s;\n", d.LocalName(), origin)
	case symbols.TypeOnly:
		stmt = fmt.Sprintf("import { type %s } from %s;\n", d.ExportedName, origin)
	case symbols.Namespace:
		if d.AsName != "" && d.AsName != d.ExportedName {
			stmt = fmt.Sprintf("import { %s as %s } from %s;\n", d.ExportedName, d.AsName, origin)
		} else {
			stmt = fmt.Sprintf("import { %s } from %s;\n", d.ExportedName, origin)
		}
	default:
		stmt = fmt.Sprintf("import { %s } from %s;\n", d.ExportedName, origin)
	}

	if style := packages.StyleImportPath(d.Origin, d.ExportedName, d.Style); style != "" {
		stmt += fmt.Sprintf("import %s;\n", quote(style))
	}
	return stmt
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
