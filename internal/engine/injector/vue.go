// # internal/engine/injector/vue.go
package injector

import (
	"autoimport/internal/engine/registry"
	"regexp"
	"strings"
)

var vueContextRef = regexp.MustCompile(`\b_ctx\.([$\w]+)\b`)

// IsVueID reports whether a module id is a Vue single-file component.
func IsVueID(fileID string) bool {
	return strings.HasSuffix(stripQuery(fileID), ".vue")
}

func stripQuery(fileID string) string {
	if i := strings.IndexByte(fileID, '?'); i >= 0 {
		return fileID[:i]
	}
	return fileID
}

// RewriteVueTemplate turns `_ctx.X` in compiled template code into a plain
// `X` reference when X is a registry local name, so the injector sees it
// as a use.
func RewriteVueTemplate(content string, snap *registry.Snapshot) string {
	return vueContextRef.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimPrefix(match, "_ctx.")
		if snap.Has(name) {
			return name
		}
		return match
	})
}
