// # internal/engine/parser/loader.go
package parser

import (
	"autoimport/internal/shared/util"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

type LanguageSpec struct {
	Name       string
	Extensions []string
}

func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LangJavaScript: {
			Name:       LangJavaScript,
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		},
		LangTypeScript: {
			Name:       LangTypeScript,
			Extensions: []string{".ts", ".mts", ".cts"},
		},
		LangTSX: {
			Name:       LangTSX,
			Extensions: []string{".tsx"},
		},
	}
}

// GrammarLoader owns the compiled tree-sitter grammars for every script
// language the engine reads.
type GrammarLoader struct {
	languages  map[string]*sitter.Language
	extensions map[string]string
}

func NewGrammarLoader() (*GrammarLoader, error) {
	registry := DefaultLanguageRegistry()
	gl := &GrammarLoader{
		languages:  make(map[string]*sitter.Language, len(registry)),
		extensions: make(map[string]string),
	}

	for _, langID := range util.SortedStringKeys(registry) {
		spec := registry[langID]
		switch langID {
		case LangJavaScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_javascript.Language())
		case LangTypeScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		case LangTSX:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		default:
			return nil, fmt.Errorf("language %q is registered but no grammar binding is available", langID)
		}
		for _, ext := range spec.Extensions {
			gl.extensions[strings.ToLower(ext)] = langID
		}
	}
	return gl, nil
}

// LanguageForPath maps a file path to a grammar. Unknown extensions (and
// extension-less module ids) fall back to TSX, the most permissive grammar.
func (gl *GrammarLoader) LanguageForPath(path string) string {
	if lang, ok := gl.extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return LangTSX
}

// SupportedExtensions lists every file extension with a registered grammar,
// sorted.
func (gl *GrammarLoader) SupportedExtensions() []string {
	extensions := make([]string, 0, len(gl.extensions))
	for ext := range gl.extensions {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
