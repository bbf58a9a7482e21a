// # internal/engine/parser/esm.go
package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ExtractModule collects the top-level import statements and export forms
// of a parsed program. Nested `declare module` blocks are not visited.
func ExtractModule(root *sitter.Node, source []byte, path, lang string) *Module {
	mod := &Module{Path: path, Language: lang}
	if root == nil {
		return mod
	}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		if node == nil {
			continue
		}
		switch node.Kind() {
		case "import_statement":
			mod.Imports = append(mod.Imports, extractImport(node, source, path))
		case "export_statement":
			mod.Exports = append(mod.Exports, extractExport(node, source, path)...)
		}
	}
	return mod
}

func extractImport(node *sitter.Node, source []byte, path string) Import {
	imp := Import{
		Source:    unquote(nodeText(node.ChildByFieldName("source"), source)),
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
		Location:  location(node, path),
	}

	hasClause := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type":
			// import type { ... } / import type X from
			imp.TypeOnly = true
		case "import_clause":
			hasClause = true
			extractImportClause(child, source, &imp)
		}
	}
	imp.SideEffect = !hasClause
	return imp
}

func extractImportClause(clause *sitter.Node, source []byte, imp *Import) {
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			imp.Default = nodeText(child, source)
		case "namespace_import":
			if id := lastNamedChild(child); id != nil {
				imp.Namespace = nodeText(id, source)
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				imported := unquote(nodeText(spec.ChildByFieldName("name"), source))
				local := nodeText(spec.ChildByFieldName("alias"), source)
				if local == "" {
					local = imported
				}
				if imported == "" {
					continue
				}
				imp.Named = append(imp.Named, ImportSpecifier{
					Imported: imported,
					Local:    local,
					TypeOnly: imp.TypeOnly || hasChildKind(spec, "type"),
				})
			}
		}
	}
}

func extractExport(node *sitter.Node, source []byte, path string) []Export {
	loc := location(node, path)
	isDefault := hasChildKind(node, "default")
	typeOnly := hasChildKind(node, "type")
	src := unquote(nodeText(node.ChildByFieldName("source"), source))

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		bindings, keyword := declarationBindings(decl, source)
		if isDefault {
			name := ""
			if len(bindings) > 0 {
				name = bindings[0]
			}
			return []Export{{Kind: ExportDefault, Name: name, Declaration: keyword, Location: loc}}
		}
		out := make([]Export, 0, len(bindings))
		for _, name := range bindings {
			out = append(out, Export{Kind: ExportDeclaration, Name: name, Declaration: keyword, Location: loc})
		}
		return out
	}

	if value := node.ChildByFieldName("value"); value != nil {
		// export default <expression>
		name := ""
		switch value.Kind() {
		case "identifier":
			name = nodeText(value, source)
		case "function_expression", "function", "generator_function", "class":
			name = nodeText(value.ChildByFieldName("name"), source)
		}
		return []Export{{Kind: ExportDefault, Name: name, Declaration: defaultValueKeyword(value), Location: loc}}
	}

	var out []Export
	star := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "*":
			star = true
		case "namespace_export":
			if id := lastNamedChild(child); id != nil {
				out = append(out, Export{
					Kind:     ExportNamespace,
					Name:     unquote(nodeText(id, source)),
					Source:   src,
					Location: loc,
				})
			}
			star = false
		case "export_clause":
			named := Export{Kind: ExportNamed, Source: src, TypeOnly: typeOnly, Location: loc}
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Kind() != "export_specifier" {
					continue
				}
				local := unquote(nodeText(spec.ChildByFieldName("name"), source))
				exported := unquote(nodeText(spec.ChildByFieldName("alias"), source))
				if exported == "" {
					exported = local
				}
				if local == "" {
					continue
				}
				if exported == "default" {
					out = append(out, Export{Kind: ExportDefault, Name: local, Source: src, Location: loc})
					continue
				}
				named.Specifiers = append(named.Specifiers, ExportSpecifier{
					Local:    local,
					Exported: exported,
					TypeOnly: typeOnly || hasChildKind(spec, "type"),
				})
			}
			if len(named.Specifiers) > 0 {
				out = append(out, named)
			}
		}
	}
	if star && src != "" {
		out = append(out, Export{Kind: ExportAll, Source: src, Location: loc})
	}
	return out
}

// declarationBindings returns the identifiers a declaration binds plus its
// declaring keyword. Non-identifier binding patterns produce PlaceholderName.
func declarationBindings(decl *sitter.Node, source []byte) ([]string, string) {
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
		keyword := "var"
		if kind := decl.ChildByFieldName("kind"); kind != nil {
			keyword = nodeText(kind, source)
		} else if first := decl.Child(0); first != nil && decl.Kind() == "lexical_declaration" {
			keyword = nodeText(first, source)
		}
		var names []string
		for i := uint(0); i < decl.NamedChildCount(); i++ {
			declarator := decl.NamedChild(i)
			if declarator == nil || declarator.Kind() != "variable_declarator" {
				continue
			}
			name := declarator.ChildByFieldName("name")
			if name != nil && name.Kind() == "identifier" {
				names = append(names, nodeText(name, source))
			} else {
				names = append(names, PlaceholderName)
			}
		}
		return names, keyword
	case "function_declaration", "generator_function_declaration", "function_signature":
		keyword := "function"
		if hasChildKind(decl, "async") {
			keyword = "async function"
		}
		return nameOf(decl, source), keyword
	case "class_declaration", "abstract_class_declaration":
		return nameOf(decl, source), "class"
	case "interface_declaration":
		return nameOf(decl, source), "interface"
	case "type_alias_declaration":
		return nameOf(decl, source), "type"
	case "enum_declaration":
		return nameOf(decl, source), "enum"
	case "module", "internal_module":
		return nameOf(decl, source), "module"
	case "ambient_declaration":
		// export declare const x: T;
		for i := uint(0); i < decl.NamedChildCount(); i++ {
			if inner := decl.NamedChild(i); inner != nil {
				if names, keyword := declarationBindings(inner, source); len(names) > 0 {
					return names, keyword
				}
			}
		}
		return []string{PlaceholderName}, "declare"
	}
	return nameOf(decl, source), decl.Kind()
}

func nameOf(decl *sitter.Node, source []byte) []string {
	name := unquote(nodeText(decl.ChildByFieldName("name"), source))
	if name == "" {
		return []string{PlaceholderName}
	}
	return []string{name}
}

func defaultValueKeyword(value *sitter.Node) string {
	switch value.Kind() {
	case "arrow_function", "function_expression", "function", "generator_function":
		if hasChildKind(value, "async") {
			return "async function"
		}
		return "function"
	case "class":
		return "class"
	}
	return "var"
}

func hasChildKind(node *sitter.Node, kind string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == kind {
			return true
		}
	}
	return false
}

func lastNamedChild(node *sitter.Node) *sitter.Node {
	count := node.NamedChildCount()
	if count == 0 {
		return nil
	}
	return node.NamedChild(count - 1)
}

// nodeText returns the source bytes spanned by a node as a trimmed string.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start >= end || end > uint(len(source)) {
		return ""
	}
	return strings.TrimSpace(string(source[start:end]))
}

func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' || first == '"' || first == '`') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func location(node *sitter.Node, path string) Location {
	return Location{
		File:   path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}
