// # internal/engine/parser/usage.go
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Usage is the identifier census of one file. Used holds names read in a
// reference position; Declared holds every name the file binds itself:
// let/const/var declarators, parameters, catch bindings and function, class,
// interface, type alias and enum declarations. Scopes are not tracked, so a
// parameter shadows the name for the whole file.
type Usage struct {
	Used     map[string]bool
	Declared map[string]bool
}

// Eligible reports whether name is referenced and not shadowed by a local
// declaration.
func (u *Usage) Eligible(name string) bool {
	return u.Used[name] && !u.Declared[name]
}

type usageWalker struct {
	engine *ExtractorEngine
}

// CollectUsage walks a parsed file and records which identifiers it
// references. Syntax errors are tolerated; identifiers under ERROR nodes
// still count.
func CollectUsage(root *sitter.Node, source []byte) *Usage {
	usage := &Usage{Used: map[string]bool{}, Declared: map[string]bool{}}
	if root == nil {
		return usage
	}
	w := &usageWalker{}
	w.engine = NewExtractorEngine(map[string]NodeHandler{
		"identifier":                     w.use,
		"type_identifier":                w.use,
		"shorthand_property_identifier":  w.use,
		"import_statement":               skip,
		"export_clause":                  skip,
		"namespace_export":               skip,
		"variable_declarator":            w.variableDeclarator,
		"function_declaration":           w.functionDeclaration,
		"generator_function_declaration": w.functionDeclaration,
		"function_signature":             w.functionDeclaration,
		"function_expression":            w.function,
		"function":                       w.function,
		"generator_function":             w.function,
		"arrow_function":                 w.function,
		"method_definition":              w.function,
		"method_signature":               w.function,
		"class_declaration":              w.declaration,
		"abstract_class_declaration":     w.declaration,
		"interface_declaration":          w.declaration,
		"type_alias_declaration":         w.declaration,
		"enum_declaration":               w.declaration,
		"class":                          w.namedExpression,
		"catch_clause":                   w.catchClause,
		"for_in_statement":               w.forIn,
		"type_parameter":                 w.typeParameter,
		"nested_type_identifier":         w.nestedType,
		"nested_identifier":              w.nestedIdentifier,
	})
	w.engine.Walk(&ExtractionContext{Source: source, Usage: usage}, root)
	return usage
}

func skip(*ExtractionContext, *sitter.Node) bool { return true }

func (w *usageWalker) use(ctx *ExtractionContext, node *sitter.Node) bool {
	if name := ctx.Text(node); name != "" {
		ctx.Usage.Used[name] = true
	}
	return true
}

func (w *usageWalker) declare(ctx *ExtractionContext, name string) {
	if name != "" {
		ctx.Usage.Declared[name] = true
	}
}

func (w *usageWalker) variableDeclarator(ctx *ExtractionContext, node *sitter.Node) bool {
	w.pattern(ctx, node.ChildByFieldName("name"), true)
	w.engine.WalkExcept(ctx, node, "name")
	return true
}

func (w *usageWalker) functionDeclaration(ctx *ExtractionContext, node *sitter.Node) bool {
	w.declare(ctx, ctx.Text(node.ChildByFieldName("name")))
	w.parameters(ctx, node.ChildByFieldName("parameters"))
	w.engine.WalkExcept(ctx, node, "name", "parameters")
	return true
}

// function handles expressions and methods whose own name is not a
// file-level declaration.
func (w *usageWalker) function(ctx *ExtractionContext, node *sitter.Node) bool {
	if params := node.ChildByFieldName("parameters"); params != nil {
		w.parameters(ctx, params)
		w.engine.WalkExcept(ctx, node, "name", "parameters")
		return true
	}
	// x => x
	if param := node.ChildByFieldName("parameter"); param != nil {
		w.pattern(ctx, param, true)
		w.engine.WalkExcept(ctx, node, "name", "parameter")
		return true
	}
	w.engine.WalkExcept(ctx, node, "name")
	return true
}

func (w *usageWalker) declaration(ctx *ExtractionContext, node *sitter.Node) bool {
	w.declare(ctx, ctx.Text(node.ChildByFieldName("name")))
	w.engine.WalkExcept(ctx, node, "name")
	return true
}

func (w *usageWalker) namedExpression(ctx *ExtractionContext, node *sitter.Node) bool {
	w.engine.WalkExcept(ctx, node, "name")
	return true
}

func (w *usageWalker) catchClause(ctx *ExtractionContext, node *sitter.Node) bool {
	w.pattern(ctx, node.ChildByFieldName("parameter"), true)
	w.engine.WalkExcept(ctx, node, "parameter")
	return true
}

func (w *usageWalker) forIn(ctx *ExtractionContext, node *sitter.Node) bool {
	if node.ChildByFieldName("kind") == nil {
		return false
	}
	// for (const x of xs)
	w.pattern(ctx, node.ChildByFieldName("left"), true)
	w.engine.WalkExcept(ctx, node, "left")
	return true
}

func (w *usageWalker) typeParameter(ctx *ExtractionContext, node *sitter.Node) bool {
	w.engine.WalkExcept(ctx, node, "name")
	return true
}

// React.FC: only the qualifier is a reference.
func (w *usageWalker) nestedType(ctx *ExtractionContext, node *sitter.Node) bool {
	w.engine.WalkField(ctx, node, "module")
	return true
}

func (w *usageWalker) nestedIdentifier(ctx *ExtractionContext, node *sitter.Node) bool {
	if node.ChildCount() > 0 {
		w.engine.Walk(ctx, node.Child(0))
	}
	return true
}

func (w *usageWalker) parameters(ctx *ExtractionContext, params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		if param == nil {
			continue
		}
		switch param.Kind() {
		case "required_parameter", "optional_parameter":
			w.pattern(ctx, param.ChildByFieldName("pattern"), true)
			w.engine.WalkExcept(ctx, param, "pattern")
		default:
			w.pattern(ctx, param, true)
		}
	}
}

// pattern visits a binding pattern. Bound names are declared when declares
// is set; default values and computed
// keys inside the pattern are walked as ordinary expressions.
func (w *usageWalker) pattern(ctx *ExtractionContext, node *sitter.Node, declares bool) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		if declares {
			w.declare(ctx, ctx.Text(node))
		}
	case "object_pattern", "array_pattern":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.pattern(ctx, node.NamedChild(i), declares)
		}
	case "pair_pattern":
		if key := node.ChildByFieldName("key"); key != nil && key.Kind() == "computed_property_name" {
			w.engine.Walk(ctx, key)
		}
		w.pattern(ctx, node.ChildByFieldName("value"), declares)
	case "assignment_pattern", "object_assignment_pattern":
		w.pattern(ctx, node.ChildByFieldName("left"), declares)
		w.engine.WalkField(ctx, node, "right")
	case "rest_pattern":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.pattern(ctx, node.NamedChild(i), declares)
		}
	case "this", "comment":
	default:
		w.engine.Walk(ctx, node)
	}
}
