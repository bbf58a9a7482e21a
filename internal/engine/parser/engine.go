// # internal/engine/parser/engine.go
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes one node during a walk.
// Returns true if the handler has processed children and the walker should stop.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node) bool

// ExtractionContext carries shared state/helpers used by all handlers.
type ExtractionContext struct {
	Source            []byte
	Usage             *Usage
	ProcessedChildren bool // If true, the walker will skip this node's children
}

func (c *ExtractionContext) ResetProcessedChildren() {
	c.ProcessedChildren = false
}

// ExtractorEngine walks the syntax tree and dispatches node handlers by kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}

	ctx.ResetProcessedChildren()
	stop := false
	if handler, ok := e.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	}

	if !stop && !ctx.ProcessedChildren {
		for i := uint(0); i < node.ChildCount(); i++ {
			e.Walk(ctx, node.Child(i))
		}
	}
}

// WalkField walks the child stored under a grammar field, if present.
func (e *ExtractorEngine) WalkField(ctx *ExtractionContext, node *sitter.Node, field string) {
	if node == nil {
		return
	}
	e.Walk(ctx, node.ChildByFieldName(field))
}

// WalkExcept walks every child except those stored under the skipped fields.
func (e *ExtractorEngine) WalkExcept(ctx *ExtractionContext, node *sitter.Node, skip ...string) {
	if node == nil {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		skipped := false
		for _, field := range skip {
			if f := node.ChildByFieldName(field); f != nil && sameNode(f, child) {
				skipped = true
				break
			}
		}
		if !skipped {
			e.Walk(ctx, child)
		}
	}
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	return nodeText(node, c.Source)
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}
