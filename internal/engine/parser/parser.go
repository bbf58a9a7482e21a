// # internal/engine/parser/parser.go
package parser

import (
	"autoimport/internal/core/errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns script sources into syntax trees and Module summaries. It is
// safe for concurrent use; each call leases a pooled tree-sitter parser.
type Parser struct {
	loader *GrammarLoader
	pools  map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader: loader,
		pools:  make(map[string]*ParserPool, len(loader.languages)),
	}
	for langID, lang := range loader.languages {
		p.pools[langID] = NewParserPool(langID, lang)
	}
	return p
}

// NewDefaultParser builds a Parser over the built-in script grammars.
func NewDefaultParser() (*Parser, error) {
	loader, err := NewGrammarLoader()
	if err != nil {
		return nil, err
	}
	return NewParser(loader), nil
}

func (p *Parser) LanguageForPath(path string) string {
	return p.loader.LanguageForPath(path)
}

// SupportedExtensions lists the file extensions the parser has a grammar
// for.
func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}

// ParseTree parses content with the grammar chosen for path. The caller owns
// the returned tree and must Close it.
func (p *Parser) ParseTree(path string, content []byte) (*sitter.Tree, string, error) {
	lang := p.loader.LanguageForPath(path)
	pool := p.pools[lang]
	if pool == nil {
		return nil, lang, errors.New(errors.CodeNotSupported, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, lang, errors.New(errors.CodeInternal, "parse failed")
	}
	return tree, lang, nil
}

// ParseModule parses a module strictly: any syntax error in the tree is a
// CodeParse error naming the file and the first error position.
func (p *Parser) ParseModule(path string, content []byte) (*Module, error) {
	tree, lang, err := p.ParseTree(path, content)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		de := &errors.DomainError{Code: errors.CodeParse, Message: "syntax error in module"}
		de.WithContext(errors.CtxPath, path)
		if bad := firstErrorNode(root); bad != nil {
			de.WithContext("line", int(bad.StartPosition().Row)+1)
			de.WithContext("column", int(bad.StartPosition().Column)+1)
		}
		return nil, de
	}
	return ExtractModule(root, content, path, lang), nil
}

// Analyze parses content once and returns both its module surface and its
// identifier usage. Syntax errors are ignored: files being transformed may
// contain syntax the grammar does not know.
func (p *Parser) Analyze(path string, content []byte) (*Module, *Usage, error) {
	tree, lang, err := p.ParseTree(path, content)
	if err != nil {
		return nil, nil, err
	}
	defer tree.Close()
	root := tree.RootNode()
	return ExtractModule(root, content, path, lang), CollectUsage(root, content), nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil || !node.HasError() {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if bad := firstErrorNode(node.Child(i)); bad != nil {
			return bad
		}
	}
	return node
}
