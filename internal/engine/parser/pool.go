// # internal/engine/parser/pool.go
package parser

import (
	"autoimport/internal/shared/observability"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parsers for one grammar. Leased parsers
// are counted in the parsers_in_use gauge under the pool's language id.
// Safe for concurrent use.
type ParserPool struct {
	lang   *sitter.Language
	pool   sync.Pool
	leased prometheus.Gauge
}

// NewParserPool creates a pool for lang. The language must outlive the pool.
func NewParserPool(langID string, lang *sitter.Language) *ParserPool {
	p := &ParserPool{
		lang:   lang,
		leased: observability.ParsersInUse.WithLabelValues(langID),
	}
	p.pool.New = func() any {
		sp := sitter.NewParser()
		_ = sp.SetLanguage(lang)
		return sp
	}
	return p
}

// Get leases a parser configured for the pool's language.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	// Reset() upstream may have cleared the language.
	_ = sp.SetLanguage(p.lang)
	p.leased.Inc()
	return sp
}

// Put resets sp and returns it to the pool. sp must not be used afterwards.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	p.leased.Dec()
	sp.Reset()
	p.pool.Put(sp)
}
