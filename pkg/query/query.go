// Package query composes the Log Store's time-range scan with Dictionary
// post-filters and decoding. An Engine holds only its two collaborators, the
// LogStore and the Dictionary, and keeps no state of its own between calls.
package query

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/scribehq/scribe/pkg/dictionary"
	"github.com/scribehq/scribe/pkg/logstore"
)

// Params is one query request. Prefix and Words are optional; a nil/empty
// Words and empty Prefix both mean "no filter of that kind".
type Params struct {
	From   uint64
	To     uint64
	Prefix string
	Words  []string

	// CaseInsensitivePrefix selects Dictionary.FilterByPrefixCI over
	// FilterByPrefix when Prefix is non-empty.
	CaseInsensitivePrefix bool
}

// Engine composes a LogStore and a Dictionary into the query(from, to,
// prefix?, words?) operation.
type Engine struct {
	store logstore.LogStore
	dict  *dictionary.Dictionary
}

// New builds a query Engine over store and dict.
func New(store logstore.LogStore, dict *dictionary.Dictionary) *Engine {
	return &Engine{store: store, dict: dict}
}

// Query runs the time-range scan, applies the requested post-filters in
// order (prefix, then words, both conjunctive with each other and OR-within
// themselves), and decodes every surviving log back to text.
func (e *Engine) Query(ctx context.Context, p Params) ([]string, error) {
	candidates, err := e.store.Range(ctx, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("query: range scan: %w", err)
	}

	if p.Prefix != "" {
		if p.CaseInsensitivePrefix {
			candidates = e.dict.FilterByPrefixCI(p.Prefix, candidates)
		} else {
			candidates = e.dict.FilterByPrefix(p.Prefix, candidates)
		}
	}
	if len(p.Words) > 0 {
		candidates = e.dict.FilterByWords(p.Words, candidates)
	}

	out := make([]string, len(candidates))
	for i, ids := range candidates {
		out[i] = e.dict.Decode(ids)
	}
	log.Debugf("query: %d logs survived range [%d,%d] prefix=%q words=%v", len(out), p.From, p.To, p.Prefix, p.Words)
	return out, nil
}

// Ingest encodes text against the Dictionary, releases the Dictionary lock,
// then appends the encoded log to the store. The lock is dropped before the
// store call so concurrent encoders never serialize behind storage I/O.
func (e *Engine) Ingest(ctx context.Context, text string) error {
	ids := e.dict.Encode(text)
	if err := e.store.Append(ctx, ids); err != nil {
		return fmt.Errorf("query: append: %w", err)
	}
	return nil
}
