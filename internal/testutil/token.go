package testutil

import (
	"fmt"
	"sync"
)

// FixedTokens returns predetermined invocation tokens in sequence.
//
// This enables deterministic logs and golden trace comparison. Generating
// past the end of the sequence panics: a test consuming more tokens than it
// declared is asserting on runs it did not expect.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a generator that returns tokens in order.
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token.
// Implements engine.TokenGenerator.
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic(fmt.Sprintf("FixedTokens: all %d tokens exhausted", len(g.tokens)))
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
