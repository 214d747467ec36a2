package dispatch

import (
	"context"
	"sync"
)

// tokenSource issues cancellation tokens for one logical operation (one per
// field for search, one shared for the route). Exactly one token is current
// at a time; issuing a new one invalidates the previous token and cancels its
// context so the transport can abort best-effort. Staleness rejection does
// not depend on the abort landing: completions re-check Current() before
// touching state.
type tokenSource struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// next invalidates the current token and returns a fresh one.
func (s *tokenSource) next() *token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	return &token{src: s, gen: s.gen, ctx: ctx}
}

// supersede invalidates the current token without creating a successor.
// Used when the operation's intent disappears (cleared field, teardown).
func (s *tokenSource) supersede() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// token is the opaque per-request cancellation handle.
type token struct {
	src *tokenSource
	gen uint64
	ctx context.Context
}

// Context carries the token's cancellation to the transport layer.
func (t *token) Context() context.Context {
	return t.ctx
}

// Current reports whether this token is still the source's newest.
func (t *token) Current() bool {
	t.src.mu.Lock()
	defer t.src.mu.Unlock()
	return t.src.gen == t.gen
}
