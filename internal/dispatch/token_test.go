package dispatch

import "testing"

func TestTokenSupersededByNext(t *testing.T) {
	var src tokenSource

	first := src.next()
	if !first.Current() {
		t.Fatalf("expected freshly issued token to be current")
	}

	second := src.next()
	if first.Current() {
		t.Fatalf("expected first token to be stale after a successor was issued")
	}
	if !second.Current() {
		t.Fatalf("expected second token to be current")
	}

	select {
	case <-first.Context().Done():
	default:
		t.Fatalf("expected first token's context to be cancelled")
	}
	select {
	case <-second.Context().Done():
		t.Fatalf("expected second token's context to remain live")
	default:
	}
}

func TestTokenSupersedeWithoutSuccessor(t *testing.T) {
	var src tokenSource

	tok := src.next()
	src.supersede()

	if tok.Current() {
		t.Fatalf("expected token to be stale after supersede")
	}
	select {
	case <-tok.Context().Done():
	default:
		t.Fatalf("expected token's context to be cancelled")
	}

	next := src.next()
	if !next.Current() {
		t.Fatalf("expected token issued after supersede to be current")
	}
}
