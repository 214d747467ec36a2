package dispatch

import (
	"context"

	"fleetops_backend/internal/geo"
)

// issue runs one outbound lookup on its own goroutine under tok's context.
// The token is checked before dispatch and again upon completion, the second
// time under the planner lock so the check is atomic with state application.
// A superseded token discards the outcome entirely: apply is never called, no
// shared state is touched, and the cancellation never surfaces as an error.
// Genuine failures reach apply with their error so the caller can branch on
// the error kind.
func issue[T any](p *Planner, tok *token, work func(context.Context) (T, error), apply func(T, error)) {
	go func() {
		if !tok.Current() {
			return
		}

		result, err := work(tok.Context())

		p.mu.Lock()
		defer p.mu.Unlock()

		if p.closed || !tok.Current() {
			return
		}
		if err != nil && geo.IsCancelled(err) {
			return
		}

		apply(result, err)
		p.broadcastLocked()
	}()
}
