package dispatch

import (
	"context"
	"testing"
	"time"

	"fleetops_backend/internal/geo"
	"fleetops_backend/platform/logger"

	"github.com/google/uuid"
)

func newTestRegistry(ttl time.Duration) *Registry {
	factory := func() *Planner {
		return newTestPlanner(geocoderFunc(func(context.Context, string, int) ([]geo.Suggestion, error) {
			return nil, nil
		}), noRouter())
	}
	return NewRegistry(factory, ttl, logger.New("development"))
}

func TestRegistryCreateGetDelete(t *testing.T) {
	r := newTestRegistry(0)
	defer r.Close()

	p, err := r.Create()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, ok := r.Get(p.ID())
	if !ok || got != p {
		t.Fatalf("expected to retrieve the created planner")
	}

	if !r.Delete(p.ID()) {
		t.Fatalf("expected delete to report the session existed")
	}
	if _, ok := r.Get(p.ID()); ok {
		t.Fatalf("expected deleted session to be gone")
	}
	if err := p.Input(FieldOrigin, "x"); err != ErrPlannerClosed {
		t.Fatalf("expected deleted planner to be closed, got %v", err)
	}
	if r.Delete(p.ID()) {
		t.Fatalf("expected second delete to report a missing session")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := newTestRegistry(0)
	defer r.Close()

	if _, ok := r.Get(uuid.New()); ok {
		t.Fatalf("expected lookup of an unknown id to miss")
	}
}

func TestRegistrySweepExpiresIdleSessions(t *testing.T) {
	r := newTestRegistry(10 * time.Millisecond)
	defer r.Close()

	idle, err := r.Create()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	active, err := r.Create()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	if err := active.Input(FieldOrigin, "keepalive"); err != nil {
		t.Fatalf("input failed: %v", err)
	}
	r.sweep()

	if _, ok := r.Get(idle.ID()); ok {
		t.Fatalf("expected idle session swept")
	}
	if err := idle.Input(FieldOrigin, "x"); err != ErrPlannerClosed {
		t.Fatalf("expected swept planner closed, got %v", err)
	}
	if _, ok := r.Get(active.ID()); !ok {
		t.Fatalf("expected recently active session kept")
	}
}

func TestRegistryCloseTearsDownAll(t *testing.T) {
	r := newTestRegistry(0)

	a, err := r.Create()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := r.Create()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	r.Close()

	for _, p := range []*Planner{a, b} {
		if err := p.Input(FieldOrigin, "x"); err != ErrPlannerClosed {
			t.Fatalf("expected planner closed after registry close, got %v", err)
		}
	}
}

func TestRegistryRefusesCreateAfterClose(t *testing.T) {
	r := newTestRegistry(0)
	r.Close()

	if _, err := r.Create(); err != ErrRegistryClosed {
		t.Fatalf("expected ErrRegistryClosed, got %v", err)
	}
}

func TestSubscriberReceivesSnapshots(t *testing.T) {
	p := newTestPlanner(geocoderFunc(func(context.Context, string, int) ([]geo.Suggestion, error) {
		return makeSuggestions("Mumbai, Maharashtra, India"), nil
	}), noRouter())
	defer p.Close()

	ch, unsubscribe := p.Subscribe()
	defer unsubscribe()

	if err := p.Input(FieldOrigin, "mumbai"); err != nil {
		t.Fatalf("input failed: %v", err)
	}

	select {
	case snap := <-ch:
		if snap.Origin.QueryText != "mumbai" {
			t.Fatalf("expected broadcast snapshot to carry the input, got %q", snap.Origin.QueryText)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a snapshot broadcast")
	}
}

func TestCloseClosesSubscriberChannels(t *testing.T) {
	p := newTestPlanner(geocoderFunc(func(context.Context, string, int) ([]geo.Suggestion, error) {
		return nil, nil
	}), noRouter())

	ch, _ := p.Subscribe()
	p.Close()

	select {
	case _, open := <-ch:
		if open {
			// Drain any buffered snapshot, the channel must still close.
			for range ch {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the subscriber channel to close")
	}
}
