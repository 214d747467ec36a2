package dispatch

import (
	"sync"
	"time"

	"fleetops_backend/platform/logger"

	"github.com/google/uuid"
)

// Registry holds live planner sessions keyed by id. Sessions idle past the
// TTL are torn down by a janitor so abandoned forms cannot leak tokens or
// timers.
type Registry struct {
	mu       sync.Mutex
	planners map[uuid.UUID]*Planner
	closed   bool

	factory func() *Planner
	ttl     time.Duration
	log     *logger.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry. A non-positive ttl disables idle expiry.
func NewRegistry(factory func() *Planner, ttl time.Duration, log *logger.Logger) *Registry {
	r := &Registry{
		planners: make(map[uuid.UUID]*Planner),
		factory:  factory,
		ttl:      ttl,
		log:      log,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go r.janitor()
	}
	return r
}

// Create starts a new planner session. Creation fails once the registry is
// closed; otherwise a Create racing Close could register a session after the
// teardown sweep and leak it.
func (r *Registry) Create() (*Planner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	planner := r.factory()
	r.planners[planner.ID()] = planner
	return planner, nil
}

// Get returns a live session.
func (r *Registry) Get(id uuid.UUID) (*Planner, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	planner, ok := r.planners[id]
	return planner, ok
}

// Delete tears a session down and removes it.
func (r *Registry) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	planner, ok := r.planners[id]
	delete(r.planners, id)
	r.mu.Unlock()

	if ok {
		planner.Close()
	}
	return ok
}

// Close stops the janitor and tears down every session.
func (r *Registry) Close() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})

	r.mu.Lock()
	r.closed = true
	planners := make([]*Planner, 0, len(r.planners))
	for id, planner := range r.planners {
		planners = append(planners, planner)
		delete(r.planners, id)
	}
	r.mu.Unlock()

	for _, planner := range planners {
		planner.Close()
	}
}

func (r *Registry) janitor() {
	interval := r.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Planner
	for id, planner := range r.planners {
		if planner.LastActivity().Before(cutoff) {
			expired = append(expired, planner)
			delete(r.planners, id)
		}
	}
	r.mu.Unlock()

	for _, planner := range expired {
		planner.Close()
		r.log.Info("idle planner session expired", "plannerId", planner.ID())
	}
}
