package dispatch

import (
	"context"
	"sync"
	"time"

	"fleetops_backend/internal/geo"
	"fleetops_backend/platform/logger"

	"github.com/google/uuid"
)

// Geocoder is the location search collaborator.
type Geocoder interface {
	SearchLocations(ctx context.Context, query string, limit int) ([]geo.Suggestion, error)
}

// RoutePlanner is the route computation collaborator.
type RoutePlanner interface {
	CalculateRoute(ctx context.Context, originLat, originLon, destLat, destLon float64) (*geo.RouteResult, error)
}

// Options tune a planner session.
type Options struct {
	DebounceInterval time.Duration
	SuggestionLimit  int
	FuelRatePerKm    float64
}

func (o Options) withDefaults() Options {
	if o.DebounceInterval <= 0 {
		o.DebounceInterval = 400 * time.Millisecond
	}
	if o.SuggestionLimit <= 0 {
		o.SuggestionLimit = 5
	}
	return o
}

// Planner is one dispatch form session: two location fields and the shared
// route coordinator. All state is guarded by one mutex; provider completions
// and timer callbacks re-acquire it and re-check their token or generation
// before applying, so at most one outcome per logical operation ever lands,
// regardless of network completion order.
type Planner struct {
	mu sync.Mutex

	id       uuid.UUID
	opts     Options
	geocoder Geocoder
	router   RoutePlanner
	log      *logger.Logger

	origin      *field
	destination *field
	route       *routeCoordinator

	subscribers map[uint64]chan Snapshot
	nextSubID   uint64

	lastActivity time.Time
	closed       bool
}

// NewPlanner creates a planner session.
func NewPlanner(geocoder Geocoder, router RoutePlanner, opts Options, log *logger.Logger) *Planner {
	opts = opts.withDefaults()
	return &Planner{
		id:           uuid.New(),
		opts:         opts,
		geocoder:     geocoder,
		router:       router,
		log:          log,
		origin:       newField(FieldOrigin),
		destination:  newField(FieldDestination),
		route:        &routeCoordinator{ratePerKm: opts.FuelRatePerKm},
		subscribers:  make(map[uint64]chan Snapshot),
		lastActivity: time.Now(),
	}
}

// ID returns the session identifier.
func (p *Planner) ID() uuid.UUID {
	return p.id
}

// Input feeds one text change into a field's debounced search pipeline.
func (p *Planner) Input(id FieldID, text string) error {
	return p.withField(id, func(f *field) error {
		p.inputLocked(f, text)
		return nil
	})
}

// Key applies a navigation key to a field.
func (p *Planner) Key(id FieldID, key Key) error {
	return p.withField(id, func(f *field) error {
		p.handleKeyLocked(f, key)
		return nil
	})
}

// Hover highlights a suggestion without selecting it.
func (p *Planner) Hover(id FieldID, index int) error {
	return p.withField(id, func(f *field) error {
		return f.hoverLocked(index)
	})
}

// Select confirms suggestion index for a field. This is the mouse-down path;
// it fires before a competing blur would close the dropdown.
func (p *Planner) Select(id FieldID, index int) error {
	return p.withField(id, func(f *field) error {
		if index < 0 || index >= len(f.suggestions) {
			return ErrIndexOutOfRange
		}
		p.selectLocked(f, f.suggestions[index])
		return nil
	})
}

// Clear resets a field entirely.
func (p *Planner) Clear(id FieldID) error {
	return p.withField(id, func(f *field) error {
		p.clearLocked(f)
		return nil
	})
}

// CloseDropdown handles an outside click: the dropdown closes without
// altering text, suggestions, or any resolution.
func (p *Planner) CloseDropdown(id FieldID) error {
	return p.withField(id, func(f *field) error {
		f.isOpen = false
		return nil
	})
}

// Prefill resolves a field from the parent (e.g. a saved depot) without a
// search round-trip.
func (p *Planner) Prefill(id FieldID, loc ResolvedLocation) error {
	return p.withField(id, func(f *field) error {
		p.stopDebounceLocked(f)
		f.search.supersede()
		clone := loc
		f.resolved = &clone
		f.queryText = loc.Name
		f.suggestions = nil
		f.activeIndex = -1
		f.isOpen = false
		f.isLoading = false
		f.errMsg = ""
		f.state = StateResolved
		p.observeRouteLocked()
		return nil
	})
}

// SetDisplayError sets or clears an external error override on a field. It
// affects what the snapshot shows, never the internal transitions.
func (p *Planner) SetDisplayError(id FieldID, message string) error {
	return p.withField(id, func(f *field) error {
		f.displayErr = message
		return nil
	})
}

// Resolved returns the field's confirmed location, or nil.
func (p *Planner) Resolved(id FieldID) *ResolvedLocation {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := p.fieldLocked(id)
	if f == nil || f.resolved == nil {
		return nil
	}
	clone := *f.resolved
	return &clone
}

// Snapshot renders the full session state.
func (p *Planner) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Subscribe registers a snapshot listener. Slow consumers drop updates rather
// than block the pipeline; the returned function unsubscribes.
func (p *Planner) Subscribe() (<-chan Snapshot, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Snapshot, 16)
	if p.closed {
		close(ch)
		return ch, func() {}
	}

	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = ch

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			close(ch)
		}
	}
}

// LastActivity reports when the session last handled an operation.
func (p *Planner) LastActivity() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActivity
}

// Close tears the session down: every outstanding token is invalidated so no
// late completion can update a discarded view.
func (p *Planner) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	p.stopDebounceLocked(p.origin)
	p.stopDebounceLocked(p.destination)
	p.origin.search.supersede()
	p.destination.search.supersede()
	p.route.tokens.supersede()

	for id, ch := range p.subscribers {
		delete(p.subscribers, id)
		close(ch)
	}
}

func (p *Planner) withField(id FieldID, fn func(*field) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlannerClosed
	}
	f := p.fieldLocked(id)
	if f == nil {
		return ErrUnknownField
	}

	p.lastActivity = time.Now()
	if err := fn(f); err != nil {
		return err
	}
	p.broadcastLocked()
	return nil
}

func (p *Planner) fieldLocked(id FieldID) *field {
	switch id {
	case FieldOrigin:
		return p.origin
	case FieldDestination:
		return p.destination
	default:
		return nil
	}
}

func (p *Planner) snapshotLocked() Snapshot {
	route := p.route.snapshotLocked()
	canDispatch := p.origin.resolved != nil &&
		p.destination.resolved != nil &&
		!route.Loading &&
		route.Error == "" &&
		route.Result != nil

	return Snapshot{
		PlannerID:   p.id,
		Origin:      p.origin.snapshotLocked(),
		Destination: p.destination.snapshotLocked(),
		Route:       route,
		CanDispatch: canDispatch,
	}
}

func (p *Planner) broadcastLocked() {
	if len(p.subscribers) == 0 {
		return
	}
	snap := p.snapshotLocked()
	for _, ch := range p.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}
