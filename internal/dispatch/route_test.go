package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"fleetops_backend/internal/geo"
)

var (
	mumbai = ResolvedLocation{Name: "Mumbai, Maharashtra, India", Lat: 19.0760, Lon: 72.8777}
	pune   = ResolvedLocation{Name: "Pune, Maharashtra, India", Lat: 18.5204, Lon: 73.8567}
)

func idleGeocoder() geocoderFunc {
	return func(context.Context, string, int) ([]geo.Suggestion, error) {
		return nil, nil
	}
}

func TestRouteFiresWhenBothEndpointsResolve(t *testing.T) {
	var mu sync.Mutex
	var coords [][4]float64

	router := routerFunc(func(_ context.Context, oLat, oLon, dLat, dLon float64) (*geo.RouteResult, error) {
		mu.Lock()
		coords = append(coords, [4]float64{oLat, oLon, dLat, dLon})
		mu.Unlock()
		return &geo.RouteResult{DistanceKm: 148, DurationMin: 195}, nil
	})

	p := newTestPlanner(idleGeocoder(), router)
	defer p.Close()

	if err := p.Prefill(FieldOrigin, mumbai); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if route := p.Snapshot().Route; route.Loading || route.Result != nil {
		t.Fatalf("expected no route activity with one endpoint, got %+v", route)
	}

	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	waitFor(t, "route result", func() bool {
		return p.Snapshot().Route.Result != nil
	})

	route := p.Snapshot().Route
	if route.Result.DistanceKm != 148 {
		t.Fatalf("expected distanceKm 148, got %v", route.Result.DistanceKm)
	}
	if route.Result.DurationMin != 195 {
		t.Fatalf("expected durationMin 195, got %v", route.Result.DurationMin)
	}
	if route.Result.FuelCost != 1776 {
		t.Fatalf("expected fuelCost 148*12 = 1776, got %v", route.Result.FuelCost)
	}
	if route.Loading || route.Error != "" {
		t.Fatalf("expected settled route state, got %+v", route)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(coords) != 1 {
		t.Fatalf("expected exactly one route computation, got %d", len(coords))
	}
	want := [4]float64{mumbai.Lat, mumbai.Lon, pune.Lat, pune.Lon}
	if coords[0] != want {
		t.Fatalf("expected coordinates %v, got %v", want, coords[0])
	}
}

func TestCanDispatchGate(t *testing.T) {
	release := make(chan struct{})
	router := routerFunc(func(context.Context, float64, float64, float64, float64) (*geo.RouteResult, error) {
		<-release
		return &geo.RouteResult{DistanceKm: 148, DurationMin: 195}, nil
	})

	p := newTestPlanner(idleGeocoder(), router)
	defer p.Close()

	if p.Snapshot().CanDispatch {
		t.Fatalf("expected dispatch blocked with no endpoints")
	}

	if err := p.Prefill(FieldOrigin, mumbai); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if p.Snapshot().CanDispatch {
		t.Fatalf("expected dispatch blocked while the route is loading")
	}

	close(release)
	waitFor(t, "dispatchable plan", func() bool {
		return p.Snapshot().CanDispatch
	})
}

func TestClearingEndpointDestroysRoute(t *testing.T) {
	p := newTestPlanner(idleGeocoder(), routerFunc(func(context.Context, float64, float64, float64, float64) (*geo.RouteResult, error) {
		return &geo.RouteResult{DistanceKm: 148, DurationMin: 195}, nil
	}))
	defer p.Close()

	if err := p.Prefill(FieldOrigin, mumbai); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	waitFor(t, "route result", func() bool {
		return p.Snapshot().Route.Result != nil
	})

	if err := p.Clear(FieldDestination); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	route := p.Snapshot().Route
	if route.Result != nil || route.Loading || route.Error != "" {
		t.Fatalf("expected route destroyed with its endpoint, got %+v", route)
	}
	if p.Snapshot().CanDispatch {
		t.Fatalf("expected dispatch blocked after clearing an endpoint")
	}
}

func TestEditingResolvedFieldDestroysRoute(t *testing.T) {
	p := newTestPlanner(idleGeocoder(), routerFunc(func(context.Context, float64, float64, float64, float64) (*geo.RouteResult, error) {
		return &geo.RouteResult{DistanceKm: 148, DurationMin: 195}, nil
	}))
	defer p.Close()

	if err := p.Prefill(FieldOrigin, mumbai); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	waitFor(t, "route result", func() bool {
		return p.Snapshot().Route.Result != nil
	})

	if err := p.Input(FieldOrigin, "Mumbai, Maharashtra, Indi"); err != nil {
		t.Fatalf("input failed: %v", err)
	}

	if route := p.Snapshot().Route; route.Result != nil {
		t.Fatalf("expected route destroyed the instant an endpoint changed, got %+v", route)
	}
}

func TestRouteStalenessRejection(t *testing.T) {
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})

	var mu sync.Mutex
	call := 0
	router := routerFunc(func(context.Context, float64, float64, float64, float64) (*geo.RouteResult, error) {
		mu.Lock()
		call++
		current := call
		mu.Unlock()
		if current == 1 {
			close(firstStarted)
			// Ignores cancellation on purpose; the coordinator's token check
			// must discard this result on its own.
			<-releaseFirst
			return &geo.RouteResult{DistanceKm: 999, DurationMin: 999}, nil
		}
		return &geo.RouteResult{DistanceKm: 148, DurationMin: 195}, nil
	})

	p := newTestPlanner(idleGeocoder(), router)
	defer p.Close()

	if err := p.Prefill(FieldOrigin, mumbai); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	<-firstStarted

	nashik := ResolvedLocation{Name: "Nashik, Maharashtra, India", Lat: 19.9975, Lon: 73.7898}
	if err := p.Prefill(FieldDestination, nashik); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	waitFor(t, "second route result", func() bool {
		route := p.Snapshot().Route
		return route.Result != nil && route.Result.DistanceKm == 148
	})

	close(releaseFirst)
	time.Sleep(50 * time.Millisecond)

	route := p.Snapshot().Route
	if route.Result == nil || route.Result.DistanceKm != 148 {
		t.Fatalf("expected the superseded route result to be discarded, got %+v", route.Result)
	}
}

func TestRouteFailureSetsErrorAndAllowsRetry(t *testing.T) {
	var mu sync.Mutex
	call := 0
	router := routerFunc(func(context.Context, float64, float64, float64, float64) (*geo.RouteResult, error) {
		mu.Lock()
		call++
		current := call
		mu.Unlock()
		if current == 1 {
			return nil, &geo.Error{Kind: geo.KindProvider, Message: "No route found between the selected locations."}
		}
		return &geo.RouteResult{DistanceKm: 148, DurationMin: 195}, nil
	})

	p := newTestPlanner(idleGeocoder(), router)
	defer p.Close()

	if err := p.Prefill(FieldOrigin, mumbai); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	waitFor(t, "route error", func() bool {
		return p.Snapshot().Route.Error != ""
	})

	route := p.Snapshot().Route
	if route.Error != "No route found between the selected locations." {
		t.Fatalf("expected provider message, got %q", route.Error)
	}
	if route.Result != nil || route.Loading {
		t.Fatalf("expected failed route to carry no result, got %+v", route)
	}
	if p.Snapshot().CanDispatch {
		t.Fatalf("expected dispatch blocked by a route error")
	}

	// Re-confirming the same endpoints after a failure retries the route.
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	waitFor(t, "retried route result", func() bool {
		return p.Snapshot().Route.Result != nil
	})
	if route := p.Snapshot().Route; route.Error != "" {
		t.Fatalf("expected retry to clear the error, got %q", route.Error)
	}
}

func TestSameEndpointsDoNotRecompute(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	router := routerFunc(func(context.Context, float64, float64, float64, float64) (*geo.RouteResult, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &geo.RouteResult{DistanceKm: 148, DurationMin: 195}, nil
	})

	p := newTestPlanner(idleGeocoder(), router)
	defer p.Close()

	if err := p.Prefill(FieldOrigin, mumbai); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	waitFor(t, "route result", func() bool {
		return p.Snapshot().Route.Result != nil
	})

	// Re-confirming an identical pair is not a change.
	if err := p.Prefill(FieldDestination, pune); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected one route computation for an unchanged pair, got %d", calls)
	}
}
