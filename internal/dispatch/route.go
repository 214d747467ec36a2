package dispatch

import (
	"context"
	"errors"

	"fleetops_backend/internal/geo"
)

// genericRouteFailure is shown when route computation fails without a usable message.
const genericRouteFailure = "Unable to calculate route. Please try again."

// routeCoordinator derives distance, duration, and fuel cost from the two
// resolved endpoints. It owns one shared cancellation token: whatever the
// network does, only the most recently issued computation may write state.
type routeCoordinator struct {
	tokens    tokenSource
	ratePerKm float64

	result  *geo.RouteResult
	loading bool
	errMsg  string

	lastOrigin      *ResolvedLocation
	lastDestination *ResolvedLocation
}

// observeRouteLocked reacts to any change of either endpoint. The result has
// no independent lifecycle: it is destroyed the instant an endpoint is
// cleared or changes.
func (p *Planner) observeRouteLocked() {
	rc := p.route
	origin := p.origin.resolved
	destination := p.destination.resolved

	if origin == nil || destination == nil {
		rc.tokens.supersede()
		rc.result = nil
		rc.errMsg = ""
		rc.loading = false
		rc.lastOrigin = nil
		rc.lastDestination = nil
		return
	}

	// Re-selecting the exact same pair is not a change unless the last
	// attempt ended in an error, in which case re-selection retries it.
	if rc.sameEndpoints(origin, destination) && rc.errMsg == "" {
		return
	}

	originCopy := *origin
	destCopy := *destination
	rc.lastOrigin = &originCopy
	rc.lastDestination = &destCopy

	tok := rc.tokens.next()
	rc.loading = true
	rc.errMsg = ""
	rc.result = nil

	issue(p, tok, func(ctx context.Context) (*geo.RouteResult, error) {
		return p.router.CalculateRoute(ctx, originCopy.Lat, originCopy.Lon, destCopy.Lat, destCopy.Lon)
	}, func(result *geo.RouteResult, err error) {
		rc.loading = false
		if err != nil {
			rc.result = nil
			rc.errMsg = routeFailureMessage(err)
			return
		}
		if result.FuelCost == 0 {
			result.FuelCost = result.DistanceKm * rc.ratePerKm
		}
		rc.result = result
		rc.errMsg = ""
	})
}

func (rc *routeCoordinator) sameEndpoints(origin, destination *ResolvedLocation) bool {
	return rc.lastOrigin != nil && rc.lastDestination != nil &&
		*rc.lastOrigin == *origin && *rc.lastDestination == *destination
}

// snapshotLocked renders the coordinator state for consumers.
func (rc *routeCoordinator) snapshotLocked() RouteSnapshot {
	var result *geo.RouteResult
	if rc.result != nil {
		clone := *rc.result
		result = &clone
	}
	return RouteSnapshot{
		Result:  result,
		Loading: rc.loading,
		Error:   rc.errMsg,
	}
}

func routeFailureMessage(err error) string {
	var geoErr *geo.Error
	if errors.As(err, &geoErr) && geoErr.Message != "" {
		return geoErr.Message
	}
	return genericRouteFailure
}
