package adapters

import (
	"fleetops_backend/internal/dispatch"
	"fleetops_backend/internal/trips/service"
	"fleetops_backend/platform/apperr"

	"github.com/google/uuid"
)

// TripsPlanSource adapts the dispatch planner registry for trip dispatching.
// It enforces the plan gate: a plan is only handed out when both endpoints are
// resolved and the route result is present with no pending or failed work.
type TripsPlanSource struct {
	registry *dispatch.Registry
}

func NewTripsPlanSource(registry *dispatch.Registry) *TripsPlanSource {
	return &TripsPlanSource{registry: registry}
}

func (a *TripsPlanSource) CompletedPlan(id uuid.UUID) (*service.Plan, error) {
	planner, ok := a.registry.Get(id)
	if !ok {
		return nil, apperr.NotFound("planner session not found")
	}

	snap := planner.Snapshot()
	if !snap.CanDispatch {
		return nil, apperr.Conflict("plan is not ready to dispatch")
	}

	return &service.Plan{
		Origin: service.Endpoint{
			Name: snap.Origin.Resolved.Name,
			Lat:  snap.Origin.Resolved.Lat,
			Lon:  snap.Origin.Resolved.Lon,
		},
		Destination: service.Endpoint{
			Name: snap.Destination.Resolved.Name,
			Lat:  snap.Destination.Resolved.Lat,
			Lon:  snap.Destination.Resolved.Lon,
		},
		DistanceKm:  snap.Route.Result.DistanceKm,
		DurationMin: snap.Route.Result.DurationMin,
		FuelCost:    snap.Route.Result.FuelCost,
	}, nil
}

func (a *TripsPlanSource) Teardown(id uuid.UUID) {
	a.registry.Delete(id)
}

// Compile-time check that the adapter satisfies the trips port.
var _ service.PlanSource = (*TripsPlanSource)(nil)
