package service

import (
	"context"
	"time"

	"fleetops_backend/internal/events"
	"fleetops_backend/internal/trips/repository"
	"fleetops_backend/internal/trips/transport"

	"github.com/google/uuid"
)

// Endpoint is a resolved trip endpoint.
type Endpoint struct {
	Name string
	Lat  float64
	Lon  float64
}

// Plan is a completed route plan, ready to dispatch.
type Plan struct {
	Origin      Endpoint
	Destination Endpoint
	DistanceKm  float64
	DurationMin int
	FuelCost    float64
}

// PlanSource provides completed plans from live planner sessions. CompletedPlan
// returns a typed domain error when the session is unknown or the plan is not
// ready (either endpoint unresolved, route loading, or route failed).
type PlanSource interface {
	CompletedPlan(id uuid.UUID) (*Plan, error)
	Teardown(id uuid.UUID)
}

// Service provides business logic for trips.
type Service struct {
	repo       *repository.Repository
	planSource PlanSource
	eventBus   events.Bus
}

// New creates a new trips service.
func New(repo *repository.Repository, planSource PlanSource, eventBus events.Bus) *Service {
	return &Service{
		repo:       repo,
		planSource: planSource,
		eventBus:   eventBus,
	}
}

// Dispatch persists a trip from a completed plan, publishes the dispatch
// event, and tears the planner session down. The plan gate lives in the plan
// source: an incomplete plan never reaches this point.
func (s *Service) Dispatch(ctx context.Context, req transport.DispatchTripRequest) (*repository.Trip, error) {
	plan, err := s.planSource.CompletedPlan(req.PlannerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trip := &repository.Trip{
		ID:              uuid.New(),
		VehicleID:       req.VehicleID,
		DriverName:      req.DriverName,
		OriginName:      plan.Origin.Name,
		OriginLat:       plan.Origin.Lat,
		OriginLon:       plan.Origin.Lon,
		DestinationName: plan.Destination.Name,
		DestinationLat:  plan.Destination.Lat,
		DestinationLon:  plan.Destination.Lon,
		DistanceKm:      plan.DistanceKm,
		DurationMin:     plan.DurationMin,
		FuelCost:        plan.FuelCost,
		Status:          string(transport.TripStatusDispatched),
		Notes:           req.Notes,
		DispatchedAt:    now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.TripDispatched{
		BaseEvent:       events.NewBaseEvent(),
		TripID:          trip.ID,
		VehicleID:       trip.VehicleID,
		OriginName:      trip.OriginName,
		DestinationName: trip.DestinationName,
		DistanceKm:      trip.DistanceKm,
		DurationMin:     trip.DurationMin,
		FuelCost:        trip.FuelCost,
	})

	// The session is consumed by a successful dispatch.
	s.planSource.Teardown(req.PlannerID)

	return trip, nil
}

// GetByID returns one trip.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*repository.Trip, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns trips newest first.
func (s *Service) List(ctx context.Context, req transport.ListTripsRequest) ([]repository.Trip, error) {
	filter := repository.ListFilter{
		VehicleID: req.VehicleID,
		Limit:     req.Limit,
	}
	if req.Status != nil {
		status := string(*req.Status)
		filter.Status = &status
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus transitions a trip's lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status transport.TripStatus) error {
	return s.repo.UpdateStatus(ctx, id, string(status))
}
