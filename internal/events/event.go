// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"fleetops_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Trip Domain Events
// =============================================================================

// TripDispatched is published when a planned trip is persisted and dispatched.
type TripDispatched struct {
	BaseEvent
	TripID          uuid.UUID `json:"tripId"`
	VehicleID       string    `json:"vehicleId"`
	OriginName      string    `json:"originName"`
	DestinationName string    `json:"destinationName"`
	DistanceKm      float64   `json:"distanceKm"`
	DurationMin     int       `json:"durationMin"`
	FuelCost        float64   `json:"fuelCost"`
}

func (e TripDispatched) EventName() string { return "trips.trip.dispatched" }
