package transport

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus defines the lifecycle state of a dispatched trip.
type TripStatus string

const (
	TripStatusDispatched TripStatus = "dispatched"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// DispatchTripRequest is the request body for dispatching a planned trip.
type DispatchTripRequest struct {
	PlannerID  uuid.UUID `json:"plannerId" validate:"required"`
	VehicleID  string    `json:"vehicleId" validate:"required,min=1,max=64"`
	DriverName string    `json:"driverName" validate:"required,min=1,max=200"`
	Notes      string    `json:"notes,omitempty" validate:"max=2000"`
}

// UpdateTripStatusRequest is the request body for updating a trip's status.
type UpdateTripStatusRequest struct {
	Status TripStatus `json:"status" validate:"required,oneof=dispatched completed cancelled"`
}

// ListTripsRequest is the query parameters for listing trips.
type ListTripsRequest struct {
	VehicleID *string     `form:"vehicleId"`
	Status    *TripStatus `form:"status" validate:"omitempty,oneof=dispatched completed cancelled"`
	Limit     int         `form:"limit" validate:"omitempty,min=1,max=200"`
}

// TripResponse is the API representation of a trip.
type TripResponse struct {
	ID              uuid.UUID  `json:"id"`
	VehicleID       string     `json:"vehicleId"`
	DriverName      string     `json:"driverName"`
	OriginName      string     `json:"originName"`
	OriginLat       float64    `json:"originLat"`
	OriginLon       float64    `json:"originLon"`
	DestinationName string     `json:"destinationName"`
	DestinationLat  float64    `json:"destinationLat"`
	DestinationLon  float64    `json:"destinationLon"`
	DistanceKm      float64    `json:"distanceKm"`
	DurationMin     int        `json:"durationMin"`
	FuelCost        float64    `json:"fuelCost"`
	Status          TripStatus `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	DispatchedAt    time.Time  `json:"dispatchedAt"`
}
