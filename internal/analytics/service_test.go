package analytics

import (
	"context"
	"testing"

	"fleetops_backend/internal/events"
	"fleetops_backend/platform/logger"

	"github.com/google/uuid"
)

func TestSummaryAccumulatesDispatches(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	svc := NewService(bus, log)

	for i := 0; i < 3; i++ {
		bus.Publish(context.Background(), events.TripDispatched{
			BaseEvent:       events.NewBaseEvent(),
			TripID:          uuid.New(),
			VehicleID:       "TRK-42",
			OriginName:      "Mumbai",
			DestinationName: "Pune",
			DistanceKm:      148,
			DurationMin:     195,
			FuelCost:        1776,
		})
	}
	bus.Wait()

	summary := svc.Summary()
	if summary.TripsDispatched != 3 {
		t.Fatalf("expected 3 trips, got %d", summary.TripsDispatched)
	}
	if summary.TotalDistanceKm != 444 {
		t.Fatalf("expected 444 km, got %v", summary.TotalDistanceKm)
	}
	if summary.TotalDurationMin != 585 {
		t.Fatalf("expected 585 min, got %v", summary.TotalDurationMin)
	}
	if summary.TotalFuelCost != 5328 {
		t.Fatalf("expected 5328 fuel cost, got %v", summary.TotalFuelCost)
	}
}

func TestSummaryStartsEmpty(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	svc := NewService(bus, log)

	summary := svc.Summary()
	if summary.TripsDispatched != 0 || summary.TotalDistanceKm != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
