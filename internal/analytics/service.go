// Package analytics aggregates fleet activity from domain events and serves
// summary figures for the dashboard.
package analytics

import (
	"context"
	"sync"

	"fleetops_backend/internal/events"
	"fleetops_backend/platform/logger"
)

// Summary holds the running fleet aggregates.
type Summary struct {
	TripsDispatched  int64   `json:"tripsDispatched"`
	TotalDistanceKm  float64 `json:"totalDistanceKm"`
	TotalDurationMin int64   `json:"totalDurationMin"`
	TotalFuelCost    float64 `json:"totalFuelCost"`
}

// Service accumulates trip dispatch events. The aggregates are in-memory and
// rebuild from zero on restart; the dashboard treats them as a live counter,
// not an audit record.
type Service struct {
	mu      sync.Mutex
	summary Summary
	log     *logger.Logger
}

// NewService creates the analytics service and subscribes it to the bus.
func NewService(bus events.Bus, log *logger.Logger) *Service {
	s := &Service{log: log}
	bus.Subscribe(events.TripDispatched{}.EventName(), events.HandlerFunc(s.onTripDispatched))
	return s
}

func (s *Service) onTripDispatched(_ context.Context, event events.Event) error {
	dispatched, ok := event.(events.TripDispatched)
	if !ok {
		s.log.Warn("unexpected event payload", "event", event.EventName())
		return nil
	}

	s.mu.Lock()
	s.summary.TripsDispatched++
	s.summary.TotalDistanceKm += dispatched.DistanceKm
	s.summary.TotalDurationMin += int64(dispatched.DurationMin)
	s.summary.TotalFuelCost += dispatched.FuelCost
	s.mu.Unlock()

	return nil
}

// Summary returns a copy of the current aggregates.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}
