// Package trips provides the trips domain module: the consumer of completed
// dispatch plans.
package trips

import (
	"fleetops_backend/internal/events"
	apphttp "fleetops_backend/internal/http"
	"fleetops_backend/internal/trips/handler"
	"fleetops_backend/internal/trips/repository"
	"fleetops_backend/internal/trips/service"
	"fleetops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the trips domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new trips module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, planSource service.PlanSource, eventBus events.Bus) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, planSource, eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "trips"
}

// RegisterRoutes registers the module's routes under /api/v1/trips.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	trips := ctx.Protected.Group("/trips")
	m.handler.RegisterRoutes(trips)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
