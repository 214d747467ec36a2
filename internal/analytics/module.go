package analytics

import (
	"fleetops_backend/internal/events"
	apphttp "fleetops_backend/internal/http"
	"fleetops_backend/platform/logger"
)

// Module wires the analytics routes.
type Module struct {
	handler *Handler
	Service *Service
}

// NewModule creates the analytics module and subscribes it to the event bus.
func NewModule(bus events.Bus, log *logger.Logger) *Module {
	svc := NewService(bus, log)
	return &Module{
		handler: NewHandler(svc),
		Service: svc,
	}
}

func (m *Module) Name() string {
	return "analytics"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	analytics := ctx.Protected.Group("/analytics")
	analytics.GET("/summary", m.handler.GetSummary)
}

var _ apphttp.Module = (*Module)(nil)
