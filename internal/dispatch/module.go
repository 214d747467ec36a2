package dispatch

import (
	apphttp "fleetops_backend/internal/http"
	"fleetops_backend/platform/config"
	"fleetops_backend/platform/logger"
)

// ModuleConfig combines the config interfaces the dispatch module needs.
type ModuleConfig interface {
	config.GeoConfig
	config.DispatchConfig
	config.FuelConfig
}

// Module wires the dispatch planner HTTP routes.
type Module struct {
	registry *Registry
	handler  *Handler
}

// NewModule builds the module around the given provider collaborators.
func NewModule(geocoder Geocoder, router RoutePlanner, cfg ModuleConfig, log *logger.Logger) *Module {
	opts := Options{
		DebounceInterval: cfg.GetDebounceInterval(),
		SuggestionLimit:  cfg.GetSuggestionLimit(),
		FuelRatePerKm:    cfg.GetFuelRatePerKm(),
	}

	registry := NewRegistry(func() *Planner {
		return NewPlanner(geocoder, router, opts, log)
	}, cfg.GetPlannerIdleTTL(), log)

	return &Module{
		registry: registry,
		handler:  NewHandler(registry, log),
	}
}

func (m *Module) Name() string {
	return "dispatch"
}

// Registry exposes the session registry for cross-module adapters.
func (m *Module) Registry() *Registry {
	return m.registry
}

// Close tears down all sessions.
func (m *Module) Close() {
	m.registry.Close()
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/dispatch/planners")
	group.POST("", m.handler.CreatePlanner)
	group.GET("/:id", m.handler.GetPlanner)
	group.DELETE("/:id", m.handler.DeletePlanner)
	group.GET("/:id/events", m.handler.Stream)

	fields := group.Group("/:id/fields/:field")
	fields.POST("/input", m.handler.Input)
	fields.POST("/key", m.handler.Key)
	fields.POST("/hover", m.handler.Hover)
	fields.POST("/select", m.handler.Select)
	fields.POST("/clear", m.handler.Clear)
	fields.POST("/close", m.handler.CloseDropdown)
	fields.POST("/prefill", m.handler.Prefill)
	fields.POST("/error", m.handler.DisplayError)
}

var _ apphttp.Module = (*Module)(nil)
