package handler

import (
	"net/http"

	"fleetops_backend/internal/trips/repository"
	"fleetops_backend/internal/trips/service"
	"fleetops_backend/internal/trips/transport"
	"fleetops_backend/platform/httpkit"
	"fleetops_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for trips.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new trips handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the trip routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/dispatch", h.Dispatch)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

// Dispatch handles POST /api/v1/trips/dispatch.
func (h *Handler) Dispatch(c *gin.Context) {
	var req transport.DispatchTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	trip, err := h.svc.Dispatch(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(trip))
}

// List handles GET /api/v1/trips.
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTripsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	trips, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.TripResponse, 0, len(trips))
	for i := range trips {
		responses = append(responses, toResponse(&trips[i]))
	}
	httpkit.OK(c, responses)
}

// GetByID handles GET /api/v1/trips/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid trip id", nil)
		return
	}

	trip, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(trip))
}

// UpdateStatus handles PATCH /api/v1/trips/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid trip id", nil)
		return
	}

	var req transport.UpdateTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.UpdateStatus(c.Request.Context(), id, req.Status)) {
		return
	}

	c.Status(http.StatusNoContent)
}

func toResponse(trip *repository.Trip) transport.TripResponse {
	return transport.TripResponse{
		ID:              trip.ID,
		VehicleID:       trip.VehicleID,
		DriverName:      trip.DriverName,
		OriginName:      trip.OriginName,
		OriginLat:       trip.OriginLat,
		OriginLon:       trip.OriginLon,
		DestinationName: trip.DestinationName,
		DestinationLat:  trip.DestinationLat,
		DestinationLon:  trip.DestinationLon,
		DistanceKm:      trip.DistanceKm,
		DurationMin:     trip.DurationMin,
		FuelCost:        trip.FuelCost,
		Status:          transport.TripStatus(trip.Status),
		Notes:           trip.Notes,
		DispatchedAt:    trip.DispatchedAt,
	}
}
