package dispatch

import (
	"net/http"

	"fleetops_backend/platform/httpkit"
	"fleetops_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes planner sessions over HTTP and SSE.
type Handler struct {
	registry *Registry
	log      *logger.Logger
}

func NewHandler(registry *Registry, log *logger.Logger) *Handler {
	return &Handler{registry: registry, log: log}
}

// CreatePlanner handles POST /dispatch/planners.
func (h *Handler) CreatePlanner(c *gin.Context) {
	planner, err := h.registry.Create()
	if err != nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "dispatch is shutting down", nil)
		return
	}
	httpkit.Created(c, planner.Snapshot())
}

// GetPlanner handles GET /dispatch/planners/:id.
func (h *Handler) GetPlanner(c *gin.Context) {
	planner, ok := h.planner(c)
	if !ok {
		return
	}
	httpkit.OK(c, planner.Snapshot())
}

// DeletePlanner handles DELETE /dispatch/planners/:id.
func (h *Handler) DeletePlanner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid planner id", nil)
		return
	}
	if !h.registry.Delete(id) {
		httpkit.Error(c, http.StatusNotFound, "planner not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// Input handles POST /dispatch/planners/:id/fields/:field/input.
func (h *Handler) Input(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}

	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid input payload", nil)
		return
	}

	h.apply(c, planner, planner.Input(fieldID, req.Text))
}

// Key handles POST /dispatch/planners/:id/fields/:field/key.
func (h *Handler) Key(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}

	var req KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "key must be one of down, up, enter, escape", nil)
		return
	}

	h.apply(c, planner, planner.Key(fieldID, req.Key))
}

// Hover handles POST /dispatch/planners/:id/fields/:field/hover.
func (h *Handler) Hover(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}

	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "index is required", nil)
		return
	}

	h.apply(c, planner, planner.Hover(fieldID, *req.Index))
}

// Select handles POST /dispatch/planners/:id/fields/:field/select.
// Modeled on mouse-down so it wins against a competing blur.
func (h *Handler) Select(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}

	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "index is required", nil)
		return
	}

	h.apply(c, planner, planner.Select(fieldID, *req.Index))
}

// Clear handles POST /dispatch/planners/:id/fields/:field/clear.
func (h *Handler) Clear(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}
	h.apply(c, planner, planner.Clear(fieldID))
}

// CloseDropdown handles POST /dispatch/planners/:id/fields/:field/close.
func (h *Handler) CloseDropdown(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}
	h.apply(c, planner, planner.CloseDropdown(fieldID))
}

// Prefill handles POST /dispatch/planners/:id/fields/:field/prefill.
func (h *Handler) Prefill(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}

	var req PrefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "name, lat, and lon are required", nil)
		return
	}

	h.apply(c, planner, planner.Prefill(fieldID, ResolvedLocation{Name: req.Name, Lat: *req.Lat, Lon: *req.Lon}))
}

// DisplayError handles POST /dispatch/planners/:id/fields/:field/error.
func (h *Handler) DisplayError(c *gin.Context) {
	planner, fieldID, ok := h.plannerField(c)
	if !ok {
		return
	}

	var req DisplayErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	h.apply(c, planner, planner.SetDisplayError(fieldID, req.Message))
}

// Stream handles GET /dispatch/planners/:id/events as Server-Sent Events.
func (h *Handler) Stream(c *gin.Context) {
	planner, ok := h.planner(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	snapshots, unsubscribe := planner.Subscribe()
	defer unsubscribe()

	c.SSEvent("snapshot", planner.Snapshot())
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case snap, open := <-snapshots:
			if !open {
				return
			}
			c.SSEvent("snapshot", snap)
			c.Writer.Flush()
		}
	}
}

func (h *Handler) apply(c *gin.Context, planner *Planner, err error) {
	switch err {
	case nil:
		httpkit.OK(c, planner.Snapshot())
	case ErrPlannerClosed:
		httpkit.Error(c, http.StatusNotFound, "planner not found", nil)
	case ErrUnknownField:
		httpkit.Error(c, http.StatusBadRequest, "field must be origin or destination", nil)
	case ErrIndexOutOfRange:
		httpkit.Error(c, http.StatusBadRequest, "suggestion index out of range", nil)
	default:
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
	}
}

func (h *Handler) planner(c *gin.Context) (*Planner, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid planner id", nil)
		return nil, false
	}

	planner, ok := h.registry.Get(id)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "planner not found", nil)
		return nil, false
	}
	return planner, true
}

func (h *Handler) plannerField(c *gin.Context) (*Planner, FieldID, bool) {
	planner, ok := h.planner(c)
	if !ok {
		return nil, "", false
	}

	fieldID := FieldID(c.Param("field"))
	if fieldID != FieldOrigin && fieldID != FieldDestination {
		httpkit.Error(c, http.StatusBadRequest, "field must be origin or destination", nil)
		return nil, "", false
	}
	return planner, fieldID, true
}
