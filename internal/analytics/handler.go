package analytics

import (
	"fleetops_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the analytics endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetSummary handles GET /api/v1/analytics/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	httpkit.OK(c, h.svc.Summary())
}
