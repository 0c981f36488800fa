package handlers

import (
	"net/http"

	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the dashboard.
type AdminHandler struct {
	dashboardService services.DashboardService
}

func NewAdminHandler(ds services.DashboardService) *AdminHandler {
	return &AdminHandler{dashboardService: ds}
}

// GetStats returns aggregated dashboard statistics.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
