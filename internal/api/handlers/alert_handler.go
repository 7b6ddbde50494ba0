package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meridian-grc/meridian/backend/internal/services"
)

type AlertHandler struct {
	alerts *services.AlertService
}

func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

func (h *AlertHandler) List(c *gin.Context) {
	includeResolved := c.Query("include_resolved") == "true"

	alerts, err := h.alerts.List(includeResolved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	if err := h.alerts.Resolve(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alert resolved"})
}

// RunChecks triggers the compliance checks immediately instead of
// waiting for the next scheduled run.
func (h *AlertHandler) RunChecks(c *gin.Context) {
	go h.alerts.RunChecks()
	c.JSON(http.StatusAccepted, gin.H{"message": "Compliance checks started"})
}
