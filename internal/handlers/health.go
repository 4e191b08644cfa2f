package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/staywellhq/staywell-backend/internal/services"
)

// HealthCheck reports liveness and the number of connected websocket
// clients.
func HealthCheck(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"clients": hub.ConnectedClients(),
		})
	}
}
