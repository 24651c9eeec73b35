package api

import (
	routes "locshare/internal/api/handlers"
	"locshare/internal/service/arrival"
	"locshare/internal/service/fence"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""))

	// Setup position and session handlers
	routes.NewPositionHandler(arrival.GetArrivalService()).Register(api)

	// Setup fence handlers
	routes.NewFenceHandler(fence.GetFenceService()).Register(api)
}
