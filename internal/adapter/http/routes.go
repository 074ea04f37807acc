package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes on the Echo instance.
func RegisterRoutes(e *echo.Echo, handler *ItineraryHandler) {
	e.GET("/health", handler.Health)

	v1 := e.Group("/api/v1")
	itineraries := v1.Group("/itineraries")
	itineraries.POST("/build", handler.BuildItineraries)
	itineraries.POST("/query", handler.QueryItineraries)
}
