package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health writes a health check response.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status: "ok",
	})
}

// BuildResults writes a 200 OK response with an itinerary build result.
func BuildResults(c echo.Context, result interface{}) error {
	return c.JSON(http.StatusOK, result)
}

// QueryResults writes a 200 OK response with a query page.
func QueryResults(c echo.Context, page interface{}) error {
	return c.JSON(http.StatusOK, page)
}
