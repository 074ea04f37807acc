package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/awardroute/itinerary-engine/internal/adapter/http/response"
	"github.com/awardroute/itinerary-engine/internal/domain"
	"github.com/awardroute/itinerary-engine/internal/usecase"
)

// ItineraryHandler handles the itinerary build and query endpoints.
type ItineraryHandler struct {
	builder usecase.ItineraryBuilder
}

// NewItineraryHandler creates an ItineraryHandler.
func NewItineraryHandler(builder usecase.ItineraryBuilder) *ItineraryHandler {
	return &ItineraryHandler{builder: builder}
}

// BuildItineraries handles POST /api/v1/itineraries/build.
func (h *ItineraryHandler) BuildItineraries(c echo.Context) error {
	var req BuildItinerariesRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		var verrs *ValidationErrors
		if errors.As(err, &verrs) {
			return response.ValidationError(c, verrs.ToMap())
		}
		return response.BadRequest(c, err.Error())
	}

	result, err := h.builder.Build(c.Request().Context(), ToBuildRequest(&req))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBuildCancelled):
			// Partial results are still useful to the caller.
			if result != nil {
				return response.BuildResults(c, result)
			}
			return response.RequestCancelled(c)
		case errors.Is(err, domain.ErrEmptySegmentPool):
			return response.EmptySegmentPool(c)
		case errors.Is(err, domain.ErrInvalidRequest):
			return response.ValidationErrorWithMessage(c, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return response.GatewayTimeout(c)
		case errors.Is(err, context.Canceled):
			return response.RequestCancelled(c)
		default:
			return response.InternalServerError(c)
		}
	}

	return response.BuildResults(c, result)
}

// QueryItineraries handles POST /api/v1/itineraries/query. The request
// round-trips a previous build result; the endpoint itself is stateless.
func (h *ItineraryHandler) QueryItineraries(c echo.Context) error {
	var req QueryItinerariesRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		var verrs *ValidationErrors
		if errors.As(err, &verrs) {
			return response.ValidationError(c, verrs.ToMap())
		}
		return response.BadRequest(c, err.Error())
	}

	set := ToQuerySet(req.Itineraries)
	flights := ToQueryFlights(req.Flights)
	page := usecase.QueryItineraries(ToQueryParams(req.Query), set, flights)

	return response.QueryResults(c, page)
}

// Health handles GET /health.
func (h *ItineraryHandler) Health(c echo.Context) error {
	return response.Health(c)
}
