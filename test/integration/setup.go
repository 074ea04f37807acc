// Package integration contains end-to-end tests that exercise the full
// HTTP stack: middleware, handlers, the build pipeline and the query
// layer, without a network listener.
package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	itineraryhttp "github.com/awardroute/itinerary-engine/internal/adapter/http"
	"github.com/awardroute/itinerary-engine/internal/adapter/http/middleware"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/logger"
	"github.com/awardroute/itinerary-engine/internal/usecase"
)

// newServer assembles the full application stack over the given cache
// (nil disables caching), mirroring the wiring in cmd/server.
func newServer(cache usecase.ResultCache) *echo.Echo {
	log := logger.Nop()

	e := echo.New()
	e.HideBanner = true
	middleware.Setup(e, log.Logger)

	builder := usecase.NewItineraryBuilder(nil, cache, log)
	itineraryhttp.RegisterRoutes(e, itineraryhttp.NewItineraryHandler(builder))
	return e
}

// buildRequestBody renders a build request over a two-leg pool
// (JFK-LHR-CDG via oneworld) plus a direct skyteam JFK-CDG flight.
func buildRequestBody(t *testing.T) string {
	t.Helper()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rfc := func(d time.Duration) string { return day.Add(d).Format(time.RFC3339) }

	return fmt.Sprintf(`{
		"origin": "JFK",
		"destination": "CDG",
		"startDate": "2026-05-01",
		"endDate": "2026-05-02",
		"skeletons": [["JFK", "LHR", "CDG"]],
		"segmentPool": {
			"JFK-LHR": [{
				"origin": "JFK", "destination": "LHR", "date": "2026-05-01",
				"alliance": "oneworld",
				"flights": [{
					"flightNumber": "BA112",
					"departure": %q, "arrival": %q,
					"seats": {"y": 4, "w": 0, "j": 2, "f": 0},
					"partnerEligible": {"y": true, "w": false, "j": true, "f": false}
				}]
			}],
			"LHR-CDG": [{
				"origin": "LHR", "destination": "CDG", "date": "2026-05-01",
				"alliance": "oneworld",
				"flights": [{
					"flightNumber": "BA304",
					"departure": %q, "arrival": %q,
					"seats": {"y": 9, "w": 0, "j": 0, "f": 0},
					"partnerEligible": {"y": true, "w": false, "j": false, "f": false}
				}]
			}],
			"JFK-CDG": [{
				"origin": "JFK", "destination": "CDG", "date": "2026-05-01",
				"alliance": "skyteam",
				"flights": [{
					"flightNumber": "AF7",
					"departure": %q, "arrival": %q,
					"seats": {"y": 2, "w": 2, "j": 1, "f": 1},
					"partnerEligible": {"y": true, "w": true, "j": true, "f": true}
				}]
			}]
		}
	}`,
		rfc(8*time.Hour), rfc(15*time.Hour),
		rfc(17*time.Hour), rfc(18*time.Hour),
		rfc(8*time.Hour), rfc(15*time.Hour+30*time.Minute),
	)
}
