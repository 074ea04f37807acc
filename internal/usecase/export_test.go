package usecase

import (
	"github.com/awardroute/itinerary-engine/internal/infrastructure/logger"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/timeutil"
)

// NewBuilderWithClock constructs the unexported builder directly so the
// external test package can inject a frozen clock.
func NewBuilderWithClock(cfg Config, log *logger.Logger, clock timeutil.Clock) ItineraryBuilder {
	return &itineraryBuilder{
		cfg:   cfg,
		log:   log,
		clock: clock,
	}
}
