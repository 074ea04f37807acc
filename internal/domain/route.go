package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Route skeleton shape limits: origin, up to two hub pairs, destination.
const (
	MinSkeletonAirports = 2
	MaxSkeletonAirports = 6
)

// skeletonAirportRegex matches valid IATA airport codes (3 uppercase letters).
var skeletonAirportRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// RouteSkeleton is an ordered airport sequence describing a candidate
// itinerary shape before flights are assigned. Skeletons are supplied
// externally and prefiltered against the segment pool before composition.
type RouteSkeleton struct {
	// Airports is the ordered airport sequence, 2 to 6 codes.
	Airports []string `json:"airports"`
}

// Validate checks the skeleton shape. Returns a wrapped
// ErrInvalidRouteSkeleton when the shape is unusable.
func (s RouteSkeleton) Validate() error {
	if len(s.Airports) < MinSkeletonAirports {
		return fmt.Errorf("%w: need at least %d airports, got %d", ErrInvalidRouteSkeleton, MinSkeletonAirports, len(s.Airports))
	}
	if len(s.Airports) > MaxSkeletonAirports {
		return fmt.Errorf("%w: at most %d airports allowed, got %d", ErrInvalidRouteSkeleton, MaxSkeletonAirports, len(s.Airports))
	}
	for i, code := range s.Airports {
		if !skeletonAirportRegex.MatchString(code) {
			return fmt.Errorf("%w: airport %d must be a 3-letter IATA code, got %q", ErrInvalidRouteSkeleton, i, code)
		}
		if i > 0 && s.Airports[i-1] == code {
			return fmt.Errorf("%w: consecutive airports repeat %q", ErrInvalidRouteSkeleton, code)
		}
	}
	return nil
}

// Key renders the skeleton as its wire route key, e.g. "JFK-LHR-CDG".
func (s RouteSkeleton) Key() string {
	return strings.Join(s.Airports, "-")
}

// NumLegs returns the number of flight legs in the skeleton.
func (s RouteSkeleton) NumLegs() int {
	if len(s.Airports) < 2 {
		return 0
	}
	return len(s.Airports) - 1
}

// Legs returns the consecutive airport pairs of the skeleton.
func (s RouteSkeleton) Legs() []SegmentKey {
	legs := make([]SegmentKey, 0, s.NumLegs())
	for i := 0; i+1 < len(s.Airports); i++ {
		legs = append(legs, SegmentKey{Origin: s.Airports[i], Destination: s.Airports[i+1]})
	}
	return legs
}
