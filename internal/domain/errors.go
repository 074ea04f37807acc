package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the itinerary construction engine.
// Use errors.Is to check for these errors, as they may be wrapped
// with additional context.
var (
	// ErrInvalidRequest indicates the build or query request failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmptySegmentPool indicates the segment pool carries no usable
	// availability for a mandatory leg. This is the only data-gap condition
	// escalated as a build-level error.
	ErrEmptySegmentPool = errors.New("segment pool has no usable availability")

	// ErrInvalidRouteSkeleton indicates a route skeleton has an unusable shape.
	ErrInvalidRouteSkeleton = errors.New("invalid route skeleton")

	// ErrUnsupportedCabin indicates an unrecognized cabin code in a request.
	ErrUnsupportedCabin = errors.New("unsupported cabin code")

	// ErrBuildCancelled indicates the caller's deadline or cancellation
	// interrupted the build; partial results may accompany it.
	ErrBuildCancelled = errors.New("build cancelled")
)

// MetadataError records one flight excluded from the metadata index.
// Metadata errors are fail-soft: the flight becomes unreachable by the
// composer but the overall build continues.
type MetadataError struct {
	// FlightID identifies the excluded flight.
	FlightID FlightID

	// FlightNumber is kept for log readability.
	FlightNumber string

	// Reason describes why the flight was excluded.
	Reason string
}

// Error implements the error interface.
func (e MetadataError) Error() string {
	return fmt.Sprintf("flight %s (%s) excluded from metadata index: %s", e.FlightID, e.FlightNumber, e.Reason)
}
