// Package http provides the HTTP handler layer for the itinerary engine API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

// airportCodeRegex matches valid IATA airport codes (3 uppercase letters).
var airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// dateRegex matches dates in YYYY-MM-DD format.
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// clockRegex matches times of day in HH:MM format.
var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidationErrors collects field-level validation failures.
type ValidationErrors struct {
	fields map[string]string
}

// Add records a failure for a field. The first message per field wins.
func (v *ValidationErrors) Add(field, message string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

// HasErrors reports whether any failure was recorded.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.fields) > 0
}

// ToMap returns the field-to-message mapping for the error response.
func (v *ValidationErrors) ToMap() map[string]string {
	return v.fields
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.fields))
	for field, message := range v.fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SeatCountsDTO carries the per-cabin award seat counts.
type SeatCountsDTO struct {
	Economy  int `json:"y"`
	Premium  int `json:"w"`
	Business int `json:"j"`
	First    int `json:"f"`
}

// PartnerFlagsDTO carries the per-cabin partner-booking eligibility flags.
type PartnerFlagsDTO struct {
	Economy  bool `json:"y"`
	Premium  bool `json:"w"`
	Business bool `json:"j"`
	First    bool `json:"f"`
}

// FlightDTO is the wire form of one flight record. Timestamps are RFC3339;
// a timestamp that fails parsing leaves the flight in the pool but excluded
// from the metadata index (fail-soft per flight).
type FlightDTO struct {
	FlightNumber    string          `json:"flightNumber"`
	AircraftType    string          `json:"aircraftType,omitempty"`
	Origin          string          `json:"origin"`
	Destination     string          `json:"destination"`
	OriginCity      string          `json:"originCity,omitempty"`
	DestinationCity string          `json:"destinationCity,omitempty"`
	Departure       string          `json:"departure"`
	Arrival         string          `json:"arrival"`
	DurationMinutes int             `json:"durationMinutes,omitempty"`
	Seats           SeatCountsDTO   `json:"seats"`
	PartnerEligible PartnerFlagsDTO `json:"partnerEligible"`
}

// GroupDTO is the wire form of one availability group.
type GroupDTO struct {
	Origin          string      `json:"origin"`
	Destination     string      `json:"destination"`
	OriginCity      string      `json:"originCity,omitempty"`
	DestinationCity string      `json:"destinationCity,omitempty"`
	Date            string      `json:"date"`
	Alliance        string      `json:"alliance"`
	Flights         []FlightDTO `json:"flights"`
}

// BuildItinerariesRequest is the body of POST /api/v1/itineraries/build.
type BuildItinerariesRequest struct {
	Origin                string                `json:"origin"`
	Destination           string                `json:"destination"`
	SegmentPool           map[string][]GroupDTO `json:"segmentPool"`
	Skeletons             [][]string            `json:"skeletons,omitempty"`
	LegAlliances          [][]string            `json:"legAlliances,omitempty"`
	StartDate             string                `json:"startDate"`
	EndDate               string                `json:"endDate"`
	MinReliabilityPercent *float64              `json:"minReliabilityPercent,omitempty"`
	UnreliableAirlines    []string              `json:"unreliableAirlines,omitempty"`
	Cities                map[string]string     `json:"cities,omitempty"`
}

// Validate checks the structural rules of the build request.
func (r *BuildItinerariesRequest) Validate() error {
	errs := &ValidationErrors{}

	if r.Origin == "" {
		errs.Add("origin", "origin is required")
	} else if !airportCodeRegex.MatchString(r.Origin) {
		errs.Add("origin", "must be a valid 3-letter IATA code")
	}

	if r.Destination == "" {
		errs.Add("destination", "destination is required")
	} else if !airportCodeRegex.MatchString(r.Destination) {
		errs.Add("destination", "must be a valid 3-letter IATA code")
	}

	if r.Origin != "" && r.Origin == r.Destination {
		errs.Add("destination", "origin and destination must be different")
	}

	if r.StartDate == "" {
		errs.Add("startDate", "startDate is required")
	} else if !dateRegex.MatchString(r.StartDate) {
		errs.Add("startDate", "must be in YYYY-MM-DD format")
	}

	if r.EndDate == "" {
		errs.Add("endDate", "endDate is required")
	} else if !dateRegex.MatchString(r.EndDate) {
		errs.Add("endDate", "must be in YYYY-MM-DD format")
	}

	if len(r.SegmentPool) == 0 {
		errs.Add("segmentPool", "segmentPool must not be empty")
	}

	if r.MinReliabilityPercent != nil && (*r.MinReliabilityPercent < 0 || *r.MinReliabilityPercent > 100) {
		errs.Add("minReliabilityPercent", "must be within [0, 100]")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ClockWindowDTO is a time-of-day window in HH:MM form, inclusive.
type ClockWindowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CabinThresholdsDTO carries per-cabin minimum availability percentages.
type CabinThresholdsDTO struct {
	Economy  *float64 `json:"y,omitempty"`
	Premium  *float64 `json:"w,omitempty"`
	Business *float64 `json:"j,omitempty"`
	First    *float64 `json:"f,omitempty"`
}

// QueryParamsDTO enumerates the recognized filter/sort/pagination fields.
type QueryParamsDTO struct {
	Stops                   []int               `json:"stops,omitempty"`
	IncludeAirlines         []string            `json:"includeAirlines,omitempty"`
	ExcludeAirlines         []string            `json:"excludeAirlines,omitempty"`
	MaxTotalDurationMinutes *int                `json:"maxTotalDurationMinutes,omitempty"`
	Cabin                   string              `json:"cabin,omitempty"`
	MinCabinPercent         *CabinThresholdsDTO `json:"minCabinPercent,omitempty"`
	DepartureWindow         *ClockWindowDTO     `json:"departureWindow,omitempty"`
	ArrivalWindow           *ClockWindowDTO     `json:"arrivalWindow,omitempty"`
	Origins                 []string            `json:"origins,omitempty"`
	Destinations            []string            `json:"destinations,omitempty"`
	IncludeConnections      []string            `json:"includeConnections,omitempty"`
	ExcludeConnections      []string            `json:"excludeConnections,omitempty"`
	Search                  string              `json:"search,omitempty"`
	SortBy                  string              `json:"sortBy,omitempty"`
	Page                    int                 `json:"page,omitempty"`
	PageSize                int                 `json:"pageSize,omitempty"`
}

// QueryItinerariesRequest is the body of POST /api/v1/itineraries/query.
// The client round-trips the build output: serialization/persistence of
// build results between calls is the caller's concern.
type QueryItinerariesRequest struct {
	Itineraries map[string]map[string][][]string `json:"itineraries"`
	Flights     map[string]FlightDTO             `json:"flights"`
	Query       QueryParamsDTO                   `json:"query"`
}

// Validate checks the structural rules of the query request.
func (r *QueryItinerariesRequest) Validate() error {
	errs := &ValidationErrors{}

	if r.Query.Page < 0 {
		errs.Add("query.page", "page must not be negative")
	}
	if r.Query.PageSize < 0 {
		errs.Add("query.pageSize", "pageSize must not be negative")
	}
	if r.Query.SortBy != "" && !isValidSortBy(r.Query.SortBy) {
		errs.Add("query.sortBy", "unrecognized sort option")
	}
	if r.Query.Cabin != "" {
		if _, err := domain.ParseCabin(r.Query.Cabin); err != nil {
			errs.Add("query.cabin", "must be one of Y, W, J, F")
		}
	}
	if r.Query.DepartureWindow != nil {
		validateWindow(errs, "query.departureWindow", r.Query.DepartureWindow)
	}
	if r.Query.ArrivalWindow != nil {
		validateWindow(errs, "query.arrivalWindow", r.Query.ArrivalWindow)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateWindow(errs *ValidationErrors, field string, w *ClockWindowDTO) {
	if !clockRegex.MatchString(w.Start) {
		errs.Add(field, "start must be in HH:MM format")
		return
	}
	if !clockRegex.MatchString(w.End) {
		errs.Add(field, "end must be in HH:MM format")
	}
}
