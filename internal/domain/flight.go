// Package domain contains the core business entities and rules for the
// itinerary construction engine. These entities are carrier-agnostic and
// form the foundation upon which all other components are built.
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Cabin identifies one of the four award booking buckets.
type Cabin string

// Supported cabin codes.
const (
	CabinEconomy  Cabin = "Y"
	CabinPremium  Cabin = "W"
	CabinBusiness Cabin = "J"
	CabinFirst    Cabin = "F"
)

// Cabins lists every supported cabin in display order.
var Cabins = []Cabin{CabinEconomy, CabinPremium, CabinBusiness, CabinFirst}

// ParseCabin converts a cabin code string to a Cabin, accepting either
// case. Unrecognized codes return ErrUnsupportedCabin.
func ParseCabin(s string) (Cabin, error) {
	c := Cabin(strings.ToUpper(s))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCabin, s)
	}
	return c, nil
}

// IsValid checks if the cabin is one of the supported codes.
func (c Cabin) IsValid() bool {
	switch c {
	case CabinEconomy, CabinPremium, CabinBusiness, CabinFirst:
		return true
	default:
		return false
	}
}

// FlightID is the stable identity of a single scheduled flight leg.
// It is a deterministic UUID derived from the flight's immutable fields,
// so the same physical flight observed in different data pulls collapses
// to one record.
type FlightID string

// flightIDNamespace is the fixed UUID namespace for flight identity hashing.
var flightIDNamespace = uuid.MustParse("8c5e788a-3f6c-45b0-9a8f-6d1f0b6d2c41")

// NewFlightID derives the deterministic identity for a flight from its
// immutable fields: flight number, departure timestamp, origin and
// destination airports.
func NewFlightID(flightNumber string, departure time.Time, origin, destination string) FlightID {
	seed := flightNumber + "|" + departure.UTC().Format(time.RFC3339) + "|" + origin + "|" + destination
	return FlightID(uuid.NewSHA1(flightIDNamespace, []byte(seed)).String())
}

// SeatCounts holds the per-cabin award seat counts for one flight.
type SeatCounts struct {
	Economy  int `json:"y"`
	Premium  int `json:"w"`
	Business int `json:"j"`
	First    int `json:"f"`
}

// ForCabin returns the seat count for the given cabin.
func (s SeatCounts) ForCabin(c Cabin) int {
	switch c {
	case CabinEconomy:
		return s.Economy
	case CabinPremium:
		return s.Premium
	case CabinBusiness:
		return s.Business
	case CabinFirst:
		return s.First
	default:
		return 0
	}
}

// PartnerFlags holds the per-cabin partner-booking eligibility flags.
type PartnerFlags struct {
	Economy  bool `json:"y"`
	Premium  bool `json:"w"`
	Business bool `json:"j"`
	First    bool `json:"f"`
}

// Flight represents a single scheduled flight leg with seat availability.
// A Flight is immutable once created; it is owned by the flight map built
// for one search and referenced by ID everywhere else.
type Flight struct {
	// ID is the deterministic identity derived from the immutable fields.
	ID FlightID `json:"id"`

	// FlightNumber is the airline-prefixed flight number (e.g., "QR921").
	FlightNumber string `json:"flightNumber"`

	// Airline is the two-letter IATA airline code (e.g., "QR").
	Airline string `json:"airline"`

	// AircraftType is the equipment descriptor (e.g., "77W").
	AircraftType string `json:"aircraftType,omitempty"`

	// Origin and Destination are IATA airport codes.
	Origin      string `json:"origin"`
	Destination string `json:"destination"`

	// OriginCity and DestinationCity are the city groupings of the
	// endpoints, used for multi-airport city equivalence.
	OriginCity      string `json:"originCity,omitempty"`
	DestinationCity string `json:"destinationCity,omitempty"`

	// Departure and Arrival are the scheduled timestamps.
	// A zero value marks a timestamp that failed upstream parsing; such
	// flights are excluded by the metadata index.
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`

	// DurationMinutes is the total flight duration in minutes.
	DurationMinutes int `json:"durationMinutes"`

	// Seats holds the per-cabin award seat counts.
	Seats SeatCounts `json:"seats"`

	// PartnerEligible holds the per-cabin partner-booking eligibility flags.
	PartnerEligible PartnerFlags `json:"partnerEligible"`
}

// AirlineCode extracts the two-letter airline prefix from a flight number.
// Returns an empty string when the flight number has no letter prefix.
func AirlineCode(flightNumber string) string {
	trimmed := strings.TrimSpace(strings.ToUpper(flightNumber))
	if len(trimmed) < 2 {
		return ""
	}
	if !unicode.IsLetter(rune(trimmed[0])) && !unicode.IsDigit(rune(trimmed[0])) {
		return ""
	}
	return trimmed[:2]
}
