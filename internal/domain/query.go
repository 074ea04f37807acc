package domain

import "time"

// SortOption defines the available sorting keys for itinerary cards.
type SortOption string

// Available sort options. Ties are always broken by ascending total duration.
const (
	// SortByDuration sorts by total duration including layovers (default).
	SortByDuration SortOption = "duration"

	// SortByDeparture sorts by outbound departure time ascending.
	SortByDeparture SortOption = "departure"

	// SortByArrival sorts by final arrival time ascending.
	SortByArrival SortOption = "arrival"

	// Cabin-percentage sorts order by per-cabin availability descending.
	SortByEconomyPercent  SortOption = "y_percent"
	SortByPremiumPercent  SortOption = "w_percent"
	SortByBusinessPercent SortOption = "j_percent"
	SortByFirstPercent    SortOption = "f_percent"
)

// IsValid checks if the sort option is a recognized value.
func (s SortOption) IsValid() bool {
	switch s {
	case SortByDuration, SortByDeparture, SortByArrival,
		SortByEconomyPercent, SortByPremiumPercent, SortByBusinessPercent, SortByFirstPercent:
		return true
	default:
		return false
	}
}

// ParseSortOption converts a string to a SortOption.
// Returns SortByDuration if the string is empty or unrecognized.
func ParseSortOption(s string) SortOption {
	option := SortOption(s)
	if option.IsValid() {
		return option
	}
	return SortByDuration
}

// ClockWindow is a time-of-day window for filtering departures or arrivals,
// expressed as minutes from midnight (inclusive on both ends).
type ClockWindow struct {
	// StartMinutes is the beginning of the window (0 = midnight).
	StartMinutes int `json:"startMinutes"`

	// EndMinutes is the end of the window (1439 = 23:59).
	EndMinutes int `json:"endMinutes"`
}

// Contains checks if the time-of-day of t falls within the window.
func (w *ClockWindow) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= w.StartMinutes && minutes <= w.EndMinutes
}

// CabinPercents holds a per-cabin availability percentage (0-100), the
// share of an itinerary's flights with at least one seat in that cabin.
type CabinPercents struct {
	Economy  float64 `json:"y"`
	Premium  float64 `json:"w"`
	Business float64 `json:"j"`
	First    float64 `json:"f"`
}

// ForCabin returns the percentage for the given cabin.
func (p CabinPercents) ForCabin(c Cabin) float64 {
	switch c {
	case CabinEconomy:
		return p.Economy
	case CabinPremium:
		return p.Premium
	case CabinBusiness:
		return p.Business
	case CabinFirst:
		return p.First
	default:
		return 0
	}
}

// CabinThresholds holds optional per-cabin minimum percentage thresholds.
// Nil fields are not applied.
type CabinThresholds struct {
	Economy  *float64 `json:"y,omitempty"`
	Premium  *float64 `json:"w,omitempty"`
	Business *float64 `json:"j,omitempty"`
	First    *float64 `json:"f,omitempty"`
}

// Matches checks the per-cabin percentages against the thresholds.
func (t *CabinThresholds) Matches(p CabinPercents) bool {
	if t == nil {
		return true
	}
	if t.Economy != nil && p.Economy < *t.Economy {
		return false
	}
	if t.Premium != nil && p.Premium < *t.Premium {
		return false
	}
	if t.Business != nil && p.Business < *t.Business {
		return false
	}
	if t.First != nil && p.First < *t.First {
		return false
	}
	return true
}

// QueryParams enumerates every recognized filter, sort and pagination
// field for the query layer. It is constructed once per request; absent
// fields short-circuit their filter stage.
type QueryParams struct {
	// Stops restricts results to itineraries whose stop count is in the set.
	Stops []int `json:"stops,omitempty"`

	// IncludeAirlines / ExcludeAirlines match the two-letter airline
	// prefix of any flight in the itinerary.
	IncludeAirlines []string `json:"includeAirlines,omitempty"`
	ExcludeAirlines []string `json:"excludeAirlines,omitempty"`

	// MaxTotalDurationMinutes caps the total duration including layovers.
	MaxTotalDurationMinutes *int `json:"maxTotalDurationMinutes,omitempty"`

	// Cabin restricts results to itineraries with availability in the
	// cabin on every flight.
	Cabin *Cabin `json:"cabin,omitempty"`

	// MinCabinPercent applies per-cabin minimum availability thresholds.
	MinCabinPercent *CabinThresholds `json:"minCabinPercent,omitempty"`

	// DepartureWindow / ArrivalWindow are time-of-day windows for the
	// outbound departure and final arrival.
	DepartureWindow *ClockWindow `json:"departureWindow,omitempty"`
	ArrivalWindow   *ClockWindow `json:"arrivalWindow,omitempty"`

	// Origins / Destinations restrict the first and last airport.
	Origins      []string `json:"origins,omitempty"`
	Destinations []string `json:"destinations,omitempty"`

	// IncludeConnections requires every listed airport to appear as an
	// intermediate stop; ExcludeConnections rejects itineraries touching
	// any listed airport as an intermediate stop.
	IncludeConnections []string `json:"includeConnections,omitempty"`
	ExcludeConnections []string `json:"excludeConnections,omitempty"`

	// Search is a free-text query; every whitespace-separated token must
	// match the route string, date or a flight number.
	Search string `json:"search,omitempty"`

	// SortBy selects the comparator key.
	SortBy SortOption `json:"sortBy,omitempty"`

	// Page is 1-indexed; invalid values clamp to 1.
	Page int `json:"page,omitempty"`

	// PageSize is the number of cards per page.
	PageSize int `json:"pageSize,omitempty"`
}

// ItineraryCard is an itinerary plus derived metadata for the query layer.
// Cards are ephemeral: recomputed per request from the persisted itinerary
// set and flight map.
type ItineraryCard struct {
	// ID is the itinerary's dedup key.
	ID string `json:"id"`

	// RouteKey and Date locate the itinerary in the wire grouping.
	RouteKey string `json:"routeKey"`
	Date     string `json:"date"`

	// FlightIDs is the ordered flight sequence.
	FlightIDs []FlightID `json:"flightIds"`

	// FlightNumbers mirrors FlightIDs for display and free-text search.
	FlightNumbers []string `json:"flightNumbers"`

	// Airlines is the ordered list of two-letter airline codes.
	Airlines []string `json:"airlines"`

	// Airports is the full airport sequence including origin and destination.
	Airports []string `json:"airports"`

	// Stops is the number of intermediate stops.
	Stops int `json:"stops"`

	// TotalDurationMinutes includes layovers (first departure to last arrival).
	TotalDurationMinutes int `json:"totalDurationMinutes"`

	// Departure and Arrival bound the full journey.
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`

	// CabinPercent is the per-cabin availability percentage.
	CabinPercent CabinPercents `json:"cabinPercent"`
}

// Connections returns the intermediate airports of the card.
func (c ItineraryCard) Connections() []string {
	if len(c.Airports) <= 2 {
		return nil
	}
	return c.Airports[1 : len(c.Airports)-1]
}

// IntRange is a numeric facet range.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TimeRange is a timestamp facet range.
type TimeRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// QueryFacets summarizes the filtered result set so clients can render
// filter controls: distinct stop counts, airlines and airports, plus
// numeric ranges for duration, departure and arrival.
type QueryFacets struct {
	Stops     []int      `json:"stops"`
	Airlines  []string   `json:"airlines"`
	Airports  []string   `json:"airports"`
	Duration  *IntRange  `json:"duration,omitempty"`
	Departure *TimeRange `json:"departure,omitempty"`
	Arrival   *TimeRange `json:"arrival,omitempty"`
}

// QueryResponse is one page of the filtered, sorted itinerary card set.
// It is always structurally valid: an empty input yields zero counts and
// empty facets, never an error.
type QueryResponse struct {
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	Data     []ItineraryCard `json:"data"`
	Facets   QueryFacets     `json:"facets"`
}
