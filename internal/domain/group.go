package domain

import "time"

// Alliance is an airline-alliance partition label. Flights on one leg may
// only be combined when their group's alliance is in the allowed set for
// that leg.
type Alliance string

// Well-known alliance partitions. Solo carriers form their own partition.
const (
	AllianceStar     Alliance = "staralliance"
	AllianceOneworld Alliance = "oneworld"
	AllianceSkyTeam  Alliance = "skyteam"
	AllianceSolo     Alliance = "solo"
)

// AllianceSet is the allowed-alliance set for one leg.
// A nil or empty set means the leg is unrestricted.
type AllianceSet map[Alliance]struct{}

// NewAllianceSet builds an AllianceSet from a list of alliance labels.
// Returns nil for an empty list (unrestricted).
func NewAllianceSet(alliances []Alliance) AllianceSet {
	if len(alliances) == 0 {
		return nil
	}
	set := make(AllianceSet, len(alliances))
	for _, a := range alliances {
		set[a] = struct{}{}
	}
	return set
}

// Allows reports whether the given alliance may be used on this leg.
func (s AllianceSet) Allows(a Alliance) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[a]
	return ok
}

// SegmentKey identifies one directed origin-destination airport pair.
type SegmentKey struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// String renders the segment key in its wire form "ORG-DST".
func (k SegmentKey) String() string {
	return k.Origin + "-" + k.Destination
}

// GroupKey identifies one availability group: a segment, a calendar date
// and an alliance partition. It is used directly as a map key so the hot
// connection-matrix loops avoid string concatenation.
type GroupKey struct {
	Origin      string
	Destination string
	Date        string
	Alliance    Alliance
}

// AvailabilityGroup holds all flights for one (origin, destination, date,
// alliance-partition) tuple, plus the derived departure/arrival envelope
// used as a fast pre-check before per-flight timing tests.
// Groups are read-only after construction.
type AvailabilityGroup struct {
	// Origin and Destination are IATA airport codes.
	Origin      string `json:"origin"`
	Destination string `json:"destination"`

	// OriginCity and DestinationCity are the recorded city groupings of
	// the endpoints, consulted by the route skeleton prefilter.
	OriginCity      string `json:"originCity,omitempty"`
	DestinationCity string `json:"destinationCity,omitempty"`

	// Date is the service date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Alliance is the alliance partition this group belongs to.
	Alliance Alliance `json:"alliance"`

	// Flights are the member flights of this group.
	Flights []Flight `json:"flights"`

	// Envelope timestamps across the member flights. Nil pointers mark
	// missing envelope data; the group matrix treats missing envelopes
	// as an optimistic accept.
	EarliestDeparture *time.Time `json:"earliestDeparture,omitempty"`
	LatestDeparture   *time.Time `json:"latestDeparture,omitempty"`
	EarliestArrival   *time.Time `json:"earliestArrival,omitempty"`
	LatestArrival     *time.Time `json:"latestArrival,omitempty"`
}

// NewAvailabilityGroup constructs a group and computes its envelope from
// the member flights. Flights with zero timestamps do not contribute to
// the envelope.
func NewAvailabilityGroup(origin, destination, date string, alliance Alliance, flights []Flight) AvailabilityGroup {
	g := AvailabilityGroup{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Alliance:    alliance,
		Flights:     flights,
	}
	for _, f := range flights {
		if g.OriginCity == "" {
			g.OriginCity = f.OriginCity
		}
		if g.DestinationCity == "" {
			g.DestinationCity = f.DestinationCity
		}
		if !f.Departure.IsZero() {
			if g.EarliestDeparture == nil || f.Departure.Before(*g.EarliestDeparture) {
				dep := f.Departure
				g.EarliestDeparture = &dep
			}
			if g.LatestDeparture == nil || f.Departure.After(*g.LatestDeparture) {
				dep := f.Departure
				g.LatestDeparture = &dep
			}
		}
		if !f.Arrival.IsZero() {
			if g.EarliestArrival == nil || f.Arrival.Before(*g.EarliestArrival) {
				arr := f.Arrival
				g.EarliestArrival = &arr
			}
			if g.LatestArrival == nil || f.Arrival.After(*g.LatestArrival) {
				arr := f.Arrival
				g.LatestArrival = &arr
			}
		}
	}
	return g
}

// Key returns the group's identity tuple.
func (g *AvailabilityGroup) Key() GroupKey {
	return GroupKey{
		Origin:      g.Origin,
		Destination: g.Destination,
		Date:        g.Date,
		Alliance:    g.Alliance,
	}
}

// SegmentKey returns the directed airport pair this group serves.
func (g *AvailabilityGroup) SegmentKey() SegmentKey {
	return SegmentKey{Origin: g.Origin, Destination: g.Destination}
}

// HasDepartureEnvelope reports whether both departure bounds are present.
func (g *AvailabilityGroup) HasDepartureEnvelope() bool {
	return g.EarliestDeparture != nil && g.LatestDeparture != nil
}

// HasArrivalEnvelope reports whether both arrival bounds are present.
func (g *AvailabilityGroup) HasArrivalEnvelope() bool {
	return g.EarliestArrival != nil && g.LatestArrival != nil
}

// SegmentPool maps segment keys to the availability groups covering all
// dates in the search window. This is the engine's primary external input;
// it is treated as immutable for the duration of one search.
type SegmentPool map[SegmentKey][]AvailabilityGroup

// ForSegment returns the groups recorded for the given airport pair.
func (p SegmentPool) ForSegment(key SegmentKey) []AvailabilityGroup {
	return p[key]
}

// TotalFlights counts every flight across all groups in the pool.
func (p SegmentPool) TotalFlights() int {
	total := 0
	for _, groups := range p {
		for i := range groups {
			total += len(groups[i].Flights)
		}
	}
	return total
}

// FlightMap is the flight dictionary referenced by surviving itineraries.
// After post-processing it contains exactly the flights referenced by at
// least one itinerary.
type FlightMap map[FlightID]Flight
