package domain

import "strings"

// itineraryKeySeparator joins flight IDs into the dedup key. Flight IDs are
// fixed-form UUID strings, so the separator cannot collide.
const itineraryKeySeparator = "|"

// Itinerary is an ordered sequence of flight IDs representing one complete,
// connection-valid, airport-non-repeating path from origin to destination
// on a single calendar date.
type Itinerary []FlightID

// DedupKey returns the canonical identity of the itinerary. Two itineraries
// with identical flight-ID sequences are the same itinerary.
func (i Itinerary) DedupKey() string {
	parts := make([]string, len(i))
	for n, id := range i {
		parts[n] = string(id)
	}
	return strings.Join(parts, itineraryKeySeparator)
}

// ItinerarySet stores itineraries grouped by route key and date. This
// route -> date -> flight-ID-sequences grouping is the wire and cache
// format of the engine's output.
type ItinerarySet map[string]map[string][]Itinerary

// Add appends an itinerary under the given route key and date.
func (s ItinerarySet) Add(routeKey, date string, it Itinerary) {
	dates, ok := s[routeKey]
	if !ok {
		dates = make(map[string][]Itinerary)
		s[routeKey] = dates
	}
	dates[date] = append(dates[date], it)
}

// Merge folds another set into this one.
func (s ItinerarySet) Merge(other ItinerarySet) {
	for routeKey, dates := range other {
		for date, its := range dates {
			for _, it := range its {
				s.Add(routeKey, date, it)
			}
		}
	}
}

// Count returns the total number of itineraries across all buckets.
func (s ItinerarySet) Count() int {
	total := 0
	for _, dates := range s {
		for _, its := range dates {
			total += len(its)
		}
	}
	return total
}

// ReferencedFlights returns the set of flight IDs appearing in at least
// one itinerary of the set.
func (s ItinerarySet) ReferencedFlights() map[FlightID]struct{} {
	refs := make(map[FlightID]struct{})
	for _, dates := range s {
		for _, its := range dates {
			for _, it := range its {
				for _, id := range it {
					refs[id] = struct{}{}
				}
			}
		}
	}
	return refs
}
