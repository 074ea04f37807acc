package usecase

import (
	"sort"
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

// BuildCards derives the ephemeral itinerary cards for the query layer
// from the persisted itinerary set and flight map. Cards are recomputed
// per request and emitted in deterministic route/date order. Itineraries
// referencing flights missing from the map are skipped; the post-processor
// guarantees that never happens for its own output.
func BuildCards(set domain.ItinerarySet, flights domain.FlightMap) []domain.ItineraryCard {
	routeKeys := make([]string, 0, len(set))
	for routeKey := range set {
		routeKeys = append(routeKeys, routeKey)
	}
	sort.Strings(routeKeys)

	var cards []domain.ItineraryCard
	for _, routeKey := range routeKeys {
		dates := set[routeKey]
		dateKeys := make([]string, 0, len(dates))
		for date := range dates {
			dateKeys = append(dateKeys, date)
		}
		sort.Strings(dateKeys)

		for _, date := range dateKeys {
			for _, it := range dates[date] {
				if card, ok := buildCard(routeKey, date, it, flights); ok {
					cards = append(cards, card)
				}
			}
		}
	}
	return cards
}

// buildCard computes the derived metadata of one itinerary.
func buildCard(routeKey, date string, it domain.Itinerary, flights domain.FlightMap) (domain.ItineraryCard, bool) {
	if len(it) == 0 {
		return domain.ItineraryCard{}, false
	}

	legs := make([]domain.Flight, 0, len(it))
	for _, id := range it {
		f, ok := flights[id]
		if !ok {
			return domain.ItineraryCard{}, false
		}
		legs = append(legs, f)
	}

	first, last := legs[0], legs[len(legs)-1]

	airports := make([]string, 0, len(legs)+1)
	airports = append(airports, first.Origin)
	flightNumbers := make([]string, 0, len(legs))
	airlines := make([]string, 0, len(legs))
	for _, f := range legs {
		airports = append(airports, f.Destination)
		flightNumbers = append(flightNumbers, f.FlightNumber)
		airlines = append(airlines, airlineOf(f))
	}

	return domain.ItineraryCard{
		ID:                   it.DedupKey(),
		RouteKey:             routeKey,
		Date:                 date,
		FlightIDs:            append([]domain.FlightID(nil), it...),
		FlightNumbers:        flightNumbers,
		Airlines:             airlines,
		Airports:             airports,
		Stops:                len(legs) - 1,
		TotalDurationMinutes: int(last.Arrival.Sub(first.Departure) / time.Minute),
		Departure:            first.Departure,
		Arrival:              last.Arrival,
		CabinPercent:         cabinPercents(legs),
	}, true
}

// cabinPercents computes, per cabin, the share of the itinerary's flights
// with at least one award seat in that cabin.
func cabinPercents(legs []domain.Flight) domain.CabinPercents {
	counts := map[domain.Cabin]int{}
	for _, f := range legs {
		for _, cabin := range domain.Cabins {
			if f.Seats.ForCabin(cabin) > 0 {
				counts[cabin]++
			}
		}
	}
	total := float64(len(legs))
	return domain.CabinPercents{
		Economy:  float64(counts[domain.CabinEconomy]) / total * 100,
		Premium:  float64(counts[domain.CabinPremium]) / total * 100,
		Business: float64(counts[domain.CabinBusiness]) / total * 100,
		First:    float64(counts[domain.CabinFirst]) / total * 100,
	}
}

// airlineOf falls back to the flight-number prefix when the airline code
// is absent from the record.
func airlineOf(f domain.Flight) string {
	if f.Airline != "" {
		return f.Airline
	}
	return domain.AirlineCode(f.FlightNumber)
}
