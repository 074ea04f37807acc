package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/timeutil"
	"github.com/awardroute/itinerary-engine/internal/usecase"
)

// ToBuildRequest converts the validated wire request into the usecase
// build request. Malformed pool items (groups missing required fields)
// are dropped per item, never failing the whole conversion; flights with
// unparseable timestamps are kept with zero timestamps so the metadata
// index can report and exclude them.
func ToBuildRequest(req *BuildItinerariesRequest) usecase.BuildRequest {
	startDate, _ := timeutil.ParseDate(req.StartDate)
	endDate, _ := timeutil.ParseDate(req.EndDate)

	minReliability := 0.0
	if req.MinReliabilityPercent != nil {
		minReliability = *req.MinReliabilityPercent
	}

	return usecase.BuildRequest{
		Pool:                  toSegmentPool(req.SegmentPool),
		Origin:                req.Origin,
		Destination:           req.Destination,
		Skeletons:             toSkeletons(req.Skeletons),
		LegAlliances:          toLegAlliances(req.LegAlliances),
		StartDate:             startDate,
		EndDate:               endDate,
		MinReliabilityPercent: minReliability,
		UnreliableAirlines:    req.UnreliableAirlines,
		Cities:                domain.StaticCityResolver(req.Cities),
	}
}

// toSegmentPool converts the wire pool, dropping groups that miss required
// fields or whose key disagrees with the recorded segment.
func toSegmentPool(wire map[string][]GroupDTO) domain.SegmentPool {
	pool := make(domain.SegmentPool, len(wire))
	for rawKey, groups := range wire {
		key, ok := parseSegmentKey(rawKey)
		if !ok {
			continue
		}
		for _, g := range groups {
			if g.Origin == "" || g.Destination == "" || g.Date == "" {
				continue
			}
			group := toGroup(g)
			pool[key] = append(pool[key], group)
		}
	}
	return pool
}

// parseSegmentKey parses the "ORG-DST" wire form.
func parseSegmentKey(raw string) (domain.SegmentKey, bool) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.SegmentKey{}, false
	}
	return domain.SegmentKey{Origin: parts[0], Destination: parts[1]}, true
}

// toGroup converts one group, deriving flight identities and the envelope.
func toGroup(g GroupDTO) domain.AvailabilityGroup {
	flights := make([]domain.Flight, 0, len(g.Flights))
	for _, f := range g.Flights {
		flights = append(flights, toFlight(f, g))
	}
	group := domain.NewAvailabilityGroup(g.Origin, g.Destination, g.Date, domain.Alliance(g.Alliance), flights)
	if g.OriginCity != "" {
		group.OriginCity = g.OriginCity
	}
	if g.DestinationCity != "" {
		group.DestinationCity = g.DestinationCity
	}
	return group
}

// toFlight converts one flight, falling back to the owning group for the
// endpoints. Timestamp parse failures leave zero values.
func toFlight(f FlightDTO, g GroupDTO) domain.Flight {
	origin := f.Origin
	if origin == "" {
		origin = g.Origin
	}
	destination := f.Destination
	if destination == "" {
		destination = g.Destination
	}

	departure, _ := time.Parse(time.RFC3339, f.Departure)
	arrival, _ := time.Parse(time.RFC3339, f.Arrival)

	originCity := f.OriginCity
	if originCity == "" {
		originCity = g.OriginCity
	}
	destinationCity := f.DestinationCity
	if destinationCity == "" {
		destinationCity = g.DestinationCity
	}

	return domain.Flight{
		ID:              domain.NewFlightID(f.FlightNumber, departure, origin, destination),
		FlightNumber:    f.FlightNumber,
		Airline:         domain.AirlineCode(f.FlightNumber),
		AircraftType:    f.AircraftType,
		Origin:          origin,
		Destination:     destination,
		OriginCity:      originCity,
		DestinationCity: destinationCity,
		Departure:       departure,
		Arrival:         arrival,
		DurationMinutes: f.DurationMinutes,
		Seats: domain.SeatCounts{
			Economy:  f.Seats.Economy,
			Premium:  f.Seats.Premium,
			Business: f.Seats.Business,
			First:    f.Seats.First,
		},
		PartnerEligible: domain.PartnerFlags{
			Economy:  f.PartnerEligible.Economy,
			Premium:  f.PartnerEligible.Premium,
			Business: f.PartnerEligible.Business,
			First:    f.PartnerEligible.First,
		},
	}
}

func toSkeletons(wire [][]string) []domain.RouteSkeleton {
	skeletons := make([]domain.RouteSkeleton, 0, len(wire))
	for _, airports := range wire {
		skeletons = append(skeletons, domain.RouteSkeleton{Airports: airports})
	}
	return skeletons
}

func toLegAlliances(wire [][]string) []domain.AllianceSet {
	sets := make([]domain.AllianceSet, 0, len(wire))
	for _, leg := range wire {
		alliances := make([]domain.Alliance, 0, len(leg))
		for _, a := range leg {
			alliances = append(alliances, domain.Alliance(a))
		}
		sets = append(sets, domain.NewAllianceSet(alliances))
	}
	return sets
}

// ToQuerySet converts the round-tripped itinerary grouping.
func ToQuerySet(wire map[string]map[string][][]string) domain.ItinerarySet {
	set := make(domain.ItinerarySet, len(wire))
	for routeKey, dates := range wire {
		for date, sequences := range dates {
			for _, sequence := range sequences {
				it := make(domain.Itinerary, 0, len(sequence))
				for _, id := range sequence {
					it = append(it, domain.FlightID(id))
				}
				set.Add(routeKey, date, it)
			}
		}
	}
	return set
}

// ToQueryFlights converts the round-tripped flight dictionary. The map key
// is authoritative for identity.
func ToQueryFlights(wire map[string]FlightDTO) domain.FlightMap {
	flights := make(domain.FlightMap, len(wire))
	for id, f := range wire {
		flight := toFlight(f, GroupDTO{})
		flight.ID = domain.FlightID(id)
		flights[domain.FlightID(id)] = flight
	}
	return flights
}

// ToQueryParams converts the wire query parameters.
func ToQueryParams(dto QueryParamsDTO) domain.QueryParams {
	return domain.QueryParams{
		Stops:                   dto.Stops,
		IncludeAirlines:         dto.IncludeAirlines,
		ExcludeAirlines:         dto.ExcludeAirlines,
		MaxTotalDurationMinutes: dto.MaxTotalDurationMinutes,
		Cabin:                   toCabin(dto.Cabin),
		MinCabinPercent:         toCabinThresholds(dto.MinCabinPercent),
		DepartureWindow:         toClockWindow(dto.DepartureWindow),
		ArrivalWindow:           toClockWindow(dto.ArrivalWindow),
		Origins:                 dto.Origins,
		Destinations:            dto.Destinations,
		IncludeConnections:      dto.IncludeConnections,
		ExcludeConnections:      dto.ExcludeConnections,
		Search:                  dto.Search,
		SortBy:                  domain.ParseSortOption(dto.SortBy),
		Page:                    dto.Page,
		PageSize:                dto.PageSize,
	}
}

// toCabin converts the validated cabin code; empty means no cabin filter.
func toCabin(code string) *domain.Cabin {
	if code == "" {
		return nil
	}
	cabin, err := domain.ParseCabin(code)
	if err != nil {
		return nil
	}
	return &cabin
}

func toCabinThresholds(dto *CabinThresholdsDTO) *domain.CabinThresholds {
	if dto == nil {
		return nil
	}
	return &domain.CabinThresholds{
		Economy:  dto.Economy,
		Premium:  dto.Premium,
		Business: dto.Business,
		First:    dto.First,
	}
}

func toClockWindow(dto *ClockWindowDTO) *domain.ClockWindow {
	if dto == nil {
		return nil
	}
	return &domain.ClockWindow{
		StartMinutes: clockToMinutes(dto.Start),
		EndMinutes:   clockToMinutes(dto.End),
	}
}

// clockToMinutes parses a validated "HH:MM" string into minutes from
// midnight.
func clockToMinutes(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

// isValidSortBy reports whether the wire sort option is recognized.
func isValidSortBy(s string) bool {
	return domain.SortOption(s).IsValid()
}
