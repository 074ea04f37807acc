package usecase

import (
	"sort"
	"strings"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

// Pagination bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// QueryItineraries runs the pure, stateless query transform over a build
// result: sequential independent filter stages, one comparator sort, then
// 1-indexed pagination. Each filter stage short-circuits when its
// parameter is absent. Empty input yields an empty page, never an error.
func QueryItineraries(params domain.QueryParams, set domain.ItinerarySet, flights domain.FlightMap) domain.QueryResponse {
	cards := BuildCards(set, flights)
	filtered := applyCardFilters(cards, params)
	facets := computeFacets(filtered)
	sorted := sortCards(filtered, params.SortBy)
	page, pageSize, window := paginate(sorted, params.Page, params.PageSize)

	return domain.QueryResponse{
		Total:    len(sorted),
		Page:     page,
		PageSize: pageSize,
		Data:     window,
		Facets:   facets,
	}
}

// applyCardFilters applies every active filter stage in sequence.
func applyCardFilters(cards []domain.ItineraryCard, params domain.QueryParams) []domain.ItineraryCard {
	stopsSet := intSet(params.Stops)
	includeAirlines := upperSet(params.IncludeAirlines)
	excludeAirlines := upperSet(params.ExcludeAirlines)
	origins := upperSet(params.Origins)
	destinations := upperSet(params.Destinations)
	excludeConnections := upperSet(params.ExcludeConnections)
	searchTokens := tokenize(params.Search)

	result := make([]domain.ItineraryCard, 0, len(cards))
	for _, card := range cards {
		if !matchesCard(card, params, stopsSet, includeAirlines, excludeAirlines, origins, destinations, excludeConnections, searchTokens) {
			continue
		}
		result = append(result, card)
	}
	return result
}

func matchesCard(
	card domain.ItineraryCard,
	params domain.QueryParams,
	stopsSet map[int]struct{},
	includeAirlines, excludeAirlines, origins, destinations, excludeConnections map[string]struct{},
	searchTokens []string,
) bool {
	if len(stopsSet) > 0 {
		if _, ok := stopsSet[card.Stops]; !ok {
			return false
		}
	}

	if len(includeAirlines) > 0 && !anyInSet(card.Airlines, includeAirlines) {
		return false
	}
	if len(excludeAirlines) > 0 && anyInSet(card.Airlines, excludeAirlines) {
		return false
	}

	if params.MaxTotalDurationMinutes != nil && card.TotalDurationMinutes > *params.MaxTotalDurationMinutes {
		return false
	}

	if params.Cabin != nil && card.CabinPercent.ForCabin(*params.Cabin) < 100 {
		return false
	}

	if !params.MinCabinPercent.Matches(card.CabinPercent) {
		return false
	}

	if !params.DepartureWindow.Contains(card.Departure) {
		return false
	}
	if !params.ArrivalWindow.Contains(card.Arrival) {
		return false
	}

	if len(origins) > 0 {
		if _, ok := origins[card.Airports[0]]; !ok {
			return false
		}
	}
	if len(destinations) > 0 {
		if _, ok := destinations[card.Airports[len(card.Airports)-1]]; !ok {
			return false
		}
	}

	connections := card.Connections()
	for _, required := range params.IncludeConnections {
		if !containsFold(connections, required) {
			return false
		}
	}
	if len(excludeConnections) > 0 && anyInSet(connections, excludeConnections) {
		return false
	}

	if len(searchTokens) > 0 && !matchesSearch(card, searchTokens) {
		return false
	}

	return true
}

// matchesSearch requires every token to match the route string, the date
// or one of the flight numbers (AND across tokens, OR across fields).
func matchesSearch(card domain.ItineraryCard, tokens []string) bool {
	route := strings.ToLower(card.RouteKey)
	for _, token := range tokens {
		if strings.Contains(route, token) || strings.Contains(card.Date, token) {
			continue
		}
		matched := false
		for _, fn := range card.FlightNumbers {
			if strings.Contains(strings.ToLower(fn), token) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// sortCards orders by the selected key; ties always break by ascending
// total duration, then by card ID to keep page boundaries deterministic.
func sortCards(cards []domain.ItineraryCard, sortBy domain.SortOption) []domain.ItineraryCard {
	result := make([]domain.ItineraryCard, len(cards))
	copy(result, cards)

	less := comparatorFor(sortBy)
	sort.SliceStable(result, func(i, j int) bool {
		if c := less(result[i], result[j]); c != 0 {
			return c < 0
		}
		if result[i].TotalDurationMinutes != result[j].TotalDurationMinutes {
			return result[i].TotalDurationMinutes < result[j].TotalDurationMinutes
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// comparatorFor returns a three-way comparator for the sort key.
// Cabin-percentage keys sort descending (most availability first).
func comparatorFor(sortBy domain.SortOption) func(a, b domain.ItineraryCard) int {
	switch sortBy {
	case domain.SortByDeparture:
		return func(a, b domain.ItineraryCard) int { return a.Departure.Compare(b.Departure) }
	case domain.SortByArrival:
		return func(a, b domain.ItineraryCard) int { return a.Arrival.Compare(b.Arrival) }
	case domain.SortByEconomyPercent:
		return cabinComparator(domain.CabinEconomy)
	case domain.SortByPremiumPercent:
		return cabinComparator(domain.CabinPremium)
	case domain.SortByBusinessPercent:
		return cabinComparator(domain.CabinBusiness)
	case domain.SortByFirstPercent:
		return cabinComparator(domain.CabinFirst)
	default:
		return func(a, b domain.ItineraryCard) int {
			return a.TotalDurationMinutes - b.TotalDurationMinutes
		}
	}
}

func cabinComparator(cabin domain.Cabin) func(a, b domain.ItineraryCard) int {
	return func(a, b domain.ItineraryCard) int {
		pa, pb := a.CabinPercent.ForCabin(cabin), b.CabinPercent.ForCabin(cabin)
		switch {
		case pa > pb:
			return -1
		case pa < pb:
			return 1
		default:
			return 0
		}
	}
}

// paginate slices the 1-indexed page window. Invalid pages clamp to 1;
// invalid page sizes clamp to the default.
func paginate(cards []domain.ItineraryCard, page, pageSize int) (int, int, []domain.ItineraryCard) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	start := (page - 1) * pageSize
	if start >= len(cards) {
		return page, pageSize, []domain.ItineraryCard{}
	}
	end := start + pageSize
	if end > len(cards) {
		end = len(cards)
	}
	return page, pageSize, cards[start:end]
}

// computeFacets summarizes the filtered set for client-side filter controls.
func computeFacets(cards []domain.ItineraryCard) domain.QueryFacets {
	facets := domain.QueryFacets{
		Stops:    []int{},
		Airlines: []string{},
		Airports: []string{},
	}
	if len(cards) == 0 {
		return facets
	}

	stops := map[int]struct{}{}
	airlines := map[string]struct{}{}
	airports := map[string]struct{}{}

	duration := domain.IntRange{Min: cards[0].TotalDurationMinutes, Max: cards[0].TotalDurationMinutes}
	departure := domain.TimeRange{Earliest: cards[0].Departure, Latest: cards[0].Departure}
	arrival := domain.TimeRange{Earliest: cards[0].Arrival, Latest: cards[0].Arrival}

	for _, card := range cards {
		stops[card.Stops] = struct{}{}
		for _, airline := range card.Airlines {
			airlines[airline] = struct{}{}
		}
		for _, airport := range card.Airports {
			airports[airport] = struct{}{}
		}

		if card.TotalDurationMinutes < duration.Min {
			duration.Min = card.TotalDurationMinutes
		}
		if card.TotalDurationMinutes > duration.Max {
			duration.Max = card.TotalDurationMinutes
		}
		if card.Departure.Before(departure.Earliest) {
			departure.Earliest = card.Departure
		}
		if card.Departure.After(departure.Latest) {
			departure.Latest = card.Departure
		}
		if card.Arrival.Before(arrival.Earliest) {
			arrival.Earliest = card.Arrival
		}
		if card.Arrival.After(arrival.Latest) {
			arrival.Latest = card.Arrival
		}
	}

	for s := range stops {
		facets.Stops = append(facets.Stops, s)
	}
	sort.Ints(facets.Stops)
	for a := range airlines {
		facets.Airlines = append(facets.Airlines, a)
	}
	sort.Strings(facets.Airlines)
	for a := range airports {
		facets.Airports = append(facets.Airports, a)
	}
	sort.Strings(facets.Airports)

	facets.Duration = &duration
	facets.Departure = &departure
	facets.Arrival = &arrival
	return facets
}

// Small set helpers shared by the filter stages.

func intSet(values []int) map[int]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func upperSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = struct{}{}
	}
	return set
}

func anyInSet(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[strings.ToUpper(v)]; ok {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func tokenize(search string) []string {
	fields := strings.Fields(strings.ToLower(search))
	if len(fields) == 0 {
		return nil
	}
	return fields
}
