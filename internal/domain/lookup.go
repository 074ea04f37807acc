package domain

// CityResolver maps an airport code to its metropolitan city grouping so
// multi-airport cities are treated as interchangeable endpoints for
// connection purposes. The underlying table is external data consumed
// read-only; the engine only ever calls these two lookups.
type CityResolver interface {
	// CityOf returns the city code for an airport. Implementations
	// return the airport code itself when no grouping is known.
	CityOf(airport string) string

	// CitiesEqual reports whether two airports serve the same city.
	CitiesEqual(a, b string) bool
}

// StaticCityResolver is a CityResolver backed by a fixed airport-to-city
// table, the shape the equivalence data arrives in over the wire.
type StaticCityResolver map[string]string

// CityOf implements CityResolver.
func (r StaticCityResolver) CityOf(airport string) string {
	if city, ok := r[airport]; ok && city != "" {
		return city
	}
	return airport
}

// CitiesEqual implements CityResolver.
func (r StaticCityResolver) CitiesEqual(a, b string) bool {
	return r.CityOf(a) == r.CityOf(b)
}

// ReliabilityPredicate reports whether a flight counts as unreliable for
// the cumulative-duration reliability filter. The scoring table behind it
// is supplied by the caller; it is data, not part of the algorithm.
type ReliabilityPredicate func(Flight) bool

// UnreliableAirlines builds a ReliabilityPredicate that flags flights
// operated by any of the given airline codes.
func UnreliableAirlines(codes []string) ReliabilityPredicate {
	if len(codes) == 0 {
		return func(Flight) bool { return false }
	}
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return func(f Flight) bool {
		_, ok := set[f.Airline]
		return ok
	}
}
