package engine

import "github.com/awardroute/itinerary-engine/internal/domain"

// PrefilterResult separates the candidate skeletons from the subset worth
// composing. All preserves the input order for reporting; Valid keeps only
// skeletons for which every consecutive airport pair has some availability.
type PrefilterResult struct {
	All   []domain.RouteSkeleton
	Valid []domain.RouteSkeleton
}

// PrefilterSkeletons discards route skeletons for which some consecutive
// city-pair has zero availability, before the expensive composition runs.
//
// A pair is satisfiable when the segment pool has a non-empty entry for
// the exact airport pair, or when some pool entry's own recorded city
// codes match the two airports' cities (multi-airport city equivalence).
// The test must never produce false negatives: the composer re-validates
// exactly, so ambiguity resolves toward keeping the skeleton.
func PrefilterSkeletons(skeletons []domain.RouteSkeleton, pool domain.SegmentPool, cities domain.CityResolver) PrefilterResult {
	result := PrefilterResult{All: skeletons}

	for _, skeleton := range skeletons {
		if skeletonSatisfiable(skeleton, pool, cities) {
			result.Valid = append(result.Valid, skeleton)
		}
	}

	return result
}

// skeletonSatisfiable checks every consecutive airport pair of the skeleton.
func skeletonSatisfiable(skeleton domain.RouteSkeleton, pool domain.SegmentPool, cities domain.CityResolver) bool {
	for _, leg := range skeleton.Legs() {
		if len(pool.ForSegment(leg)) > 0 {
			continue
		}
		if !legSatisfiableByCity(leg, pool, cities) {
			return false
		}
	}
	return true
}

// legSatisfiableByCity scans the pool for a group whose recorded origin and
// destination city codes match the leg endpoints' cities.
func legSatisfiableByCity(leg domain.SegmentKey, pool domain.SegmentPool, cities domain.CityResolver) bool {
	if cities == nil {
		return false
	}
	originCity := cities.CityOf(leg.Origin)
	destinationCity := cities.CityOf(leg.Destination)

	for _, groups := range pool {
		for i := range groups {
			g := &groups[i]
			if g.OriginCity == "" || g.DestinationCity == "" {
				continue
			}
			if g.OriginCity == originCity && g.DestinationCity == destinationCity {
				return true
			}
		}
	}
	return false
}

// CollectLegGroups gathers the availability groups serving one leg: the
// exact airport pair's groups plus any group whose recorded city codes
// match the leg endpoints' cities. The composer's matrix walk re-validates
// connections exactly, so the wider city-equivalent set cannot introduce
// invalid itineraries.
func CollectLegGroups(pool domain.SegmentPool, leg domain.SegmentKey, cities domain.CityResolver) []domain.AvailabilityGroup {
	groups := append([]domain.AvailabilityGroup(nil), pool.ForSegment(leg)...)

	if cities == nil {
		return groups
	}
	originCity := cities.CityOf(leg.Origin)
	destinationCity := cities.CityOf(leg.Destination)

	for key, segGroups := range pool {
		if key == leg {
			continue
		}
		for i := range segGroups {
			g := &segGroups[i]
			if g.OriginCity == "" || g.DestinationCity == "" {
				continue
			}
			if g.OriginCity == originCity && g.DestinationCity == destinationCity {
				groups = append(groups, *g)
			}
		}
	}
	return groups
}
