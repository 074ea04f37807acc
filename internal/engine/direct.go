package engine

import "github.com/awardroute/itinerary-engine/internal/domain"

// BuildDirect emits the trivial one-segment itineraries: one single-flight
// itinerary per flight of every availability group whose segment key
// matches the origin-destination pair exactly. No connection matrix is
// involved. Flights absent from the metadata index are skipped, keeping
// the fail-soft exclusion consistent with the composer.
func BuildDirect(pool domain.SegmentPool, meta MetadataIndex, origin, destination string) domain.ItinerarySet {
	set := make(domain.ItinerarySet)
	key := domain.SegmentKey{Origin: origin, Destination: destination}
	routeKey := key.String()

	for _, group := range pool.ForSegment(key) {
		for _, f := range group.Flights {
			if _, ok := meta[f.ID]; !ok {
				continue
			}
			set.Add(routeKey, group.Date, domain.Itinerary{f.ID})
		}
	}

	return set
}
