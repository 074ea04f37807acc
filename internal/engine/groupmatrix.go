package engine

import (
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

// GroupMatrix records, at availability-group granularity, which destination
// groups are reachable from which origin groups within the connection-time
// envelope. It is a cheap necessary-but-not-sufficient filter: it may admit
// group pairs with no actually-valid flight pair, and the flight-level
// matrix remains the authority.
type GroupMatrix map[domain.GroupKey]map[domain.GroupKey]struct{}

// Reachable returns the set of group keys reachable from the given group.
func (m GroupMatrix) Reachable(key domain.GroupKey) map[domain.GroupKey]struct{} {
	return m[key]
}

// BuildGroupMatrix computes the group-level connection matrix with an
// O(groups x average-destination-bucket-size) scan: groups are bucketed by
// origin airport, so each group only examines the bucket under its own
// destination airport, never the full O(flights^2) cross product.
func BuildGroupMatrix(pool domain.SegmentPool, minConnection, maxLayover time.Duration) GroupMatrix {
	// Bucket every group by its origin airport.
	byOrigin := make(map[string][]*domain.AvailabilityGroup)
	for key := range pool {
		groups := pool[key]
		for i := range groups {
			g := &groups[i]
			byOrigin[g.Origin] = append(byOrigin[g.Origin], g)
		}
	}

	matrix := make(GroupMatrix)
	for _, groups := range byOrigin {
		for _, from := range groups {
			candidates := byOrigin[from.Destination]
			if len(candidates) == 0 {
				continue
			}
			fromKey := from.Key()
			for _, to := range candidates {
				toKey := to.Key()
				if toKey == fromKey {
					continue
				}
				if !groupsMayConnect(from, to, minConnection, maxLayover) {
					continue
				}
				reachable, ok := matrix[fromKey]
				if !ok {
					reachable = make(map[domain.GroupKey]struct{})
					matrix[fromKey] = reachable
				}
				reachable[toKey] = struct{}{}
			}
		}
	}

	return matrix
}

// groupsMayConnect applies the envelope feasibility test using the loosest
// bounds: the longest possible layover must reach the minimum connection
// time and the shortest possible layover must not exceed the maximum.
// Missing envelope data defaults to an optimistic accept, deferring the
// rejection to the flight-level matrix.
func groupsMayConnect(from, to *domain.AvailabilityGroup, minConnection, maxLayover time.Duration) bool {
	if !from.HasArrivalEnvelope() || !to.HasDepartureEnvelope() {
		return true
	}

	longest := to.LatestDeparture.Sub(*from.EarliestArrival)
	if longest < minConnection {
		return false
	}

	shortest := to.EarliestDeparture.Sub(*from.LatestArrival)
	return shortest <= maxLayover
}
