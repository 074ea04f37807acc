package engine

import (
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

// FlightMatrix is the authoritative flight-to-flight edge set the composer
// walks: for each flight, the set of flights it may connect into within
// the connection window.
type FlightMatrix map[domain.FlightID]map[domain.FlightID]struct{}

// Connects reports whether flight a has an edge into flight b.
func (m FlightMatrix) Connects(a, b domain.FlightID) bool {
	edges, ok := m[a]
	if !ok {
		return false
	}
	_, ok = edges[b]
	return ok
}

// EdgeCount returns the total number of edges in the matrix.
func (m FlightMatrix) EdgeCount() int {
	total := 0
	for _, edges := range m {
		total += len(edges)
	}
	return total
}

// BuildFlightMatrix refines the group-level matrix into exact
// flight-to-flight edges. Only flight pairs whose groups are already
// connection-compatible are examined, which bounds the pairwise work to
// compatible groups instead of the full flight cross product.
//
// An edge exists iff minConnection <= candidate.Departure - flight.Arrival
// <= maxLayover. Self-edges are excluded. Flights absent from the metadata
// index never receive edges.
func BuildFlightMatrix(meta MetadataIndex, pool domain.SegmentPool, groups GroupMatrix, minConnection, maxLayover time.Duration) FlightMatrix {
	// Index groups by key for candidate lookup.
	byKey := make(map[domain.GroupKey]*domain.AvailabilityGroup)
	for key := range pool {
		segGroups := pool[key]
		for i := range segGroups {
			g := &segGroups[i]
			byKey[g.Key()] = g
		}
	}

	matrix := make(FlightMatrix)
	for _, from := range byKey {
		reachable := groups.Reachable(from.Key())
		if len(reachable) == 0 {
			continue
		}
		for _, f := range from.Flights {
			fm, ok := meta[f.ID]
			if !ok {
				continue
			}
			for toKey := range reachable {
				to, ok := byKey[toKey]
				if !ok {
					continue
				}
				for _, candidate := range to.Flights {
					if candidate.ID == f.ID {
						continue
					}
					cm, ok := meta[candidate.ID]
					if !ok {
						continue
					}
					layover := cm.Departure.Sub(fm.Arrival)
					if layover < minConnection || layover > maxLayover {
						continue
					}
					edges, ok := matrix[f.ID]
					if !ok {
						edges = make(map[domain.FlightID]struct{})
						matrix[f.ID] = edges
					}
					edges[candidate.ID] = struct{}{}
				}
			}
		}
	}

	return matrix
}
