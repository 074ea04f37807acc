package engine

import (
	"github.com/awardroute/itinerary-engine/internal/domain"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/timeutil"
)

// DefaultMaxItinerariesPerSkeleton caps the branching of a single skeleton
// search. Exceeding it terminates that skeleton early and returns the
// itineraries already found (partial result, not an error).
const DefaultMaxItinerariesPerSkeleton = 5000

// Composer walks route skeletons segment by segment, extending partial
// itineraries only along valid flight-matrix edges. It reads the shared
// metadata index and flight matrix without mutation, so one Composer may
// serve concurrent per-skeleton searches.
type Composer struct {
	meta       MetadataIndex
	matrix     FlightMatrix
	maxResults int
}

// NewComposer creates a Composer over the given metadata index and flight
// matrix. maxResults <= 0 selects DefaultMaxItinerariesPerSkeleton.
func NewComposer(meta MetadataIndex, matrix FlightMatrix, maxResults int) *Composer {
	if maxResults <= 0 {
		maxResults = DefaultMaxItinerariesPerSkeleton
	}
	return &Composer{
		meta:       meta,
		matrix:     matrix,
		maxResults: maxResults,
	}
}

// searchState is one frame of the explicit depth-first stack: the next leg
// to fill, the flight path so far, the airports already visited and the
// last flight appended.
type searchState struct {
	legIndex int
	path     domain.Itinerary
	used     map[string]struct{}
	last     domain.FlightID
}

// Compose performs the depth-first combinatorial search over one skeleton.
// legGroups carries the availability groups for each leg in order;
// legAlliances carries the allowed-alliance set per leg (nil entries are
// unrestricted). Completed paths are keyed by the first flight's calendar
// date and deduplicated within each date.
//
// The search is worst-case exponential in the number of legs but bounded
// in practice: the flight matrix prunes branches before they are pushed,
// and the per-skeleton result ceiling stops pathological fan-out. The full
// Cartesian product is never materialized.
func (c *Composer) Compose(legGroups [][]domain.AvailabilityGroup, legAlliances []domain.AllianceSet) map[string][]domain.Itinerary {
	totalLegs := len(legGroups)
	if totalLegs == 0 {
		return nil
	}

	stack := c.seedFirstLeg(legGroups[0], allianceFor(legAlliances, 0))

	byDate := make(map[string][]domain.Itinerary)
	emitted := 0

	for len(stack) > 0 && emitted < c.maxResults {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if state.legIndex == totalLegs {
			first := state.path[0]
			date := timeutil.DateKey(c.meta[first].Departure)
			byDate[date] = append(byDate[date], state.path)
			emitted++
			continue
		}

		allowed := allianceFor(legAlliances, state.legIndex)
		for gi := range legGroups[state.legIndex] {
			group := &legGroups[state.legIndex][gi]
			if !allowed.Allows(group.Alliance) {
				continue
			}
			for _, candidate := range group.Flights {
				if _, ok := c.meta[candidate.ID]; !ok {
					continue
				}
				if !c.matrix.Connects(state.last, candidate.ID) {
					continue
				}
				if _, visited := state.used[candidate.Destination]; visited {
					continue
				}
				stack = append(stack, extendState(state, candidate))
			}
		}
	}

	return dedupeByDate(byDate)
}

// seedFirstLeg pushes every admissible first-leg flight. The matrix edge
// check is skipped on the very first leg; alliance and metadata checks
// still apply.
func (c *Composer) seedFirstLeg(groups []domain.AvailabilityGroup, allowed domain.AllianceSet) []searchState {
	var stack []searchState
	for gi := range groups {
		group := &groups[gi]
		if !allowed.Allows(group.Alliance) {
			continue
		}
		for _, f := range group.Flights {
			if _, ok := c.meta[f.ID]; !ok {
				continue
			}
			used := map[string]struct{}{
				f.Origin:      {},
				f.Destination: {},
			}
			stack = append(stack, searchState{
				legIndex: 1,
				path:     domain.Itinerary{f.ID},
				used:     used,
				last:     f.ID,
			})
		}
	}
	return stack
}

// extendState copies the frame with the candidate flight appended and its
// destination marked visited. Copies keep sibling frames independent.
func extendState(state searchState, candidate domain.Flight) searchState {
	path := make(domain.Itinerary, len(state.path), len(state.path)+1)
	copy(path, state.path)
	path = append(path, candidate.ID)

	used := make(map[string]struct{}, len(state.used)+1)
	for airport := range state.used {
		used[airport] = struct{}{}
	}
	used[candidate.Destination] = struct{}{}

	return searchState{
		legIndex: state.legIndex + 1,
		path:     path,
		used:     used,
		last:     candidate.ID,
	}
}

// allianceFor returns the allowed set for a leg, nil (unrestricted) when
// the caller supplied no entry for that leg.
func allianceFor(legAlliances []domain.AllianceSet, leg int) domain.AllianceSet {
	if leg >= len(legAlliances) {
		return nil
	}
	return legAlliances[leg]
}

// dedupeByDate collapses identical flight-ID sequences within each date.
// Two search paths through overlapping groups can assemble the same
// flights; the joined sequence is the identity.
func dedupeByDate(byDate map[string][]domain.Itinerary) map[string][]domain.Itinerary {
	for date, its := range byDate {
		seen := make(map[string]struct{}, len(its))
		unique := its[:0]
		for _, it := range its {
			key := it.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, it)
		}
		byDate[date] = unique
	}
	return byDate
}
