package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
	"github.com/awardroute/itinerary-engine/internal/engine"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/logger"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/timeutil"
	"github.com/awardroute/itinerary-engine/internal/worker"
)

// Default engine tunables.
const (
	DefaultMinConnection          = 45 * time.Minute
	DefaultMaxLayover             = 24 * time.Hour
	DefaultPoolSize               = 8
	DefaultMaxItinerariesPerRoute = engine.DefaultMaxItinerariesPerSkeleton
)

// airportCodeRegex matches valid IATA airport codes (3 uppercase letters).
var airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// BuildRequest carries one itinerary construction request: the normalized
// segment pool, the candidate route skeletons and the search constraints.
// All fields arrive already validated at the transport layer; Validate
// re-checks the domain rules.
type BuildRequest struct {
	// Pool is the per-segment availability, the engine's primary input.
	Pool domain.SegmentPool

	// Origin and Destination are the endpoints of the search.
	Origin      string
	Destination string

	// Skeletons are the candidate multi-stop route shapes.
	Skeletons []domain.RouteSkeleton

	// LegAlliances restricts which alliance partitions may serve each leg
	// index. Nil entries (or a short slice) leave legs unrestricted.
	LegAlliances []domain.AllianceSet

	// StartDate and EndDate bound the outbound departure date window.
	StartDate time.Time
	EndDate   time.Time

	// MinReliabilityPercent drops itineraries whose unreliable-duration
	// fraction exceeds 100 - MinReliabilityPercent. Zero disables the filter.
	MinReliabilityPercent float64

	// UnreliableAirlines lists the airline codes counted as unreliable.
	UnreliableAirlines []string

	// Cities is the airport-to-city equivalence table.
	Cities domain.StaticCityResolver
}

// Validate checks the request's domain rules.
func (r *BuildRequest) Validate() error {
	if !airportCodeRegex.MatchString(r.Origin) {
		return fmt.Errorf("%w: origin must be a 3-letter IATA code, got %q", domain.ErrInvalidRequest, r.Origin)
	}
	if !airportCodeRegex.MatchString(r.Destination) {
		return fmt.Errorf("%w: destination must be a 3-letter IATA code, got %q", domain.ErrInvalidRequest, r.Destination)
	}
	if r.Origin == r.Destination {
		return fmt.Errorf("%w: origin and destination must be different", domain.ErrInvalidRequest)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: search window is required", domain.ErrInvalidRequest)
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: search window end precedes start", domain.ErrInvalidRequest)
	}
	if r.MinReliabilityPercent < 0 || r.MinReliabilityPercent > 100 {
		return fmt.Errorf("%w: minReliabilityPercent must be within [0, 100], got %v", domain.ErrInvalidRequest, r.MinReliabilityPercent)
	}
	if len(r.Pool) == 0 {
		return domain.ErrEmptySegmentPool
	}
	return nil
}

// CacheKey derives the deterministic cache key for the request: a SHA-256
// over a sorted fingerprint of every search-relevant parameter.
func (r *BuildRequest) CacheKey() string {
	lines := make([]string, 0, len(r.Pool)+len(r.Skeletons)+8)
	lines = append(lines,
		"od:"+r.Origin+"-"+r.Destination,
		"window:"+r.StartDate.UTC().Format(time.RFC3339)+".."+r.EndDate.UTC().Format(time.RFC3339),
		fmt.Sprintf("reliability:%.4f", r.MinReliabilityPercent),
		"unreliable:"+strings.Join(sortedCopy(r.UnreliableAirlines), ","),
	)
	for _, skeleton := range r.Skeletons {
		lines = append(lines, "skeleton:"+skeleton.Key())
	}
	for i, set := range r.LegAlliances {
		members := make([]string, 0, len(set))
		for a := range set {
			members = append(members, string(a))
		}
		sort.Strings(members)
		lines = append(lines, fmt.Sprintf("alliances:%d:%s", i, strings.Join(members, ",")))
	}
	for key, groups := range r.Pool {
		for gi := range groups {
			g := &groups[gi]
			ids := make([]string, 0, len(g.Flights))
			for _, f := range g.Flights {
				ids = append(ids, string(f.ID))
			}
			sort.Strings(ids)
			lines = append(lines, "group:"+key.String()+":"+g.Date+":"+string(g.Alliance)+":"+strings.Join(ids, ","))
		}
	}
	for airport, city := range r.Cities {
		lines = append(lines, "city:"+airport+"="+city)
	}

	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return "itinerary-build:" + hex.EncodeToString(sum[:])
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

// BuildStats summarizes one build for logging and client metadata.
type BuildStats struct {
	SkeletonsSupplied int   `json:"skeletonsSupplied"`
	SkeletonsInvalid  int   `json:"skeletonsInvalid"`
	SkeletonsComposed int   `json:"skeletonsComposed"`
	MetadataErrors    int   `json:"metadataErrors"`
	GroupEdges        int   `json:"groupEdges"`
	FlightEdges       int   `json:"flightEdges"`
	Itineraries       int   `json:"itineraries"`
	FlightsRetained   int   `json:"flightsRetained"`
	FlightsPruned     int   `json:"flightsPruned"`
	CacheHit          bool  `json:"cacheHit"`
	Partial           bool  `json:"partial"`
	BuildTimeMs       int64 `json:"buildTimeMs"`
}

// BuildResult is the engine's output: itineraries grouped by route key and
// date, the pruned flight dictionary referenced by them, and build stats.
type BuildResult struct {
	Itineraries domain.ItinerarySet `json:"itineraries"`
	Flights     domain.FlightMap    `json:"flights"`
	Stats       BuildStats          `json:"stats"`
}

// ItineraryBuilder defines the build operation.
type ItineraryBuilder interface {
	// Build constructs every valid itinerary for the request. On context
	// cancellation it returns the partial result accumulated so far along
	// with a wrapped ErrBuildCancelled; no completeness guarantee is made
	// for partial results.
	Build(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// Config contains the engine tunables for the builder.
type Config struct {
	MinConnection          time.Duration
	MaxLayover             time.Duration
	PoolSize               int
	MaxItinerariesPerRoute int
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		MinConnection:          DefaultMinConnection,
		MaxLayover:             DefaultMaxLayover,
		PoolSize:               DefaultPoolSize,
		MaxItinerariesPerRoute: DefaultMaxItinerariesPerRoute,
	}
}

// itineraryBuilder implements ItineraryBuilder.
type itineraryBuilder struct {
	cfg   Config
	cache ResultCache
	log   *logger.Logger
	clock timeutil.Clock
}

// NewItineraryBuilder creates an ItineraryBuilder. A nil config selects the
// defaults; a nil cache disables the read-through; a nil log disables
// build logging.
func NewItineraryBuilder(cfg *Config, cache ResultCache, log *logger.Logger) ItineraryBuilder {
	resolved := DefaultConfig()
	if cfg != nil {
		if cfg.MinConnection > 0 {
			resolved.MinConnection = cfg.MinConnection
		}
		if cfg.MaxLayover > 0 {
			resolved.MaxLayover = cfg.MaxLayover
		}
		if cfg.PoolSize > 0 {
			resolved.PoolSize = cfg.PoolSize
		}
		if cfg.MaxItinerariesPerRoute > 0 {
			resolved.MaxItinerariesPerRoute = cfg.MaxItinerariesPerRoute
		}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &itineraryBuilder{
		cfg:   resolved,
		cache: cache,
		log:   log,
		clock: timeutil.NewRealClock(),
	}
}

// skeletonResult is one pool task's private output slot.
type skeletonResult struct {
	routeKey string
	byDate   map[string][]domain.Itinerary
}

// Build implements ItineraryBuilder.
func (b *itineraryBuilder) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	started := b.clock.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	cacheKey := ""
	if b.cache != nil {
		cacheKey = req.CacheKey()
		if cached, err := b.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			cached.Stats.CacheHit = true
			b.log.Debug().Str("key", cacheKey).Msg("build served from cache")
			return cached, nil
		}
	}

	// Strict data dependency: both matrices complete before composition.
	meta, metaErrs := engine.BuildMetadataIndex(req.Pool)
	for _, metaErr := range metaErrs {
		b.log.Warn().Str("flight", string(metaErr.FlightID)).Str("reason", metaErr.Reason).Msg("flight excluded from metadata index")
	}
	groupMatrix := engine.BuildGroupMatrix(req.Pool, b.cfg.MinConnection, b.cfg.MaxLayover)
	flightMatrix := engine.BuildFlightMatrix(meta, req.Pool, groupMatrix, b.cfg.MinConnection, b.cfg.MaxLayover)

	usable, invalid := splitValidSkeletons(req.Skeletons, b.log)
	prefiltered := engine.PrefilterSkeletons(usable, req.Pool, req.Cities)

	composer := engine.NewComposer(meta, flightMatrix, b.cfg.MaxItinerariesPerRoute)
	results, composeErr := worker.Map(ctx, len(prefiltered.Valid), b.cfg.PoolSize,
		func(ctx context.Context, i int) (skeletonResult, error) {
			skeleton := prefiltered.Valid[i]
			legGroups := make([][]domain.AvailabilityGroup, 0, skeleton.NumLegs())
			for _, leg := range skeleton.Legs() {
				legGroups = append(legGroups, engine.CollectLegGroups(req.Pool, leg, req.Cities))
			}
			return skeletonResult{
				routeKey: skeleton.Key(),
				byDate:   composer.Compose(legGroups, req.LegAlliances),
			}, nil
		})

	set := make(domain.ItinerarySet)
	for _, r := range results {
		for date, its := range r.byDate {
			for _, it := range its {
				set.Add(r.routeKey, date, it)
			}
		}
	}
	set.Merge(engine.BuildDirect(req.Pool, meta, req.Origin, req.Destination))

	flights := flightsFromPool(req.Pool)
	totalFlights := len(flights)

	set = engine.Deduplicate(set)
	set = engine.FilterByDateWindow(set, flights, req.StartDate, req.EndDate)
	set = engine.FilterReliable(set, flights, req.MinReliabilityPercent, domain.UnreliableAirlines(req.UnreliableAirlines))
	flights = engine.PruneFlights(set, flights)

	result := &BuildResult{
		Itineraries: set,
		Flights:     flights,
		Stats: BuildStats{
			SkeletonsSupplied: len(req.Skeletons),
			SkeletonsInvalid:  invalid,
			SkeletonsComposed: len(prefiltered.Valid),
			MetadataErrors:    len(metaErrs),
			GroupEdges:        groupMatrixEdges(groupMatrix),
			FlightEdges:       flightMatrix.EdgeCount(),
			Itineraries:       set.Count(),
			FlightsRetained:   len(flights),
			FlightsPruned:     totalFlights - len(flights),
			Partial:           composeErr != nil,
			BuildTimeMs:       b.clock.Now().Sub(started).Milliseconds(),
		},
	}

	b.log.Info().
		Int("skeletons", len(prefiltered.Valid)).
		Int("itineraries", result.Stats.Itineraries).
		Int("flights_retained", result.Stats.FlightsRetained).
		Int("flights_pruned", result.Stats.FlightsPruned).
		Int64("duration_ms", result.Stats.BuildTimeMs).
		Bool("partial", result.Stats.Partial).
		Msg("itinerary build completed")

	if composeErr != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrBuildCancelled, composeErr)
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, cacheKey, result); err != nil {
			b.log.Warn().Err(err).Msg("failed to cache build result")
		}
	}

	return result, nil
}

// splitValidSkeletons drops skeletons with unusable shapes, logging each.
// An invalid skeleton aborts only its own composition, never the build.
func splitValidSkeletons(skeletons []domain.RouteSkeleton, log *logger.Logger) ([]domain.RouteSkeleton, int) {
	usable := make([]domain.RouteSkeleton, 0, len(skeletons))
	invalid := 0
	for _, skeleton := range skeletons {
		if err := skeleton.Validate(); err != nil {
			invalid++
			log.Warn().Err(err).Msg("route skeleton rejected")
			continue
		}
		usable = append(usable, skeleton)
	}
	return usable, invalid
}

// flightsFromPool assembles the full flight dictionary before pruning.
func flightsFromPool(pool domain.SegmentPool) domain.FlightMap {
	flights := make(domain.FlightMap, pool.TotalFlights())
	for _, groups := range pool {
		for gi := range groups {
			for _, f := range groups[gi].Flights {
				flights[f.ID] = f
			}
		}
	}
	return flights
}

func groupMatrixEdges(m engine.GroupMatrix) int {
	total := 0
	for _, reachable := range m {
		total += len(reachable)
	}
	return total
}

// Ensure itineraryBuilder implements ItineraryBuilder at compile time.
var _ ItineraryBuilder = (*itineraryBuilder)(nil)
