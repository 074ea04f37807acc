// Package usecase contains the business logic orchestrating the itinerary
// construction engine: the build pipeline (matrices, parallel composition,
// post-processing) and the query layer (filter, sort, paginate).
package usecase

import "context"

// ResultCache is the engine's view of the external caching collaborator.
// Implementations are keyed by search-parameter hash and TTL their entries;
// the engine itself holds no cross-request mutable state.
//
// Get returns (nil, nil) on a miss. Errors from either method are treated
// as fail-open by the builder: a failing cache never fails a build.
type ResultCache interface {
	Get(ctx context.Context, key string) (*BuildResult, error)
	Set(ctx context.Context, key string, result *BuildResult) error
}
