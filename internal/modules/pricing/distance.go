// README: Symmetric inter-city distance resolution (cache, known routes, heuristic bands).
package pricing

import (
	"context"

	"kiloshare/internal/metrics"
)

// Heuristic bands for routes missing from the reference table.
const (
	hubToRegionalKm      = 1200
	regionalToRegionalKm = 300
	defaultEstimateKm    = 500
)

type cityClass int

const (
	classUnknown cityClass = iota
	classHub
	classRegional
)

// Distance returns the route length in km. It never fails and
// Distance(a, b) == Distance(b, a). Every resolved value is cached under both
// orderings, so estimates stay stable for the cache lifetime.
func (s *Service) Distance(ctx context.Context, from, to string) int {
	key := NewRouteKey(from, to)

	if km, ok := s.cache.Get(ctx, key); ok {
		s.metrics.DistanceResolved(metrics.SourceCache)
		return km
	}
	if km, ok := s.cache.Get(ctx, key.Reverse()); ok {
		s.metrics.DistanceResolved(metrics.SourceCache)
		return km
	}

	km, known := s.distances[key]
	if known {
		s.metrics.DistanceResolved(metrics.SourceTable)
	} else {
		km = s.estimate(key)
		s.metrics.DistanceResolved(metrics.SourceEstimate)
		s.log.Debug("estimated route distance", "from", key.From, "to", key.To, "distance_km", km)
	}

	s.cache.Set(ctx, key, km)
	s.cache.Set(ctx, key.Reverse(), km)
	return km
}

func (s *Service) estimate(key RouteKey) int {
	a, b := s.classify(key.From), s.classify(key.To)
	switch {
	case (a == classHub && b == classRegional) || (a == classRegional && b == classHub):
		return hubToRegionalKm
	case a == classRegional && b == classRegional:
		return regionalToRegionalKm
	default:
		return defaultEstimateKm
	}
}

func (s *Service) classify(city string) cityClass {
	if _, ok := s.hubs[city]; ok {
		return classHub
	}
	if _, ok := s.regional[city]; ok {
		return classRegional
	}
	return classUnknown
}
