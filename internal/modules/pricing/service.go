// README: Pricing service suggests per-kg prices and ranks transport modes for a route.
package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kiloshare/internal/logger"
	"kiloshare/internal/metrics"
	"kiloshare/internal/modules/transport"
	"kiloshare/internal/types"
)

const (
	longDistanceKm      = 1000
	shortDistanceKm     = 200
	carLongDistanceKm   = 500
	flightShortRouteKm  = 300
	longDistanceFactor  = 1.3
	shortDistanceFactor = 0.8
	carLongFactor       = 0.8
	flightShortFactor   = 1.2

	explanationSeparator = " • "
)

type Options struct {
	// Cache defaults to a MemoryCache of DefaultCacheSize entries.
	Cache DistanceCache
	// Strict rejects unknown transport types and currencies instead of
	// falling back to the defaults.
	Strict  bool
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Service is safe for concurrent use; its only mutable state is the distance cache.
type Service struct {
	modes     *transport.Table
	distances map[RouteKey]int
	hubs      map[string]struct{}
	regional  map[string]struct{}
	rates     map[types.Currency]float64
	cache     DistanceCache
	strict    bool
	log       logger.Logger
	metrics   *metrics.Metrics
}

func NewService(modes *transport.Table, ref Reference, opts Options) (*Service, error) {
	if modes == nil {
		return nil, fmt.Errorf("pricing: nil transport table")
	}
	s := &Service{
		modes:     modes,
		distances: make(map[RouteKey]int, 2*len(ref.Distances)),
		hubs:      citySet(ref.Hubs),
		regional:  citySet(ref.Regional),
		rates:     map[types.Currency]float64{types.CAD: 1.0},
		cache:     opts.Cache,
		strict:    opts.Strict,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
	for _, d := range ref.Distances {
		if d.Km < 0 {
			return nil, fmt.Errorf("pricing: negative distance for %s-%s", d.From, d.To)
		}
		key := NewRouteKey(d.From, d.To)
		s.distances[key] = d.Km
		s.distances[key.Reverse()] = d.Km
	}
	for code, rate := range ref.ExchangeRates {
		if rate <= 0 {
			return nil, fmt.Errorf("pricing: exchange rate for %s must be positive", code)
		}
		s.rates[types.ParseCurrency(code)] = rate
	}
	if s.cache == nil {
		c, err := NewMemoryCache(DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	return s, nil
}

func citySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[normalizeCity(n)] = struct{}{}
	}
	return set
}

// Modes exposes the transport table the service prices against.
func (s *Service) Modes() *transport.Table {
	return s.modes
}

// SuggestPrice prices a shipment. The weight ceiling is the only check
// applied in permissive mode; it runs before anything else.
func (s *Service) SuggestPrice(ctx context.Context, req PriceRequest) (PriceSuggestion, error) {
	start := time.Now()
	mode := transport.ParseMode(string(req.Mode))
	currency := types.ParseCurrency(string(req.Currency))

	if limit := s.modes.WeightLimit(mode); req.WeightKg > limit {
		s.metrics.Rejection("weight_limit")
		return PriceSuggestion{}, &InvalidWeightError{
			WeightKg:    req.WeightKg,
			LimitKg:     limit,
			Mode:        mode,
			DisplayName: s.modes.DisplayName(mode),
		}
	}

	if !s.modes.Known(mode) {
		if s.strict {
			s.metrics.Rejection("unknown_mode")
			return PriceSuggestion{}, fmt.Errorf("%w %q", ErrUnknownMode, mode)
		}
		s.log.Warn("unknown transport type, using default constraints", "transport_type", string(mode))
	}

	factor, ok := s.rates[currency]
	if !ok {
		if s.strict {
			s.metrics.Rejection("unknown_currency")
			return PriceSuggestion{}, fmt.Errorf("%w %q", ErrUnknownCurrency, currency)
		}
		s.log.Warn("unknown currency, using canonical rate", "currency", string(currency))
		factor = 1.0
	}

	suggestion := s.quote(ctx, mode, req.From, req.To, req.WeightKg, currency, factor)
	s.metrics.Suggestion(string(mode), string(currency), time.Since(start))
	return suggestion, nil
}

// quote prices an already validated request. Callers own metrics.
func (s *Service) quote(ctx context.Context, mode transport.Mode, from, to string, weightKg float64, currency types.Currency, factor float64) PriceSuggestion {
	distance := s.Distance(ctx, from, to)
	rate, explanation := s.adjustedRate(mode, distance)

	total := rate * weightKg
	commissionRate := s.modes.CommissionRate(mode)
	commission := total * commissionRate
	net := total - commission

	return PriceSuggestion{
		Pricing: Pricing{
			PricePerKg:     types.Round2(rate * factor),
			TotalPrice:     types.Round2(total * factor),
			Commission:     types.Round2(commission * factor),
			NetEarnings:    types.Round2(net * factor),
			Currency:       currency,
			TransportType:  mode,
			DistanceKm:     distance,
			WeightKg:       weightKg,
			BaseRate:       s.modes.BaseRate(mode),
			CommissionRate: commissionRate,
		},
		Explanation: explanation,
	}
}

// adjustedRate applies the distance tier, then the mode adjustment, and rounds
// the result to cents. The order matters: both layers are multiplicative and
// rounding happens once at the end.
func (s *Service) adjustedRate(mode transport.Mode, distanceKm int) (float64, string) {
	base := s.modes.BaseRate(mode)
	rate := base
	notes := []string{fmt.Sprintf("Tarif de base %s: %.2f %s/kg", s.modes.DisplayName(mode), base, types.CAD)}

	switch {
	case distanceKm > longDistanceKm:
		rate *= longDistanceFactor
		notes = append(notes, "Longue distance (+30%)")
	case distanceKm < shortDistanceKm:
		rate *= shortDistanceFactor
		notes = append(notes, "Courte distance (-20%)")
	}

	switch mode {
	case transport.ModeCar:
		if distanceKm > carLongDistanceKm {
			rate *= carLongFactor
			notes = append(notes, "Réduction voiture longue distance (-20%)")
		}
	case transport.ModeFlight:
		if distanceKm < flightShortRouteKm {
			rate *= flightShortFactor
			notes = append(notes, "Supplément vol courte distance (+20%)")
		}
	}

	return types.Round2(rate), strings.Join(notes, explanationSeparator)
}
