// README: Scores and ranks every transport mode able to carry a given weight.
package pricing

import (
	"context"

	"kiloshare/internal/modules/transport"
	"kiloshare/internal/types"
)

const baseSuitabilityScore = 50

// Recommend never fails: modes that cannot carry weightKg are left out, and
// the result is sorted by score, ties kept in table declaration order.
func (s *Service) Recommend(ctx context.Context, from, to string, weightKg float64) []Recommendation {
	s.metrics.Recommendation()

	modes := s.modes.Modes()
	out := make([]Recommendation, 0, len(modes))
	for _, mode := range modes {
		if weightKg > s.modes.WeightLimit(mode) {
			continue
		}
		suggestion := s.quote(ctx, mode, from, to, weightKg, types.CAD, 1.0)
		pros, cons := prosAndCons(mode, suggestion.DistanceKm)
		out = append(out, Recommendation{
			Pricing:          suggestion.Pricing,
			SuitabilityScore: suitabilityScore(mode, suggestion.DistanceKm, weightKg),
			Pros:             pros,
			Cons:             cons,
		})
	}

	sortByScore(out, func(r Recommendation) int { return r.SuitabilityScore })
	return out
}

func suitabilityScore(mode transport.Mode, distanceKm int, weightKg float64) int {
	score := baseSuitabilityScore
	switch mode {
	case transport.ModeFlight:
		if distanceKm > 800 {
			score += 30
		}
		if distanceKm < 300 {
			score -= 20
		}
		if weightKg > 15 {
			score -= 10
		}
	case transport.ModeCar:
		if distanceKm > 200 && distanceKm < 1000 {
			score += 25
		}
		if weightKg > 30 {
			score += 20
		}
		score += 15 // flexibility
	}
	return min(max(score, 0), 100)
}

func prosAndCons(mode transport.Mode, distanceKm int) (pros, cons []string) {
	switch mode {
	case transport.ModeFlight:
		pros = []string{"Rapide", "Sécurisé"}
		cons = []string{"Poids limité", "Horaires fixes"}
		if distanceKm > 800 {
			pros = append(pros, "Idéal longue distance")
		}
		if distanceKm < 300 {
			cons = append(cons, "Peu économique courte distance")
		}
	case transport.ModeCar:
		pros = []string{"Flexible", "Grande capacité", "Arrêts intermédiaires possibles"}
		cons = []string{"Plus lent", "Dépend du trafic"}
	default:
		pros, cons = []string{}, []string{}
	}
	return pros, cons
}

// sortByScore is a descending insertion sort; it is stable, which keeps equal
// scores in declaration order.
func sortByScore[T any](items []T, score func(T) int) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && score(items[j]) < score(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
