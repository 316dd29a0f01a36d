// README: Pricing request/result value objects.
package pricing

import (
	"kiloshare/internal/modules/transport"
	"kiloshare/internal/types"
)

type PriceRequest struct {
	Mode     transport.Mode
	From     string
	To       string
	WeightKg float64
	Currency types.Currency // empty means CAD
}

// Pricing holds the fields shared by suggestions and recommendations.
// Monetary fields are in Currency; BaseRate stays in the canonical currency.
type Pricing struct {
	PricePerKg     float64        `json:"suggested_price_per_kg"`
	TotalPrice     float64        `json:"total_price"`
	Commission     float64        `json:"commission"`
	NetEarnings    float64        `json:"net_earnings"`
	Currency       types.Currency `json:"currency"`
	TransportType  transport.Mode `json:"transport_type"`
	DistanceKm     int            `json:"distance_km"`
	WeightKg       float64        `json:"weight_kg"`
	BaseRate       float64        `json:"base_rate"`
	CommissionRate float64        `json:"commission_rate"`
}

type PriceSuggestion struct {
	Pricing
	Explanation string `json:"explanation"`
}

type Recommendation struct {
	Pricing
	SuitabilityScore int      `json:"suitability_score"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
}
