// README: Transport modes and their per-mode constraints (weight ceiling, rates, feature flags).
package transport

import "strings"

type Mode string

const (
	ModeFlight Mode = "flight"
	ModeCar    Mode = "car"
)

// ParseMode lower-cases and trims s. It does not check the mode is known.
func ParseMode(s string) Mode {
	return Mode(strings.ToLower(strings.TrimSpace(s)))
}

// Fallbacks applied to modes missing from a Table.
const (
	DefaultWeightLimitKg  = 23.0 // standard checked-baggage allowance
	DefaultBaseRatePerKg  = 2.0
	DefaultCommissionRate = 0.15
)

type Constraints struct {
	Mode           Mode    `yaml:"mode"`
	DisplayName    string  `yaml:"display_name"`
	WeightLimitKg  float64 `yaml:"weight_limit_kg"`
	BaseRatePerKg  float64 `yaml:"base_rate_per_kg"` // CAD
	CommissionRate float64 `yaml:"commission_rate"`

	FlexibleDepartureAllowed  bool `yaml:"flexible_departure_allowed"`
	IntermediateStopsAllowed  bool `yaml:"intermediate_stops_allowed"`
	VehicleInfoRequired       bool `yaml:"vehicle_info_required"`
	FlightInfoRequired        bool `yaml:"flight_info_required"`
	TicketValidationSupported bool `yaml:"ticket_validation_supported"`
}

// Description is the display record served to clients.
type Description struct {
	TransportType             Mode    `json:"transport_type"`
	DisplayName               string  `json:"display_name"`
	WeightLimitKg             float64 `json:"weight_limit_kg"`
	BaseRatePerKg             float64 `json:"base_rate_per_kg"`
	CommissionRate            float64 `json:"commission_rate"`
	FlexibleDepartureAllowed  bool    `json:"flexible_departure_allowed"`
	IntermediateStopsAllowed  bool    `json:"intermediate_stops_allowed"`
	VehicleInfoRequired       bool    `json:"vehicle_info_required"`
	FlightInfoRequired        bool    `json:"flight_info_required"`
	TicketValidationSupported bool    `json:"ticket_validation_supported"`
}

// DefaultConstraints returns the built-in mode set in declaration order.
func DefaultConstraints() []Constraints {
	return []Constraints{
		{
			Mode:                      ModeFlight,
			DisplayName:               "Avion",
			WeightLimitKg:             23.0,
			BaseRatePerKg:             2.50,
			CommissionRate:            0.15,
			FlightInfoRequired:        true,
			TicketValidationSupported: true,
		},
		{
			Mode:                     ModeCar,
			DisplayName:              "Voiture",
			WeightLimitKg:            100.0,
			BaseRatePerKg:            1.50,
			CommissionRate:           0.15,
			FlexibleDepartureAllowed: true,
			IntermediateStopsAllowed: true,
			VehicleInfoRequired:      true,
		},
	}
}
