// README: Immutable lookup table over transport constraints with permissive defaults.
package transport

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTable      = errors.New("transport table has no modes")
	ErrDuplicateMode   = errors.New("duplicate transport mode")
	ErrInvalidConstant = errors.New("invalid transport constraint")
)

// Table is safe for concurrent reads; it is never mutated after NewTable.
type Table struct {
	modes  []Mode
	byMode map[Mode]Constraints
}

func NewTable(entries []Constraints) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		modes:  make([]Mode, 0, len(entries)),
		byMode: make(map[Mode]Constraints, len(entries)),
	}
	for _, c := range entries {
		c.Mode = ParseMode(string(c.Mode))
		if c.Mode == "" {
			return nil, fmt.Errorf("%w: empty mode", ErrInvalidConstant)
		}
		if _, dup := t.byMode[c.Mode]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMode, c.Mode)
		}
		if c.WeightLimitKg <= 0 || c.BaseRatePerKg <= 0 {
			return nil, fmt.Errorf("%w: %s limit and rate must be positive", ErrInvalidConstant, c.Mode)
		}
		if c.CommissionRate < 0 || c.CommissionRate > 1 {
			return nil, fmt.Errorf("%w: %s commission rate %v outside [0,1]", ErrInvalidConstant, c.Mode, c.CommissionRate)
		}
		if c.DisplayName == "" {
			c.DisplayName = string(c.Mode)
		}
		t.modes = append(t.modes, c.Mode)
		t.byMode[c.Mode] = c
	}
	return t, nil
}

// DefaultTable panics only if the built-in constraints are broken.
func DefaultTable() *Table {
	t, err := NewTable(DefaultConstraints())
	if err != nil {
		panic(err)
	}
	return t
}

// Modes returns a copy of the known modes in declaration order.
func (t *Table) Modes() []Mode {
	out := make([]Mode, len(t.modes))
	copy(out, t.modes)
	return out
}

func (t *Table) Lookup(m Mode) (Constraints, bool) {
	c, ok := t.byMode[m]
	return c, ok
}

func (t *Table) Known(m Mode) bool {
	_, ok := t.byMode[m]
	return ok
}

func (t *Table) DisplayName(m Mode) string {
	if c, ok := t.byMode[m]; ok {
		return c.DisplayName
	}
	return string(m)
}

func (t *Table) WeightLimit(m Mode) float64 {
	if c, ok := t.byMode[m]; ok {
		return c.WeightLimitKg
	}
	return DefaultWeightLimitKg
}

func (t *Table) BaseRate(m Mode) float64 {
	if c, ok := t.byMode[m]; ok {
		return c.BaseRatePerKg
	}
	return DefaultBaseRatePerKg
}

func (t *Table) CommissionRate(m Mode) float64 {
	if c, ok := t.byMode[m]; ok {
		return c.CommissionRate
	}
	return DefaultCommissionRate
}

func (t *Table) IsFlexibleDepartureAllowed(m Mode) bool {
	return t.byMode[m].FlexibleDepartureAllowed
}

func (t *Table) AreIntermediateStopsAllowed(m Mode) bool {
	return t.byMode[m].IntermediateStopsAllowed
}

func (t *Table) IsVehicleInfoRequired(m Mode) bool {
	return t.byMode[m].VehicleInfoRequired
}

func (t *Table) IsFlightInfoRequired(m Mode) bool {
	return t.byMode[m].FlightInfoRequired
}

func (t *Table) IsTicketValidationSupported(m Mode) bool {
	return t.byMode[m].TicketValidationSupported
}

// Describe builds the display record from the accessors, so unknown modes get the defaults.
func (t *Table) Describe(m Mode) Description {
	return Description{
		TransportType:             m,
		DisplayName:               t.DisplayName(m),
		WeightLimitKg:             t.WeightLimit(m),
		BaseRatePerKg:             t.BaseRate(m),
		CommissionRate:            t.CommissionRate(m),
		FlexibleDepartureAllowed:  t.IsFlexibleDepartureAllowed(m),
		IntermediateStopsAllowed:  t.AreIntermediateStopsAllowed(m),
		VehicleInfoRequired:       t.IsVehicleInfoRequired(m),
		FlightInfoRequired:        t.IsFlightInfoRequired(m),
		TicketValidationSupported: t.IsTicketValidationSupported(m),
	}
}

func (t *Table) DescribeAll() []Description {
	out := make([]Description, 0, len(t.modes))
	for _, m := range t.modes {
		out = append(out, t.Describe(m))
	}
	return out
}
