package pricing

import (
	"errors"
	"fmt"

	"kiloshare/internal/modules/transport"
)

var (
	// ErrInvalidInput is the caller-facing failure class; every error below matches it.
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownMode     = fmt.Errorf("%w: unknown transport type", ErrInvalidInput)
	ErrUnknownCurrency = fmt.Errorf("%w: unknown currency", ErrInvalidInput)
)

// InvalidWeightError reports a weight above the mode's ceiling.
type InvalidWeightError struct {
	WeightKg    float64
	LimitKg     float64
	Mode        transport.Mode
	DisplayName string
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("weight %gkg exceeds the %gkg limit for %s", e.WeightKg, e.LimitKg, e.DisplayName)
}

func (e *InvalidWeightError) Is(target error) bool {
	return target == ErrInvalidInput
}
