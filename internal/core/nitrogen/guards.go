package nitrogen

import (
	"fmt"
	"math"
)

// Reduction bounds accepted by the cascade engine, in percent.
const (
	MinReduction = 0.0
	MaxReduction = 100.0
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
// The error wraps ErrInvalidParameter.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidParameter, r.Reason)
}

// CanApplyHousingReduction evaluates whether percent is a valid housing-loss reduction.
// Rules:
// - Must be a finite number
// - Must lie within [MinReduction, MaxReduction]
func CanApplyHousingReduction(percent float64) GuardResult {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("housing reduction must be a finite number, got %v", percent),
		}
	}
	if percent < MinReduction || percent > MaxReduction {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("housing reduction %g%% outside [%g, %g]", percent, MinReduction, MaxReduction),
		}
	}
	return GuardResult{Allowed: true}
}
