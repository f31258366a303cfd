package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy names how a monetary amount snaps to its rounding increment.
type Policy string

const (
	PolicyUp      Policy = "up"
	PolicyDown    Policy = "down"
	PolicyNearest Policy = "nearest"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyUp, PolicyDown, PolicyNearest:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown rounding policy: %q", s)
	}
}

// Round snaps amount to a multiple of increment under the given policy. It is
// intended as the final step on every outgoing monetary value; intermediate
// arithmetic stays unrounded so errors do not compound.
func Round(amount decimal.Decimal, policy Policy, increment decimal.Decimal) decimal.Decimal {
	if increment.LessThanOrEqual(decimal.Zero) {
		return amount
	}

	quotient := amount.Div(increment)
	switch policy {
	case PolicyUp:
		return quotient.Ceil().Mul(increment)
	case PolicyDown:
		return quotient.Floor().Mul(increment)
	default:
		return quotient.Round(0).Mul(increment)
	}
}

// Rounder binds a policy and increment so engines can pass a single value
// around instead of two configuration fields.
type Rounder struct {
	Policy    Policy
	Increment decimal.Decimal
}

func (r Rounder) Round(amount decimal.Decimal) decimal.Decimal {
	return Round(amount, r.Policy, r.Increment)
}
