package warehouse

import (
	"fmt"
	"math"
)

// Epsilon is the absolute tolerance applied when checking a quantity against
// a discretization policy and when testing the zero stock boundary.
const Epsilon = 0.001

// AmountPolicy constrains the quantities a product may hold. Discrete goods
// use PolicyInteger, goods sold in halves (e.g. half a watermelon) use
// PolicyHalfInteger, and goods measured by weight use PolicyAny.
type AmountPolicy int

const (
	PolicyInteger AmountPolicy = iota
	PolicyHalfInteger
	PolicyAny
)

// Allows reports whether amount satisfies the policy within Epsilon. For
// PolicyInteger the amount must be within Epsilon of an integer; for
// PolicyHalfInteger within Epsilon of a multiple of 0.5; PolicyAny accepts
// everything.
func (p AmountPolicy) Allows(amount float64) bool {
	switch p {
	case PolicyInteger:
		return math.Abs(amount-math.Round(amount)) <= Epsilon
	case PolicyHalfInteger:
		nearest := math.Round(amount*2) / 2
		return math.Abs(amount-nearest) <= Epsilon
	default:
		return true
	}
}

// String returns the wire name of the policy, used by the config file, the
// HTTP API, and the snapshot store.
func (p AmountPolicy) String() string {
	switch p {
	case PolicyInteger:
		return "integer"
	case PolicyHalfInteger:
		return "half-integer"
	case PolicyAny:
		return "any"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy is the inverse of String.
func ParsePolicy(s string) (AmountPolicy, error) {
	switch s {
	case "integer":
		return PolicyInteger, nil
	case "half-integer":
		return PolicyHalfInteger, nil
	case "any":
		return PolicyAny, nil
	default:
		return 0, fmt.Errorf("unknown amount policy %q", s)
	}
}
