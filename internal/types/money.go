// README: Common value objects used across modules.
package types

import "math"

// ID identifies an owner or a stored record.
type ID string

// Yen is a whole-yen amount. All estimator outputs are rounded to Yen.
type Yen int64

// SumYen adds non-negative amounts. It reports false for a negative part or int64 overflow.
func SumYen(parts ...Yen) (Yen, bool) {
	var sum Yen
	for _, p := range parts {
		if p < 0 || sum > math.MaxInt64-p {
			return 0, false
		}
		sum += p
	}
	return sum, true
}
