// README: Rounding policy applied to every yen amount the estimator produces.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"tabihi/internal/types"
)

type RoundingMode string

const (
	RoundHalfUp RoundingMode = "round"
	RoundCeil   RoundingMode = "ceil"
	RoundFloor  RoundingMode = "floor"
)

// noiseScale is the resolution amounts are snapped to before ceil/floor,
// so 150 + 515*24.6 ceils to 12819 and not 12820.
const noiseScale = 1e6

// yenLimit is 2^63; rounded amounts must lie in [-yenLimit, yenLimit).
const yenLimit = 1 << 63

// ParseRoundingMode accepts the stored names plus "ceiling".
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round":
		return RoundHalfUp, nil
	case "ceil", "ceiling":
		return RoundCeil, nil
	case "floor":
		return RoundFloor, nil
	}
	return "", types.Invalid("rounding_mode", fmt.Sprintf("unknown rounding mode %q (want round, ceil or floor)", s))
}

func (m RoundingMode) Valid() bool {
	switch m {
	case RoundHalfUp, RoundCeil, RoundFloor:
		return true
	}
	return false
}

// Apply rounds v to whole yen. Half values round away from zero.
// Results that are not finite or do not fit in Yen are rejected.
func (m RoundingMode) Apply(v float64) (types.Yen, error) {
	v = math.Round(v*noiseScale) / noiseScale
	var r float64
	switch m {
	case RoundHalfUp:
		r = math.Round(v)
	case RoundCeil:
		r = math.Ceil(v)
	case RoundFloor:
		r = math.Floor(v)
	default:
		return 0, types.Invalid("rounding_mode", fmt.Sprintf("unknown rounding mode %q", string(m)))
	}
	if math.IsNaN(r) || r >= yenLimit || r < -yenLimit {
		return 0, types.Invalid("amount", "amount is out of range")
	}
	return types.Yen(r), nil
}
