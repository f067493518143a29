package catalog

import (
	"fmt"
	"math"
)

// DefaultCommentLimit is the page size used when a caller does not ask for one
const DefaultCommentLimit = 50

const densityPrecision = 1e9

// DensityProfile maps weighted star totals onto a bounded number of rendered stars
type DensityProfile struct {
	Base float64 `json:"base" yaml:"base"`
	Gain float64 `json:"gain" yaml:"gain"`
	Min  int     `json:"min" yaml:"min"`
	Max  int     `json:"max" yaml:"max"`
}

// Density returns clamp(floor(base + gain*totalStars), min, max).
// Negative totals are treated as zero.
func (p DensityProfile) Density(totalStars int) int {
	if totalStars < 0 {
		totalStars = 0
	}

	// compare in float64 so huge totals clamp instead of overflowing int.
	// Rounding to densityPrecision first keeps 5 + 0.7*170 at 124 rather than
	// 123.99999999999999.
	v := p.Base + p.Gain*float64(totalStars)
	v = math.Floor(math.Round(v*densityPrecision) / densityPrecision)
	if v < float64(p.Min) {
		return p.Min
	}
	if v > float64(p.Max) {
		return p.Max
	}
	return int(v)
}

func (p DensityProfile) validate() error {
	if p.Min < 0 {
		return fmt.Errorf("density min must not be negative, got %d", p.Min)
	}
	if p.Min > p.Max {
		return fmt.Errorf("density min %d exceeds max %d", p.Min, p.Max)
	}
	if p.Gain < 0 || math.IsNaN(p.Gain) || math.IsNaN(p.Base) {
		return fmt.Errorf("density gain must be a non-negative number")
	}
	return nil
}
