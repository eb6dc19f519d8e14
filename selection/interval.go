package selection

import (
	"fmt"
	"math"
)

// Interval is the closed range [Min, Max].
type Interval struct {
	Min, Max float64
}

// NoCut accepts everything.
var NoCut = Interval{Min: math.Inf(-1), Max: math.Inf(1)}

// Contains reports whether x lies within the interval. NaN never does.
func (i Interval) Contains(x float64) bool { return x >= i.Min && x <= i.Max }

// IsNoCut reports whether the interval accepts every finite value.
func (i Interval) IsNoCut() bool { return math.IsInf(i.Min, -1) && math.IsInf(i.Max, 1) }

// RangeString renders the interval around a label, e.g. "100<IM<200".
func (i Interval) RangeString(label string) string {
	switch {
	case math.IsInf(i.Min, -1) && math.IsInf(i.Max, 1):
		return label
	case math.IsInf(i.Min, -1):
		return fmt.Sprintf("%s<%g", label, i.Max)
	case math.IsInf(i.Max, 1):
		return fmt.Sprintf("%g<%s", i.Min, label)
	default:
		return fmt.Sprintf("%g<%s<%g", i.Min, label, i.Max)
	}
}
