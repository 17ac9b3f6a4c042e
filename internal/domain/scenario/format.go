package scenario

import (
	"fmt"
	"math"
)

// halfUp rounds half-way values toward positive infinity.
func halfUp(v float64) float64 { return math.Floor(v + 0.5) }

// Currency abbreviates an amount: 1.2M, 340k or 950.
func Currency(v float64) string {
	switch {
	case math.Abs(v) >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case math.Abs(v) >= 1_000:
		return fmt.Sprintf("%.0fk", halfUp(v/1_000))
	default:
		return fmt.Sprintf("%.0f", halfUp(v))
	}
}

// FormatValue renders v for display in the given format.
func FormatValue(v float64, format string) string {
	switch format {
	case FormatCurrency:
		return "£" + Currency(v)
	case FormatPercent:
		return fmt.Sprintf("%.1f%%", v)
	case FormatDays:
		return fmt.Sprintf("%.0f days", halfUp(v))
	default:
		return Currency(v)
	}
}
