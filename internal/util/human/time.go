// Package human formats values for the people reading the pages.
package human

import (
	"fmt"
	"math"
	"time"
)

func plural(n float64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %v", unit)
	}
	return fmt.Sprintf("%v %vs", n, unit)
}

// TimeFromBase describes when t happens relative to base, e.g. "in 2 hours" or "3 days ago".
// Moments more than two weeks away are printed as dates.
func TimeFromBase(base, t time.Time) string {
	diff := t.Sub(base)
	past := diff < 0
	if past {
		diff = -diff
	}
	if diff < time.Minute {
		return "now"
	}

	var s string
	switch {
	case diff < 90*time.Minute:
		s = plural(math.Round(diff.Minutes()), "min")
	case diff < 36*time.Hour:
		s = plural(math.Round(diff.Hours()), "hour")
	case diff <= 14*24*time.Hour:
		s = plural(math.Round(diff.Hours()/24), "day")
	default:
		return t.Format(time.DateOnly)
	}
	if past {
		return s + " ago"
	}
	return "in " + s
}
