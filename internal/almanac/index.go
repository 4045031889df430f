package almanac

import (
	"fmt"
	"strings"
	"time"
)

// Interval is one named time window from the almanac. Start and End are
// absolute instants; Start is inclusive, End exclusive.
type Interval struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether now falls inside the interval. An instant exactly
// at End belongs to the following interval, not this one.
func (iv Interval) Contains(now time.Time) bool {
	return !now.Before(iv.Start) && now.Before(iv.End)
}

// Index is an ordered sequence of intervals for one category, in source-text
// order. The almanac emits them chronologically and non-overlapping; the
// resolver assumes that and does not re-sort or validate.
type Index struct {
	Intervals []Interval
}

// Resolve scans the index for the interval containing now. next is the
// index-successor of current, or nil when current is the last entry. When no
// interval contains now, both are nil.
func (ix Index) Resolve(now time.Time) (current, next *Interval) {
	for i := range ix.Intervals {
		if !ix.Intervals[i].Contains(now) {
			continue
		}
		current = &ix.Intervals[i]
		if i+1 < len(ix.Intervals) {
			next = &ix.Intervals[i+1]
		}
		return current, next
	}
	return nil, nil
}

// FormatRemaining describes how much of an interval is left at now, in whole
// hours and minutes. Thresholds: already over, under a minute left, or
// "H hours M minutes remaining" with zero components omitted.
func FormatRemaining(end, now time.Time) string {
	d := end.Sub(now)
	if d <= 0 {
		return "Ended just now"
	}

	total := int(d.Minutes())
	if total == 0 {
		return "Ending now"
	}

	hours := total / 60
	minutes := total % 60

	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%d hours ", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%d minutes ", minutes)
	}
	b.WriteString("remaining")
	return b.String()
}
