package almanac

import "time"

// Default fixed offsets, in minutes east of UTC. The almanac backend writes
// timestamps in US Pacific standard time year-round (no DST), and the display
// convention is Indian Standard Time.
const (
	DefaultSourceOffsetMinutes = -8 * 60
	DefaultTargetOffsetMinutes = 5*60 + 30
)

// Converter translates civil times written in the almanac's fixed source
// offset into absolute instants, and formats instants using the fixed target
// offset's wall clock. No timezone database is involved; both zones are plain
// fixed offsets with no DST rules.
type Converter struct {
	source *time.Location
	target *time.Location
}

// NewConverter builds a Converter from source/target offsets given in minutes
// east of UTC.
func NewConverter(sourceOffsetMinutes, targetOffsetMinutes int) *Converter {
	return &Converter{
		source: time.FixedZone("source", sourceOffsetMinutes*60),
		target: time.FixedZone("target", targetOffsetMinutes*60),
	}
}

// DefaultConverter returns a Converter with the UTC-8 source / UTC+5:30
// target offsets the almanac backend uses.
func DefaultConverter() *Converter {
	return NewConverter(DefaultSourceOffsetMinutes, DefaultTargetOffsetMinutes)
}

// Convert interprets the given civil-time fields in the source offset and
// returns the absolute instant. Out-of-range fields (hour 25, Feb 30 and the
// like) roll over arithmetically via time.Date; there is no manual carrying.
func (c *Converter) Convert(year, month, day, hour, minute, second int) time.Time {
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, c.source)
}

// Format renders an instant as "YYYY/MM/DD HH:MM" on the target wall clock.
func (c *Converter) Format(t time.Time) string {
	return t.In(c.target).Format("2006/01/02 15:04")
}

// FormatSeconds is Format with a seconds field, used for the backend
// creation timestamp which carries seconds.
func (c *Converter) FormatSeconds(t time.Time) string {
	return t.In(c.target).Format("2006/01/02 15:04:05")
}

// Target returns the display location, for callers that format instants
// themselves (iCal export, "now" rendering).
func (c *Converter) Target() *time.Location {
	return c.target
}
