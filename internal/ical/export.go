// Package ical renders a parsed almanac as an iCalendar feed so the four
// interval sequences can be subscribed to from an ordinary calendar client.
package ical

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"panchview/internal/almanac"
)

// Export serializes all four category indexes of doc as VEVENTs on the
// target wall clock. Interval order is preserved per category.
func Export(doc *almanac.Document, conv *almanac.Converter) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//panchview//almanac//EN")

	addCategory(cal, "Tithi", doc.Tithi, conv)
	addCategory(cal, "Nakshatra", doc.Nakshatra, conv)
	addCategory(cal, "Yogam", doc.Yogam, conv)
	addCategory(cal, "Karanam", doc.Karanam, conv)

	return cal.Serialize()
}

func addCategory(cal *ics.Calendar, category string, ix almanac.Index, conv *almanac.Converter) {
	for _, iv := range ix.Intervals {
		ev := cal.AddEvent(eventUID(category, iv))
		ev.SetSummary(fmt.Sprintf("%s: %s", category, iv.Name))
		ev.SetStartAt(iv.Start.In(conv.Target()))
		ev.SetEndAt(iv.End.In(conv.Target()))
		ev.SetDtStampTime(time.Now().UTC())
	}
}

// eventUID derives a stable per-interval UID from the category, name, and
// start instant, so re-exports do not duplicate events in subscribing
// clients.
func eventUID(category string, iv almanac.Interval) string {
	name := strings.ToLower(strings.ReplaceAll(iv.Name, " ", "-"))
	return fmt.Sprintf("%s-%s-%s@panchview",
		strings.ToLower(category),
		name,
		iv.Start.UTC().Format("20060102T150405Z"),
	)
}
