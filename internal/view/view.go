// Package view turns a parsed almanac document into the strings a display
// surface shows. It is a pure function of (document, now, converter), so the
// web API, the embedded page, and the one-shot CLI output all share it.
package view

import (
	"fmt"
	"strings"
	"time"

	"panchview/internal/almanac"
)

// NotInRange is shown when no interval of a category contains now.
const NotInRange = "Not in range"

// CategoryView is the resolved display state for one of the four categories.
type CategoryView struct {
	Category string `json:"category"`

	// Current is the name of the interval containing now, or NotInRange.
	Current string `json:"current"`

	// Remaining describes time left in the current interval; empty when no
	// interval is current.
	Remaining string `json:"remaining,omitempty"`

	// Next / NextStart name the following interval and its start on the
	// target wall clock; empty when there is none.
	Next      string `json:"next,omitempty"`
	NextStart string `json:"next_start,omitempty"`
}

// View is everything the presentation sink needs for one render.
type View struct {
	// Headers carries the almanac's descriptive fields; absent labels are
	// simply missing from the map.
	Headers map[string]string `json:"headers"`

	// BackendTimestamp is the file creation time on the target wall clock
	// (or the raw value when it failed to parse; empty when absent).
	BackendTimestamp string `json:"backend_timestamp,omitempty"`

	// Now is the resolution instant rendered on the target wall clock.
	Now string `json:"now"`

	Categories []CategoryView `json:"categories"`
}

// Build resolves every category of doc against the same instant and formats
// the result. now is sampled once by the caller so the four categories can
// never disagree about what time it is.
func Build(doc *almanac.Document, now time.Time, conv *almanac.Converter) View {
	v := View{
		Headers:          doc.Headers,
		BackendTimestamp: doc.BackendTimestamp,
		Now:              conv.Format(now),
	}

	categories := []struct {
		name  string
		index almanac.Index
	}{
		{"Tithi", doc.Tithi},
		{"Nakshatra", doc.Nakshatra},
		{"Yogam", doc.Yogam},
		{"Karanam", doc.Karanam},
	}

	for _, cat := range categories {
		v.Categories = append(v.Categories, buildCategory(cat.name, cat.index, now, conv))
	}
	return v
}

func buildCategory(name string, ix almanac.Index, now time.Time, conv *almanac.Converter) CategoryView {
	cv := CategoryView{Category: name, Current: NotInRange}

	current, next := ix.Resolve(now)
	if current != nil {
		cv.Current = current.Name
		cv.Remaining = almanac.FormatRemaining(current.End, now)
	}
	if next != nil {
		cv.Next = next.Name
		cv.NextStart = conv.Format(next.Start)
	}
	return cv
}

// Text renders the view as plain lines for the one-shot CLI mode.
func (v View) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Now: %s\n", v.Now)
	for _, label := range almanac.HeaderLabels {
		if val, ok := v.Headers[label]; ok {
			fmt.Fprintf(&b, "%s: %s\n", label, val)
		}
	}
	if v.BackendTimestamp != "" {
		fmt.Fprintf(&b, "Updated: %s\n", v.BackendTimestamp)
	}

	for _, cv := range v.Categories {
		fmt.Fprintf(&b, "%s: %s", cv.Category, cv.Current)
		if cv.Remaining != "" {
			fmt.Fprintf(&b, " (%s)", cv.Remaining)
		}
		b.WriteString("\n")
		if cv.Next != "" {
			fmt.Fprintf(&b, "  next %s at %s\n", cv.Next, cv.NextStart)
		}
	}
	return b.String()
}
