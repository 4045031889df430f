package almanac

import (
	"errors"
	"strings"
)

// Header labels the almanac file carries, matched case-insensitively by
// prefix.
var HeaderLabels = []string{"Samvatsaram", "Ayanam", "Ruthu", "Masam", "Paksham"}

// Section labels, in file order.
const (
	SectionTithi     = "Thithi details"
	SectionNakshatra = "Nakshatram details"
	SectionYogam     = "Yogam details"
	SectionKaranam   = "Karanam details"
)

// ErrEmptyDocument reports that the raw almanac text was empty or blank.
// This is the only build-time failure: a present-but-mangled document always
// yields a (possibly sparse) Document instead.
var ErrEmptyDocument = errors.New("almanac document is empty")

// Document is one parsed almanac. Built in a single pass and immutable
// afterward; a reload constructs a fresh Document rather than patching this
// one.
type Document struct {
	// Headers holds the descriptive fields found in the file; labels that
	// were absent simply have no entry.
	Headers map[string]string

	// BackendTimestamp is the file's creation timestamp converted to the
	// target wall clock, or the raw value verbatim when it did not match the
	// expected pattern. Empty when the line is missing entirely.
	BackendTimestamp string

	Tithi     Index
	Nakshatra Index
	Yogam     Index
	Karanam   Index
}

// Build parses raw almanac text into a Document. Every extraction is
// failure-isolated: a missing section gives an empty index, a missing header
// gives no map entry. Only wholly empty input is an error, so the caller can
// tell "source gave us nothing" apart from "source gave us a sparse file".
func Build(raw string, conv *Converter) (*Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyDocument
	}

	lines := SplitLines(raw)

	doc := &Document{
		Headers: make(map[string]string),
	}

	for _, label := range HeaderLabels {
		if v, ok := HeaderValue(lines, label); ok {
			doc.Headers[label] = v
		}
	}

	if ts, ok := BackendTimestamp(lines); ok {
		doc.BackendTimestamp = ConvertBackendTimestamp(ts, conv)
	}

	doc.Tithi = buildIndex(lines, SectionTithi, conv)
	doc.Nakshatra = buildIndex(lines, SectionNakshatra, conv)
	doc.Yogam = buildIndex(lines, SectionYogam, conv)
	doc.Karanam = buildIndex(lines, SectionKaranam, conv)

	return doc, nil
}

func buildIndex(lines []string, section string, conv *Converter) Index {
	return Index{Intervals: IntervalsFromSection(ExtractSection(lines, section), conv)}
}
