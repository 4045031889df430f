package ical

import (
	"strings"
	"testing"

	"panchview/internal/almanac"
)

const sampleAlmanac = `Thithi details:
Poornima: 2025/12/04 15:14 to 2025/12/05 11:26
Prathama: 2025/12/05 11:26 to 2025/12/06 07:12

Nakshatram details:
Rohini: 2025/12/04 13:03 to 2025/12/05 09:04
`

func TestExport(t *testing.T) {
	conv := almanac.DefaultConverter()
	doc, err := almanac.Build(sampleAlmanac, conv)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	out := Export(doc, conv)

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") {
		t.Fatalf("not a calendar:\n%s", out)
	}

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("event count = %d, want 3", got)
	}

	for _, want := range []string{
		"SUMMARY:Tithi: Poornima",
		"SUMMARY:Tithi: Prathama",
		"SUMMARY:Nakshatra: Rohini",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestExport_StableUIDs(t *testing.T) {
	conv := almanac.DefaultConverter()
	doc, err := almanac.Build(sampleAlmanac, conv)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	iv := doc.Tithi.Intervals[0]
	uid := eventUID("Tithi", iv)

	if uid != eventUID("Tithi", iv) {
		t.Error("UID not deterministic")
	}
	if !strings.Contains(uid, "tithi-poornima-") || !strings.HasSuffix(uid, "@panchview") {
		t.Errorf("uid = %q", uid)
	}
	if strings.Count(Export(doc, conv), uid) != 1 {
		t.Errorf("uid %q not unique in export", uid)
	}
}

func TestExport_EmptyDocument(t *testing.T) {
	conv := almanac.DefaultConverter()
	doc := &almanac.Document{Headers: map[string]string{}}

	out := Export(doc, conv)
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Errorf("empty document must export no events:\n%s", out)
	}
	if !strings.Contains(out, "END:VCALENDAR") {
		t.Errorf("still must be a valid calendar:\n%s", out)
	}
}
