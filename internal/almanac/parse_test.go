package almanac

import (
	"errors"
	"testing"
)

func TestParseIntervalLine_Valid(t *testing.T) {
	conv := DefaultConverter()

	iv, err := ParseIntervalLine("Prathama: 2025/12/04 15:14 to 2025/12/05 11:26", conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if iv.Name != "Prathama" {
		t.Errorf("Name = %q, want %q", iv.Name, "Prathama")
	}
	if want := conv.Convert(2025, 12, 4, 15, 14, 0); !iv.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", iv.Start, want)
	}
	if want := conv.Convert(2025, 12, 5, 11, 26, 0); !iv.End.Equal(want) {
		t.Errorf("End = %v, want %v", iv.End, want)
	}
}

func TestParseIntervalLine_TrimsAndKeepsNameUpToFirstColon(t *testing.T) {
	conv := DefaultConverter()

	iv, err := ParseIntervalLine("   Sukla Paksha Vidhiya: 2025/12/05 11:26 to 2025/12/06 07:12  ", conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Name != "Sukla Paksha Vidhiya" {
		t.Errorf("Name = %q", iv.Name)
	}
}

func TestParseIntervalLine_Malformed(t *testing.T) {
	conv := DefaultConverter()

	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"no colon", "Prathama 2025/12/04 15:14 to 2025/12/05 11:26"},
		{"missing to", "Prathama: 2025/12/04 15:14 2025/12/05 11:26"},
		{"wrong digit count in year", "Prathama: 225/12/04 15:14 to 2025/12/05 11:26"},
		{"wrong digit count in day", "Prathama: 2025/12/4 15:14 to 2025/12/05 11:26"},
		{"missing end timestamp", "Prathama: 2025/12/04 15:14 to"},
		{"seconds not allowed", "Prathama: 2025/12/04 15:14:00 to 2025/12/05 11:26:00"},
		{"trailing text", "Prathama: 2025/12/04 15:14 to 2025/12/05 11:26 approx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseIntervalLine(tt.line, conv); !errors.Is(err, ErrNotInterval) {
				t.Errorf("err = %v, want ErrNotInterval", err)
			}
		})
	}
}

func TestExtractSection(t *testing.T) {
	lines := []string{
		"Telugu Panchangam",
		"",
		"Thithi details:",
		"Poornima: 2025/12/04 15:14 to 2025/12/05 11:26",
		"Prathama: 2025/12/05 11:26 to 2025/12/06 07:12",
		"",
		"Nakshatram details:",
		"Rohini: 2025/12/04 13:03 to 2025/12/05 09:04",
	}

	t.Run("returns lines up to next section header", func(t *testing.T) {
		got := ExtractSection(lines, "Thithi details")
		want := []string{
			"Poornima: 2025/12/04 15:14 to 2025/12/05 11:26",
			"Prathama: 2025/12/05 11:26 to 2025/12/06 07:12",
			"",
		}
		if len(got) != len(want) {
			t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("line[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("last section runs to end of input", func(t *testing.T) {
		got := ExtractSection(lines, "Nakshatram details")
		if len(got) != 1 || got[0] != "Rohini: 2025/12/04 13:03 to 2025/12/05 09:04" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("absent label yields empty", func(t *testing.T) {
		if got := ExtractSection(lines, "Yogam details"); len(got) != 0 {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("terminator match is case-insensitive", func(t *testing.T) {
		mixed := []string{
			"Thithi details:",
			"Poornima: 2025/12/04 15:14 to 2025/12/05 11:26",
			"NAKSHATRAM DETAILS :",
			"Rohini: 2025/12/04 13:03 to 2025/12/05 09:04",
		}
		got := ExtractSection(mixed, "Thithi details")
		if len(got) != 1 {
			t.Errorf("got %d lines: %q", len(got), got)
		}
	})
}

func TestIntervalsFromSection(t *testing.T) {
	conv := DefaultConverter()

	section := []string{
		"Poornima: 2025/12/04 15:14 to 2025/12/05 11:26",
		"",
		"not a record at all",
		"Next Dvitiya starts at 2025/12/06 07:12",
		"NEXT Thritiya: 2025/12/06 07:12 to 2025/12/07 02:29",
		"Prathama: 2025/12/05 11:26 to 2025/12/06 07:12",
	}

	got := IntervalsFromSection(section, conv)
	if len(got) != 2 {
		t.Fatalf("got %d intervals, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Poornima" || got[1].Name != "Prathama" {
		t.Errorf("names = %q, %q", got[0].Name, got[1].Name)
	}
}

func TestHeaderValue(t *testing.T) {
	lines := []string{
		"Telugu Panchangam",
		"Samvatsaram : Visvavasu",
		"Masam : Karthika Masam",
		"Broken header no colon",
	}

	tests := []struct {
		name   string
		label  string
		want   string
		wantOK bool
	}{
		{"exact label", "Samvatsaram", "Visvavasu", true},
		{"case-insensitive label", "masam", "Karthika Masam", true},
		{"absent label", "Paksham", "", false},
		{"label present but no colon", "Broken header", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HeaderValue(lines, tt.label)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("HeaderValue(%q) = %q, %v; want %q, %v", tt.label, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBackendTimestamp_PreservesEmbeddedColons(t *testing.T) {
	lines := []string{
		"Date and time created : 2025/12/04 15:15:42",
	}

	got, ok := BackendTimestamp(lines)
	if !ok {
		t.Fatal("timestamp not found")
	}
	if got != "2025/12/04 15:15:42" {
		t.Errorf("got %q", got)
	}
}

func TestConvertBackendTimestamp(t *testing.T) {
	conv := DefaultConverter()

	t.Run("valid value converts to target wall clock", func(t *testing.T) {
		got := ConvertBackendTimestamp("2025/12/04 15:15:42", conv)
		if got != "2025/12/05 04:45:42" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("malformed value passes through unchanged", func(t *testing.T) {
		for _, raw := range []string{
			"2025/12/04 15:15", // seconds required here
			"yesterday evening",
			"",
		} {
			if got := ConvertBackendTimestamp(raw, conv); got != raw {
				t.Errorf("ConvertBackendTimestamp(%q) = %q, want unchanged", raw, got)
			}
		}
	})
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\nb\rc\nd")
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
