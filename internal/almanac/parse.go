package almanac

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// The almanac file is line-oriented with no escaping and no real schema, so
// every matcher here is permissive: a line that does not fit its grammar is
// reported via a tagged error (or skipped by the caller), never a parse abort.
var (
	// "Prathama: 2025/12/04 15:14 to 2025/12/05 11:26"
	intervalRe = regexp.MustCompile(`^(.+?):\s*(\d{4})/(\d{2})/(\d{2})\s+(\d{2}):(\d{2})\s+to\s+(\d{4})/(\d{2})/(\d{2})\s+(\d{2}):(\d{2})$`)

	// Section terminators: any line containing "details" and ending with an
	// optional-whitespace colon, e.g. "Nakshatram details:".
	sectionEndRe = regexp.MustCompile(`(?i)details\s*:\s*$`)

	// Backend creation timestamp value, seconds required.
	backendTimeRe = regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2})\s+(\d{2}):(\d{2}):(\d{2})$`)
)

const backendTimestampLabel = "date and time created"

// ErrNotInterval reports that a line does not match the interval grammar.
// Callers that bulk-parse sections treat it as "skip this line".
var ErrNotInterval = errors.New("line does not match interval grammar")

// SplitLines splits raw text on any line-ending style (LF, CRLF, bare CR).
func SplitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}

// ExtractSection returns the lines strictly between the first line starting
// with startLabel and the next section header ("... details:"). A missing
// label yields an empty slice.
func ExtractSection(lines []string, startLabel string) []string {
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), startLabel) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}

	var out []string
	for _, line := range lines[start+1:] {
		if sectionEndRe.MatchString(strings.TrimSpace(line)) {
			break
		}
		out = append(out, line)
	}
	return out
}

// ParseIntervalLine parses one "<name>: YYYY/MM/DD HH:MM to YYYY/MM/DD HH:MM"
// record. Timestamps are civil times in the converter's source offset; seconds
// are absent in this grammar and default to zero.
func ParseIntervalLine(line string, conv *Converter) (Interval, error) {
	m := intervalRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Interval{}, ErrNotInterval
	}

	nums := make([]int, 10)
	for i := range nums {
		// Digit counts are fixed by the pattern, so Atoi cannot fail here.
		nums[i], _ = strconv.Atoi(m[i+2])
	}

	return Interval{
		Name:  strings.TrimSpace(m[1]),
		Start: conv.Convert(nums[0], nums[1], nums[2], nums[3], nums[4], 0),
		End:   conv.Convert(nums[5], nums[6], nums[7], nums[8], nums[9], 0),
	}, nil
}

// IntervalsFromSection parses every interval record in a section. Blank lines
// and "Next ..." summary annotations are skipped; lines that fail the grammar
// are dropped silently so one bad record never loses the rest of the section.
func IntervalsFromSection(sectionLines []string, conv *Converter) []Interval {
	var out []Interval
	for _, line := range sectionLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(trimmed), "next ") {
			continue
		}
		iv, err := ParseIntervalLine(trimmed, conv)
		if err != nil {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// HeaderValue finds the first line whose trimmed form starts with label
// (case-insensitive) and returns the text after its first colon, trimmed.
// The second return is false when the label is absent or the line carries
// no colon.
func HeaderValue(lines []string, label string) (string, bool) {
	lowLabel := strings.ToLower(label)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(trimmed), lowLabel) {
			continue
		}
		_, value, found := strings.Cut(trimmed, ":")
		if !found {
			return "", false
		}
		return strings.TrimSpace(value), true
	}
	return "", false
}

// BackendTimestamp extracts the "Date and time created" value. Only the FIRST
// colon splits label from value, so the colons inside the time-of-day survive.
func BackendTimestamp(lines []string) (string, bool) {
	return HeaderValue(lines, backendTimestampLabel)
}

// ConvertBackendTimestamp converts a raw backend timestamp value into the
// target wall clock. A value that does not match the expected pattern is
// returned unchanged: degraded but visible beats missing.
func ConvertBackendTimestamp(raw string, conv *Converter) string {
	m := backendTimeRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return raw
	}

	nums := make([]int, 6)
	for i := range nums {
		nums[i], _ = strconv.Atoi(m[i+1])
	}

	t := conv.Convert(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
	return conv.FormatSeconds(t)
}
