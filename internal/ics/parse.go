package ics

import (
	"strings"
	"time"
)

// Unfold reassembles logical content lines. A physical line beginning with a
// space or tab continues the previous line, with exactly that one leading
// character removed.
func Unfold(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && len(out) > 0 {
			out[len(out)-1] += line[1:]
			continue
		}
		out = append(out, line)
	}
	return out
}

// Parse extracts the events of a calendar feed. Faults are contained per
// event: a malformed entry yields an event with empty normalized dates, and
// stray END markers without a matching BEGIN are dropped. The input never
// produces an error, only fewer events.
func Parse(raw string) []CalendarEvent {
	events := []CalendarEvent{}
	var cur *CalendarEvent
	for _, line := range Unfold(raw) {
		name, value := splitContentLine(line)
		switch name {
		case "BEGIN":
			if strings.EqualFold(value, "VEVENT") {
				cur = &CalendarEvent{Kind: KindBooking}
			}
		case "END":
			if strings.EqualFold(value, "VEVENT") && cur != nil {
				events = append(events, *cur)
				cur = nil
			}
		case "UID":
			if cur != nil {
				cur.UID = value
			}
		case "SUMMARY":
			if cur != nil {
				cur.Summary = unescapeText(value)
				if looksBlocked(cur.Summary) {
					cur.Kind = KindBlock
				}
			}
		case "CATEGORIES":
			if cur != nil && looksBlocked(value) {
				cur.Kind = KindBlock
			}
		case "DTSTART":
			if cur != nil {
				cur.RawStart = value
				cur.Start = normalizeDate(value)
			}
		case "DTEND":
			if cur != nil {
				cur.RawEnd = value
				cur.End = normalizeDate(value)
			}
		}
	}
	return events
}

// splitContentLine separates a content line into its property name and
// value, discarding any parameters between the name and the colon.
func splitContentLine(line string) (string, string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.ToUpper(strings.TrimSpace(line)), ""
	}
	name := line[:i]
	if j := strings.Index(name, ";"); j >= 0 {
		name = name[:j]
	}
	return strings.ToUpper(strings.TrimSpace(name)), line[i+1:]
}

// normalizeDate turns a DTSTART/DTEND value into canonical YYYY-MM-DD form.
// Both the all-day form (YYYYMMDD) and the timestamped forms
// (YYYYMMDDTHHMMSS, YYYYMMDDTHHMMSSZ) truncate to their date part. Anything
// else normalizes to empty.
func normalizeDate(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 8 {
		if t, err := time.Parse("20060102", v[:8]); err == nil {
			switch {
			case len(v) == 8:
				return t.Format("2006-01-02")
			case len(v) == 15 && v[8] == 'T' && digits(v[9:15]):
				return t.Format("2006-01-02")
			case len(v) == 16 && v[8] == 'T' && digits(v[9:15]) && v[15] == 'Z':
				return t.Format("2006-01-02")
			}
		}
	}
	return ""
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func looksBlocked(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "block") || strings.Contains(s, "unavailable") ||
		strings.Contains(s, "not available") || strings.Contains(s, "closed")
}

func unescapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n', 'N':
				b.WriteByte('\n')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
