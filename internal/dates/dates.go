package dates

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the canonical calendar-date form used across all persisted
// documents and query parameters.
const Layout = "2006-01-02"

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsYMD reports whether s matches the canonical YYYY-MM-DD pattern.
func IsYMD(s string) bool {
	return ymdPattern.MatchString(s)
}

// Parse parses a canonical YYYY-MM-DD date in UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t back into canonical YYYY-MM-DD form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Span is a half-open date interval [From, To). To is the departure date and
// is not itself part of the stay.
type Span struct {
	From time.Time
	To   time.Time
}

// NewSpan parses both bounds from canonical form.
func NewSpan(from, to string) (Span, error) {
	f, err := Parse(from)
	if err != nil {
		return Span{}, err
	}
	t, err := Parse(to)
	if err != nil {
		return Span{}, err
	}
	return Span{From: f, To: t}, nil
}

// Valid reports whether the span has positive length.
func (s Span) Valid() bool {
	return s.To.After(s.From)
}

// Nights is the stay length in days. Zero for invalid spans.
func (s Span) Nights() int {
	if !s.Valid() {
		return 0
	}
	return int(s.To.Sub(s.From).Hours() / 24)
}

// Dates returns every date in [From, To) in canonical form, in order.
func (s Span) Dates() []string {
	if !s.Valid() {
		return nil
	}
	out := make([]string, 0, s.Nights())
	for d := s.From; d.Before(s.To); d = d.AddDate(0, 0, 1) {
		out = append(out, Format(d))
	}
	return out
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return !other.From.Before(s.From) && !other.To.After(s.To)
}

// String renders the span as "from..to" for log and error messages.
func (s Span) String() string {
	return Format(s.From) + ".." + Format(s.To)
}

// NightsBetween is the day difference between two canonical dates, floored at
// zero. Unparseable input counts as zero.
func NightsBetween(from, to string) int {
	f, err := Parse(from)
	if err != nil {
		return 0
	}
	t, err := Parse(to)
	if err != nil {
		return 0
	}
	n := int(t.Sub(f).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
