package ics

import (
	"strconv"
	"strings"
	"time"

	"github.com/cmplus/unit-booking-backend/internal/dates"
)

const (
	prodID   = "-//Unit Booking//Calendar Feed//EN"
	foldAt   = 73
	stampFmt = "20060102T150405Z"
	dateFmt  = "20060102"
)

// Builder assembles an all-day calendar feed for one unit. Events are
// emitted in the order they are added.
type Builder struct {
	unit   string
	domain string
	now    time.Time
	lines  []string
}

// NewBuilder starts a feed for the named unit. domain becomes the host part
// of every event identifier; now is used for the generation timestamps.
func NewBuilder(unit, domain string, now time.Time) *Builder {
	b := &Builder{unit: unit, domain: domain, now: now.UTC()}
	b.line("BEGIN:VCALENDAR")
	b.line("VERSION:2.0")
	b.line("PRODID:" + prodID)
	b.line("CALSCALE:GREGORIAN")
	b.line("METHOD:PUBLISH")
	b.line("X-WR-CALNAME:" + escapeText(unit+" availability"))
	return b
}

// Add appends one occupancy segment as an all-day event. The segment's To is
// already the exclusive checkout date, which is exactly what DTEND wants, so
// the dates pass through untranslated.
func (b *Builder) Add(s Segment) {
	from, err := dates.Parse(s.From)
	if err != nil {
		return
	}
	to, err := dates.Parse(s.To)
	if err != nil || !to.After(from) {
		return
	}
	summary := "Blocked - " + b.unit
	category := "BLOCK"
	if s.Kind == KindBooking {
		summary = "Booked - " + b.unit
		category = "RESERVATION"
	}
	b.line("BEGIN:VEVENT")
	b.line("UID:" + s.UID(b.domain))
	b.line("DTSTAMP:" + b.now.Format(stampFmt))
	b.line("DTSTART;VALUE=DATE:" + from.Format(dateFmt))
	b.line("DTEND;VALUE=DATE:" + to.Format(dateFmt))
	b.line("SUMMARY:" + escapeText(summary))
	b.line("CATEGORIES:" + category)
	b.line("DESCRIPTION:" + escapeText("Nights: "+strconv.Itoa(dates.NightsBetween(s.From, s.To))))
	b.line("END:VEVENT")
}

// String finalizes the feed with CRLF line endings.
func (b *Builder) String() string {
	out := strings.Join(b.lines, "\r\n")
	return out + "\r\nEND:VCALENDAR\r\n"
}

func (b *Builder) line(s string) {
	b.lines = append(b.lines, fold(s)...)
}

// ErrorFeed renders a failure as a minimal calendar with one explanatory
// event. Feed consumers only speak text/calendar; a JSON error body would
// show up as a corrupt subscription on their side.
func ErrorFeed(unit, domain, msg string, now time.Time) string {
	b := NewBuilder(unit, domain, now)
	day := now.UTC()
	b.line("BEGIN:VEVENT")
	b.line("UID:cm:" + unit + ":error@" + domain)
	b.line("DTSTAMP:" + day.Format(stampFmt))
	b.line("DTSTART;VALUE=DATE:" + day.Format(dateFmt))
	b.line("DTEND;VALUE=DATE:" + day.AddDate(0, 0, 1).Format(dateFmt))
	b.line("SUMMARY:" + escapeText("Calendar unavailable: "+msg))
	b.line("END:VEVENT")
	return b.String()
}

// escapeText applies the content-line escaping rules: backslash first, then
// newline, comma and semicolon.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, ";", `\;`)
	return s
}

// fold splits a content line so no physical line exceeds the octet limit.
// Continuation lines start with a single space that the unfolder strips.
func fold(s string) []string {
	if len(s) <= foldAt {
		return []string{s}
	}
	var out []string
	out = append(out, s[:foldAt])
	s = s[foldAt:]
	// Continuations hold one octet less to make room for the leading space.
	for len(s) > foldAt-1 {
		out = append(out, " "+s[:foldAt-1])
		s = s[foldAt-1:]
	}
	if len(s) > 0 {
		out = append(out, " "+s)
	}
	return out
}
