package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfold(t *testing.T) {
	raw := "SUMMARY:Hello\r\n  world\r\nDESCRIPTION:Tab\r\n\tcontinued\r\nUID:plain"
	lines := Unfold(raw)
	require.Len(t, lines, 3)
	// Exactly one leading whitespace character is consumed per continuation.
	assert.Equal(t, "SUMMARY:Hello world", lines[0])
	assert.Equal(t, "DESCRIPTION:Tabcontinued", lines[1])
	assert.Equal(t, "UID:plain", lines[2])
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"all-day form", "20250610", "2025-06-10"},
		{"timestamped", "20250610T140000", "2025-06-10"},
		{"timestamped utc", "20250610T140000Z", "2025-06-10"},
		{"surrounding space", " 20250610 ", "2025-06-10"},
		{"too short", "2025061", ""},
		{"bad month", "20251310", ""},
		{"letters", "2025061X", ""},
		{"trailing junk", "20250610X140000", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDate(tt.input))
		})
	}
}

func TestParseEvents(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:abc@example.com",
		"SUMMARY:Reserved",
		"DTSTART;VALUE=DATE:20250610",
		"DTEND;VALUE=DATE:20250615",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:def@example.com",
		"SUMMARY:Not available",
		"DTSTART:20250701T120000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events := Parse(raw)
	require.Len(t, events, 2)

	assert.Equal(t, "abc@example.com", events[0].UID)
	assert.Equal(t, "2025-06-10", events[0].Start)
	assert.Equal(t, "2025-06-15", events[0].End)
	assert.Equal(t, KindBooking, events[0].Kind)
	assert.Equal(t, 5, events[0].Nights())

	// Missing DTEND leaves the normalized end empty but keeps the event.
	assert.Equal(t, "2025-07-01", events[1].Start)
	assert.Equal(t, "", events[1].End)
	assert.Equal(t, 0, events[1].Nights())
	assert.Equal(t, KindBlock, events[1].Kind)
}

func TestParseKeepsRawForUnparseableDates(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VEVENT",
		"DTSTART:whenever",
		"DTEND;TZID=Europe/Zagreb:20250615T110000",
		"END:VEVENT",
	}, "\n")

	events := Parse(raw)
	require.Len(t, events, 1)
	assert.Equal(t, "", events[0].Start)
	assert.Equal(t, "whenever", events[0].RawStart)
	assert.Equal(t, "2025-06-15", events[0].End)
	assert.Equal(t, 0, events[0].Nights())
}

func TestParseDropsStrayEnd(t *testing.T) {
	raw := "END:VEVENT\nBEGIN:VEVENT\nUID:x\nEND:VEVENT\n"
	events := Parse(raw)
	require.Len(t, events, 1)
	assert.Equal(t, "x", events[0].UID)
}

func TestParseUnterminatedEventDropped(t *testing.T) {
	raw := "BEGIN:VEVENT\nUID:x\nDTSTART:20250610\n"
	assert.Empty(t, Parse(raw))
}

func TestParseCategoriesMarkBlocks(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VEVENT",
		"SUMMARY:Maintenance",
		"CATEGORIES:BLOCK",
		"DTSTART:20250610",
		"DTEND:20250611",
		"END:VEVENT",
	}, "\n")
	events := Parse(raw)
	require.Len(t, events, 1)
	assert.Equal(t, KindBlock, events[0].Kind)
}

func TestEscapeUnescapeText(t *testing.T) {
	original := `Booked, guest; note\here` + "\nsecond line"
	escaped := escapeText(original)
	assert.NotContains(t, escaped, "\n")
	assert.Equal(t, original, unescapeText(escaped))
}
