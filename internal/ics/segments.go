package ics

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/cmplus/unit-booking-backend/internal/availability"
	"github.com/cmplus/unit-booking-backend/internal/dates"
)

// OccupancySegments extracts exportable segments from an occupancy document.
// The interval shape keeps its row identity (id, source, status); the daily
// status map has none, so consecutive busy days coalesce into anonymous
// segments. The resulting To is always the exclusive checkout date.
func OccupancySegments(unit string, raw json.RawMessage) []Segment {
	if len(raw) == 0 {
		return nil
	}
	if segs, ok := intervalSegments(unit, raw); ok {
		return segs
	}
	return dailySegments(unit, raw)
}

// segmentKind classifies a busy status. Status strings are case-insensitive
// everywhere they appear in the documents.
func segmentKind(status string) string {
	switch strings.ToLower(status) {
	case "booked", "reserved":
		return KindBooking
	default:
		return KindBlock
	}
}

func intervalSegments(unit string, raw json.RawMessage) ([]Segment, bool) {
	type row struct {
		ID     string `json:"id"`
		From   string `json:"from"`
		To     string `json:"to"`
		Start  string `json:"start"`
		End    string `json:"end"`
		Status string `json:"status"`
		Type   string `json:"type"`
		Source string `json:"source"`
	}
	var rows []row

	var doc struct {
		Events []row `json:"events"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Events != nil {
		rows = doc.Events
	} else if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}

	var segs []Segment
	for _, r := range rows {
		from, to := r.From, r.To
		if from == "" {
			from = r.Start
		}
		if to == "" {
			to = r.End
		}
		status := r.Status
		if status == "" {
			status = r.Type
		}
		if status == "" {
			status = "busy"
		}
		if from == "" || to == "" || !availability.IsBusyStatus(status) {
			continue
		}
		span, err := dates.NewSpan(from, to)
		if err != nil || !span.Valid() {
			continue
		}
		segs = append(segs, Segment{
			ID:     r.ID,
			Unit:   unit,
			From:   from,
			To:     to,
			Kind:   segmentKind(status),
			Status: status,
			Source: r.Source,
		})
	}
	sortSegments(segs)
	return segs, true
}

func dailySegments(unit string, raw json.RawMessage) []Segment {
	var doc struct {
		Daily map[string]string `json:"daily"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Daily == nil {
		return nil
	}

	type day struct {
		date time.Time
		kind string
	}
	var days []day
	for d, status := range doc.Daily {
		if !dates.IsYMD(d) || !availability.IsBusyStatus(status) {
			continue
		}
		t, err := dates.Parse(d)
		if err != nil {
			continue
		}
		days = append(days, day{date: t, kind: segmentKind(status)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	var segs []Segment
	for i := 0; i < len(days); {
		j := i + 1
		for j < len(days) &&
			days[j].kind == days[i].kind &&
			days[j].date.Equal(days[j-1].date.AddDate(0, 0, 1)) {
			j++
		}
		status := "blocked"
		if days[i].kind == KindBooking {
			status = "booked"
		}
		segs = append(segs, Segment{
			Unit:   unit,
			From:   dates.Format(days[i].date),
			To:     dates.Format(days[j-1].date.AddDate(0, 0, 1)),
			Kind:   days[i].kind,
			Status: status,
		})
		i = j
	}
	return segs
}

func sortSegments(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		if segs[i].From != segs[j].From {
			return segs[i].From < segs[j].From
		}
		return segs[i].To < segs[j].To
	})
}
