package availability

import (
	"encoding/json"
	"strings"

	"github.com/cmplus/unit-booking-backend/internal/dates"
)

// The persisted documents arrive in several legacy shapes. Each shape gets
// its own detector; detectors are tried in order and the first match wins.
// Anything unrecognized normalizes to an empty map: callers cannot tell "no
// data" from "no document", and both read as "not available".

// busyStatuses is the closed set of statuses that block a date. A
// departure-only marker ("depart") does not: checkout and check-in may share
// a date.
var busyStatuses = map[string]bool{
	"busy":       true,
	"booked":     true,
	"blocked":    true,
	"reserved":   true,
	"hold":       true,
	"no_arrival": true,
}

// IsBusyStatus reports whether a status string (case-insensitive) marks a
// date busy.
func IsBusyStatus(status string) bool {
	return busyStatuses[strings.ToLower(status)]
}

type priceDetector func(raw json.RawMessage) (PriceMap, bool)

// NormalizePrices converts any tolerated price-document shape into the
// canonical PriceMap. Dates outside the YYYY-MM-DD pattern are ignored;
// non-numeric prices become nil entries.
func NormalizePrices(raw json.RawMessage) PriceMap {
	if len(raw) == 0 {
		return PriceMap{}
	}
	detectors := []priceDetector{
		detectDailyPrices,
		detectFlatPrices,
		detectPriceList,
	}
	for _, detect := range detectors {
		if m, ok := detect(raw); ok {
			return m
		}
	}
	return PriceMap{}
}

func numToPrice(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func priceEntries(m map[string]any) PriceMap {
	out := PriceMap{}
	for d, v := range m {
		if !dates.IsYMD(d) {
			continue
		}
		out[d] = numToPrice(v)
	}
	return out
}

// Shape a: { "daily": { "YYYY-MM-DD": 95, ... } }
func detectDailyPrices(raw json.RawMessage) (PriceMap, bool) {
	var doc struct {
		Daily map[string]any `json:"daily"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Daily == nil {
		return nil, false
	}
	return priceEntries(doc.Daily), true
}

// Shape b: { "YYYY-MM-DD": 95, ... }
func detectFlatPrices(raw json.RawMessage) (PriceMap, bool) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	m := priceEntries(doc)
	if len(m) == 0 {
		return nil, false
	}
	return m, true
}

// Shape c: { "prices": [ {date,price} | {start,end,price} ] }, or the legacy
// form where the list is the document root.
func detectPriceList(raw json.RawMessage) (PriceMap, bool) {
	type row struct {
		Date  string `json:"date"`
		Start string `json:"start"`
		End   string `json:"end"`
		Price any    `json:"price"`
	}
	var rows []row

	var doc struct {
		Prices []row `json:"prices"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Prices != nil {
		rows = doc.Prices
	} else if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}

	out := PriceMap{}
	for _, r := range rows {
		switch {
		case r.Date != "":
			if dates.IsYMD(r.Date) {
				out[r.Date] = numToPrice(r.Price)
			}
		case r.Start != "" && r.End != "":
			span, err := dates.NewSpan(r.Start, r.End)
			if err != nil {
				continue
			}
			for _, d := range span.Dates() {
				out[d] = numToPrice(r.Price)
			}
		}
	}
	return out, true
}

// NormalizeOccupancy converts either occupancy shape (daily status map or
// interval list with exclusive end) into the BusySet.
func NormalizeOccupancy(raw json.RawMessage) BusySet {
	if len(raw) == 0 {
		return BusySet{}
	}
	if set, ok := detectDailyOccupancy(raw); ok {
		return set
	}
	if set, ok := detectIntervalOccupancy(raw); ok {
		return set
	}
	return BusySet{}
}

// Shape A: { "daily": { "YYYY-MM-DD": "booked", ... } }
func detectDailyOccupancy(raw json.RawMessage) (BusySet, bool) {
	var doc struct {
		Daily map[string]string `json:"daily"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Daily == nil {
		return nil, false
	}
	set := BusySet{}
	for d, status := range doc.Daily {
		if dates.IsYMD(d) && IsBusyStatus(status) {
			set[d] = true
		}
	}
	return set, true
}

// Shape B: { "events": [ {from,to,status}, ... ] } with exclusive 'to', or
// the legacy root-level list. Rows may also use start/end and type keys.
func detectIntervalOccupancy(raw json.RawMessage) (BusySet, bool) {
	type row struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Start  string `json:"start"`
		End    string `json:"end"`
		Status string `json:"status"`
		Type   string `json:"type"`
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

	set := BusySet{}
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
		if from == "" || to == "" || !IsBusyStatus(status) {
			continue
		}
		span, err := dates.NewSpan(from, to)
		if err != nil {
			continue
		}
		for _, d := range span.Dates() {
			set[d] = true
		}
	}
	return set, true
}
