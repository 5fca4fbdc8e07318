package discount

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/cmplus/unit-booking-backend/internal/dates"
)

// Promo code kinds.
const (
	KindPercent = "percent"
	KindFixed   = "fixed"
)

// PromoCode is a guest-entered code redeemable for a discount, subject to
// validity and usage limits.
type PromoCode struct {
	Code       string
	Name       string
	Kind       string // percent or fixed
	Value      float64
	ValidFrom  string // canonical date, empty = open
	ValidTo    string // canonical date, empty = open
	Units      []string
	UsageLimit int
	UsedCount  int
	MinNights  int
	MaxNights  *int
	Enabled    bool
}

// SpecialOffer is a time-boxed promotional discount tied to a validity window
// and optional stay-length bounds. Priority is carried from the documents but
// does not participate in selection.
type SpecialOffer struct {
	ID        string
	Name      string
	Window    dates.Span
	Percent   float64
	MinNights int
	MaxNights *int
	Priority  int
	Enabled   bool
}

// Round2 rounds to two decimal places using half-up rounding. Monetary
// amounts round at every step, never only at the end.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// flag covers documents that carry enabled, active, both, or neither; an
// absent flag reads as true.
type flag struct {
	set bool
	val bool
}

func (f *flag) UnmarshalJSON(b []byte) error {
	f.set = true
	return json.Unmarshal(b, &f.val)
}

func (f flag) or(def bool) bool {
	if !f.set {
		return def
	}
	return f.val
}

// promoDoc tolerates the promo-code document vintages in circulation:
// code vs id, unit as string or list, enabled and/or active flags.
type promoDoc struct {
	Code       string          `json:"code"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Value      float64         `json:"value"`
	ValidFrom  string          `json:"valid_from"`
	ValidTo    string          `json:"valid_to"`
	Unit       json.RawMessage `json:"unit"`
	UsageLimit int             `json:"usage_limit"`
	UsedCount  int             `json:"used_count"`
	MinNights  int             `json:"min_nights"`
	MaxNights  *int            `json:"max_nights"`
	Enabled    flag            `json:"enabled"`
	Active     flag            `json:"active"`
}

// ParsePromoCodes normalizes the promo configuration document. Malformed
// input yields an empty list.
func ParsePromoCodes(raw json.RawMessage) []PromoCode {
	if len(raw) == 0 {
		return nil
	}
	var doc struct {
		Codes []promoDoc `json:"codes"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	out := make([]PromoCode, 0, len(doc.Codes))
	for _, d := range doc.Codes {
		code := d.Code
		if code == "" {
			code = d.ID
		}
		if code == "" {
			continue
		}
		kind := d.Type
		if kind != KindFixed {
			kind = KindPercent
		}
		out = append(out, PromoCode{
			Code:       strings.ToUpper(code),
			Name:       d.Name,
			Kind:       kind,
			Value:      d.Value,
			ValidFrom:  d.ValidFrom,
			ValidTo:    d.ValidTo,
			Units:      parseUnitScope(d.Unit),
			UsageLimit: d.UsageLimit,
			UsedCount:  d.UsedCount,
			MinNights:  d.MinNights,
			MaxNights:  d.MaxNights,
			Enabled:    d.Enabled.or(true) && d.Active.or(true),
		})
	}
	return out
}

func parseUnitScope(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

// AppliesTo reports whether the promo is scoped to the given unit. An empty
// scope applies everywhere.
func (p PromoCode) AppliesTo(unitID string) bool {
	if len(p.Units) == 0 {
		return true
	}
	for _, u := range p.Units {
		if u == unitID {
			return true
		}
	}
	return false
}

// ValidOn reports whether today falls inside the promo's validity window
// (both bounds inclusive, open bounds always pass).
func (p PromoCode) ValidOn(today time.Time) bool {
	if p.ValidFrom != "" {
		if from, err := dates.Parse(p.ValidFrom); err == nil && today.Before(from) {
			return false
		}
	}
	if p.ValidTo != "" {
		if to, err := dates.Parse(p.ValidTo); err == nil && today.After(to) {
			return false
		}
	}
	return true
}

// Exhausted reports whether the promo has reached its usage limit. A zero
// limit means unlimited.
func (p PromoCode) Exhausted() bool {
	return p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit
}

// offerDoc tolerates both offer document vintages: flat
// {from,to,discount_percent,min_nights,...} and nested
// {active_from,active_to,discount:{type,value},conditions:{...}}.
type offerDoc struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	From       string `json:"from"`
	To         string `json:"to"`
	ActiveFrom string `json:"active_from"`
	ActiveTo   string `json:"active_to"`
	Percent    *float64 `json:"discount_percent"`
	Discount   *struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	} `json:"discount"`
	MinNights  *int `json:"min_nights"`
	MaxNights  *int `json:"max_nights"`
	Conditions *struct {
		MinNights *int `json:"min_nights"`
		MaxNights *int `json:"max_nights"`
	} `json:"conditions"`
	Priority int  `json:"priority"`
	Enabled  flag `json:"enabled"`
	Active   flag `json:"active"`
}

// ParseOffers normalizes the special-offers document (root list or
// {offers:[...]}). Offers without a usable window or positive percent are
// dropped.
func ParseOffers(raw json.RawMessage) []SpecialOffer {
	if len(raw) == 0 {
		return nil
	}
	var rows []offerDoc
	var doc struct {
		Offers []offerDoc `json:"offers"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Offers != nil {
		rows = doc.Offers
	} else if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}

	out := make([]SpecialOffer, 0, len(rows))
	for _, d := range rows {
		from := d.From
		if from == "" {
			from = d.ActiveFrom
		}
		to := d.To
		if to == "" {
			to = d.ActiveTo
		}
		window, err := dates.NewSpan(from, to)
		if err != nil {
			continue
		}

		var pct float64
		if d.Percent != nil {
			pct = *d.Percent
		} else if d.Discount != nil && d.Discount.Type != "fixed" {
			pct = d.Discount.Value
		}
		if pct <= 0 {
			continue
		}

		offer := SpecialOffer{
			ID:       d.ID,
			Name:     d.Name,
			Window:   window,
			Percent:  pct,
			Priority: d.Priority,
			Enabled:  d.Enabled.or(true) && d.Active.or(true),
		}
		if d.MinNights != nil {
			offer.MinNights = *d.MinNights
		} else if d.Conditions != nil && d.Conditions.MinNights != nil {
			offer.MinNights = *d.Conditions.MinNights
		}
		if d.MaxNights != nil {
			offer.MaxNights = d.MaxNights
		} else if d.Conditions != nil {
			offer.MaxNights = d.Conditions.MaxNights
		}
		out = append(out, offer)
	}
	return out
}
