package discount

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmplus/unit-booking-backend/internal/dates"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// Line kinds, in application order.
const (
	LineTier    = "tier"
	LinePromo   = "promo"
	LineSpecial = "special"
)

// Line is one itemized discount on a quote.
type Line struct {
	Kind    string  `json:"kind"`
	ID      string  `json:"id,omitempty"`
	Label   string  `json:"label"`
	Percent float64 `json:"percent,omitempty"`
	Amount  float64 `json:"amount"`
}

// Result is the outcome of composing all discount rules over a base total.
type Result struct {
	Lines      []Line
	Total      float64
	PromoError string
	Promo      *PromoCode
	Offer      *SpecialOffer
}

// Request carries everything the composer needs for one quote.
type Request struct {
	UnitID    string
	Span      dates.Span
	BaseTotal float64
	Nights    int
	Tiers     []unit.Tier
	PromoCode string // empty = none requested
	Promos    []PromoCode
	Offers    []SpecialOffer
	Today     time.Time
}

// Compose applies the discount rules in their fixed order: length-of-stay
// tiers, then at most one promo code, then at most one special offer.
//
// Tiers are cumulative and each one rounds from the untouched base. The promo
// discounts the base net of tiers; the offer discounts the base net of tiers
// and promo. Cleaning fee and tourist tax are never part of any base here.
func Compose(req Request) Result {
	var res Result
	if req.Nights <= 0 || req.BaseTotal <= 0 {
		return res
	}

	// 1. Length-of-stay tiers.
	for _, tier := range req.Tiers {
		if !tier.Enabled || tier.Percent <= 0 || req.Nights < tier.ThresholdNights {
			continue
		}
		amount := Round2(req.BaseTotal * tier.Percent / 100)
		res.Lines = append(res.Lines, Line{
			Kind:    LineTier,
			Label:   fmt.Sprintf("%d+ night discount", tier.ThresholdNights),
			Percent: tier.Percent,
			Amount:  amount,
		})
		res.Total += amount
	}

	// 2. Promo code, at most one, against the base net of tiers.
	if req.PromoCode != "" {
		promo, ok := FindPromo(req.Promos, req.PromoCode, req.UnitID, req.Nights, req.Today)
		if !ok {
			res.PromoError = "promo code is not valid for this stay"
		} else {
			adjusted := req.BaseTotal - res.Total
			if adjusted < 0 {
				adjusted = 0
			}
			amount := promo.Amount(adjusted)
			if amount > 0 {
				label := promo.Name
				if label == "" {
					label = "Promo " + promo.Code
				}
				res.Lines = append(res.Lines, Line{
					Kind:   LinePromo,
					ID:     promo.Code,
					Label:  label,
					Amount: amount,
				})
				res.Total += amount
				res.Promo = &promo
			}
		}
	}

	// 3. Special offer, at most one, against the base net of tiers and promo.
	adjusted := req.BaseTotal - res.Total
	if adjusted > 0 {
		if offer := SelectOffer(req.Offers, req.Span, req.Nights); offer != nil {
			amount := Round2(adjusted * offer.Percent / 100)
			if amount > 0 {
				label := offer.Name
				if label == "" {
					label = "Special offer"
				}
				res.Lines = append(res.Lines, Line{
					Kind:    LineSpecial,
					ID:      offer.ID,
					Label:   label,
					Percent: offer.Percent,
					Amount:  amount,
				})
				res.Total += amount
				res.Offer = offer
			}
		}
	}

	res.Total = Round2(res.Total)
	return res
}

// Amount computes the promo's discount over the adjusted base: percent codes
// round half-up, fixed codes never exceed the base.
func (p PromoCode) Amount(adjustedBase float64) float64 {
	if adjustedBase <= 0 || p.Value <= 0 {
		return 0
	}
	if p.Kind == KindFixed {
		if p.Value < adjustedBase {
			return Round2(p.Value)
		}
		return Round2(adjustedBase)
	}
	return Round2(adjustedBase * p.Value / 100)
}

// FindPromo resolves a guest-entered code against the configured promo list.
// Matching is by exact case-insensitive code; candidates that are disabled,
// scoped to another unit, outside their validity window, outside the stay's
// night bounds, or at their usage limit are rejected.
func FindPromo(promos []PromoCode, code, unitID string, nights int, today time.Time) (PromoCode, bool) {
	want := strings.ToUpper(strings.TrimSpace(code))
	if want == "" {
		return PromoCode{}, false
	}
	for _, p := range promos {
		if p.Code != want {
			continue
		}
		if !p.Enabled || !p.AppliesTo(unitID) || !p.ValidOn(today) || p.Exhausted() {
			continue
		}
		if nights < p.MinNights {
			continue
		}
		if p.MaxNights != nil && nights > *p.MaxNights {
			continue
		}
		return p, true
	}
	return PromoCode{}, false
}
