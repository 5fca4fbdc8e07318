package discount

import "github.com/cmplus/unit-booking-backend/internal/dates"

// SelectOffer picks the single best special offer for the requested span, or
// nil when none is eligible.
//
// An offer is eligible only when the entire span lies inside its validity
// window; partial overlap never qualifies. Night bounds must hold and
// disabled offers are skipped. Among eligible offers the highest discount
// percent wins; equal percents resolve to the first eligible offer in input
// order. The priority field is deliberately not consulted.
func SelectOffer(offers []SpecialOffer, span dates.Span, nights int) *SpecialOffer {
	if nights <= 0 {
		return nil
	}

	var best *SpecialOffer
	for i := range offers {
		o := &offers[i]
		if !o.Enabled || o.Percent <= 0 {
			continue
		}
		if !o.Window.Contains(span) {
			continue
		}
		if nights < o.MinNights {
			continue
		}
		if o.MaxNights != nil && nights > *o.MaxNights {
			continue
		}
		if best == nil || o.Percent > best.Percent {
			best = o
		}
	}
	return best
}
