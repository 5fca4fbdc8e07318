package availability

import (
	"context"
	"fmt"

	"github.com/cmplus/unit-booking-backend/internal/dates"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// PriceMap maps canonical YYYY-MM-DD dates to a nightly price. A nil entry
// means the date appears in the source but carries no usable price.
type PriceMap map[string]*float64

// BusySet is the set of dates blocked for booking.
type BusySet map[string]bool

// Index is the per-unit availability view for one request: a nightly price
// lookup and a busy-date lookup, both rebuilt from the persisted documents on
// every call.
type Index struct {
	Prices PriceMap
	Busy   BusySet
}

// Service builds availability indexes from the document repository.
type Service interface {
	Build(ctx context.Context, unitID string) (*Index, error)

	// SpanClear reports whether every date of the span is priced and free.
	// The reason names the first offending date and which check failed;
	// it is meant for display, not for branching.
	SpanClear(ctx context.Context, unitID string, span dates.Span) (bool, string, error)
}

type service struct {
	repo unit.Repository
}

// NewService creates an availability service over the given repository.
func NewService(repo unit.Repository) Service {
	return &service{repo: repo}
}

func (s *service) Build(ctx context.Context, unitID string) (*Index, error) {
	rawPrices, err := s.repo.LoadPrices(ctx, unitID)
	if err != nil {
		return nil, err
	}
	rawOcc, err := s.repo.LoadOccupancy(ctx, unitID)
	if err != nil {
		return nil, err
	}
	return &Index{
		Prices: NormalizePrices(rawPrices),
		Busy:   NormalizeOccupancy(rawOcc),
	}, nil
}

func (s *service) SpanClear(ctx context.Context, unitID string, span dates.Span) (bool, string, error) {
	if !span.Valid() {
		return false, "from>=to", nil
	}
	idx, err := s.Build(ctx, unitID)
	if err != nil {
		return false, "", err
	}
	return idx.SpanClear(span)
}

// SpanClear checks every date of [from, to) against the index. A date fails
// when it has no price entry, a nil or zero price, or is busy.
func (idx *Index) SpanClear(span dates.Span) (bool, string, error) {
	if !span.Valid() {
		return false, "from>=to", nil
	}
	for _, d := range span.Dates() {
		p, ok := idx.Prices[d]
		if !ok || p == nil || *p == 0 {
			return false, fmt.Sprintf("no price %s", d), nil
		}
		if idx.Busy[d] {
			return false, fmt.Sprintf("busy %s", d), nil
		}
	}
	return true, "", nil
}

// BaseTotal sums the nightly prices over the span. Unpriced dates count as
// zero; callers gate on SpanClear first.
func (idx *Index) BaseTotal(span dates.Span) float64 {
	var total float64
	for _, d := range span.Dates() {
		if p := idx.Prices[d]; p != nil {
			total += *p
		}
	}
	return total
}

// Nightly returns the per-date price breakdown over the span.
func (idx *Index) Nightly(span dates.Span) []NightPrice {
	ds := span.Dates()
	out := make([]NightPrice, 0, len(ds))
	for _, d := range ds {
		np := NightPrice{Date: d}
		if p := idx.Prices[d]; p != nil {
			np.Price = *p
			np.Priced = true
		}
		out = append(out, np)
	}
	return out
}

// NightPrice is one date's entry in a quote's price breakdown.
type NightPrice struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Priced bool    `json:"priced"`
}
