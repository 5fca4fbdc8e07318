package quote

import (
	"context"
	"strings"
	"time"

	"github.com/cmplus/unit-booking-backend/internal/availability"
	"github.com/cmplus/unit-booking-backend/internal/capacity"
	"github.com/cmplus/unit-booking-backend/internal/dates"
	"github.com/cmplus/unit-booking-backend/internal/discount"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// Request is one quote request as it arrives from the transport layer.
type Request struct {
	Unit      string
	From      string
	To        string
	Group     capacity.Group
	PromoCode string
	Keycards  int
}

// Service builds guest-facing quotes. Each call re-reads the unit's
// documents; nothing is cached between requests.
type Service interface {
	Build(ctx context.Context, req Request) (*Quote, error)
}

type service struct {
	repo  unit.Repository
	avail availability.Service
	now   func() time.Time
}

// NewService creates a quote service over the given repository.
func NewService(repo unit.Repository, avail availability.Service) Service {
	return &service{
		repo:  repo,
		avail: avail,
		now:   time.Now,
	}
}

func (s *service) Build(ctx context.Context, req Request) (*Quote, error) {
	unitID := unit.SanitizeID(req.Unit)

	q := &Quote{
		Unit:  unitID,
		From:  req.From,
		To:    req.To,
		Group: GroupInfo(req.Group.Clamped()),
	}

	// 1. Span validation. A malformed or non-positive span yields a zero
	// quote without touching any document.
	span, err := dates.NewSpan(req.From, req.To)
	if err != nil || !span.Valid() {
		q.Reason = "invalid date range"
		return q, nil
	}
	q.Nights = span.Nights()

	globalDoc, overrideDoc, err := s.repo.LoadSettings(ctx, unitID)
	if err != nil {
		return nil, err
	}
	settings := unit.ParseSettings(globalDoc, overrideDoc)
	q.MinNights = settings.MinNights

	// 2. Availability. An occupied or unpriced date short-circuits pricing.
	idx, err := s.avail.Build(ctx, unitID)
	if err != nil {
		return nil, err
	}
	clear, reason, err := idx.SpanClear(span)
	if err != nil {
		return nil, err
	}
	if !clear {
		q.Reason = reason
		return q, nil
	}
	q.Available = true

	// 3. Base total from the per-date prices.
	q.BaseTotal = discount.Round2(idx.BaseTotal(span))
	q.Breakdown = idx.Nightly(span)

	// 4. Capacity. Violations are attached but never block pricing.
	q.Violations = capacity.Validate(req.Group, settings.Capacity)

	// 5. Discounts.
	promoCode, autoTried := s.effectivePromoCode(ctx, req.PromoCode, settings)
	res := discount.Compose(discount.Request{
		UnitID:    unitID,
		Span:      span,
		BaseTotal: q.BaseTotal,
		Nights:    q.Nights,
		Tiers:     settings.Tiers(),
		PromoCode: promoCode,
		Promos:    s.loadPromos(ctx),
		Offers:    s.loadOffers(ctx, unitID),
		Today:     s.today(),
	})
	q.Discounts = res.Lines
	q.DiscountsTotal = res.Total
	if res.Promo != nil {
		q.PromoCode = res.Promo.Code
		q.PromoAutoApplied = autoTried
	}
	if !autoTried {
		// An auto-tried welcome code that turns out ineligible stays silent.
		q.PromoError = res.PromoError
	}

	// 6. Tourist tax, reported separately and never discounted.
	q.TouristTax = s.touristTax(settings, req.Group.Clamped(), q.Nights, req.Keycards)

	// 7. Final assembly.
	q.CleaningFee = discount.Round2(settings.CleaningFee)
	q.FinalTotal = discount.Round2(q.BaseTotal - q.DiscountsTotal + q.CleaningFee)
	if q.FinalTotal < 0 {
		q.FinalTotal = 0
	}
	q.Submittable = len(q.Violations) == 0 && q.Nights >= settings.MinNights
	return q, nil
}

// effectivePromoCode returns the code to try and whether it was auto-chosen.
// When the guest enters nothing, the configured welcome code is tried while
// its auto-apply budget lasts.
func (s *service) effectivePromoCode(ctx context.Context, entered string, settings unit.Settings) (string, bool) {
	if entered != "" {
		return entered, false
	}
	if settings.WelcomeCode == "" || settings.WelcomeAutoLimit <= 0 {
		return "", false
	}
	promos := s.loadPromos(ctx)
	promo, ok := discount.FindPromo(promos, settings.WelcomeCode, "", 0, s.today())
	if !ok && len(promos) > 0 {
		// FindPromo applies night bounds we cannot know yet; a plain code
		// scan is enough to read the usage counter.
		for _, p := range promos {
			if strings.EqualFold(p.Code, settings.WelcomeCode) {
				promo, ok = p, true
				break
			}
		}
	}
	if !ok || promo.UsedCount >= settings.WelcomeAutoLimit {
		return "", false
	}
	return settings.WelcomeCode, true
}

func (s *service) loadPromos(ctx context.Context) []discount.PromoCode {
	raw, err := s.repo.LoadPromoCodes(ctx)
	if err != nil {
		return nil
	}
	return discount.ParsePromoCodes(raw)
}

func (s *service) loadOffers(ctx context.Context, unitID string) []discount.SpecialOffer {
	raw, err := s.repo.LoadOffers(ctx, unitID)
	if err != nil {
		return nil
	}
	return discount.ParseOffers(raw)
}

// touristTax computes the payer-weighted levy: children 7-12 count at the
// configured fraction (default one half), children 0-6 at theirs (default
// zero). The keycard waiver offsets up to one adult payer per card.
func (s *service) touristTax(settings unit.Settings, g capacity.Group, nights, keycards int) *TouristTax {
	rate := settings.TouristTaxNightly
	if rate <= 0 {
		// Unconfigured rate means no levy, not a zero-valued one.
		return nil
	}
	tt := &TouristTax{NightlyRate: rate}
	if nights <= 0 {
		return tt
	}

	payers := float64(g.Adults) +
		settings.TaxFactorKids712*float64(g.Children712) +
		settings.TaxFactorKids06*float64(g.Children0to6)
	tt.Total = discount.Round2(payers * rate * float64(nights))

	if keycards < 0 {
		keycards = 0
	}
	tt.KeycardCount = keycards
	effective := keycards
	if effective > g.Adults {
		effective = g.Adults
	}
	tt.KeycardSaving = discount.Round2(float64(effective) * rate * float64(nights))
	tt.NetPayable = tt.Total - tt.KeycardSaving
	if tt.NetPayable < 0 {
		tt.NetPayable = 0
	}
	return tt
}

func (s *service) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}
