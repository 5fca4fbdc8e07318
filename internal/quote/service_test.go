package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmplus/unit-booking-backend/internal/availability"
	"github.com/cmplus/unit-booking-backend/internal/capacity"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// julyRepo seeds unit A1 with 80/night for 2025-07-01..2025-07-07 and no
// occupancy conflicts.
func julyRepo() *unit.MemoryRepository {
	repo := unit.NewMemoryRepository()
	prices := map[string]float64{}
	for d := 1; d <= 7; d++ {
		prices[fmt.Sprintf("2025-07-%02d", d)] = 80
	}
	doc, _ := json.Marshal(prices)
	repo.Put("A1", unit.KindPrices, doc)
	return repo
}

func newTestService(repo *unit.MemoryRepository) *service {
	svc := NewService(repo, availability.NewService(repo)).(*service)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestBuildPlainQuote(t *testing.T) {
	svc := newTestService(julyRepo())

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 2},
	})
	require.NoError(t, err)

	assert.True(t, q.Available)
	assert.Equal(t, 7, q.Nights)
	assert.Equal(t, 560.0, q.BaseTotal)
	assert.Equal(t, 0.0, q.DiscountsTotal)
	assert.Equal(t, 45.0, q.CleaningFee)
	assert.Equal(t, 605.0, q.FinalTotal)
	assert.True(t, q.Submittable)
	assert.Len(t, q.Breakdown, 7)
}

func TestBuildQuoteWithWeeklyTier(t *testing.T) {
	repo := julyRepo()
	repo.Put("", unit.KindSettings, json.RawMessage(`{"weekly_threshold": 7, "weekly_discount_pct": 10}`))
	svc := newTestService(repo)

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 56.0, q.DiscountsTotal)
	assert.Equal(t, 549.0, q.FinalTotal)
	require.Len(t, q.Discounts, 1)
	assert.Equal(t, "tier", q.Discounts[0].Kind)
}

func TestBuildQuoteExhaustedPromo(t *testing.T) {
	repo := julyRepo()
	repo.Put("", unit.KindPromoCodes, json.RawMessage(`{"codes": [
		{"code": "SAVE10", "type": "percent", "value": 10, "usage_limit": 5, "used_count": 5}
	]}`))
	svc := newTestService(repo)

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 2}, PromoCode: "SAVE10",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, q.PromoError)
	assert.Empty(t, q.PromoCode)
	assert.Equal(t, 605.0, q.FinalTotal, "final total unaffected by the rejected promo")
}

func TestBuildQuoteInvalidSpan(t *testing.T) {
	svc := newTestService(julyRepo())

	for _, tt := range []struct{ from, to string }{
		{"2025-07-08", "2025-07-01"},
		{"2025-07-01", "2025-07-01"},
		{"garbage", "2025-07-08"},
	} {
		q, err := svc.Build(context.Background(), Request{Unit: "A1", From: tt.from, To: tt.to})
		require.NoError(t, err)
		assert.False(t, q.Available)
		assert.Equal(t, 0.0, q.FinalTotal)
		assert.Equal(t, "invalid date range", q.Reason)
	}
}

func TestBuildQuoteUnavailableSpan(t *testing.T) {
	repo := julyRepo()
	repo.Put("A1", unit.KindOccupancy, json.RawMessage(`{"daily": {"2025-07-03": "booked"}}`))
	svc := newTestService(repo)

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 2},
	})
	require.NoError(t, err)

	assert.False(t, q.Available)
	assert.Equal(t, "busy 2025-07-03", q.Reason)
	assert.Equal(t, 0.0, q.BaseTotal, "no pricing on unavailable spans")
	assert.False(t, q.Submittable)
}

func TestBuildQuoteCapacityViolationsDoNotBlockPricing(t *testing.T) {
	svc := newTestService(julyRepo())

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 7},
	})
	require.NoError(t, err)

	assert.True(t, q.Available)
	assert.NotEmpty(t, q.Violations)
	assert.Equal(t, 605.0, q.FinalTotal, "price still computed")
	assert.False(t, q.Submittable)
}

func TestBuildQuoteTouristTaxSeparate(t *testing.T) {
	repo := julyRepo()
	repo.Put("", unit.KindSettings, json.RawMessage(`{"tt_adult_per_night": 2.5}`))
	svc := newTestService(repo)

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group:    capacity.Group{Adults: 2, Children712: 1, Children0to6: 1},
		Keycards: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, q.TouristTax)

	// Payers: 2 adults + 0.5 for the 7-12 child + 0 for the 0-6 child.
	assert.Equal(t, 43.75, q.TouristTax.Total)
	// Keycards cap at the adult count: 2 x 7 x 2.50.
	assert.Equal(t, 35.0, q.TouristTax.KeycardSaving)
	assert.Equal(t, 8.75, q.TouristTax.NetPayable)
	assert.Equal(t, 605.0, q.FinalTotal, "tourist tax never folds into the total")
}

func TestBuildQuoteNoTouristTaxUntilConfigured(t *testing.T) {
	svc := newTestService(julyRepo())

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 2}, Keycards: 2,
	})
	require.NoError(t, err)

	assert.Nil(t, q.TouristTax, "no nightly rate configured, no tax block")
	assert.Equal(t, 605.0, q.FinalTotal)
}

func TestBuildQuoteMinNightsGate(t *testing.T) {
	repo := julyRepo()
	repo.Put("A1", unit.KindSettings, json.RawMessage(`{"booking": {"min_nights": 3}}`))
	svc := newTestService(repo)

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-03",
		Group: capacity.Group{Adults: 2},
	})
	require.NoError(t, err)

	assert.True(t, q.Available)
	assert.Equal(t, 3, q.MinNights)
	assert.False(t, q.Submittable)
}

func TestBuildQuoteWelcomeAutoPromo(t *testing.T) {
	repo := julyRepo()
	repo.Put("", unit.KindSettings, json.RawMessage(`{"welcome_promo_code": "WELCOME5", "welcome_auto_limit": 3}`))
	repo.Put("", unit.KindPromoCodes, json.RawMessage(`{"codes": [
		{"code": "WELCOME5", "type": "percent", "value": 5, "used_count": 2}
	]}`))
	svc := newTestService(repo)

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "WELCOME5", q.PromoCode)
	assert.True(t, q.PromoAutoApplied)
	assert.Equal(t, 28.0, q.DiscountsTotal)

	// Budget used up: no auto promo.
	repo.Put("", unit.KindPromoCodes, json.RawMessage(`{"codes": [
		{"code": "WELCOME5", "type": "percent", "value": 5, "used_count": 3}
	]}`))
	q, err = svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-08",
		Group: capacity.Group{Adults: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, q.PromoCode)
	assert.Equal(t, 0.0, q.DiscountsTotal)
	assert.Empty(t, q.PromoError, "silent when the auto promo is unavailable")
}

func TestBuildQuoteFinalTotalFloorsAtZero(t *testing.T) {
	repo := unit.NewMemoryRepository()
	repo.Put("A1", unit.KindPrices, json.RawMessage(`{"2025-07-01": 10}`))
	repo.Put("", unit.KindSettings, json.RawMessage(`{"cleaning_fee": 0}`))
	repo.Put("", unit.KindPromoCodes, json.RawMessage(`{"codes": [
		{"code": "HUGE", "type": "fixed", "value": 100}
	]}`))
	svc := newTestService(repo)

	q, err := svc.Build(context.Background(), Request{
		Unit: "A1", From: "2025-07-01", To: "2025-07-02",
		Group: capacity.Group{Adults: 1}, PromoCode: "HUGE",
	})
	require.NoError(t, err)

	// Fixed promos cap at the base, so the floor holds.
	assert.GreaterOrEqual(t, q.FinalTotal, 0.0)
	assert.Equal(t, 0.0, q.FinalTotal)
}
