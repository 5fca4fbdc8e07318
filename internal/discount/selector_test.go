package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOfferFullContainmentRequired(t *testing.T) {
	span := mustSpan(t, "2025-06-10", "2025-06-15")

	offers := []SpecialOffer{
		// Highest percent, but only partial overlap: never selected.
		{ID: "partial", Window: mustSpan(t, "2025-06-12", "2025-06-30"), Percent: 50, Enabled: true},
		{ID: "contained", Window: mustSpan(t, "2025-06-01", "2025-06-20"), Percent: 10, Enabled: true},
	}

	got := SelectOffer(offers, span, span.Nights())
	require.NotNil(t, got)
	assert.Equal(t, "contained", got.ID)
}

func TestSelectOfferHighestPercentWins(t *testing.T) {
	span := mustSpan(t, "2025-06-10", "2025-06-15")
	window := mustSpan(t, "2025-06-01", "2025-06-30")

	offers := []SpecialOffer{
		{ID: "small", Window: window, Percent: 5, Enabled: true},
		{ID: "big", Window: window, Percent: 15, Enabled: true},
		{ID: "medium", Window: window, Percent: 10, Enabled: true},
	}

	got := SelectOffer(offers, span, span.Nights())
	require.NotNil(t, got)
	assert.Equal(t, "big", got.ID)
}

func TestSelectOfferTieBreaksByInputOrder(t *testing.T) {
	span := mustSpan(t, "2025-06-10", "2025-06-15")
	window := mustSpan(t, "2025-06-01", "2025-06-30")

	offers := []SpecialOffer{
		{ID: "first", Window: window, Percent: 10, Priority: 1, Enabled: true},
		{ID: "second", Window: window, Percent: 10, Priority: 9, Enabled: true},
	}

	// Priority does not participate; the first eligible offer keeps the tie.
	got := SelectOffer(offers, span, span.Nights())
	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
}

func TestSelectOfferNightBoundsAndFlags(t *testing.T) {
	span := mustSpan(t, "2025-06-10", "2025-06-15") // 5 nights
	window := mustSpan(t, "2025-06-01", "2025-06-30")
	maxN := 3

	tests := []struct {
		name  string
		offer SpecialOffer
		want  bool
	}{
		{name: "disabled", offer: SpecialOffer{Window: window, Percent: 10}, want: false},
		{name: "min nights not met", offer: SpecialOffer{Window: window, Percent: 10, MinNights: 7, Enabled: true}, want: false},
		{name: "max nights exceeded", offer: SpecialOffer{Window: window, Percent: 10, MaxNights: &maxN, Enabled: true}, want: false},
		{name: "eligible", offer: SpecialOffer{Window: window, Percent: 10, MinNights: 5, Enabled: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectOffer([]SpecialOffer{tt.offer}, span, span.Nights())
			assert.Equal(t, tt.want, got != nil)
		})
	}
}

func TestSelectOfferZeroNights(t *testing.T) {
	window := mustSpan(t, "2025-06-01", "2025-06-30")
	offers := []SpecialOffer{{Window: window, Percent: 10, Enabled: true}}
	assert.Nil(t, SelectOffer(offers, mustSpan(t, "2025-06-10", "2025-06-10"), 0))
}
