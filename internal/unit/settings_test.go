package unit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSettingsDefaults(t *testing.T) {
	s := ParseSettings(nil, nil)

	assert.Equal(t, 45.0, s.CleaningFee)
	// An unconfigured deployment levies no tourist tax.
	assert.Equal(t, 0.0, s.TouristTaxNightly)
	assert.Equal(t, 0.5, s.TaxFactorKids712)
	assert.Equal(t, 0.0, s.TaxFactorKids06)
	assert.Equal(t, 1, s.MinNights)
	assert.Equal(t, 6, s.Capacity.MaxGuests)
	assert.Equal(t, 5, s.Capacity.MaxBeds)
	assert.Equal(t, 1, s.Capacity.MinAdults)
	assert.False(t, s.WeeklyTier.Enabled)
	assert.False(t, s.LongTier.Enabled)
	assert.Empty(t, s.Tiers())
}

func TestParseSettingsOverrideWins(t *testing.T) {
	global := json.RawMessage(`{
		"cleaning_fee": 30,
		"tt_adult_per_night": 2.0,
		"weekly_threshold": 7,
		"weekly_discount_pct": 10,
		"booking": {"min_nights": 2},
		"capacity": {"max_guests": 4, "max_beds": 4}
	}`)
	override := json.RawMessage(`{
		"cleaning_fee": 55,
		"capacity": {"max_guests": 8, "max_beds": 6, "min_adults": 2, "max_children_0_6": 1}
	}`)

	s := ParseSettings(global, override)

	assert.Equal(t, 55.0, s.CleaningFee)
	assert.Equal(t, 2.0, s.TouristTaxNightly)
	assert.Equal(t, 2, s.MinNights)
	// The capacity block is replaced wholesale by the override.
	assert.Equal(t, 8, s.Capacity.MaxGuests)
	assert.Equal(t, 6, s.Capacity.MaxBeds)
	assert.Equal(t, 2, s.Capacity.MinAdults)
	if assert.NotNil(t, s.Capacity.MaxChildren0to6) {
		assert.Equal(t, 1, *s.Capacity.MaxChildren0to6)
	}
	assert.True(t, s.WeeklyTier.Enabled)
	assert.Equal(t, 7, s.WeeklyTier.ThresholdNights)
	assert.Equal(t, 10.0, s.WeeklyTier.Percent)
}

func TestParseSettingsLegacyKeys(t *testing.T) {
	global := json.RawMessage(`{
		"cleaning_fee_eur_per_stay": 40,
		"tourist_tax_eur_per_night": 1.5,
		"min_nights": 3
	}`)

	s := ParseSettings(global, nil)

	assert.Equal(t, 40.0, s.CleaningFee)
	assert.Equal(t, 1.5, s.TouristTaxNightly)
	assert.Equal(t, 3, s.MinNights)
}

func TestParseSettingsMalformedFallsBack(t *testing.T) {
	s := ParseSettings(json.RawMessage(`{"cleaning_fee": "not a number"`), nil)
	assert.Equal(t, 45.0, s.CleaningFee)
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "A1", SanitizeID("A1"))
	assert.Equal(t, "unit_2-b", SanitizeID("unit_2-b"))
	assert.Equal(t, "A1x", SanitizeID("../A1x"))
	assert.Equal(t, "A1", SanitizeID("!!!"))
	assert.Equal(t, "A1", SanitizeID(""))
}

func TestCapacityFloors(t *testing.T) {
	s := ParseSettings(json.RawMessage(`{"capacity": {"max_guests": 0, "max_beds": -2, "min_adults": 0}}`), nil)
	assert.Equal(t, 1, s.Capacity.MaxGuests)
	assert.Equal(t, 1, s.Capacity.MaxBeds)
	assert.Equal(t, 1, s.Capacity.MinAdults)
}
