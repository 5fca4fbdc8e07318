package unit

import "encoding/json"

// Built-in defaults, used when neither the global nor the per-unit settings
// document provides a value.
const (
	defaultCleaningFee = 45.0
	// No levy until the documents configure a nightly rate.
	defaultTouristTax       = 0.0
	defaultTaxFactorKids712 = 0.5
	defaultTaxFactorKids06  = 0.0
	defaultMinNights        = 1
	defaultMaxGuests        = 6
	defaultMaxBeds          = 5
	defaultMinAdults        = 1
)

// settingsDoc mirrors the persisted settings JSON. All fields are pointers so
// that a per-unit override only replaces the keys it actually carries.
// Two vintages of some keys are in circulation; both are accepted.
type settingsDoc struct {
	CleaningFee       *float64 `json:"cleaning_fee"`
	CleaningFeeLegacy *float64 `json:"cleaning_fee_eur_per_stay"`
	TouristTax        *float64 `json:"tt_adult_per_night"`
	TouristTaxLegacy  *float64 `json:"tourist_tax_eur_per_night"`
	TaxFactorKids712  *float64 `json:"tt_kid7_12_factor"`
	TaxFactorKids06   *float64 `json:"tt_kid0_6_factor"`
	WeeklyThreshold   *int     `json:"weekly_threshold"`
	WeeklyPercent     *float64 `json:"weekly_discount_pct"`
	LongThreshold     *int     `json:"long_threshold"`
	LongPercent       *float64 `json:"long_discount_pct"`
	MinNightsLegacy   *int     `json:"min_nights"`
	WelcomeCode       *string  `json:"welcome_promo_code"`
	WelcomeAutoLimit  *int     `json:"welcome_auto_limit"`

	Booking *struct {
		MinNights *int `json:"min_nights"`
	} `json:"booking"`

	Capacity *struct {
		MaxGuests        *int `json:"max_guests"`
		MaxBeds          *int `json:"max_beds"`
		MinAdults        *int `json:"min_adults"`
		MaxChildren0to6  *int `json:"max_children_0_6"`
		MaxChildren7to12 *int `json:"max_children_7_12"`
	} `json:"capacity"`
}

func decodeSettings(raw json.RawMessage) settingsDoc {
	var doc settingsDoc
	if len(raw) > 0 {
		// Malformed documents degrade to defaults.
		_ = json.Unmarshal(raw, &doc)
	}
	return doc
}

func (d *settingsDoc) overlay(o settingsDoc) {
	if o.CleaningFee != nil {
		d.CleaningFee = o.CleaningFee
	}
	if o.CleaningFeeLegacy != nil {
		d.CleaningFeeLegacy = o.CleaningFeeLegacy
	}
	if o.TouristTax != nil {
		d.TouristTax = o.TouristTax
	}
	if o.TouristTaxLegacy != nil {
		d.TouristTaxLegacy = o.TouristTaxLegacy
	}
	if o.TaxFactorKids712 != nil {
		d.TaxFactorKids712 = o.TaxFactorKids712
	}
	if o.TaxFactorKids06 != nil {
		d.TaxFactorKids06 = o.TaxFactorKids06
	}
	if o.WeeklyThreshold != nil {
		d.WeeklyThreshold = o.WeeklyThreshold
	}
	if o.WeeklyPercent != nil {
		d.WeeklyPercent = o.WeeklyPercent
	}
	if o.LongThreshold != nil {
		d.LongThreshold = o.LongThreshold
	}
	if o.LongPercent != nil {
		d.LongPercent = o.LongPercent
	}
	if o.MinNightsLegacy != nil {
		d.MinNightsLegacy = o.MinNightsLegacy
	}
	if o.WelcomeCode != nil {
		d.WelcomeCode = o.WelcomeCode
	}
	if o.WelcomeAutoLimit != nil {
		d.WelcomeAutoLimit = o.WelcomeAutoLimit
	}
	if o.Booking != nil {
		d.Booking = o.Booking
	}
	if o.Capacity != nil {
		d.Capacity = o.Capacity
	}
}

func pickFloat(def float64, candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return def
}

func pickInt(def int, candidates ...*int) int {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return def
}

// ParseSettings merges the global settings document with a per-unit override
// (override wins per key) and fills the gaps with built-in defaults.
func ParseSettings(global, override json.RawMessage) Settings {
	doc := decodeSettings(global)
	doc.overlay(decodeSettings(override))

	s := Settings{
		CleaningFee:       pickFloat(defaultCleaningFee, doc.CleaningFee, doc.CleaningFeeLegacy),
		TouristTaxNightly: pickFloat(defaultTouristTax, doc.TouristTax, doc.TouristTaxLegacy),
		TaxFactorKids712:  pickFloat(defaultTaxFactorKids712, doc.TaxFactorKids712),
		TaxFactorKids06:   pickFloat(defaultTaxFactorKids06, doc.TaxFactorKids06),
		MinNights:         defaultMinNights,
	}

	// booking.min_nights wins over the legacy top-level key.
	if doc.Booking != nil && doc.Booking.MinNights != nil && *doc.Booking.MinNights > 0 {
		s.MinNights = *doc.Booking.MinNights
	} else if doc.MinNightsLegacy != nil && *doc.MinNightsLegacy > 0 {
		s.MinNights = *doc.MinNightsLegacy
	}

	s.Capacity = Capacity{
		MaxGuests: defaultMaxGuests,
		MaxBeds:   defaultMaxBeds,
		MinAdults: defaultMinAdults,
	}
	if doc.Capacity != nil {
		s.Capacity.MaxGuests = pickInt(defaultMaxGuests, doc.Capacity.MaxGuests)
		s.Capacity.MaxBeds = pickInt(defaultMaxBeds, doc.Capacity.MaxBeds)
		s.Capacity.MinAdults = pickInt(defaultMinAdults, doc.Capacity.MinAdults)
		s.Capacity.MaxChildren0to6 = doc.Capacity.MaxChildren0to6
		s.Capacity.MaxChildren7to12 = doc.Capacity.MaxChildren7to12
	}
	if s.Capacity.MaxGuests < 1 {
		s.Capacity.MaxGuests = 1
	}
	if s.Capacity.MaxBeds < 1 {
		s.Capacity.MaxBeds = 1
	}
	if s.Capacity.MinAdults < 1 {
		s.Capacity.MinAdults = 1
	}

	// Tiers exist only when the documents configure them; an unconfigured
	// deployment prices without length-of-stay discounts.
	s.WeeklyTier = Tier{
		ThresholdNights: pickInt(0, doc.WeeklyThreshold),
		Percent:         pickFloat(0, doc.WeeklyPercent),
	}
	s.WeeklyTier.Enabled = s.WeeklyTier.ThresholdNights > 0 && s.WeeklyTier.Percent > 0

	s.LongTier = Tier{
		ThresholdNights: pickInt(0, doc.LongThreshold),
		Percent:         pickFloat(0, doc.LongPercent),
	}
	s.LongTier.Enabled = s.LongTier.ThresholdNights > 0 && s.LongTier.Percent > 0

	if doc.WelcomeCode != nil {
		s.WelcomeCode = *doc.WelcomeCode
	}
	if doc.WelcomeAutoLimit != nil && *doc.WelcomeAutoLimit > 0 {
		s.WelcomeAutoLimit = *doc.WelcomeAutoLimit
	}
	return s
}
