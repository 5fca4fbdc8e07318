package unit

import (
	"net/http"
	"regexp"

	"github.com/cmplus/unit-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "unit not found")
	ErrBadDocument = apperror.New(http.StatusInternalServerError, "unit document is not valid JSON")
)

// DefaultID is the fallback when a request carries no usable unit identifier.
const DefaultID = "A1"

var idStrip = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeID reduces an externally supplied unit identifier to the allowed
// alphanumeric/hyphen/underscore subset, falling back to DefaultID when
// nothing remains.
func SanitizeID(raw string) string {
	id := idStrip.ReplaceAllString(raw, "")
	if id == "" {
		return DefaultID
	}
	return id
}

// Capacity is a unit's occupancy limits. Beds are counted as adults plus
// children 7-12; children 0-6 do not take a bed slot.
type Capacity struct {
	MaxGuests        int
	MaxBeds          int
	MinAdults        int
	MaxChildren0to6  *int
	MaxChildren7to12 *int
}

// Tier is one length-of-stay discount tier.
type Tier struct {
	ThresholdNights int
	Percent         float64
	Enabled         bool
}

// Settings is the merged (global overlaid by per-unit) configuration a quote
// needs besides the price and occupancy documents.
type Settings struct {
	CleaningFee       float64
	TouristTaxNightly float64
	TaxFactorKids712  float64
	TaxFactorKids06   float64
	MinNights         int
	Capacity          Capacity
	WeeklyTier        Tier
	LongTier          Tier
	WelcomeCode       string
	WelcomeAutoLimit  int
}

// Tiers returns the configured length-of-stay tiers in ascending threshold
// order, skipping disabled ones.
func (s Settings) Tiers() []Tier {
	var out []Tier
	if s.WeeklyTier.Enabled {
		out = append(out, s.WeeklyTier)
	}
	if s.LongTier.Enabled {
		out = append(out, s.LongTier)
	}
	return out
}
