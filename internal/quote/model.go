package quote

import (
	"net/http"

	"github.com/cmplus/unit-booking-backend/internal/availability"
	"github.com/cmplus/unit-booking-backend/internal/capacity"
	"github.com/cmplus/unit-booking-backend/internal/discount"
	"github.com/cmplus/unit-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidSpan = apperror.New(http.StatusBadRequest, "invalid date range")
	ErrBadUnit     = apperror.New(http.StatusBadRequest, "unsupported unit identifier")
)

// GroupInfo echoes the validated guest composition on the quote.
type GroupInfo struct {
	Adults       int `json:"adults"`
	Children712  int `json:"children_7_12"`
	Children0to6 int `json:"children_0_6"`
}

// TouristTax is the per-person nightly levy, reported separately from the
// accommodation total and payable on arrival, net of any keycard waiver.
// Quotes carry it only when the unit configures a nightly rate.
type TouristTax struct {
	NightlyRate   float64 `json:"nightly_rate"`
	Total         float64 `json:"total"`
	KeycardCount  int     `json:"keycard_count"`
	KeycardSaving float64 `json:"keycard_saving"`
	NetPayable    float64 `json:"net_payable"`
}

// Quote is one priced (or unavailable) answer to a quote request. It is
// assembled fresh per request and never persisted here.
type Quote struct {
	Unit   string `json:"unit"`
	From   string `json:"from"`
	To     string `json:"to"`
	Nights int    `json:"nights"`

	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`

	BaseTotal      float64                   `json:"base_total"`
	Breakdown      []availability.NightPrice `json:"breakdown,omitempty"`
	Discounts      []discount.Line           `json:"discounts"`
	DiscountsTotal float64                   `json:"discounts_total"`
	CleaningFee    float64                   `json:"cleaning_fee"`

	// FinalTotal is accommodation net of discounts plus the cleaning fee,
	// floored at zero. Tourist tax is never folded in.
	FinalTotal float64 `json:"final_total"`

	PromoCode        string `json:"promo_code,omitempty"`
	PromoAutoApplied bool   `json:"promo_auto_applied,omitempty"`
	PromoError       string `json:"promo_error,omitempty"`

	Group      GroupInfo            `json:"group"`
	Violations []capacity.Violation `json:"violations,omitempty"`
	TouristTax *TouristTax          `json:"tourist_tax,omitempty"`

	MinNights int `json:"min_nights"`

	// Submittable means the quote can be turned into an inquiry: the span is
	// available, the group fits, and the stay meets the minimum length.
	Submittable bool `json:"submittable"`
}
