package http

import (
	"github.com/cmplus/unit-booking-backend/internal/capacity"
	"github.com/cmplus/unit-booking-backend/internal/dates"
	"github.com/cmplus/unit-booking-backend/internal/quote"
)

// QuoteRequest defines query parameters for the quote endpoint.
type QuoteRequest struct {
	Unit         string `form:"unit" binding:"required"`
	From         string `form:"from" binding:"required"`
	To           string `form:"to" binding:"required"`
	Adults       int    `form:"adults"`
	Children712  int    `form:"children_7_12"`
	Children0to6 int    `form:"children_0_6"`
	Promo        string `form:"promo"`
	Keycards     int    `form:"keycards"`
}

// Validate performs custom validation for QuoteRequest.
func (r *QuoteRequest) Validate() error {
	if !dates.IsYMD(r.From) || !dates.IsYMD(r.To) {
		return quote.ErrInvalidSpan
	}
	return nil
}

func (r *QuoteRequest) toServiceRequest() quote.Request {
	return quote.Request{
		Unit: r.Unit,
		From: r.From,
		To:   r.To,
		Group: capacity.Group{
			Adults:       r.Adults,
			Children712:  r.Children712,
			Children0to6: r.Children0to6,
		},
		PromoCode: r.Promo,
		Keycards:  r.Keycards,
	}
}

// AvailabilityRequest defines query parameters for the span-check endpoint.
type AvailabilityRequest struct {
	Unit string `form:"unit" binding:"required"`
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// Validate performs custom validation for AvailabilityRequest.
func (r *AvailabilityRequest) Validate() error {
	if !dates.IsYMD(r.From) || !dates.IsYMD(r.To) {
		return quote.ErrInvalidSpan
	}
	return nil
}

// AvailabilityResponse is the span-check answer.
type AvailabilityResponse struct {
	Unit   string `json:"unit"`
	From   string `json:"from"`
	To     string `json:"to"`
	Clear  bool   `json:"clear"`
	Reason string `json:"reason,omitempty"`
}
