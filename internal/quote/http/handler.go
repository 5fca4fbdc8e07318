package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmplus/unit-booking-backend/internal/availability"
	"github.com/cmplus/unit-booking-backend/internal/dates"
	"github.com/cmplus/unit-booking-backend/internal/pkg/response"
	"github.com/cmplus/unit-booking-backend/internal/quote"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

type Handler struct {
	service quote.Service
	avail   availability.Service
}

func NewHandler(service quote.Service, avail availability.Service) *Handler {
	return &Handler{service: service, avail: avail}
}

// Quote computes a guest-facing price quote for a requested span and group.
// Data problems (unpriced or busy dates) come back as a normal quote marked
// unavailable, not as an HTTP error.
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, quote.ErrInvalidSpan)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	q, err := h.service.Build(c.Request.Context(), req.toServiceRequest())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Availability answers whether a span is bookable, with the first offending
// date in the reason when it is not.
func (h *Handler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, quote.ErrInvalidSpan)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	span, err := dates.NewSpan(req.From, req.To)
	if err != nil {
		response.Error(c, quote.ErrInvalidSpan)
		return
	}

	unitID := unit.SanitizeID(req.Unit)
	clear, reason, err := h.avail.SpanClear(c.Request.Context(), unitID, span)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{
		Unit:   unitID,
		From:   req.From,
		To:     req.To,
		Clear:  clear,
		Reason: reason,
	})
}
