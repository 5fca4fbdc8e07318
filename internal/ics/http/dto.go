package http

import (
	"github.com/cmplus/unit-booking-backend/internal/ics"
)

// FeedRequest defines query parameters for the calendar feed endpoint.
type FeedRequest struct {
	Mode string `form:"mode"`
	Key  string `form:"key"`
}

// Validate performs custom validation for FeedRequest. An absent mode
// serves the blocked feed, the conservative default for availability
// subscribers.
func (r *FeedRequest) Validate() error {
	if r.Mode == "" {
		r.Mode = ics.ModeBlocked
	}
	switch r.Mode {
	case ics.ModeBooked, ics.ModeBlocked, ics.ModeAll:
		return nil
	default:
		return ics.ErrBadMode
	}
}

// PullRequest defines the body of the admin pull endpoint.
type PullRequest struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// Validate performs custom validation for PullRequest.
func (r *PullRequest) Validate() error {
	return ics.ValidateFeedURL(r.URL)
}
