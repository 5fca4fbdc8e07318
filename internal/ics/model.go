package ics

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/cmplus/unit-booking-backend/internal/dates"
	"github.com/cmplus/unit-booking-backend/internal/pkg/apperror"
)

var (
	ErrBadMode      = apperror.New(http.StatusBadRequest, "unknown feed mode")
	ErrBadFeedKey   = apperror.New(http.StatusForbidden, "feed key mismatch")
	ErrNoFeedKey    = apperror.New(http.StatusForbidden, "no feed key configured for this unit")
	ErrBadURL       = apperror.New(http.StatusBadRequest, "pull url must be http or https")
	ErrSelfImport   = apperror.New(http.StatusBadRequest, "refusing to import this system's own feed")
	ErrNoFeedState  = apperror.New(http.StatusNotFound, "no feed has been pulled for this unit and platform")
	ErrNotACalendar = apperror.New(http.StatusUnprocessableEntity, "fetched document is not a calendar")
)

// Event kinds.
const (
	KindBooking = "booking"
	KindBlock   = "block"
)

// Feed modes.
const (
	ModeBooked  = "booked"
	ModeBlocked = "blocked"
	ModeAll     = "all"
)

// Segment is one contiguous occupancy range of a unit, with the system-wide
// half-open convention: To is the checkout date and is not occupied.
type Segment struct {
	ID     string
	Unit   string
	From   string
	To     string
	Kind   string // booking or block
	Status string
	Source string
}

// UID derives the segment's deterministic event identifier. Segments with a
// persisted ID hash that; anonymous blocks hash their coordinates.
func (s Segment) UID(domain string) string {
	var sum [20]byte
	if s.ID != "" {
		sum = sha1.Sum([]byte(s.ID))
	} else {
		sum = sha1.Sum([]byte(s.Status + "|" + s.From + "|" + s.To + "|" + s.Source))
	}
	return "cm:" + s.Unit + ":" + hex.EncodeToString(sum[:]) + "@" + domain
}

// CalendarEvent is one decoded feed entry. Start and End hold canonical
// dates when the raw values were parseable; otherwise they are empty and the
// raw text is preserved. Immutable once constructed.
type CalendarEvent struct {
	UID      string `json:"uid"`
	Summary  string `json:"summary"`
	Start    string `json:"start"`
	End      string `json:"end"`
	RawStart string `json:"raw_start,omitempty"`
	RawEnd   string `json:"raw_end,omitempty"`
	Kind     string `json:"kind"`
}

// Nights is the decoded event's stay length: end minus start in days,
// floored at zero. Unparseable dates count as zero.
func (e CalendarEvent) Nights() int {
	if e.Start == "" || e.End == "" {
		return 0
	}
	return dates.NightsBetween(e.Start, e.End)
}

// FeedState is the persisted result of the most recent pull for one
// unit+platform pair. The raw feed and parsed events survive failed pulls
// verbatim; only the fetch metadata reflects the latest attempt.
type FeedState struct {
	Platform   string          `json:"platform"`
	URL        string          `json:"url"`
	PullID     string          `json:"pull_id,omitempty"`
	FetchedAt  time.Time       `json:"fetched_at"`
	HTTPStatus int             `json:"http_status"`
	Bytes      int             `json:"bytes"`
	Error      string          `json:"error,omitempty"`
	RawICS     string          `json:"raw_ics,omitempty"`
	Events     []CalendarEvent `json:"events"`
}

// OK reports whether the last pull attempt succeeded.
func (s FeedState) OK() bool {
	return s.Error == "" && s.HTTPStatus >= 200 && s.HTTPStatus < 300
}
