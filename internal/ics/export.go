package ics

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"time"

	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// Exporter renders a unit's occupancy as a calendar feed for other
// platforms to pull.
type Exporter interface {
	// Feed builds the feed for one unit and mode. key must match the key the
	// unit's integration document configures for that mode.
	Feed(ctx context.Context, unitID, mode, key string) (string, error)
}

type exporter struct {
	repo   unit.Repository
	domain string
	now    func() time.Time
}

func NewExporter(repo unit.Repository, domain string) Exporter {
	return &exporter{repo: repo, domain: domain, now: time.Now}
}

func (e *exporter) Feed(ctx context.Context, unitID, mode, key string) (string, error) {
	switch mode {
	case ModeBooked, ModeBlocked, ModeAll:
	default:
		return "", ErrBadMode
	}
	unitID = unit.SanitizeID(unitID)

	if err := e.checkKey(ctx, unitID, mode, key); err != nil {
		return "", err
	}

	raw, err := e.repo.LoadOccupancy(ctx, unitID)
	if err != nil {
		return "", err
	}

	b := NewBuilder(unitID, e.domain, e.now())
	for _, seg := range OccupancySegments(unitID, raw) {
		if mode == ModeBooked && seg.Kind != KindBooking {
			continue
		}
		if mode == ModeBlocked && seg.Kind != KindBlock {
			continue
		}
		b.Add(seg)
	}
	return b.String(), nil
}

// integrationsDoc is the slice of the integrations document the exporter
// reads. Per-mode keys win over the legacy flat keys.
type integrationsDoc struct {
	Export struct {
		ICS map[string]struct {
			Key string `json:"key"`
		} `json:"ics"`
	} `json:"export"`
	Keys struct {
		ReservationsOut string `json:"reservations_out"`
		CalendarOut     string `json:"calendar_out"`
	} `json:"keys"`
}

func (e *exporter) checkKey(ctx context.Context, unitID, mode, key string) error {
	raw, err := e.repo.LoadIntegrations(ctx, unitID)
	if err != nil {
		return err
	}
	var doc integrationsDoc
	if len(raw) > 0 {
		// Malformed documents read as unconfigured.
		_ = json.Unmarshal(raw, &doc)
	}

	want := doc.Export.ICS[mode].Key
	if want == "" {
		if mode == ModeBooked {
			want = doc.Keys.ReservationsOut
		} else {
			want = doc.Keys.CalendarOut
		}
	}
	if want == "" {
		return ErrNoFeedKey
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(key)) != 1 {
		return ErrBadFeedKey
	}
	return nil
}
