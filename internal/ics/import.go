package ics

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// Importer pulls remote platform calendars and keeps the last known state
// of every feed.
type Importer interface {
	// Pull fetches and parses one feed, then persists the outcome. Fetch and
	// parse failures are recorded in the returned state, not surfaced as
	// errors; the previous raw feed and events stay cached through them.
	Pull(ctx context.Context, unitID, platform, feedURL string) (FeedState, error)
	// State returns the persisted outcome of the most recent pull.
	State(ctx context.Context, unitID, platform string) (FeedState, error)
}

type importer struct {
	repo    unit.Repository
	fetcher *Fetcher
	domain  string
	now     func() time.Time
}

func NewImporter(repo unit.Repository, fetcher *Fetcher, domain string) Importer {
	return &importer{repo: repo, fetcher: fetcher, domain: domain, now: time.Now}
}

func (i *importer) Pull(ctx context.Context, unitID, platform, feedURL string) (FeedState, error) {
	unitID = unit.SanitizeID(unitID)
	if err := ValidateFeedURL(feedURL); err != nil {
		return FeedState{}, err
	}
	if i.selfImport(feedURL) {
		return FeedState{}, ErrSelfImport
	}

	state := i.previous(ctx, unitID, platform)
	state.Platform = platform
	state.URL = feedURL
	state.PullID = uuid.NewString()
	state.FetchedAt = i.now().UTC()

	res, err := i.fetcher.Fetch(ctx, feedURL)
	state.HTTPStatus = res.Status
	state.Bytes = res.Bytes
	if err != nil {
		state.Error = err.Error()
	} else {
		state.Error = ""
		state.RawICS = res.Body
		state.Events = Parse(res.Body)
	}
	if state.Events == nil {
		state.Events = []CalendarEvent{}
	}

	if err := i.save(ctx, unitID, platform, state); err != nil {
		return FeedState{}, err
	}
	return state, nil
}

func (i *importer) State(ctx context.Context, unitID, platform string) (FeedState, error) {
	unitID = unit.SanitizeID(unitID)
	raw, err := i.repo.LoadFeedState(ctx, unitID, platform)
	if err != nil {
		return FeedState{}, err
	}
	if len(raw) == 0 {
		return FeedState{}, ErrNoFeedState
	}
	var state FeedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return FeedState{}, ErrNoFeedState
	}
	return state, nil
}

// previous loads the last persisted state so a failed pull keeps the cached
// feed. A missing or unreadable document starts fresh.
func (i *importer) previous(ctx context.Context, unitID, platform string) FeedState {
	raw, err := i.repo.LoadFeedState(ctx, unitID, platform)
	if err != nil || len(raw) == 0 {
		return FeedState{}
	}
	var state FeedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return FeedState{}
	}
	return state
}

func (i *importer) save(ctx context.Context, unitID, platform string, state FeedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return i.repo.SaveFeedState(ctx, unitID, platform, raw)
}

// selfImport reports whether the URL points back at this system's own
// export endpoint. Importing our own feed would echo every exported
// segment back as a foreign block.
func (i *importer) selfImport(feedURL string) bool {
	if i.domain == "" {
		return false
	}
	u, err := url.Parse(feedURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), i.domain)
}
