package autopilot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/cmplus/unit-booking-backend/internal/ics"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// pullBudget bounds one full sweep across all units and platforms.
const pullBudget = 10 * time.Minute

// Autopilot periodically pulls every configured platform feed so the
// occupancy picture stays current without manual triggers.
type Autopilot struct {
	repo     unit.Repository
	importer ics.Importer
	log      *zap.Logger
	cron     *cron.Cron
}

func New(repo unit.Repository, importer ics.Importer, log *zap.Logger) *Autopilot {
	return &Autopilot{
		repo:     repo,
		importer: importer,
		log:      log,
		cron:     cron.New(),
	}
}

// Start schedules recurring sweeps. schedule is a standard five-field cron
// expression.
func (a *Autopilot) Start(schedule string) error {
	_, err := a.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pullBudget)
		defer cancel()
		a.PullAll(ctx)
	})
	if err != nil {
		return err
	}
	a.cron.Start()
	a.log.Info("autopilot started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the schedule and returns once any running sweep finishes.
func (a *Autopilot) Stop() {
	<-a.cron.Stop().Done()
	a.log.Info("autopilot stopped")
}

// importFeed is one configured inbound calendar of a unit.
type importFeed struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Enabled  *bool  `json:"enabled"`
}

func (f importFeed) enabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// PullAll sweeps every unit's configured feeds once. Failures are logged
// and recorded in feed state; the sweep never aborts early.
func (a *Autopilot) PullAll(ctx context.Context) {
	units, err := a.repo.ListUnits(ctx)
	if err != nil {
		a.log.Error("autopilot list units failed", zap.Error(err))
		return
	}
	for _, unitID := range units {
		for _, feed := range a.feeds(ctx, unitID) {
			if !feed.enabled() || feed.Platform == "" || feed.URL == "" {
				continue
			}
			state, err := a.importer.Pull(ctx, unitID, feed.Platform, feed.URL)
			if err != nil {
				a.log.Error("autopilot pull failed",
					zap.String("unit", unitID),
					zap.String("platform", feed.Platform),
					zap.Error(err))
				continue
			}
			if !state.OK() {
				a.log.Warn("autopilot pull recorded failure",
					zap.String("unit", unitID),
					zap.String("platform", feed.Platform),
					zap.Int("status", state.HTTPStatus),
					zap.String("error", state.Error))
				continue
			}
			a.log.Info("autopilot pulled feed",
				zap.String("unit", unitID),
				zap.String("platform", feed.Platform),
				zap.Int("events", len(state.Events)),
				zap.Int("bytes", state.Bytes))
		}
	}
}

func (a *Autopilot) feeds(ctx context.Context, unitID string) []importFeed {
	raw, err := a.repo.LoadIntegrations(ctx, unitID)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var doc struct {
		Import struct {
			Feeds []importFeed `json:"feeds"`
		} `json:"import"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc.Import.Feeds
}
