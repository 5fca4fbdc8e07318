package unit

import (
	"context"
	"encoding/json"
)

// Document kinds handled by the repository. Each kind maps to one persisted
// JSON document per unit (or one global document where noted).
const (
	KindPrices       = "prices"
	KindOccupancy    = "occupancy"
	KindOffers       = "special_offers"
	KindPromoCodes   = "promo_codes" // global
	KindSettings     = "site_settings"
	KindIntegrations = "integrations"
	KindFeedState    = "feed" // per unit+platform
)

// Repository reads and writes the persisted per-unit documents. Documents are
// returned as raw JSON; shape normalization belongs to the callers (the
// tolerated legacy shapes are their concern, not the store's). A missing
// document is (nil, nil), never an error: callers treat "no data" and "empty
// data" identically.
//
// Every load hits the backing store; there is no caching layer.
type Repository interface {
	LoadPrices(ctx context.Context, unit string) (json.RawMessage, error)
	LoadOccupancy(ctx context.Context, unit string) (json.RawMessage, error)
	LoadOffers(ctx context.Context, unit string) (json.RawMessage, error)
	LoadPromoCodes(ctx context.Context) (json.RawMessage, error)

	// LoadSettings returns the global settings document and the per-unit
	// override document; either may be nil.
	LoadSettings(ctx context.Context, unit string) (global, override json.RawMessage, err error)

	LoadIntegrations(ctx context.Context, unit string) (json.RawMessage, error)

	// SavePrices commits a new price document after taking a point-in-time
	// backup of the previous one. No locking: concurrent writers may race.
	SavePrices(ctx context.Context, unit string, doc json.RawMessage) error

	LoadFeedState(ctx context.Context, unit, platform string) (json.RawMessage, error)
	SaveFeedState(ctx context.Context, unit, platform string, doc json.RawMessage) error

	// ListUnits returns every unit id that has at least one document, in no
	// particular order.
	ListUnits(ctx context.Context) ([]string, error)
}
