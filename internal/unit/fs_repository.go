package unit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// fsRepository stores each document as a JSON file under a data root,
// mirroring the layout the rest of the deployment (admin tooling, backups)
// already expects:
//
//	<root>/units/site_settings.json            global settings
//	<root>/units/<unit>/prices.json
//	<root>/units/<unit>/occupancy_merged.json  (fallback: occupancy.json)
//	<root>/units/<unit>/special_offers.json
//	<root>/units/<unit>/site_settings.json     per-unit override
//	<root>/units/<unit>/feeds/<platform>.json
//	<root>/integrations/<unit>.json
//	<root>/promo_codes.json
type fsRepository struct {
	root string
}

// NewFSRepository creates a filesystem-backed document repository rooted at
// the given data directory.
func NewFSRepository(root string) (Repository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	return &fsRepository{root: root}, nil
}

// readDoc loads a JSON file. Missing files and unreadable/invalid content
// both yield (nil, nil): a broken document must degrade to "no data", not
// fail the request.
func (r *fsRepository) readDoc(path string) (json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, nil
	}
	return raw, nil
}

func (r *fsRepository) unitDir(unit string) string {
	return filepath.Join(r.root, "units", SanitizeID(unit))
}

func (r *fsRepository) LoadPrices(_ context.Context, unit string) (json.RawMessage, error) {
	return r.readDoc(filepath.Join(r.unitDir(unit), "prices.json"))
}

func (r *fsRepository) LoadOccupancy(_ context.Context, unit string) (json.RawMessage, error) {
	merged := filepath.Join(r.unitDir(unit), "occupancy_merged.json")
	if doc, _ := r.readDoc(merged); doc != nil {
		return doc, nil
	}
	return r.readDoc(filepath.Join(r.unitDir(unit), "occupancy.json"))
}

func (r *fsRepository) LoadOffers(_ context.Context, unit string) (json.RawMessage, error) {
	return r.readDoc(filepath.Join(r.unitDir(unit), "special_offers.json"))
}

func (r *fsRepository) LoadPromoCodes(_ context.Context) (json.RawMessage, error) {
	return r.readDoc(filepath.Join(r.root, "promo_codes.json"))
}

func (r *fsRepository) LoadSettings(_ context.Context, unit string) (json.RawMessage, json.RawMessage, error) {
	global, _ := r.readDoc(filepath.Join(r.root, "units", "site_settings.json"))
	override, _ := r.readDoc(filepath.Join(r.unitDir(unit), "site_settings.json"))
	return global, override, nil
}

func (r *fsRepository) LoadIntegrations(_ context.Context, unit string) (json.RawMessage, error) {
	return r.readDoc(filepath.Join(r.root, "integrations", SanitizeID(unit)+".json"))
}

func (r *fsRepository) SavePrices(_ context.Context, unit string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return ErrBadDocument
	}
	dir := r.unitDir(unit)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create unit dir: %w", err)
	}
	target := filepath.Join(dir, "prices.json")

	// Point-in-time backup before committing the new document.
	if prev, err := os.ReadFile(target); err == nil {
		bak := target + ".bak-" + time.Now().UTC().Format("20060102T150405Z")
		if err := os.WriteFile(bak, prev, 0o644); err != nil {
			return fmt.Errorf("write price backup: %w", err)
		}
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return fmt.Errorf("write prices: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("commit prices: %w", err)
	}
	return nil
}

func (r *fsRepository) ListUnits(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, "units"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list units: %w", err)
	}
	var units []string
	for _, e := range entries {
		if e.IsDir() {
			units = append(units, e.Name())
		}
	}
	return units, nil
}

func (r *fsRepository) feedPath(unit, platform string) string {
	return filepath.Join(r.unitDir(unit), "feeds", SanitizeID(platform)+".json")
}

func (r *fsRepository) LoadFeedState(_ context.Context, unit, platform string) (json.RawMessage, error) {
	return r.readDoc(r.feedPath(unit, platform))
}

func (r *fsRepository) SaveFeedState(_ context.Context, unit, platform string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return ErrBadDocument
	}
	path := r.feedPath(unit, platform)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create feeds dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return fmt.Errorf("write feed state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit feed state: %w", err)
	}
	return nil
}
