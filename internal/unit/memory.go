package unit

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory Repository used by tests and by the quote
// service tests of dependent packages. Documents are keyed the same way the
// Postgres store keys them.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

// NewMemoryRepository creates an empty in-memory document store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: map[string]json.RawMessage{}}
}

func key(unit, kind string) string { return unit + "|" + kind }

// Put installs a document, replacing any previous one.
func (m *MemoryRepository) Put(unit, kind string, doc json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key(unit, kind)] = doc
}

func (m *MemoryRepository) get(unit, kind string) json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[key(unit, kind)]
}

func (m *MemoryRepository) LoadPrices(_ context.Context, unit string) (json.RawMessage, error) {
	return m.get(SanitizeID(unit), KindPrices), nil
}

func (m *MemoryRepository) LoadOccupancy(_ context.Context, unit string) (json.RawMessage, error) {
	return m.get(SanitizeID(unit), KindOccupancy), nil
}

func (m *MemoryRepository) LoadOffers(_ context.Context, unit string) (json.RawMessage, error) {
	return m.get(SanitizeID(unit), KindOffers), nil
}

func (m *MemoryRepository) LoadPromoCodes(_ context.Context) (json.RawMessage, error) {
	return m.get("", KindPromoCodes), nil
}

func (m *MemoryRepository) LoadSettings(_ context.Context, unit string) (json.RawMessage, json.RawMessage, error) {
	return m.get("", KindSettings), m.get(SanitizeID(unit), KindSettings), nil
}

func (m *MemoryRepository) LoadIntegrations(_ context.Context, unit string) (json.RawMessage, error) {
	return m.get(SanitizeID(unit), KindIntegrations), nil
}

func (m *MemoryRepository) SavePrices(_ context.Context, unit string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return ErrBadDocument
	}
	m.Put(SanitizeID(unit), KindPrices, doc)
	return nil
}

func (m *MemoryRepository) ListUnits(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]bool{}
	var units []string
	for k := range m.docs {
		id := strings.SplitN(k, "|", 2)[0]
		if id != "" && !seen[id] {
			seen[id] = true
			units = append(units, id)
		}
	}
	sort.Strings(units)
	return units, nil
}

func (m *MemoryRepository) LoadFeedState(_ context.Context, unit, platform string) (json.RawMessage, error) {
	return m.get(SanitizeID(unit), KindFeedState+":"+SanitizeID(platform)), nil
}

func (m *MemoryRepository) SaveFeedState(_ context.Context, unit, platform string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return ErrBadDocument
	}
	m.Put(SanitizeID(unit), KindFeedState+":"+SanitizeID(platform), doc)
	return nil
}
