package discount

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePromoCodes(t *testing.T) {
	doc := `{"codes": [
		{"code": "save10", "type": "percent", "value": 10, "usage_limit": 5, "used_count": 2},
		{"id": "WELCOME5", "type": "fixed", "value": 5, "enabled": true, "unit": "A1"},
		{"code": "OFF", "value": 15, "enabled": false},
		{"code": "MULTI", "value": 8, "unit": ["A1", "B2"], "active": false},
		{"value": 20}
	]}`

	codes := ParsePromoCodes(json.RawMessage(doc))
	require.Len(t, codes, 4, "entry without code or id is dropped")

	assert.Equal(t, "SAVE10", codes[0].Code, "codes normalize to upper case")
	assert.Equal(t, KindPercent, codes[0].Kind)
	assert.True(t, codes[0].Enabled, "absent flags default to enabled")
	assert.False(t, codes[0].Exhausted())

	assert.Equal(t, "WELCOME5", codes[1].Code)
	assert.Equal(t, KindFixed, codes[1].Kind)
	assert.True(t, codes[1].AppliesTo("A1"))
	assert.False(t, codes[1].AppliesTo("B2"))

	assert.False(t, codes[2].Enabled)
	assert.False(t, codes[3].Enabled, "active:false disables even without enabled key")
	assert.True(t, codes[3].AppliesTo("B2"))
}

func TestParsePromoCodesMalformed(t *testing.T) {
	assert.Nil(t, ParsePromoCodes(nil))
	assert.Nil(t, ParsePromoCodes(json.RawMessage(`[1,2,3]`)))
	assert.Empty(t, ParsePromoCodes(json.RawMessage(`{"codes": []}`)))
}

func TestParseOffersFlatShape(t *testing.T) {
	doc := `{"offers": [
		{"id": "june", "name": "June deal", "from": "2025-06-01", "to": "2025-06-30",
		 "discount_percent": 12, "min_nights": 3, "priority": 5},
		{"id": "no-window", "discount_percent": 10},
		{"id": "no-percent", "from": "2025-06-01", "to": "2025-06-30"}
	]}`

	offers := ParseOffers(json.RawMessage(doc))
	require.Len(t, offers, 1, "offers without window or percent are dropped")
	assert.Equal(t, "june", offers[0].ID)
	assert.Equal(t, 12.0, offers[0].Percent)
	assert.Equal(t, 3, offers[0].MinNights)
	assert.Equal(t, 5, offers[0].Priority)
	assert.True(t, offers[0].Enabled)
}

func TestParseOffersNestedShape(t *testing.T) {
	doc := `[
		{"id": "legacy", "active_from": "2025-07-01", "active_to": "2025-07-31",
		 "discount": {"type": "percent", "value": 20},
		 "conditions": {"min_nights": 7, "max_nights": 14},
		 "enabled": true}
	]`

	offers := ParseOffers(json.RawMessage(doc))
	require.Len(t, offers, 1)
	o := offers[0]
	assert.Equal(t, 20.0, o.Percent)
	assert.Equal(t, 7, o.MinNights)
	require.NotNil(t, o.MaxNights)
	assert.Equal(t, 14, *o.MaxNights)
	assert.Equal(t, "2025-07-01..2025-07-31", o.Window.String())
}

func TestParseOffersMalformed(t *testing.T) {
	assert.Nil(t, ParseOffers(nil))
	assert.Nil(t, ParseOffers(json.RawMessage(`"nope"`)))
}
