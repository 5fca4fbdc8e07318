package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmplus/unit-booking-backend/internal/unit"
)

func intPtr(n int) *int { return &n }

func defaultCap() unit.Capacity {
	return unit.Capacity{MaxGuests: 6, MaxBeds: 5, MinAdults: 1}
}

func rules(vs []Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Rule)
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		group Group
		cap   unit.Capacity
		want  []string
	}{
		{
			name:  "acceptable composition",
			group: Group{Adults: 2, Children712: 1, Children0to6: 1},
			cap:   defaultCap(),
			want:  nil,
		},
		{
			name:  "children 0-6 use no bed slot",
			group: Group{Adults: 3, Children712: 2, Children0to6: 1},
			cap:   defaultCap(),
			want:  nil, // 6 guests, 5 beds: both at the limit
		},
		{
			name:  "no adults",
			group: Group{Children712: 2},
			cap:   defaultCap(),
			want:  []string{"min_adults"},
		},
		{
			name:  "too many guests and beds, all rules reported",
			group: Group{Adults: 5, Children712: 2, Children0to6: 1},
			cap:   defaultCap(),
			want:  []string{"max_guests", "max_beds"},
		},
		{
			name:  "age band caps",
			group: Group{Adults: 2, Children712: 2, Children0to6: 2},
			cap: unit.Capacity{
				MaxGuests: 8, MaxBeds: 6, MinAdults: 1,
				MaxChildren0to6:  intPtr(1),
				MaxChildren7to12: intPtr(1),
			},
			want: []string{"max_children_0_6", "max_children_7_12"},
		},
		{
			name:  "negative counts clamp to zero",
			group: Group{Adults: -3, Children712: -1},
			cap:   defaultCap(),
			want:  []string{"min_adults"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.group, tt.cap)
			assert.Equal(t, tt.want, rules(got))
		})
	}
}

func TestGroupCounts(t *testing.T) {
	g := Group{Adults: 2, Children712: 2, Children0to6: 3}
	assert.Equal(t, 7, g.Guests())
	assert.Equal(t, 4, g.Beds())

	neg := Group{Adults: -1, Children712: 5}.Clamped()
	assert.Equal(t, 0, neg.Adults)
	assert.Equal(t, 5, neg.Children712)
}
