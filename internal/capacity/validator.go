package capacity

import (
	"fmt"

	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// Group is a requested guest composition. Children 0-6 count toward the
// guest total but not toward beds.
type Group struct {
	Adults       int
	Children712  int
	Children0to6 int
}

// Clamped returns the group with negative counts floored at zero.
func (g Group) Clamped() Group {
	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		return n
	}
	return Group{
		Adults:       clamp(g.Adults),
		Children712:  clamp(g.Children712),
		Children0to6: clamp(g.Children0to6),
	}
}

// Guests is the total head count.
func (g Group) Guests() int {
	return g.Adults + g.Children712 + g.Children0to6
}

// Beds is the number of bed slots the group occupies: adults plus children
// 7-12.
func (g Group) Beds() int {
	return g.Adults + g.Children712
}

// Violation describes one capacity rule the group breaks.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validate checks the group against the unit's capacity limits. Every rule is
// checked independently; the returned list holds all violations, and an empty
// list means the composition is acceptable. Violations never block pricing,
// they only mark the quote non-submittable downstream.
func Validate(g Group, cap unit.Capacity) []Violation {
	g = g.Clamped()

	var out []Violation
	if g.Adults < cap.MinAdults {
		out = append(out, Violation{
			Rule:    "min_adults",
			Message: fmt.Sprintf("at least %d adult(s) required for this unit", cap.MinAdults),
		})
	}
	if g.Guests() > cap.MaxGuests {
		out = append(out, Violation{
			Rule:    "max_guests",
			Message: fmt.Sprintf("maximum number of guests for this unit is %d (got %d)", cap.MaxGuests, g.Guests()),
		})
	}
	if g.Beds() > cap.MaxBeds {
		out = append(out, Violation{
			Rule:    "max_beds",
			Message: fmt.Sprintf("maximum number of beds (adults + children 7-12) for this unit is %d (got %d)", cap.MaxBeds, g.Beds()),
		})
	}
	if cap.MaxChildren0to6 != nil && g.Children0to6 > *cap.MaxChildren0to6 {
		out = append(out, Violation{
			Rule:    "max_children_0_6",
			Message: fmt.Sprintf("maximum number of children 0-6 for this unit is %d (got %d)", *cap.MaxChildren0to6, g.Children0to6),
		})
	}
	if cap.MaxChildren7to12 != nil && g.Children712 > *cap.MaxChildren7to12 {
		out = append(out, Violation{
			Rule:    "max_children_7_12",
			Message: fmt.Sprintf("maximum number of children 7-12 for this unit is %d (got %d)", *cap.MaxChildren7to12, g.Children712),
		})
	}
	return out
}
