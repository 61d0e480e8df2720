package types

// Meal slot labels, in the order they are served.
const (
	SlotBreakfast = "Breakfast"
	SlotLunch     = "Lunch"
	SlotDinner    = "Dinner"
)

// DailyPlan holds one suggested recipe per meal slot. A nil slot means the
// catalog was empty.
type DailyPlan struct {
	Breakfast *Recipe `json:"breakfast"`
	Lunch     *Recipe `json:"lunch"`
	Dinner    *Recipe `json:"dinner"`
}

// Slot pairs a label with the recipe suggested for it.
type Slot struct {
	Label  string  `json:"label"`
	Recipe *Recipe `json:"recipe"`
}

// Slots returns breakfast, lunch and dinner in order.
func (p DailyPlan) Slots() []Slot {
	return []Slot{
		{Label: SlotBreakfast, Recipe: p.Breakfast},
		{Label: SlotLunch, Recipe: p.Lunch},
		{Label: SlotDinner, Recipe: p.Dinner},
	}
}
