package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyPlanSlots(t *testing.T) {
	omelette := &Recipe{Name: "Omelette"}
	soup := &Recipe{Name: "Soup"}
	p := DailyPlan{Breakfast: omelette, Lunch: soup, Dinner: soup}

	slots := p.Slots()
	if assert.Len(t, slots, 3) {
		assert.Equal(t, SlotBreakfast, slots[0].Label)
		assert.Same(t, omelette, slots[0].Recipe)
		assert.Equal(t, SlotLunch, slots[1].Label)
		assert.Same(t, soup, slots[1].Recipe)
		assert.Equal(t, SlotDinner, slots[2].Label)
		assert.Same(t, soup, slots[2].Recipe)
	}
}

func TestDailyPlanSlotsEmpty(t *testing.T) {
	for _, s := range (DailyPlan{}).Slots() {
		assert.Nil(t, s.Recipe, s.Label)
	}
}

func TestDefaultPantry(t *testing.T) {
	cats := DefaultPantry()
	assert.Len(t, cats, 4)
	for _, c := range cats {
		assert.Len(t, c.Items, 5, c.Name)
	}

	// Each call returns a fresh copy.
	cats[0].Items[0] = "changed"
	assert.Equal(t, "Rice", DefaultPantry()[0].Items[0])
}
