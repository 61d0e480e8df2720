package types

import (
	"fmt"
	"strings"
)

// MinMealIngredients is the smallest number of ingredients a saved meal
// may have.
const MinMealIngredients = 2

// SavedMeal is a user-defined meal. Name is the unique key.
type SavedMeal struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description"`
}

// Normalized returns a copy with the name and description trimmed and the
// ingredients trimmed, blank entries removed and duplicates dropped in
// first-seen order.
func (m SavedMeal) Normalized() SavedMeal {
	out := SavedMeal{
		Name:        strings.TrimSpace(m.Name),
		Description: strings.TrimSpace(m.Description),
		Ingredients: make([]string, 0, len(m.Ingredients)),
	}
	seen := make(map[string]bool, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" || seen[ing] {
			continue
		}
		seen[ing] = true
		out.Ingredients = append(out.Ingredients, ing)
	}
	return out
}

// Validate checks the saved-meal invariants on the normalized meal.
// Returns ErrInvalidName for a blank name and ErrTooFewIngredients when
// fewer than MinMealIngredients distinct ingredients are selected.
func (m SavedMeal) Validate() error {
	n := m.Normalized()
	if n.Name == "" {
		return fmt.Errorf("meal name: %w", ErrInvalidName)
	}
	if len(n.Ingredients) < MinMealIngredients {
		return fmt.Errorf("meal %q has %d ingredients, need %d: %w",
			n.Name, len(n.Ingredients), MinMealIngredients, ErrTooFewIngredients)
	}
	return nil
}
