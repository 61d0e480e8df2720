// Package planner suggests a recipe for each meal of the day.
package planner

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// NewRand returns a random source. A zero seed draws a fresh seed so each
// run differs; any other seed makes the plan reproducible.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Suggest draws one recipe uniformly at random for each of breakfast, lunch
// and dinner. Draws are independent, so the same recipe may fill more than
// one slot. With no recipes it returns an empty plan and ErrNoRecipes.
func Suggest(recipes []types.Recipe, rng *rand.Rand) (types.DailyPlan, error) {
	if len(recipes) == 0 {
		return types.DailyPlan{}, types.ErrNoRecipes
	}
	pick := func() *types.Recipe {
		r := recipes[rng.IntN(len(recipes))]
		return &r
	}
	return types.DailyPlan{
		Breakfast: pick(),
		Lunch:     pick(),
		Dinner:    pick(),
	}, nil
}

// Today suggests a plan from every recipe in catalog.
func Today(catalog types.Catalog, rng *rand.Rand) (types.DailyPlan, error) {
	recipes, err := catalog.All()
	if err != nil {
		return types.DailyPlan{}, fmt.Errorf("listing recipes: %w", err)
	}
	return Suggest(recipes, rng)
}

// Lookup resolves a suggested recipe name to its full catalog entry. The
// boolean is false when the catalog has no recipe with that name.
func Lookup(catalog types.Catalog, name string) (types.Recipe, bool, error) {
	r, err := catalog.Get(name)
	if errors.Is(err, types.ErrNotFound) {
		return types.Recipe{}, false, nil
	}
	if err != nil {
		return types.Recipe{}, false, err
	}
	return r, true, nil
}
