// Package types defines the Kitchen interface and its Catalog, MealBook and
// Pantry views, the Recipe and SavedMeal entities, and the standard errors
// shared by the meal planner backends and the CLI.
package types
