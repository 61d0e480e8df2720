package types

import "errors"

// Kitchen defines the interface for backend-agnostic access to the recipe
// catalog, the saved-meal library and the pantry. Callers attach to a
// backend, use its views, and detach when done.
type Kitchen interface {
	// Attach loads the catalog, saved meals and pantry described by config.
	// Creates the DataDir if it does not exist. Missing or malformed input
	// files degrade to empty state and are reported through Notices.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, the views return ErrKitchenDetached.
	Detach() error

	// Catalog returns the read-only recipe catalog.
	Catalog() (Catalog, error)

	// Meals returns the saved-meal library.
	Meals() (MealBook, error)

	// Pantry returns the known ingredients.
	Pantry() (Pantry, error)

	// Notices returns the user-visible messages collected while loading,
	// such as a malformed meals.json that was replaced by an empty library.
	Notices() []string
}

// Catalog provides read access to the recipes loaded at Attach.
type Catalog interface {
	// All returns every recipe in catalog order.
	All() ([]Recipe, error)

	// Count returns the number of recipes in the catalog.
	Count() (int, error)

	// Get returns the first recipe with the given name.
	// Returns ErrNotFound if no recipe has that name.
	Get(name string) (Recipe, error)

	// Match returns every recipe sharing at least one ingredient with
	// selected, in catalog order. An empty result is not an error.
	Match(selected []string) ([]Recipe, error)
}

// MealBook manages the saved-meal library.
type MealBook interface {
	// Get returns the saved meal with the given name.
	// Returns ErrNotFound if no meal has that name.
	Get(name string) (SavedMeal, error)

	// List returns saved meals sorted case-insensitively by name. A non-empty
	// query keeps only names containing it, ignoring case.
	List(query string) ([]SavedMeal, error)

	// Save stores meal. An empty original creates a new meal; a non-empty
	// original edits that meal, renaming it when meal.Name differs. A name
	// already used by another meal returns ErrNameTaken unless replace is
	// set on a create.
	Save(original string, meal SavedMeal, replace bool) error

	// Delete removes the saved meal with the given name.
	// Returns ErrNotFound if no meal has that name.
	Delete(name string) error
}

// Pantry manages the ingredient names offered for selection.
type Pantry interface {
	// Categories returns the built-in categories followed by the custom
	// ingredients under OthersCategory.
	Categories() ([]Category, error)

	// All returns every known ingredient name.
	All() ([]string, error)

	// Add registers a custom ingredient.
	Add(name string) error

	// Rename changes the name of a custom ingredient.
	Rename(oldName, newName string) error
}

// Kitchen lifecycle errors.
var (
	ErrKitchenDetached = errors.New("kitchen is detached")
	ErrAlreadyAttached = errors.New("kitchen is already attached")
)

// Entity errors.
var (
	ErrNotFound            = errors.New("not found")
	ErrNameTaken           = errors.New("name already exists")
	ErrInvalidName         = errors.New("name cannot be empty")
	ErrTooFewIngredients   = errors.New("too few ingredients")
	ErrDuplicateIngredient = errors.New("ingredient already exists")
	ErrNoRecipes           = errors.New("no recipes loaded")
	ErrBuiltinIngredient   = errors.New("built-in ingredients cannot be renamed")
)
