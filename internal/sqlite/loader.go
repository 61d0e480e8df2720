// This file implements loading of the catalog, saved meals and pantry at Attach.
// Each input is decoded leniently: a file that cannot be read as a whole
// leaves its table empty, and individual malformed entries are skipped.
package sqlite

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

//go:embed catalog/recipes.json
var bundledRecipes []byte

// bundledCatalogName labels the embedded catalog in notices.
const bundledCatalogName = "bundled recipes.json"

var (
	errRecipesShape = errors.New("expected a list of recipes or an object of recipes")
	errMealsShape   = errors.New("expected an object mapping meal names to meals")
	errPantryShape  = errors.New("expected a list of ingredient names")
)

// loadAll reads every input and inserts it into SQLite in one transaction.
// The caller must hold b.mu.
func (b *Backend) loadAll() error {
	recipes := b.readRecipes()
	meals := b.readMeals()
	custom := b.readPantry()

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for i, r := range recipes {
		if err := insertRecipe(tx, i, r); err != nil {
			return fmt.Errorf("loading recipe %q: %w", r.Name, err)
		}
	}
	for _, m := range meals {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generating UUID v7: %w", err)
		}
		if err := insertMeal(tx, id.String(), m); err != nil {
			return fmt.Errorf("loading meal %q: %w", m.Name, err)
		}
	}
	if err := insertPantry(tx, custom); err != nil {
		return fmt.Errorf("loading pantry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}

	b.logger.Debug("loaded kitchen data",
		zap.Int("recipes", len(recipes)),
		zap.Int("meals", len(meals)),
		zap.Int("custom_ingredients", len(custom)))
	return nil
}

// readRecipes returns the catalog from the configured file or the bundled
// catalog. The caller must hold b.mu.
func (b *Backend) readRecipes() []types.Recipe {
	name := bundledCatalogName
	data := bundledRecipes
	if b.config.RecipesFile != "" {
		name = b.config.RecipesFile
		raw, ok, err := readDataFile(b.config.RecipesFile)
		if err != nil {
			b.notice(name, "No recipes loaded", err)
			return nil
		}
		if !ok {
			b.notice(name, "No recipes loaded (recipes file not found)", nil)
			return nil
		}
		data = raw
	}

	recipes, skipped, err := decodeRecipes(data)
	if err != nil {
		b.notice(name, "No recipes loaded", err)
		return nil
	}
	for _, reason := range skipped {
		b.notice(name, "Skipped recipe entry", errors.New(reason))
	}
	return recipes
}

// readMeals returns the normalized saved meals from meals.json. A missing
// file is an empty library. The caller must hold b.mu.
func (b *Backend) readMeals() []types.SavedMeal {
	path := b.dataPath(mealsFileName)
	data, ok, err := readDataFile(path)
	if err != nil {
		b.notice(path, "Saved meals unavailable, starting with an empty library", err)
		return nil
	}
	if !ok {
		return nil
	}

	meals, skipped, err := normalizeMeals(data)
	if err != nil {
		b.notice(path, "Saved meals unavailable, starting with an empty library", err)
		return nil
	}
	for _, reason := range skipped {
		b.notice(path, "Skipped saved meal", errors.New(reason))
	}
	return meals
}

// readPantry returns the custom ingredients from pantry.json. The caller
// must hold b.mu.
func (b *Backend) readPantry() []string {
	path := b.dataPath(pantryFileName)
	data, ok, err := readDataFile(path)
	if err != nil {
		b.notice(path, "Custom ingredients unavailable", err)
		return nil
	}
	if !ok {
		return nil
	}

	custom, err := decodePantry(data)
	if err != nil {
		b.notice(path, "Custom ingredients unavailable", err)
		return nil
	}
	return custom
}

// decodeRecipes parses a catalog that is either a JSON array of recipes or
// a JSON object whose values are recipes, keeping document order. Entries
// that are not recipe objects are skipped and described in skipped.
func decodeRecipes(data []byte) (recipes []types.Recipe, skipped []string, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, nil, errRecipesShape
	}

	index := 0
	for dec.More() {
		label := fmt.Sprintf("#%d", index)
		if delim == '{' {
			key, err := dec.Token()
			if err != nil {
				return nil, nil, err
			}
			label = fmt.Sprintf("%q", key)
		}
		index++

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if !isJSONObject(raw) {
			skipped = append(skipped, fmt.Sprintf("entry %s is not an object", label))
			continue
		}
		var r types.Recipe
		if err := json.Unmarshal(raw, &r); err != nil {
			skipped = append(skipped, fmt.Sprintf("entry %s: %v", label, err))
			continue
		}
		recipes = append(recipes, r)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return recipes, skipped, nil
}

// normalizeMeals coerces every accepted saved-meal shape into SavedMeal:
//
//	{"name": {"ingredients": [...], "description": "..."}}
//	{"name": ["a", "b"]}
//
// Missing or non-list ingredients become an empty list and a missing
// description becomes "". Entries with a blank name or a value that is
// neither a list nor an object are skipped and described in skipped. The
// result is sorted by name.
func normalizeMeals(data []byte) (meals []types.SavedMeal, skipped []string, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, nil, errMealsShape
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			skipped = append(skipped, "entry with a blank name")
			continue
		}
		switch v := obj[name].(type) {
		case []any:
			meals = append(meals, types.SavedMeal{
				Name:        name,
				Ingredients: types.CoerceStrings(v),
			})
		case map[string]any:
			meal := types.SavedMeal{Name: name, Ingredients: []string{}}
			if list, ok := v["ingredients"].([]any); ok {
				meal.Ingredients = types.CoerceStrings(list)
			}
			if desc, ok := types.CoerceString(v["description"]); ok {
				meal.Description = desc
			}
			meals = append(meals, meal)
		default:
			skipped = append(skipped, fmt.Sprintf("%q is neither a list nor an object", name))
		}
	}
	return meals, skipped, nil
}

// decodePantry parses the custom ingredient list. Names are trimmed and
// blank or repeated names dropped.
func decodePantry(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, errPantryShape
	}

	seen := make(map[string]bool, len(list))
	var out []string
	for _, name := range types.CoerceStrings(list) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// isJSONObject reports whether raw holds a JSON object.
func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
