// This file implements the recipe catalog view of the SQLite backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// Compile-time interface check: catalogTable must implement Catalog.
var _ types.Catalog = (*catalogTable)(nil)

// catalogTable implements the read-only Catalog over the recipes and
// recipe_ingredients tables. Recipes keep their catalog position in the
// ordinal column.
type catalogTable struct {
	backend *Backend
}

// All returns every recipe in catalog order.
func (ct *catalogTable) All() ([]types.Recipe, error) {
	ct.backend.mu.RLock()
	defer ct.backend.mu.RUnlock()
	if !ct.backend.attached {
		return nil, types.ErrKitchenDetached
	}
	return ct.queryRecipes("SELECT ordinal, name, instructions FROM recipes ORDER BY ordinal")
}

// Count returns the number of recipes in the catalog.
func (ct *catalogTable) Count() (int, error) {
	ct.backend.mu.RLock()
	defer ct.backend.mu.RUnlock()
	if !ct.backend.attached {
		return 0, types.ErrKitchenDetached
	}

	var n int
	if err := ct.backend.db.QueryRow("SELECT COUNT(*) FROM recipes").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting recipes: %w", err)
	}
	return n, nil
}

// Get returns the first recipe in catalog order with the given name.
func (ct *catalogTable) Get(name string) (types.Recipe, error) {
	ct.backend.mu.RLock()
	defer ct.backend.mu.RUnlock()
	if !ct.backend.attached {
		return types.Recipe{}, types.ErrKitchenDetached
	}

	recipes, err := ct.queryRecipes(
		"SELECT ordinal, name, instructions FROM recipes WHERE name = ? ORDER BY ordinal LIMIT 1",
		name,
	)
	if err != nil {
		return types.Recipe{}, err
	}
	if len(recipes) == 0 {
		return types.Recipe{}, fmt.Errorf("recipe %q: %w", name, types.ErrNotFound)
	}
	return recipes[0], nil
}

// Match returns every recipe that lists at least one of the selected
// ingredients, in catalog order. Names are compared exactly. An empty
// selection or an empty catalog returns no recipes and no error.
func (ct *catalogTable) Match(selected []string) ([]types.Recipe, error) {
	ct.backend.mu.RLock()
	defer ct.backend.mu.RUnlock()
	if !ct.backend.attached {
		return nil, types.ErrKitchenDetached
	}

	args := make([]any, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	for _, s := range selected {
		if seen[s] {
			continue
		}
		seen[s] = true
		args = append(args, s)
	}
	if len(args) == 0 {
		return []types.Recipe{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	query := fmt.Sprintf(`SELECT r.ordinal, r.name, r.instructions FROM recipes r
WHERE EXISTS (
    SELECT 1 FROM recipe_ingredients ri
    WHERE ri.ordinal = r.ordinal AND ri.ingredient IN (%s)
)
ORDER BY r.ordinal`, placeholders)

	return ct.queryRecipes(query, args...)
}

// queryRecipes runs a query selecting (ordinal, name, instructions) and
// hydrates each row with its ingredients. The caller must hold the backend
// read lock.
func (ct *catalogTable) queryRecipes(query string, args ...any) ([]types.Recipe, error) {
	rows, err := ct.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}

	type recipeRow struct {
		ordinal int
		recipe  types.Recipe
	}
	var found []recipeRow
	for rows.Next() {
		var (
			rr           recipeRow
			instructions string
		)
		if err := rows.Scan(&rr.ordinal, &rr.recipe.Name, &instructions); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		if err := json.Unmarshal([]byte(instructions), &rr.recipe.Instructions); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decoding instructions of %q: %w", rr.recipe.Name, err)
		}
		found = append(found, rr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}
	rows.Close()

	// Rows are closed before hydration: the backend uses a single connection.
	recipes := make([]types.Recipe, 0, len(found))
	for _, rr := range found {
		ings, err := queryIngredients(ct.backend.db,
			"SELECT ingredient FROM recipe_ingredients WHERE ordinal = ? ORDER BY position", rr.ordinal)
		if err != nil {
			return nil, fmt.Errorf("hydrating recipe %q: %w", rr.recipe.Name, err)
		}
		rr.recipe.Ingredients = ings
		recipes = append(recipes, rr.recipe)
	}
	return recipes, nil
}

// insertRecipe writes one catalog entry at the given ordinal.
func insertRecipe(tx *sql.Tx, ordinal int, r types.Recipe) error {
	steps := r.Instructions
	if steps == nil {
		steps = types.Instructions{}
	}
	instructions, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encoding instructions: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO recipes (ordinal, name, instructions) VALUES (?, ?, ?)",
		ordinal, r.Name, string(instructions),
	); err != nil {
		return err
	}
	for pos, ing := range r.Ingredients {
		if _, err := tx.Exec(
			"INSERT INTO recipe_ingredients (ordinal, position, ingredient) VALUES (?, ?, ?)",
			ordinal, pos, ing,
		); err != nil {
			return err
		}
	}
	return nil
}

// queryIngredients returns the single text column of query in row order.
// It returns an empty, non-nil slice when no rows match.
func queryIngredients(q queryer, query string, args ...any) ([]string, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
