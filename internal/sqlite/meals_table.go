// This file implements the saved-meal library of the SQLite backend.
// Each change is committed to SQLite and then meals.json is rewritten
// atomically from the committed rows.
package sqlite

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// Compile-time interface check: mealsTable must implement MealBook.
var _ types.MealBook = (*mealsTable)(nil)

// mealsTable implements MealBook. Rows carry a UUID v7 meal_id so a rename
// updates the row in place instead of inserting a new one.
type mealsTable struct {
	backend *Backend
}

// Get returns the saved meal with the given name.
func (mt *mealsTable) Get(name string) (types.SavedMeal, error) {
	mt.backend.mu.RLock()
	defer mt.backend.mu.RUnlock()
	if !mt.backend.attached {
		return types.SavedMeal{}, types.ErrKitchenDetached
	}

	id, err := lookupMealID(mt.backend.db, name)
	if err != nil {
		return types.SavedMeal{}, err
	}
	if id == "" {
		return types.SavedMeal{}, fmt.Errorf("meal %q: %w", name, types.ErrNotFound)
	}
	return hydrateMeal(mt.backend.db, id)
}

// List returns saved meals sorted case-insensitively by name, keeping only
// names that contain query when it is non-empty (ignoring case).
func (mt *mealsTable) List(query string) ([]types.SavedMeal, error) {
	mt.backend.mu.RLock()
	defer mt.backend.mu.RUnlock()
	if !mt.backend.attached {
		return nil, types.ErrKitchenDetached
	}

	meals, err := allMeals(mt.backend.db)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		meals = slices.DeleteFunc(meals, func(m types.SavedMeal) bool {
			return !strings.Contains(strings.ToLower(m.Name), query)
		})
	}
	return meals, nil
}

// Save creates, updates or renames a saved meal.
//
// With an empty original the meal is created; an existing meal of the same
// name is overwritten only when replace is set, otherwise ErrNameTaken is
// returned. With a non-empty original that meal is edited: when the name
// changes the new name must be free, and the old entry is replaced by the
// new one in a single transaction. Editing a missing meal returns
// ErrNotFound. original is matched exactly as stored, so meals loaded with
// surrounding spaces in their names can still be edited.
func (mt *mealsTable) Save(original string, meal types.SavedMeal, replace bool) error {
	if err := meal.Validate(); err != nil {
		return err
	}
	meal = meal.Normalized()

	mt.backend.mu.Lock()
	defer mt.backend.mu.Unlock()
	if !mt.backend.attached {
		return types.ErrKitchenDetached
	}

	tx, err := mt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	existingID, err := lookupMealID(tx, meal.Name)
	if err != nil {
		return err
	}

	var targetID string
	if original == "" {
		if existingID != "" && !replace {
			return fmt.Errorf("meal %q: %w", meal.Name, types.ErrNameTaken)
		}
		targetID = existingID
	} else {
		origID, err := lookupMealID(tx, original)
		if err != nil {
			return err
		}
		if origID == "" {
			return fmt.Errorf("meal %q: %w", original, types.ErrNotFound)
		}
		if existingID != "" && existingID != origID {
			return fmt.Errorf("meal %q: %w", meal.Name, types.ErrNameTaken)
		}
		targetID = origID
	}

	if targetID == "" {
		newID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generating UUID v7: %w", err)
		}
		if err := insertMeal(tx, newID.String(), meal); err != nil {
			return fmt.Errorf("inserting meal: %w", err)
		}
	} else {
		if err := updateMeal(tx, targetID, meal); err != nil {
			return fmt.Errorf("updating meal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing meal: %w", err)
	}

	mt.backend.logger.Info("saved meal",
		zap.String("name", meal.Name),
		zap.String("original", original),
		zap.Bool("renamed", original != "" && original != meal.Name))

	return mt.persistLocked()
}

// Delete removes the saved meal with the given name.
func (mt *mealsTable) Delete(name string) error {
	mt.backend.mu.Lock()
	defer mt.backend.mu.Unlock()
	if !mt.backend.attached {
		return types.ErrKitchenDetached
	}

	tx, err := mt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := lookupMealID(tx, name)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("meal %q: %w", name, types.ErrNotFound)
	}
	if _, err := tx.Exec("DELETE FROM meal_ingredients WHERE meal_id = ?", id); err != nil {
		return fmt.Errorf("deleting meal ingredients: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM meals WHERE meal_id = ?", id); err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	mt.backend.logger.Info("deleted meal", zap.String("name", name))
	return mt.persistLocked()
}

// persistLocked rewrites meals.json from the committed rows. The caller
// must hold the backend write lock.
func (mt *mealsTable) persistLocked() error {
	meals, err := allMeals(mt.backend.db)
	if err != nil {
		return err
	}

	doc := make(map[string]mealJSON, len(meals))
	for _, m := range meals {
		doc[m.Name] = mealJSON{Ingredients: m.Ingredients, Description: m.Description}
	}

	path := mt.backend.dataPath(mealsFileName)
	if err := writeJSONFile(path, doc); err != nil {
		mt.backend.logger.Error("writing saved meals", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// lookupMealID returns the meal_id for name, or "" when there is none.
func lookupMealID(q queryer, name string) (string, error) {
	var id string
	err := q.QueryRow("SELECT meal_id FROM meals WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up meal %q: %w", name, err)
	}
	return id, nil
}

// hydrateMeal loads one meal and its ingredients by meal_id.
func hydrateMeal(q queryer, id string) (types.SavedMeal, error) {
	var m types.SavedMeal
	err := q.QueryRow("SELECT name, description FROM meals WHERE meal_id = ?", id).
		Scan(&m.Name, &m.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return types.SavedMeal{}, types.ErrNotFound
	}
	if err != nil {
		return types.SavedMeal{}, fmt.Errorf("getting meal %s: %w", id, err)
	}

	m.Ingredients, err = queryIngredients(q,
		"SELECT ingredient FROM meal_ingredients WHERE meal_id = ? ORDER BY position", id)
	if err != nil {
		return types.SavedMeal{}, fmt.Errorf("hydrating meal %q: %w", m.Name, err)
	}
	return m, nil
}

// allMeals returns every saved meal sorted case-insensitively by name.
func allMeals(q queryer) ([]types.SavedMeal, error) {
	rows, err := q.Query("SELECT meal_id FROM meals")
	if err != nil {
		return nil, fmt.Errorf("querying meals: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating meals: %w", err)
	}
	rows.Close()

	meals := make([]types.SavedMeal, 0, len(ids))
	for _, id := range ids {
		m, err := hydrateMeal(q, id)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}

	slices.SortFunc(meals, func(a, b types.SavedMeal) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return meals, nil
}

// insertMeal writes a new meal row and its ingredients.
func insertMeal(tx *sql.Tx, id string, m types.SavedMeal) error {
	if _, err := tx.Exec(
		"INSERT INTO meals (meal_id, name, description) VALUES (?, ?, ?)",
		id, m.Name, m.Description,
	); err != nil {
		return err
	}
	return insertMealIngredients(tx, id, m.Ingredients)
}

// updateMeal rewrites the name, description and ingredients of a meal row.
func updateMeal(tx *sql.Tx, id string, m types.SavedMeal) error {
	if _, err := tx.Exec(
		"UPDATE meals SET name = ?, description = ? WHERE meal_id = ?",
		m.Name, m.Description, id,
	); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM meal_ingredients WHERE meal_id = ?", id); err != nil {
		return err
	}
	return insertMealIngredients(tx, id, m.Ingredients)
}

func insertMealIngredients(tx *sql.Tx, id string, ingredients []string) error {
	for pos, ing := range ingredients {
		if _, err := tx.Exec(
			"INSERT INTO meal_ingredients (meal_id, position, ingredient) VALUES (?, ?, ?)",
			id, pos, ing,
		); err != nil {
			return err
		}
	}
	return nil
}
