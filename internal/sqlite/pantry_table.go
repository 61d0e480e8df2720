// This file implements the ingredient pantry of the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// Compile-time interface check: pantryTable must implement Pantry.
var _ types.Pantry = (*pantryTable)(nil)

// pantryTable implements Pantry. Built-in ingredients are seeded from
// types.DefaultPantry on every Attach; only custom ingredients (builtin = 0)
// are written to pantry.json.
type pantryTable struct {
	backend *Backend
}

type pantryRow struct {
	name     string
	category string
	builtin  bool
}

// Categories returns the built-in categories in their fixed order followed
// by OthersCategory holding the custom ingredients in insertion order.
func (pt *pantryTable) Categories() ([]types.Category, error) {
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if !pt.backend.attached {
		return nil, types.ErrKitchenDetached
	}

	rows, err := allPantry(pt.backend.db)
	if err != nil {
		return nil, err
	}

	var cats []types.Category
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.category]
		if !ok {
			i = len(cats)
			index[r.category] = i
			cats = append(cats, types.Category{Name: r.category, Items: []string{}})
		}
		cats[i].Items = append(cats[i].Items, r.name)
	}
	if _, ok := index[types.OthersCategory]; !ok {
		cats = append(cats, types.Category{Name: types.OthersCategory, Items: []string{}})
	}
	return cats, nil
}

// All returns every known ingredient name, built-ins first.
func (pt *pantryTable) All() ([]string, error) {
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if !pt.backend.attached {
		return nil, types.ErrKitchenDetached
	}
	return queryIngredients(pt.backend.db, "SELECT name FROM pantry ORDER BY position")
}

// Add registers a custom ingredient under OthersCategory and rewrites
// pantry.json. The name is trimmed; a blank name returns ErrInvalidName and
// a name already in the pantry returns ErrDuplicateIngredient.
func (pt *pantryTable) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.ErrInvalidName
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()
	if !pt.backend.attached {
		return types.ErrKitchenDetached
	}

	if _, found, err := lookupPantry(pt.backend.db, name); err != nil {
		return err
	} else if found {
		return fmt.Errorf("ingredient %q: %w", name, types.ErrDuplicateIngredient)
	}

	if _, err := pt.backend.db.Exec(
		"INSERT INTO pantry (position, name, category, builtin) VALUES ((SELECT COALESCE(MAX(position), -1) + 1 FROM pantry), ?, ?, 0)",
		name, types.OthersCategory,
	); err != nil {
		return fmt.Errorf("inserting ingredient: %w", err)
	}

	pt.backend.logger.Info("added ingredient", zap.String("name", name))
	return pt.persistLocked()
}

// Rename changes the name of a custom ingredient in place and rewrites
// pantry.json. Saved meals that use the old name are left unchanged.
func (pt *pantryTable) Rename(oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return types.ErrInvalidName
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()
	if !pt.backend.attached {
		return types.ErrKitchenDetached
	}

	row, found, err := lookupPantry(pt.backend.db, oldName)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("ingredient %q: %w", oldName, types.ErrNotFound)
	}
	if row.builtin {
		return fmt.Errorf("ingredient %q: %w", oldName, types.ErrBuiltinIngredient)
	}
	if newName == oldName {
		return nil
	}
	if _, taken, err := lookupPantry(pt.backend.db, newName); err != nil {
		return err
	} else if taken {
		return fmt.Errorf("ingredient %q: %w", newName, types.ErrDuplicateIngredient)
	}

	if _, err := pt.backend.db.Exec("UPDATE pantry SET name = ? WHERE name = ?", newName, oldName); err != nil {
		return fmt.Errorf("renaming ingredient: %w", err)
	}

	pt.backend.logger.Info("renamed ingredient",
		zap.String("old_name", oldName),
		zap.String("new_name", newName))
	return pt.persistLocked()
}

// persistLocked rewrites pantry.json with the custom ingredients. The
// caller must hold the backend write lock.
func (pt *pantryTable) persistLocked() error {
	custom, err := queryIngredients(pt.backend.db,
		"SELECT name FROM pantry WHERE builtin = 0 ORDER BY position")
	if err != nil {
		return fmt.Errorf("querying custom ingredients: %w", err)
	}

	path := pt.backend.dataPath(pantryFileName)
	if err := writeJSONFile(path, custom); err != nil {
		pt.backend.logger.Error("writing custom ingredients", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func lookupPantry(q queryer, name string) (pantryRow, bool, error) {
	r := pantryRow{name: name}
	var builtin int
	err := q.QueryRow("SELECT category, builtin FROM pantry WHERE name = ?", name).
		Scan(&r.category, &builtin)
	if errors.Is(err, sql.ErrNoRows) {
		return pantryRow{}, false, nil
	}
	if err != nil {
		return pantryRow{}, false, fmt.Errorf("looking up ingredient %q: %w", name, err)
	}
	r.builtin = builtin != 0
	return r, true, nil
}

func allPantry(q queryer) ([]pantryRow, error) {
	rows, err := q.Query("SELECT name, category, builtin FROM pantry ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying pantry: %w", err)
	}
	defer rows.Close()

	var out []pantryRow
	for rows.Next() {
		var (
			r       pantryRow
			builtin int
		)
		if err := rows.Scan(&r.name, &r.category, &builtin); err != nil {
			return nil, fmt.Errorf("scanning pantry: %w", err)
		}
		r.builtin = builtin != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// insertPantry seeds the built-in categories and then the custom
// ingredients. Custom names that repeat a built-in are dropped.
func insertPantry(tx *sql.Tx, custom []string) error {
	pos := 0
	seen := make(map[string]bool)
	insert := func(name, category string, builtin int) error {
		if seen[name] {
			return nil
		}
		seen[name] = true
		_, err := tx.Exec(
			"INSERT INTO pantry (position, name, category, builtin) VALUES (?, ?, ?, ?)",
			pos, name, category, builtin,
		)
		pos++
		return err
	}

	for _, cat := range types.DefaultPantry() {
		for _, item := range cat.Items {
			if err := insert(item, cat.Name, 1); err != nil {
				return err
			}
		}
	}
	for _, name := range custom {
		if err := insert(name, types.OthersCategory, 0); err != nil {
			return err
		}
	}
	return nil
}
