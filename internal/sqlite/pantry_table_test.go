package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

func testPantry(t *testing.T, dir string) types.Pantry {
	t.Helper()
	b := attachTestBackend(t, types.Config{DataDir: dir})
	pantry, err := b.Pantry()
	require.NoError(t, err)
	return pantry
}

func othersItems(t *testing.T, pantry types.Pantry) []string {
	t.Helper()
	cats, err := pantry.Categories()
	require.NoError(t, err)
	others := cats[len(cats)-1]
	require.Equal(t, types.OthersCategory, others.Name)
	return others.Items
}

func TestPantry_Categories(t *testing.T) {
	pantry := testPantry(t, t.TempDir())

	cats, err := pantry.Categories()
	require.NoError(t, err)

	defaults := types.DefaultPantry()
	require.Len(t, cats, len(defaults)+1)
	for i, want := range defaults {
		assert.Equal(t, want, cats[i])
	}
	assert.Equal(t, types.Category{Name: types.OthersCategory, Items: []string{}}, cats[len(defaults)])

	all, err := pantry.All()
	require.NoError(t, err)
	assert.Len(t, all, 20)
	assert.Equal(t, "Rice", all[0])
}

func TestPantry_LoadsCustom(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, pantryFileName), `["Tofu", "Rice", "Kale"]`)

	pantry := testPantry(t, dir)
	assert.Equal(t, []string{"Tofu", "Kale"}, othersItems(t, pantry))
}

func TestPantry_Add(t *testing.T) {
	dir := t.TempDir()
	pantry := testPantry(t, dir)

	require.NoError(t, pantry.Add("  Tofu "))
	require.NoError(t, pantry.Add("Kale"))
	assert.Equal(t, []string{"Tofu", "Kale"}, othersItems(t, pantry))

	data, err := os.ReadFile(filepath.Join(dir, pantryFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `["Tofu", "Kale"]`, string(data))

	assert.ErrorIs(t, pantry.Add("Tofu"), types.ErrDuplicateIngredient)
	assert.ErrorIs(t, pantry.Add("Chicken"), types.ErrDuplicateIngredient)
	assert.ErrorIs(t, pantry.Add("   "), types.ErrInvalidName)

	all, err := pantry.All()
	require.NoError(t, err)
	assert.Len(t, all, 22)
	assert.Equal(t, "Kale", all[len(all)-1])
}

func TestPantry_Rename(t *testing.T) {
	dir := t.TempDir()
	pantry := testPantry(t, dir)
	require.NoError(t, pantry.Add("Tofu"))
	require.NoError(t, pantry.Add("Kale"))

	require.NoError(t, pantry.Rename("Tofu", "Smoked Tofu"))
	assert.Equal(t, []string{"Smoked Tofu", "Kale"}, othersItems(t, pantry))

	data, err := os.ReadFile(filepath.Join(dir, pantryFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `["Smoked Tofu", "Kale"]`, string(data))

	require.NoError(t, pantry.Rename("Kale", "Kale"), "renaming to itself is a no-op")
	assert.ErrorIs(t, pantry.Rename("Kale", "Smoked Tofu"), types.ErrDuplicateIngredient)
	assert.ErrorIs(t, pantry.Rename("Kale", "Rice"), types.ErrDuplicateIngredient)
	assert.ErrorIs(t, pantry.Rename("Kale", " "), types.ErrInvalidName)
	assert.ErrorIs(t, pantry.Rename("Rice", "Brown Rice"), types.ErrBuiltinIngredient)
	assert.ErrorIs(t, pantry.Rename("Quinoa", "Red Quinoa"), types.ErrNotFound)
}

func TestPantry_RenameKeepsSavedMeals(t *testing.T) {
	dir := t.TempDir()
	b := attachTestBackend(t, types.Config{DataDir: dir})
	pantry, err := b.Pantry()
	require.NoError(t, err)
	meals, err := b.Meals()
	require.NoError(t, err)

	require.NoError(t, pantry.Add("Tofu"))
	require.NoError(t, meals.Save("", types.SavedMeal{Name: "Tofu Rice", Ingredients: []string{"Tofu", "Rice"}}, false))
	require.NoError(t, pantry.Rename("Tofu", "Silken Tofu"))

	got, err := meals.Get("Tofu Rice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tofu", "Rice"}, got.Ingredients)
}
