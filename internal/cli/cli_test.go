package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// testEnv holds isolated config and data directories for one test.
type testEnv struct {
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	return testEnv{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

type result struct {
	stdout string
	stderr string
	code   int
}

// exec runs a fresh command tree with stdin as input.
func (e testEnv) exec(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	args = append(args, "--config-dir", e.configDir, "--data-dir", e.dataDir)
	code := run(root, args, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e testEnv) run(t *testing.T, args ...string) result {
	t.Helper()
	return e.exec(t, "", args...)
}

func (e testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.run(t, "version")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "mealplan v")
	assert.Contains(t, res.stdout, modulePath)
	assert.NoDirExists(t, env.configDir, "version does not load configuration")
}

func TestUnknownCommand(t *testing.T) {
	res := newTestEnv(t).run(t, "brunch")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "unknown command")
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)
	res := env.run(t, "init")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	assert.Contains(t, res.stdout, "mealplan initialized successfully")
	assert.Contains(t, res.stdout, "recipes: 16")
	assert.DirExists(t, env.dataDir)

	data, err := os.ReadFile(filepath.Join(env.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir: "+env.dataDir)
	assert.Contains(t, string(data), "log_level: warn")

	again := env.run(t, "init")
	assert.Equal(t, exitSuccess, again.code, again.stderr)
}

func TestInvalidLogLevel(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "log_level: loud\n")

	res := env.run(t, "recipe")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "invalid log level")
}

func TestIngredients(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "ingredients", "list")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Protein:\n• Chicken\n")
	assert.NotContains(t, res.stdout, types.OthersCategory)

	res = env.run(t, "ingredients", "add", " Tofu ")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Added 'Tofu' to Others\n", res.stdout)

	res = env.run(t, "ingredients", "add", "Tofu")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "'Tofu' already exists!")

	res = env.run(t, "ingredients", "rename", "Tofu", " ")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "Name cannot be empty.")

	res = env.run(t, "ingredients", "rename", "Rice", "Brown Rice")
	assert.Equal(t, exitUserError, res.code)

	res = env.run(t, "ingredients", "rename", "Tofu", "Tempeh")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	res = env.run(t, "ingredients", "list", "--json")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	var cats []types.Category
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cats))
	others := cats[len(cats)-1]
	assert.Equal(t, types.Category{Name: types.OthersCategory, Items: []string{"Tempeh"}}, others)
}

func TestMatch(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "match", "Lemons", "Oranges")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Fish and Chips\nLemon Roast Chicken\nFruit Salad\nOrange Glazed Pork\n", res.stdout)

	res = env.run(t, "match", "Caviar", "Truffle")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "No matching recipes found!\n", res.stdout)
}

func TestMatch_NeedsTwoIngredients(t *testing.T) {
	env := newTestEnv(t)
	for _, args := range [][]string{{"match"}, {"match", "Rice"}, {"match", "Rice", "Rice"}} {
		res := env.run(t, args...)
		assert.Equal(t, exitUserError, res.code, args)
		assert.Contains(t, res.stderr, "Please choose at least 2 ingredients", args)
	}
}

func TestMatch_Details(t *testing.T) {
	env := newTestEnv(t)
	res := env.run(t, "match", "Apples", "Coconut", "--details")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Coconut Chicken Curry:\n\nIngredients:\n• Chicken\n")
	assert.Contains(t, res.stdout, "Apple Crumble:")
	assert.Contains(t, res.stdout, "Instructions:\n• ")
}

func TestMatch_NoRecipesLoaded(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "recipes_file: missing.json\n")

	res := env.run(t, "match", "Rice", "Eggs")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, msgNoRecipesLoaded+"\n", res.stdout)
	assert.Contains(t, res.stderr,
		"Notice: "+filepath.Join(env.configDir, "missing.json")+": No recipes loaded (recipes file not found)")

	res = env.run(t, "match", "Rice", "Eggs", "--json")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.JSONEq(t, `[]`, res.stdout)
}

func TestMatch_CustomRecipesFile(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "recipes_file: recipes.json\n")
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "recipes.json"),
		[]byte(`{"a": {"name": "Miso Soup", "ingredients": ["Miso", "Tofu"]}}`), 0o644))

	res := env.run(t, "match", "Tofu", "Rice", "--json")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	var recipes []types.Recipe
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, "Miso Soup", recipes[0].Name)
}

func TestRecipe(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "recipe", "Tomato Pasta")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout,
		"Tomato Pasta:\n\nIngredients:\n• Pasta\n• Tomatoes\n• Onion\n\nInstructions:\n• "), res.stdout)

	res = env.run(t, "recipe", "Pizza")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "(No detailed recipe found)\n", res.stdout)

	res = env.run(t, "recipe")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Len(t, strings.Split(strings.TrimSpace(res.stdout), "\n"), 16)
}

func TestToday(t *testing.T) {
	env := newTestEnv(t)

	first := env.run(t, "today", "--seed", "42", "--json")
	require.Equal(t, exitSuccess, first.code, first.stderr)
	second := env.run(t, "today", "--seed", "42", "--json")
	assert.Equal(t, first.stdout, second.stdout)

	var plan types.DailyPlan
	require.NoError(t, json.Unmarshal([]byte(first.stdout), &plan))
	for _, slot := range plan.Slots() {
		require.NotNil(t, slot.Recipe, slot.Label)
		assert.NotEmpty(t, slot.Recipe.Name)
	}

	res := env.run(t, "today", "--seed", "7", "--details")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	for _, label := range []string{"Breakfast", "Lunch", "Dinner"} {
		assert.Contains(t, res.stdout, label)
	}
	assert.Contains(t, res.stdout, "Instructions:")
}

func TestToday_EmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "recipes_file: recipes.json\n")
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "recipes.json"), []byte(`[]`), 0o644))

	res := env.run(t, "today")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, 3, strings.Count(res.stdout, "No recipes"))
}

func TestMealLifecycle(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "meal", "list")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "No saved meals.\n", res.stdout)

	res = env.run(t, "meal", "create", "Toast", "-i", "Bread,Eggs", "-d", "Fry it.")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Meal 'Toast' saved.\n", res.stdout)

	res = env.run(t, "meal", "show", "Toast")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Toast:\n\nIngredients:\n• Bread\n• Eggs\n\nDescription:\nFry it.\n", res.stdout)

	res = env.run(t, "meal", "edit", "Toast", "--name", "French Toast", "--add", "Bananas", "--remove", "Eggs")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Meal 'French Toast' saved.\n", res.stdout)

	res = env.run(t, "meal", "show", "French Toast", "--json")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	var meal types.SavedMeal
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &meal))
	assert.Equal(t, types.SavedMeal{Name: "French Toast", Ingredients: []string{"Bananas", "Bread"}, Description: "Fry it."}, meal)

	res = env.run(t, "meal", "show", "Toast")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "meal 'Toast' not found")

	data, err := os.ReadFile(filepath.Join(env.dataDir, "meals.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"French Toast": {"ingredients": ["Bananas", "Bread"], "description": "Fry it."}}`, string(data))

	res = env.exec(t, "n\n", "meal", "delete", "French Toast")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Delete 'French Toast'? [y/N]: ")
	assert.Contains(t, res.stdout, "Cancelled.")

	res = env.exec(t, "yes\n", "meal", "delete", "French Toast")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Meal 'French Toast' deleted.")

	res = env.run(t, "meal", "delete", "French Toast", "--yes")
	assert.Equal(t, exitUserError, res.code)
}

func TestMealCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "meal", "create", "Lonely", "-i", "Rice")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "Select at least 2 ingredients.")

	res = env.run(t, "meal", "create", " ", "-i", "Rice,Eggs")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "Please enter a meal name.")

	assert.NoFileExists(t, filepath.Join(env.dataDir, "meals.json"))
}

func TestMealCreate_Collision(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, exitSuccess, env.run(t, "meal", "create", "Stew", "-i", "Beef,Onion").code)

	res := env.run(t, "meal", "create", "Stew", "-i", "Fish,Lemons")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "A meal named 'Stew' already exists.")

	res = env.run(t, "meal", "create", "Stew", "-i", "Fish,Lemons", "--replace")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	res = env.run(t, "meal", "show", "Stew")
	assert.Contains(t, res.stdout, "• Fish\n• Lemons\n")
}

func TestMealEdit_RenameCollision(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, exitSuccess, env.run(t, "meal", "create", "Stew", "-i", "Beef,Onion").code)
	require.Equal(t, exitSuccess, env.run(t, "meal", "create", "Toast", "-i", "Bread,Eggs").code)

	res := env.run(t, "meal", "edit", "Stew", "--name", "Toast")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "A meal named 'Toast' already exists.")

	res = env.run(t, "meal", "list", "--json")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	var meals []types.SavedMeal
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &meals))
	require.Len(t, meals, 2)
	assert.Equal(t, "Stew", meals[0].Name)
	assert.Equal(t, []string{"Beef", "Onion"}, meals[0].Ingredients)

	res = env.run(t, "meal", "edit", "Ghost", "--name", "Spirit")
	assert.Equal(t, exitUserError, res.code)
}

func TestMealList_Filter(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"beef stew", "Apple Pie", "apple crumble"} {
		require.Equal(t, exitSuccess, env.run(t, "meal", "create", name, "-i", "Flour,Eggs").code)
	}

	res := env.run(t, "meal", "list", "APPLE")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "apple crumble (2 ingredients)\nApple Pie (2 ingredients)\n", res.stdout)
}

func TestMeals_MalformedFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.dataDir, "meals.json"), []byte("{oops"), 0o644))

	res := env.run(t, "meal", "list")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "No saved meals.\n", res.stdout)
	assert.Contains(t, res.stderr,
		"Notice: "+filepath.Join(env.dataDir, "meals.json")+": Saved meals unavailable, starting with an empty library")
	assert.Equal(t, 1, strings.Count(res.stderr, "Saved meals unavailable"), "notice is shown once")
}

func TestMeals_LegacyFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.dataDir, "meals.json"),
		[]byte(`{"Old Soup": ["Cabbage"], "Bare": {}}`), 0o644))

	res := env.run(t, "meal", "show", "Bare")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "(No ingredients)")
	assert.Contains(t, res.stdout, "(No description)")

	res = env.run(t, "meal", "edit", "Old Soup", "--add", "Onion")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	res = env.run(t, "meal", "show", "Old Soup")
	assert.Contains(t, res.stdout, "• Cabbage\n• Onion\n")
}

func TestMeals_EditUntrimmedLegacyName(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.dataDir, "meals.json"),
		[]byte(`{" Pasta ": ["Pasta", "Tomatoes"]}`), 0o644))

	res := env.run(t, "meal", "edit", " Pasta ", "-d", "dinner")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Meal 'Pasta' saved.\n", res.stdout)

	res = env.run(t, "meal", "show", "Pasta")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Description:\ndinner\n")
}

func TestUserMessage(t *testing.T) {
	err := userMessage(msgEmptyName, types.ErrInvalidName)
	assert.EqualError(t, err, "Name cannot be empty.")
	assert.ErrorIs(t, err, types.ErrInvalidName)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Same(t, err, classify(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(classify(types.ErrNameTaken)))
	assert.Equal(t, exitSysError, exitCode(classify(os.ErrPermission)))
	assert.Equal(t, exitSysError, exitCode(sysError(types.ErrNotFound)), "an explicit code wins")
	assert.Nil(t, classify(nil))
}
