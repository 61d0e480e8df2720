// Tests for the SQLite backend lifecycle.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// attachTestBackend attaches a backend to dataDir and detaches it when the
// test ends.
func attachTestBackend(t *testing.T, config types.Config) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBackend_Attach(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	b := NewBackend()
	config := types.Config{DataDir: dataDir}
	require.NoError(t, b.Attach(config))
	defer b.Detach()

	assert.FileExists(t, filepath.Join(dataDir, dbFileName))
	assert.NoFileExists(t, filepath.Join(dataDir, mealsFileName), "Attach must not create meals.json")
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
	assert.Empty(t, b.Notices())
}

func TestBackend_AttachValidatesConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrDataDirEmpty)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "Detach is idempotent")

	_, err := b.Catalog()
	assert.ErrorIs(t, err, types.ErrKitchenDetached)
	_, err = b.Meals()
	assert.ErrorIs(t, err, types.ErrKitchenDetached)
	_, err = b.Pantry()
	assert.ErrorIs(t, err, types.ErrKitchenDetached)
}

func TestBackend_ViewsFailAfterDetach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{DataDir: t.TempDir()}))

	catalog, err := b.Catalog()
	require.NoError(t, err)
	meals, err := b.Meals()
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	_, err = catalog.All()
	assert.ErrorIs(t, err, types.ErrKitchenDetached)
	_, err = meals.List("")
	assert.ErrorIs(t, err, types.ErrKitchenDetached)
}

func TestBackend_ReattachRebuildsFromFiles(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{DataDir: dataDir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	meals, err := b.Meals()
	require.NoError(t, err)
	require.NoError(t, meals.Save("", types.SavedMeal{
		Name:        "Breakfast Bowl",
		Ingredients: []string{"Eggs", "Bread"},
	}, false))
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(config))
	defer b.Detach()
	meals, err = b.Meals()
	require.NoError(t, err)
	got, err := meals.Get("Breakfast Bowl")
	require.NoError(t, err)
	assert.Equal(t, []string{"Eggs", "Bread"}, got.Ingredients)
}

func TestBackend_NoticesAreCopied(t *testing.T) {
	dataDir := t.TempDir()
	writeTestFile(t, filepath.Join(dataDir, mealsFileName), "not json")

	b := attachTestBackend(t, types.Config{DataDir: dataDir})
	notices := b.Notices()
	require.Len(t, notices, 1)
	notices[0] = "changed"
	assert.NotEqual(t, "changed", b.Notices()[0])
}
