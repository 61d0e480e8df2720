// Shared helpers for mealplan CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealplan/internal/editor"
	"github.com/mesh-intelligence/mealplan/internal/paths"
	"github.com/mesh-intelligence/mealplan/pkg/sqlite"
	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// userErrors are the sentinels reported with exitUserError.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrNameTaken,
	types.ErrInvalidName,
	types.ErrTooFewIngredients,
	types.ErrDuplicateIngredient,
	types.ErrBuiltinIngredient,
}

// classify wraps err with the exit code it maps to.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	var ue *editor.UserError
	if errors.As(err, &ue) {
		return userError(err)
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return userError(err)
		}
	}
	return sysError(err)
}

// userMessage reports msg to the user verbatim with exitUserError while err
// stays matchable with errors.Is.
func userMessage(msg string, err error) error {
	return userError(&editor.UserError{Message: msg, Err: err})
}

// kitchenConfig resolves the data directory and recipe catalog following
// the flag > config.yaml > env > default precedence.
func (a *app) kitchenConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		DataDir:     dataDir,
		RecipesFile: paths.ResolveFile(a.configDir, a.config.GetString(cfgKeyRecipesFile)),
	}, nil
}

// attachKitchen creates a SQLite kitchen and attaches it, printing any load
// notices to stderr. The caller must call the returned detach function.
func (a *app) attachKitchen(cmd *cobra.Command) (types.Kitchen, func(), error) {
	cfg, err := a.kitchenConfig()
	if err != nil {
		return nil, nil, sysError(err)
	}

	kitchen := sqlite.NewBackend(a.logger)
	if err := kitchen.Attach(cfg); err != nil {
		return nil, nil, sysError(fmt.Errorf("attach kitchen: %w", err))
	}
	for _, n := range kitchen.Notices() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Notice:", n)
	}

	detach := func() { _ = kitchen.Detach() }
	return kitchen, detach, nil
}

// writeJSON prints v as indented JSON to the command output.
func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
