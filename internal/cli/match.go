package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealplan/internal/render"
	"github.com/mesh-intelligence/mealplan/internal/tui"
	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// Messages shown when matching produces nothing.
const (
	msgNoRecipesLoaded = "No recipes loaded (recipes file missing or invalid)."
	msgNoMatches       = "No matching recipes found!"
)

func newMatchCmd(a *app) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "match <ingredient> <ingredient>...",
		Short: "Find recipes that use any of the given ingredients",
		Long: "Find every recipe that shares at least one ingredient with the selection,\n" +
			"in catalog order. Ingredient names are matched exactly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := distinctNames(args)
			if len(selected) < types.MinMealIngredients {
				return userMessage(tui.Hint, types.ErrTooFewIngredients)
			}

			kitchen, detach, err := a.attachKitchen(cmd)
			if err != nil {
				return err
			}
			defer detach()

			return a.printMatches(cmd, kitchen, selected, details)
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "print ingredients and instructions of each recipe")
	return cmd
}

// printMatches matches selected against the catalog and prints the result.
// An empty catalog and an empty match are both reported, not returned as
// errors.
func (a *app) printMatches(cmd *cobra.Command, kitchen types.Kitchen, selected []string, details bool) error {
	catalog, err := kitchen.Catalog()
	if err != nil {
		return sysError(err)
	}
	n, err := catalog.Count()
	if err != nil {
		return sysError(err)
	}

	matches, err := catalog.Match(selected)
	if err != nil {
		return sysError(err)
	}

	if a.flags.jsonMode {
		return writeJSON(cmd, matches)
	}

	out := cmd.OutOrStdout()
	if n == 0 {
		fmt.Fprintln(out, msgNoRecipesLoaded)
		return nil
	}
	if len(matches) == 0 {
		fmt.Fprintln(out, msgNoMatches)
		return nil
	}
	p := render.New(out)
	if !details {
		fmt.Fprint(out, p.RecipeList(matches))
		return nil
	}
	for i, r := range matches {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, p.RecipeDetail(r))
	}
	return nil
}

// distinctNames trims names and drops blanks and repeats, keeping order.
func distinctNames(names []string) []string {
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
