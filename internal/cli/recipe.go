package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealplan/internal/planner"
	"github.com/mesh-intelligence/mealplan/internal/render"
)

func newRecipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe [name]",
		Short: "Show a recipe, or list all recipes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kitchen, detach, err := a.attachKitchen(cmd)
			if err != nil {
				return err
			}
			defer detach()

			catalog, err := kitchen.Catalog()
			if err != nil {
				return sysError(err)
			}
			out := cmd.OutOrStdout()
			p := render.New(out)

			if len(args) == 0 {
				all, err := catalog.All()
				if err != nil {
					return sysError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd, all)
				}
				fmt.Fprint(out, p.RecipeList(all))
				return nil
			}

			r, ok, err := planner.Lookup(catalog, args[0])
			if err != nil {
				return sysError(err)
			}
			if !ok {
				if a.flags.jsonMode {
					return userError(fmt.Errorf("recipe '%s' not found", args[0]))
				}
				fmt.Fprint(out, p.MissingRecipe())
				return nil
			}
			if a.flags.jsonMode {
				return writeJSON(cmd, r)
			}
			fmt.Fprint(out, p.RecipeDetail(r))
			return nil
		},
	}
	return cmd
}
