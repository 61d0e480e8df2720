package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealplan/internal/planner"
	"github.com/mesh-intelligence/mealplan/internal/render"
	"github.com/mesh-intelligence/mealplan/pkg/types"
)

func newTodayCmd(a *app) *cobra.Command {
	var (
		seed    uint64
		details bool
	)

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Suggest a recipe for breakfast, lunch and dinner",
		Args:  cobra.NoArgs,
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

			plan, err := planner.Today(catalog, planner.NewRand(seed))
			if err != nil && !errors.Is(err, types.ErrNoRecipes) {
				return sysError(err)
			}
			a.logger.Debug("suggested daily plan", zap.Uint64("seed", seed), zap.Bool("empty", err != nil))

			if a.flags.jsonMode {
				return writeJSON(cmd, plan)
			}

			out := cmd.OutOrStdout()
			p := render.New(out)
			fmt.Fprint(out, p.DailyCards(plan))
			if !details {
				return nil
			}
			for _, slot := range plan.Slots() {
				if slot.Recipe == nil {
					continue
				}
				fmt.Fprintf(out, "\n%s\n", slot.Label)
				r, ok, err := planner.Lookup(catalog, slot.Recipe.Name)
				if err != nil {
					return sysError(err)
				}
				if !ok {
					fmt.Fprint(out, p.MissingRecipe())
					continue
				}
				fmt.Fprint(out, p.RecipeDetail(r))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for a reproducible plan (0 picks a fresh seed)")
	cmd.Flags().BoolVar(&details, "details", false, "print each suggested recipe in full")
	return cmd
}
