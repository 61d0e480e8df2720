package cli

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealplan/internal/editor"
	"github.com/mesh-intelligence/mealplan/internal/render"
	"github.com/mesh-intelligence/mealplan/pkg/types"
)

func newMealCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meal",
		Short: "Manage saved meals",
	}
	cmd.AddCommand(newMealListCmd(a))
	cmd.AddCommand(newMealShowCmd(a))
	cmd.AddCommand(newMealCreateCmd(a))
	cmd.AddCommand(newMealEditCmd(a))
	cmd.AddCommand(newMealDeleteCmd(a))
	return cmd
}

// openMealBook attaches the kitchen and returns its meal book and pantry.
func (a *app) openMealBook(cmd *cobra.Command) (types.MealBook, types.Pantry, func(), error) {
	kitchen, detach, err := a.attachKitchen(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	book, err := kitchen.Meals()
	if err != nil {
		detach()
		return nil, nil, nil, sysError(err)
	}
	pantry, err := kitchen.Pantry()
	if err != nil {
		detach()
		return nil, nil, nil, sysError(err)
	}
	return book, pantry, detach, nil
}

// getMeal returns the named meal, reporting a missing one as a user error.
func getMeal(book types.MealBook, name string) (types.SavedMeal, error) {
	meal, err := book.Get(name)
	if errors.Is(err, types.ErrNotFound) {
		return types.SavedMeal{}, userError(fmt.Errorf("meal '%s' not found", name))
	}
	if err != nil {
		return types.SavedMeal{}, sysError(err)
	}
	return meal, nil
}

func newMealListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List saved meals, optionally filtered by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, _, detach, err := a.openMealBook(cmd)
			if err != nil {
				return err
			}
			defer detach()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			meals, err := book.List(query)
			if err != nil {
				return sysError(err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd, meals)
			}
			out := cmd.OutOrStdout()
			if len(meals) == 0 {
				fmt.Fprintln(out, "No saved meals.")
				return nil
			}
			fmt.Fprint(out, render.New(out).MealList(meals))
			return nil
		},
	}
}

func newMealShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, _, detach, err := a.openMealBook(cmd)
			if err != nil {
				return err
			}
			defer detach()

			meal, err := getMeal(book, args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd, meal)
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, render.New(out).MealDetail(meal))
			return nil
		},
	}
}

func newMealCreateCmd(a *app) *cobra.Command {
	var (
		ingredients []string
		description string
		replace     bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Save a new meal",
		Example: `  mealplan meal create "Egg Fried Rice" -i Rice -i Eggs -i Onion
  mealplan meal create Toast -i Bread,Eggs -d "Fry the bread in egg."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, pantry, detach, err := a.openMealBook(cmd)
			if err != nil {
				return err
			}
			defer detach()

			known, err := pantry.All()
			if err != nil {
				return sysError(err)
			}

			session := editor.NewCreate(known)
			session.Name = args[0]
			session.Description = description
			session.SetSelection(ingredients)

			meal, err := session.Submit(book, replace)
			if err != nil {
				return classify(err)
			}
			return a.reportSaved(cmd, meal)
		},
	}
	cmd.Flags().StringSliceVarP(&ingredients, "ingredient", "i", nil, "ingredient to include (repeatable or comma-separated)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description or instructions")
	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite an existing meal with the same name")
	return cmd
}

func newMealEditCmd(a *app) *cobra.Command {
	var (
		newName     string
		ingredients []string
		add         []string
		remove      []string
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Change, or rename, a saved meal",
		Example: `  mealplan meal edit Toast --name "French Toast"
  mealplan meal edit Toast --add Bananas --remove Eggs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, pantry, detach, err := a.openMealBook(cmd)
			if err != nil {
				return err
			}
			defer detach()

			meal, err := getMeal(book, args[0])
			if err != nil {
				return err
			}
			known, err := pantry.All()
			if err != nil {
				return sysError(err)
			}

			session := editor.NewEdit(known, meal)
			flags := cmd.Flags()
			if flags.Changed("name") {
				session.Name = newName
			}
			if flags.Changed("description") {
				session.Description = description
			}
			if flags.Changed("ingredient") {
				session.SetSelection(ingredients)
			}
			for _, name := range add {
				name = strings.TrimSpace(name)
				if name == "" || session.IsSelected(name) {
					continue
				}
				if slices.Contains(session.Options(), name) {
					if _, err := session.Toggle(name); err != nil {
						return classify(err)
					}
					continue
				}
				if err := session.AddCustom(name); err != nil {
					return classify(err)
				}
			}
			for _, name := range remove {
				name = strings.TrimSpace(name)
				if session.IsSelected(name) {
					if _, err := session.Toggle(name); err != nil {
						return classify(err)
					}
				}
			}

			saved, err := session.Submit(book, false)
			if err != nil {
				return classify(err)
			}
			return a.reportSaved(cmd, saved)
		},
	}
	cmd.Flags().StringVar(&newName, "name", "", "new name for the meal")
	cmd.Flags().StringSliceVarP(&ingredients, "ingredient", "i", nil, "replace the ingredients (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&add, "add", nil, "ingredient to add")
	cmd.Flags().StringSliceVar(&remove, "remove", nil, "ingredient to remove")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func (a *app) reportSaved(cmd *cobra.Command, meal types.SavedMeal) error {
	if a.flags.jsonMode {
		return writeJSON(cmd, meal)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Meal '%s' saved.\n", meal.Name)
	return nil
}

func newMealDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, _, detach, err := a.openMealBook(cmd)
			if err != nil {
				return err
			}
			defer detach()

			meal, err := getMeal(book, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd, fmt.Sprintf("Delete '%s'?", meal.Name)) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if err := book.Delete(meal.Name); err != nil {
				return classify(err)
			}
			fmt.Fprintf(out, "Meal '%s' deleted.\n", meal.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// confirm asks a yes/no question on the command's streams. Anything other
// than y or yes, including end of input, is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
