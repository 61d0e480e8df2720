package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealplan/internal/render"
	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// Messages shown when an ingredient name is rejected.
const (
	msgEmptyName = "Name cannot be empty."
	msgExists    = "'%s' already exists!"
)

func newIngredientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ingredients",
		Aliases: []string{"ing"},
		Short:   "List and manage known ingredients",
	}
	cmd.AddCommand(newIngredientsListCmd(a))
	cmd.AddCommand(newIngredientsAddCmd(a))
	cmd.AddCommand(newIngredientsRenameCmd(a))
	return cmd
}

func newIngredientsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingredients by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kitchen, detach, err := a.attachKitchen(cmd)
			if err != nil {
				return err
			}
			defer detach()

			pantry, err := kitchen.Pantry()
			if err != nil {
				return sysError(err)
			}
			cats, err := pantry.Categories()
			if err != nil {
				return sysError(err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd, cats)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.New(cmd.OutOrStdout()).Categories(cats))
			return nil
		},
	}
}

func newIngredientsAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kitchen, detach, err := a.attachKitchen(cmd)
			if err != nil {
				return err
			}
			defer detach()

			pantry, err := kitchen.Pantry()
			if err != nil {
				return sysError(err)
			}

			name := args[0]
			err = pantry.Add(name)
			switch {
			case errors.Is(err, types.ErrInvalidName):
				return userMessage(msgEmptyName, err)
			case errors.Is(err, types.ErrDuplicateIngredient):
				return userMessage(fmt.Sprintf(msgExists, strings.TrimSpace(name)), err)
			case err != nil:
				return classify(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added '%s' to %s\n", strings.TrimSpace(name), types.OthersCategory)
			return nil
		},
	}
}

func newIngredientsRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a custom ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kitchen, detach, err := a.attachKitchen(cmd)
			if err != nil {
				return err
			}
			defer detach()

			pantry, err := kitchen.Pantry()
			if err != nil {
				return sysError(err)
			}

			oldName, newName := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			err = pantry.Rename(oldName, newName)
			switch {
			case errors.Is(err, types.ErrInvalidName):
				return userMessage(msgEmptyName, err)
			case errors.Is(err, types.ErrDuplicateIngredient):
				return userMessage(fmt.Sprintf(msgExists, newName), err)
			case errors.Is(err, types.ErrBuiltinIngredient):
				return userError(fmt.Errorf("'%s' is a built-in ingredient and cannot be renamed", oldName))
			case errors.Is(err, types.ErrNotFound):
				return userError(fmt.Errorf("ingredient '%s' not found", oldName))
			case err != nil:
				return classify(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Renamed '%s' to '%s'\n", oldName, newName)
			return nil
		},
	}
}
