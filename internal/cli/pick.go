package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealplan/internal/tui"
)

func newPickCmd(a *app) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose ingredients interactively and match recipes",
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

			selected, err := tui.Pick(cats, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, tui.ErrCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return sysError(err)
			}
			return a.printMatches(cmd, kitchen, selected, details)
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "print ingredients and instructions of each recipe")
	return cmd
}
