package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealplan/pkg/mealplan"
)

const modulePath = "github.com/mesh-intelligence/mealplan"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mealplan version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mealplan v%s\nmodule: %s\n", mealplan.Version, modulePath)
			return nil
		},
	}
}
