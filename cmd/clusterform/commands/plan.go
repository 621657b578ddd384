package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clusterform/cmd/clusterform/handlers"
)

// Plan returns the command that shows groups and quorum node plans.
func Plan(g *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved groups and quorum node plans",
		Long: `Resolve the topology and plan the quorum nodes without assembling a
template.

The summary lists every group with its roles and size, each quorum node with
its zone and whether it founds a new cluster or joins an existing one, and
any colocation request that could not be honoured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), g.options(cmd), jsonOutput)
		},
	}

	bindStackFlags(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
