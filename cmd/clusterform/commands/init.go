package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clusterform/cmd/clusterform/handlers"
	"github.com/imamik/clusterform/internal/config"
)

// Init returns the command for interactively creating a stack configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "clusterform.yaml")
//	--advanced, -a: Show advanced configuration options
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var (
		outputPath string
		advanced   bool
		fullOutput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a stack configuration",
		Long: `Interactively create a stack configuration file.

This command guides you through configuring your stack step by step.
It will ask about:

  - Stack name and deployment target
  - Roles that get dedicated nodes
  - Roles that share those nodes
  - Node counts (odd for the group hosting the etcd quorum)
  - VPC or bastion (aws) or location (hcloud)

Use --advanced for instance sizes, custom template fragments and a
Prometheus pushgateway.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, advanced, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVarP(&advanced, "advanced", "a", false, "Show advanced configuration options")
	cmd.Flags().BoolVarP(&fullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
