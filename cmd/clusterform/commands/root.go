// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	verbosity  int
	logJSON    bool
}

// Root returns the root command for the clusterform CLI.
func Root() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "clusterform",
		Short: "Generate stack templates for clusters with an etcd quorum",
		Long: `clusterform turns a placement request (which roles get dedicated nodes,
which roles share them, and how many nodes each group starts with) into a
single deployable template for AWS CloudFormation or Terraform on Hetzner Cloud.

Existing quorum members are looked up before planning, so re-running against
a live stack keeps every node in its zone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to configuration file (default: clusterform.yaml)")
	cmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	cmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(Generate(g))
	cmd.AddCommand(Plan(g))
	cmd.AddCommand(Init())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
