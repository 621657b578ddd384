package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clusterform/cmd/clusterform/handlers"
	"github.com/imamik/clusterform/internal/config"
)

// Generate returns the command that writes the stack template.
func Generate(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the stack template",
		Long: `Generate the deployable template for a stack and write it to stdout.

Roles are grouped according to the isolation and colocation requests, the
group hosting the etcd quorum gets one addressable node per member, and the
fleet is asked which of those nodes already exist so that re-runs keep them
in their zones.

Settings come from clusterform.yaml (see 'clusterform init') and may be
overridden by flags. Nothing is written when any step fails.

Exit codes:
  1  general failure
  2  invalid placement request
  3  provider discovery failed
  4  template assembly failed`,
		Example: `  clusterform generate --stack prod --vpc-id vpc-0abc --isolate-router --router-mesh-colocate data > prod.json
  clusterform generate -c clusterform.yaml --provider hcloud > main.tf.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Generate(cmd.Context(), g.options(cmd))
		},
	}

	bindStackFlags(cmd)
	return cmd
}

func (g *globalFlags) options(cmd *cobra.Command) handlers.Options {
	return handlers.Options{
		ConfigPath: g.configPath,
		Verbosity:  g.verbosity,
		LogJSON:    g.logJSON,
		Override: func(cfg *config.Config) error {
			return applyStackFlags(cmd, cfg)
		},
	}
}
