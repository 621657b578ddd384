package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/config/wizard"
	"github.com/imamik/clusterform/internal/topology"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, advanced, fullOutput bool) error {
	if wizardFileExists(outputPath) {
		ok, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted, existing configuration kept.")
			return nil
		}
	}

	printWelcome(advanced, fullOutput)

	result, err := wizardRunWizard(ctx, advanced)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizardBuildConfig(result)
	if err := wizardWriteConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printWelcome(advanced, fullOutput bool) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "clusterform - stack templates for etcd-backed clusters")
	fmt.Fprintln(stdout, "======================================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard will help you create a stack configuration.")
	if advanced {
		fmt.Fprintln(stdout, "Running in advanced mode: instance sizes, fragments and metrics are included.")
	}
	if fullOutput {
		fmt.Fprintln(stdout, "Full output mode: provider defaults are written out.")
	} else {
		fmt.Fprintln(stdout, "Minimal output mode: only your answers are written.")
	}
	fmt.Fprintln(stdout)
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved successfully!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Stack Summary")
	fmt.Fprintln(stdout, "-------------")
	fmt.Fprintf(stdout, "  Stack:    %s\n", cfg.Stack)
	fmt.Fprintf(stdout, "  Provider: %s\n", cfg.Provider)
	for _, role := range topology.AllRoles() {
		rc := cfg.Roles.Role(role)
		if !rc.Isolate {
			continue
		}
		line := fmt.Sprintf("  Isolated: %s", role)
		if len(rc.Colocate) > 0 {
			line += fmt.Sprintf(" (with %v)", rc.Colocate)
		}
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	if cfg.Provider == config.ProviderHCloud {
		fmt.Fprintln(stdout, "  1. Set your Hetzner Cloud API token:")
		fmt.Fprintln(stdout, "     export HCLOUD_TOKEN=<your-token>")
	} else {
		fmt.Fprintln(stdout, "  1. Select your AWS credentials:")
		fmt.Fprintln(stdout, "     export AWS_CLI_PROFILE=<profile>")
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Review the planned groups and nodes:")
	fmt.Fprintf(stdout, "     clusterform plan -c %s\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  3. Generate the template:")
	fmt.Fprintf(stdout, "     clusterform generate -c %s > template.json\n", outputPath)
	fmt.Fprintln(stdout)
}
