package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/clusterform/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is true, provider defaults are written out explicitly.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	out := cfg
	if fullOutput {
		full := *cfg
		full.ApplyDefaults()
		out = &full
	}

	yamlBytes, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(cfg, outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// generateHeader creates the YAML file header comment.
func generateHeader(cfg *config.Config, outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: Unset values use built-in defaults. Use --full to write them out."
	if fullOutput {
		mode = "full"
		note = ""
	}

	credentials := "#   AWS_CLI_PROFILE - AWS CLI profile used for discovery (optional)"
	if cfg.Provider == config.ProviderHCloud {
		credentials = "#   HCLOUD_TOKEN - Your Hetzner Cloud API token"
	}

	return fmt.Sprintf(`# clusterform stack configuration
# Generated by: clusterform init
# Generated at: %s
# Output mode: %s%s
#
# Environment:
%s
#
# Usage:
#   clusterform generate -c %s > template.json
`, time.Now().Format(time.RFC3339), mode, note, credentials, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
