package handlers

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/template"
	testutil "github.com/imamik/clusterform/internal/testing"
)

// saveAndRestoreFactories restores every factory variable after the test.
func saveAndRestoreFactories(t *testing.T) {
	origStdout, origStderr, origIsTerminal := stdout, stderr, isTerminal
	origStderrTerminal, origProgress := stderrIsTerminal, runProgress
	origFindConfig, origLoadConfig := findConfigFile, loadConfigFile
	origEnvironment, origFragments := newEnvironment, newFragmentStore
	origAWS, origHCloud, origImages, origS3 := newAWSClient, newHCloudClient, newImageCatalog, newS3Client

	t.Cleanup(func() {
		stdout, stderr, isTerminal = origStdout, origStderr, origIsTerminal
		stderrIsTerminal, runProgress = origStderrTerminal, origProgress
		findConfigFile, loadConfigFile = origFindConfig, origLoadConfig
		newEnvironment, newFragmentStore = origEnvironment, origFragments
		newAWSClient, newHCloudClient, newImageCatalog, newS3Client = origAWS, origHCloud, origImages, origS3
	})
}

// captureOutput redirects stdout and stderr into buffers for the test.
func captureOutput(t *testing.T) (out, logs *bytes.Buffer) {
	t.Helper()
	saveAndRestoreFactories(t)
	out, logs = &bytes.Buffer{}, &bytes.Buffer{}
	stdout, stderr = out, logs
	isTerminal = func() bool { return false }
	stderrIsTerminal = func() bool { return false }
	findConfigFile = func() (string, error) { return "", config.ErrNotFound }
	return out, logs
}

// useFleet runs the hcloud target with built-in fragments against fleet.
func useFleet(fleet *testutil.FakeFleet) {
	newEnvironment = func(_ context.Context, cfg *config.Config, _ *config.Timeouts, _ logr.Logger) (*environment, error) {
		target := template.NewTerraform(template.TerraformOptions{
			Network:  cfg.HCloud.Network,
			Location: cfg.HCloud.Location,
			Image:    cfg.HCloud.Image,
		})
		return &environment{Target: target, Oracle: fleet}, nil
	}
}

// stackOptions configures an hcloud stack named prod through the override
// hook, the way command-line flags do.
func stackOptions(mutate ...func(cfg *config.Config)) Options {
	return Options{
		Override: func(cfg *config.Config) error {
			cfg.Stack = "prod"
			cfg.Provider = config.ProviderHCloud
			for _, m := range mutate {
				m(cfg)
			}
			return nil
		},
	}
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{Discovery: 10 * time.Second, RetryMaxAttempts: 2, RetryInitialDelay: time.Millisecond}
}
