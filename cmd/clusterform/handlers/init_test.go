package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/config/wizard"
	"github.com/imamik/clusterform/internal/topology"
)

// saveAndRestoreInitFactories saves and restores init factory functions.
func saveAndRestoreInitFactories(t *testing.T) {
	origFileExists := wizardFileExists
	origConfirmOverwrite := wizardConfirmOverwrite
	origRunWizard := wizardRunWizard
	origBuildConfig := wizardBuildConfig
	origWriteConfig := wizardWriteConfig

	t.Cleanup(func() {
		wizardFileExists = origFileExists
		wizardConfirmOverwrite = origConfirmOverwrite
		wizardRunWizard = origRunWizard
		wizardBuildConfig = origBuildConfig
		wizardWriteConfig = origWriteConfig
	})
}

func TestInit(t *testing.T) {
	out, _ := captureOutput(t)
	saveAndRestoreInitFactories(t)

	var written string
	var writtenFull bool
	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(_ context.Context, advanced bool) (*wizard.WizardResult, error) {
		assert.True(t, advanced)
		return &wizard.WizardResult{
			Stack:    "prod",
			Provider: wizard.ProviderHCloud,
			Isolated: []topology.Role{topology.RoleRouter},
			Colocate: map[topology.Role][]topology.Role{topology.RoleRouter: {topology.RoleData}},
			HCloud:   &wizard.HCloudAnswers{Location: "hel1"},
		}, nil
	}
	wizardWriteConfig = func(cfg *config.Config, path string, full bool) error {
		written = path
		writtenFull = full
		assert.Equal(t, "prod", cfg.Stack)
		return nil
	}

	require.NoError(t, Init(context.Background(), "stack.yaml", true, true))

	assert.Equal(t, "stack.yaml", written)
	assert.True(t, writtenFull)
	assert.Contains(t, out.String(), "Running in advanced mode")
	assert.Contains(t, out.String(), "Configuration saved successfully")
	assert.Contains(t, out.String(), "Isolated: router (with [data])")
	assert.Contains(t, out.String(), "HCLOUD_TOKEN")
	assert.Contains(t, out.String(), "clusterform generate -c stack.yaml")
}

func TestInit_ExistingFile(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		out, _ := captureOutput(t)
		saveAndRestoreInitFactories(t)

		wizardFileExists = func(string) bool { return true }
		wizardConfirmOverwrite = func(string) (bool, error) { return false, nil }
		wizardRunWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
			t.Fatal("wizard must not run")
			return nil, nil
		}

		require.NoError(t, Init(context.Background(), "clusterform.yaml", false, false))
		assert.Contains(t, out.String(), "existing configuration kept")
	})

	t.Run("prompt failure", func(t *testing.T) {
		_, _ = captureOutput(t)
		saveAndRestoreInitFactories(t)

		wizardFileExists = func(string) bool { return true }
		wizardConfirmOverwrite = func(string) (bool, error) { return false, errors.New("EOF") }

		err := Init(context.Background(), "clusterform.yaml", false, false)
		assert.ErrorContains(t, err, "failed to read confirmation")
	})
}

func TestInit_WizardCanceled(t *testing.T) {
	_, _ = captureOutput(t)
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		return nil, errors.New("user aborted")
	}

	err := Init(context.Background(), "clusterform.yaml", false, false)
	assert.ErrorContains(t, err, "wizard canceled")
}

func TestInit_WriteFailure(t *testing.T) {
	out, _ := captureOutput(t)
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		return &wizard.WizardResult{Stack: "prod", Provider: wizard.ProviderAWS, AWS: &wizard.AWSAnswers{Attach: wizard.AttachVPC, ID: "vpc-1"}}, nil
	}
	wizardWriteConfig = func(*config.Config, string, bool) error { return errors.New("read-only file system") }

	err := Init(context.Background(), "clusterform.yaml", false, false)
	assert.ErrorContains(t, err, "failed to write config")
	assert.NotContains(t, out.String(), "Configuration saved")
}

func TestPrintWelcome(t *testing.T) {
	out, _ := captureOutput(t)
	printWelcome(false, false)
	assert.Contains(t, out.String(), "clusterform - stack templates")
	assert.Contains(t, out.String(), "Minimal output mode")
	assert.NotContains(t, out.String(), "advanced mode")
}
