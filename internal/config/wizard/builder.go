package wizard

import (
	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/topology"
)

// BuildConfig creates a Config struct from the wizard result.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		Stack:    result.Stack,
		Provider: result.Provider,
	}

	for _, role := range result.Isolated {
		rc := cfg.Roles.Role(role)
		rc.Isolate = true
		rc.Colocate = result.Colocate[role]
	}
	for role, n := range result.Instances {
		rc := cfg.Roles.Role(role)
		rc.Instances = n
		rc.InstancesMax = maxDefault(role, n)
	}

	if result.AWS != nil {
		applyAWSAnswers(cfg, result.AWS)
	}
	if result.HCloud != nil {
		cfg.HCloud.Location = result.HCloud.Location
	}

	if result.AdvancedOptions != nil {
		applyAdvancedOptions(cfg, result.AdvancedOptions)
	}

	return cfg
}

func applyAWSAnswers(cfg *config.Config, answers *AWSAnswers) {
	switch answers.Attach {
	case AttachBastion:
		cfg.AWS.BastionID = answers.ID
	default:
		cfg.AWS.VPCID = answers.ID
	}
	cfg.AWS.Profile = answers.Profile
	cfg.AWS.Channel = answers.Channel
	cfg.AWS.DisableTerminationProtection = answers.DisableTerminationProtection
}

// applyAdvancedOptions applies advanced options to the config.
func applyAdvancedOptions(cfg *config.Config, opts *AdvancedOptions) {
	for role, size := range opts.InstanceSizes {
		cfg.Roles.Role(role).InstanceSize = size
	}
	cfg.Fragments = opts.Fragments
	cfg.Metrics.Pushgateway = opts.Pushgateway
}

// maxDefault raises a role's maximum when the chosen count exceeds the
// topology default, keeping an odd maximum for quorum roles.
func maxDefault(role topology.Role, count int) int {
	limit := topology.DefaultIntents()[role].MaxInstances
	if count <= limit {
		return 0
	}
	if role.QuorumEligible() && count%2 == 0 {
		return count + 1
	}
	return count
}
