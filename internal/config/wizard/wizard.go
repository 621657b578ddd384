package wizard

import (
	"context"
	"fmt"
	"slices"

	"github.com/imamik/clusterform/internal/topology"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	Stack    string
	Provider string

	// Isolated lists the roles that get dedicated nodes.
	Isolated []topology.Role
	// Colocate holds, per isolated role, the roles sharing its nodes.
	Colocate map[topology.Role][]topology.Role
	// Instances holds the initial node count per role.
	Instances map[topology.Role]int

	AWS    *AWSAnswers
	HCloud *HCloudAnswers

	// Advanced options (only set in advanced mode)
	AdvancedOptions *AdvancedOptions
}

// AWSAnswers are the aws provider settings.
type AWSAnswers struct {
	Attach                       string
	ID                           string
	Profile                      string
	Channel                      string
	DisableTerminationProtection bool
}

// HCloudAnswers are the hcloud provider settings.
type HCloudAnswers struct {
	Location string
}

// AdvancedOptions holds advanced configuration options.
type AdvancedOptions struct {
	InstanceSizes map[topology.Role]string
	Fragments     string
	Pushgateway   string
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, additional configuration options are shown.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := &WizardResult{
		Colocate:  make(map[topology.Role][]topology.Role),
		Instances: make(map[topology.Role]int),
	}

	if err := runStackGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}

	if err := runIsolationGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("isolation: %w", err)
	}

	for _, role := range result.Isolated {
		if len(ColocateOptions(role)) == 0 {
			continue
		}
		if err := runColocationGroup(ctx, result, role); err != nil {
			return nil, fmt.Errorf("colocation for %s: %w", role, err)
		}
	}

	if err := runCountsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("instance counts: %w", err)
	}

	switch result.Provider {
	case ProviderHCloud:
		result.HCloud = &HCloudAnswers{}
		if err := runHCloudGroup(ctx, result.HCloud); err != nil {
			return nil, fmt.Errorf("hcloud: %w", err)
		}
	default:
		result.AWS = &AWSAnswers{}
		if err := runAWSGroup(ctx, result.AWS); err != nil {
			return nil, fmt.Errorf("aws: %w", err)
		}
	}

	if advanced {
		advOpts := &AdvancedOptions{InstanceSizes: make(map[topology.Role]string)}
		if err := runAdvancedGroup(ctx, result, advOpts); err != nil {
			return nil, fmt.Errorf("advanced: %w", err)
		}
		result.AdvancedOptions = advOpts
	}

	return result, nil
}

// countedRoles returns the roles whose instance count is asked for: every
// isolated role plus the fallback group.
func countedRoles(isolated []topology.Role) []topology.Role {
	roles := make([]topology.Role, 0, len(isolated)+1)
	for _, r := range topology.AllRoles() {
		if r == topology.RoleOther || slices.Contains(isolated, r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// quorumOwner resolves the chosen placement with default counts and returns
// the owner of the group that will host the coordination quorum. Its count
// must be odd.
func quorumOwner(result *WizardResult) topology.Role {
	intents := topology.DefaultIntents()
	for _, r := range result.Isolated {
		in := intents[r]
		in.Isolated = true
		in.Colocate = topology.NewRoleSet(result.Colocate[r]...)
		intents[r] = in
	}
	res, err := topology.ResolveDetailed(intents)
	if err != nil {
		return topology.RoleControl
	}
	return res.QuorumHost().Owner
}
