package wizard

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/clusterform/internal/topology"
)

// stackNameRegex mirrors the config package's stack name rule.
var stackNameRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// runStackGroup prompts for the stack name and provider.
func runStackGroup(ctx context.Context, result *WizardResult) error {
	result.Provider = ProviderAWS

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stack Name").
				Description("Names every resource, tag and the internal coordination domain").
				Placeholder("prod").
				Value(&result.Stack).
				Validate(validateStackName),
			huh.NewSelect[string]().
				Title("Provider").
				Description("Which template format to generate").
				Options(ProviderOptions...).
				Value(&result.Provider),
		).Title("Stack"),
	).RunWithContext(ctx)
}

// runIsolationGroup prompts for the roles that get their own nodes.
func runIsolationGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[topology.Role]().
				Title("Isolated Roles").
				Description("Roles left unselected share the fallback group").
				Options(IsolateOptions()...).
				Value(&result.Isolated),
		).Title("Placement"),
	).RunWithContext(ctx)
}

// runColocationGroup prompts for the roles that share an isolated role's nodes.
func runColocationGroup(ctx context.Context, result *WizardResult, role topology.Role) error {
	var colocate []topology.Role

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[topology.Role]().
				Title(fmt.Sprintf("Share %s nodes with", RoleLabel(role))).
				Description("Earlier isolations win when two roles claim the same target").
				Options(ColocateOptions(role)...).
				Value(&colocate),
		).Title("Colocation"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if len(colocate) > 0 {
		result.Colocate[role] = colocate
	}
	return nil
}

// runCountsGroup prompts for the initial node count of every group.
func runCountsGroup(ctx context.Context, result *WizardResult) error {
	host := quorumOwner(result)
	defaults := topology.DefaultIntents()

	var fields []huh.Field
	selects := make(map[topology.Role]*int)
	inputs := make(map[topology.Role]*string)

	for _, role := range countedRoles(result.Isolated) {
		if role.QuorumEligible() || role == host {
			count := defaults[role].MinInstances
			selects[role] = &count
			fields = append(fields, huh.NewSelect[int]().
				Title(RoleLabel(role)).
				Description("Hosts quorum members, so the count must be odd").
				Options(QuorumCountOptions...).
				Value(&count))
			continue
		}

		text := strconv.Itoa(defaults[role].MinInstances)
		inputs[role] = &text
		fields = append(fields, huh.NewInput().
			Title(RoleLabel(role)).
			Description("Initial node count of the elastic group").
			Value(&text).
			Validate(validateCount))
	}

	if err := huh.NewForm(huh.NewGroup(fields...).Title("Instance Counts")).RunWithContext(ctx); err != nil {
		return err
	}

	for role, count := range selects {
		result.Instances[role] = *count
	}
	for role, text := range inputs {
		n, err := strconv.Atoi(strings.TrimSpace(*text))
		if err != nil {
			return fmt.Errorf("%s: %w", role, errCountInvalid)
		}
		result.Instances[role] = n
	}
	return nil
}

// runAWSGroup prompts for the aws provider settings.
func runAWSGroup(ctx context.Context, answers *AWSAnswers) error {
	answers.Attach = AttachVPC
	answers.Channel = "stable"

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Network").
				Description("Zones and subnets are discovered from the VPC").
				Options(AttachOptions...).
				Value(&answers.Attach),
		).Title("AWS"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	idTitle, validateID := "VPC ID", validateVPCID
	if answers.Attach == AttachBastion {
		idTitle, validateID = "Bastion Instance ID", validateBastionID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(idTitle).
				Value(&answers.ID).
				Validate(validateID),
			huh.NewInput().
				Title("AWS CLI Profile (Optional)").
				Description("Leave empty to use AWS_CLI_PROFILE or the default credentials chain").
				Value(&answers.Profile),
			huh.NewSelect[string]().
				Title("Flatcar Channel").
				Options(ChannelOptions...).
				Value(&answers.Channel),
			huh.NewConfirm().
				Title("Disable Termination Protection").
				Description("Quorum nodes can then be terminated by accident").
				Value(&answers.DisableTerminationProtection),
		).Title("AWS"),
	).RunWithContext(ctx)
}

// runHCloudGroup prompts for the hcloud provider settings.
func runHCloudGroup(ctx context.Context, answers *HCloudAnswers) error {
	answers.Location = Locations[0].Value

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Location").
				Description("Default location of the elastic groups").
				Options(LocationsToOptions()...).
				Value(&answers.Location),
		).Title("Hetzner Cloud"),
	).RunWithContext(ctx)
}

// runAdvancedGroup prompts for instance sizes and integrations (advanced mode).
func runAdvancedGroup(ctx context.Context, result *WizardResult, opts *AdvancedOptions) error {
	var fields []huh.Field
	sizes := make(map[topology.Role]*string)
	for _, role := range countedRoles(result.Isolated) {
		size := new(string)
		sizes[role] = size
		fields = append(fields, huh.NewInput().
			Title(RoleLabel(role)+" Instance Size (Optional)").
			Description("Leave empty for the template default").
			Value(size))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Fragments (Optional)").
			Description("Directory or s3://bucket/prefix with custom template fragments").
			Value(&opts.Fragments),
		huh.NewInput().
			Title("Pushgateway URL (Optional)").
			Description("Run metrics are pushed here after every generation").
			Value(&opts.Pushgateway),
	)

	if err := huh.NewForm(huh.NewGroup(fields...).Title("Advanced")).RunWithContext(ctx); err != nil {
		return err
	}

	for role, size := range sizes {
		if s := strings.TrimSpace(*size); s != "" {
			opts.InstanceSizes[role] = s
		}
	}
	opts.Fragments = strings.TrimSpace(opts.Fragments)
	opts.Pushgateway = strings.TrimSpace(opts.Pushgateway)
	return nil
}

// validateStackName validates the stack name format.
func validateStackName(s string) error {
	if s == "" {
		return errStackRequired
	}
	if !stackNameRegex.MatchString(s) {
		return errStackInvalid
	}
	return nil
}

// validateCount validates a positive integer instance count.
func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errCountInvalid
	}
	return nil
}

func validateVPCID(s string) error {
	if s == "" {
		return errIDRequired
	}
	if !strings.HasPrefix(s, "vpc-") {
		return errVPCIDInvalid
	}
	return nil
}

func validateBastionID(s string) error {
	if s == "" {
		return errIDRequired
	}
	if !strings.HasPrefix(s, "i-") {
		return errBastionIDInvalid
	}
	return nil
}
