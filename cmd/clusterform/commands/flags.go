package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/topology"
)

// roleFlag names the command-line flags of one role.
type roleFlag struct {
	role topology.Role
	// prefix starts the -colocate, -instances, -instances-max and
	// -instance-size flags.
	prefix string
	// isolate is empty for roles that cannot be isolated.
	isolate string
	// colocate is false for roles that never take colocation targets.
	colocate bool
}

var roleFlags = []roleFlag{
	{role: topology.RoleRouter, prefix: "router-mesh", isolate: "isolate-router", colocate: true},
	{role: topology.RoleData, prefix: "data-plane", isolate: "isolate-data-plane", colocate: true},
	{role: topology.RoleControl, prefix: "control-plane", isolate: "isolate-control-plane", colocate: true},
	{role: topology.RoleCoordination, prefix: "coordination", isolate: "isolate-coordination"},
	{role: topology.RoleOther, prefix: "other"},
}

// bindStackFlags registers every flag that can override the configuration
// file. Values are read back through the command's flag set, so only flags
// that were actually given are applied.
func bindStackFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.String("stack", "", "Name of the stack being set up")
	f.String("provider", "", "Deployment target: aws or hcloud (default aws)")
	f.String("fragments", "", "Template fragments directory or s3://bucket/prefix")

	f.String("vpc-id", "", "VPC ID (aws)")
	f.String("bastion-id", "", "EC2 instance ID of the bastion host; its VPC and security group are used (aws)")
	f.String("aws-profile", "", "AWS CLI profile used for discovery (default $AWS_CLI_PROFILE)")
	f.StringSlice("vpc-zones", nil, "VPC zones, discovered unless given")
	f.StringSlice("vpc-subnets", nil, "Public subnets, one per zone")
	f.StringSlice("vpc-private-subnets", nil, "Private subnets, one per zone")
	f.String("channel", "", "Flatcar channel: stable, beta or alpha (default stable)")
	f.String("version", "", "Flatcar version (default current)")
	f.Bool("disable-termination-protection", false, "Allow the quorum instances to be terminated")

	f.String("location", "", "Hetzner Cloud location (hcloud)")

	for _, rf := range roleFlags {
		name := rf.role.String()
		if rf.isolate != "" {
			f.Bool(rf.isolate, false, fmt.Sprintf("Give the %s role dedicated nodes", name))
		}
		if rf.colocate {
			f.StringSlice(rf.prefix+"-colocate", nil, fmt.Sprintf("Roles that share the %s nodes when it is isolated", name))
		}
		f.Int(rf.prefix+"-instances", 0, fmt.Sprintf("Initial number of %s nodes", name))
		f.Int(rf.prefix+"-instances-max", 0, fmt.Sprintf("Maximum number of %s nodes", name))
		f.String(rf.prefix+"-instance-size", "", fmt.Sprintf("Instance size of %s nodes, otherwise the template default", name))
	}

	cmd.MarkFlagsMutuallyExclusive("vpc-id", "bastion-id")
}

// applyStackFlags copies the flags given on the command line into cfg.
func applyStackFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	setStrings := func(name string, dst *[]string) {
		if f.Changed(name) {
			*dst, _ = f.GetStringSlice(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if f.Changed(name) {
			*dst, _ = f.GetBool(name)
		}
	}
	setInt := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}

	setString("stack", &cfg.Stack)
	setString("provider", &cfg.Provider)
	setString("fragments", &cfg.Fragments)

	setString("aws-profile", &cfg.AWS.Profile)
	setStrings("vpc-zones", &cfg.AWS.Zones)
	setStrings("vpc-subnets", &cfg.AWS.Subnets)
	setStrings("vpc-private-subnets", &cfg.AWS.PrivateSubnets)
	setString("channel", &cfg.AWS.Channel)
	setString("version", &cfg.AWS.Version)
	setBool("disable-termination-protection", &cfg.AWS.DisableTerminationProtection)

	// The file may name the other attachment; the flag replaces it.
	if f.Changed("vpc-id") {
		cfg.AWS.VPCID, _ = f.GetString("vpc-id")
		cfg.AWS.BastionID = ""
	}
	if f.Changed("bastion-id") {
		cfg.AWS.BastionID, _ = f.GetString("bastion-id")
		cfg.AWS.VPCID = ""
	}

	setString("location", &cfg.HCloud.Location)

	for _, rf := range roleFlags {
		rc := cfg.Roles.Role(rf.role)
		if rf.isolate != "" {
			setBool(rf.isolate, &rc.Isolate)
		}
		if rf.colocate && f.Changed(rf.prefix+"-colocate") {
			names, _ := f.GetStringSlice(rf.prefix + "-colocate")
			roles, err := parseRoles(names)
			if err != nil {
				return fmt.Errorf("--%s-colocate: %w", rf.prefix, err)
			}
			rc.Colocate = roles
		}
		setInt(rf.prefix+"-instances", &rc.Instances)
		setInt(rf.prefix+"-instances-max", &rc.InstancesMax)
		setString(rf.prefix+"-instance-size", &rc.InstanceSize)
	}
	return nil
}

// parseRoles converts role names, dropping duplicates.
func parseRoles(names []string) ([]topology.Role, error) {
	var set topology.RoleSet
	for _, n := range names {
		r, err := topology.ParseRole(n)
		if err != nil {
			return nil, err
		}
		set = set.With(r)
	}
	return set.Roles(), nil
}
