package config

import (
	"github.com/imamik/clusterform/internal/topology"
)

// DefaultConfigFilename is the configuration file looked up by the CLI.
const DefaultConfigFilename = "clusterform.yaml"

// Supported providers.
const (
	ProviderAWS    = "aws"
	ProviderHCloud = "hcloud"
)

// Default provider settings.
const (
	DefaultProvider = ProviderAWS
	DefaultChannel  = "stable"
	DefaultVersion  = "current"
	DefaultLocation = "fsn1"
	DefaultImage    = "flatcar"
)

// Config is the on-disk configuration of one stack.
type Config struct {
	Stack    string `yaml:"stack" validate:"required,max=48,stackname"`
	Provider string `yaml:"provider,omitempty" validate:"omitempty,oneof=aws hcloud"`

	Roles RolesConfig `yaml:"roles,omitempty"`

	AWS    AWSConfig    `yaml:"aws,omitempty"`
	HCloud HCloudConfig `yaml:"hcloud,omitempty"`

	// Fragments overrides the built-in template fragments. Either a local
	// directory or an s3://bucket/prefix location.
	Fragments string `yaml:"fragments,omitempty" validate:"omitempty,fragments"`

	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// RolesConfig holds the placement request of every role.
type RolesConfig struct {
	Control      RoleConfig `yaml:"control,omitempty"`
	Data         RoleConfig `yaml:"data,omitempty"`
	Router       RoleConfig `yaml:"router,omitempty"`
	Coordination RoleConfig `yaml:"coordination,omitempty"`
	Other        RoleConfig `yaml:"other,omitempty"`
}

// RoleConfig is one role's placement request. Zero values fall back to the
// topology defaults.
type RoleConfig struct {
	Isolate      bool            `yaml:"isolate,omitempty"`
	Colocate     []topology.Role `yaml:"colocate,omitempty"`
	Instances    int             `yaml:"instances,omitempty" validate:"gte=0"`
	InstancesMax int             `yaml:"instances-max,omitempty" validate:"gte=0"`
	InstanceSize string          `yaml:"instance-size,omitempty" validate:"omitempty,excludesall= \t"`
}

// AWSConfig configures the CloudFormation target.
type AWSConfig struct {
	Profile   string `yaml:"profile,omitempty"`
	Region    string `yaml:"region,omitempty"`
	VPCID     string `yaml:"vpc-id,omitempty" validate:"omitempty,startswith=vpc-"`
	BastionID string `yaml:"bastion-id,omitempty" validate:"omitempty,startswith=i-"`

	// Zones and subnets are discovered from the VPC unless listed here.
	Zones          []string `yaml:"vpc-zones,omitempty"`
	Subnets        []string `yaml:"vpc-subnets,omitempty" validate:"omitempty,dive,startswith=subnet-"`
	PrivateSubnets []string `yaml:"vpc-private-subnets,omitempty" validate:"omitempty,dive,startswith=subnet-"`

	Channel string `yaml:"channel,omitempty" validate:"omitempty,oneof=stable beta alpha"`
	Version string `yaml:"version,omitempty"`

	DisableTerminationProtection bool `yaml:"disable-termination-protection,omitempty"`
}

// HCloudConfig configures the Terraform target.
type HCloudConfig struct {
	Location string `yaml:"location,omitempty"`
	Image    string `yaml:"image,omitempty"`
	// Network is the existing private network. Defaults to the stack name.
	Network string `yaml:"network,omitempty"`

	DisableDeleteProtection bool `yaml:"disable-delete-protection,omitempty"`
}

// MetricsConfig configures the optional pushgateway export.
type MetricsConfig struct {
	Pushgateway string `yaml:"pushgateway,omitempty" validate:"omitempty,url"`
}

// Role returns the configuration of r.
func (r *RolesConfig) Role(role topology.Role) *RoleConfig {
	switch role {
	case topology.RoleControl:
		return &r.Control
	case topology.RoleData:
		return &r.Data
	case topology.RoleRouter:
		return &r.Router
	case topology.RoleCoordination:
		return &r.Coordination
	default:
		return &r.Other
	}
}

// Intents converts the role settings to topology intents, starting from
// topology.DefaultIntents for anything left unset.
func (c *Config) Intents() topology.Intents {
	intents := topology.DefaultIntents()
	for _, role := range topology.AllRoles() {
		rc := c.Roles.Role(role)
		in := intents[role]
		in.Isolated = rc.Isolate
		in.Colocate = topology.NewRoleSet(rc.Colocate...)
		if rc.Instances > 0 {
			in.MinInstances = rc.Instances
		}
		if rc.InstancesMax > 0 {
			in.MaxInstances = rc.InstancesMax
		}
		in.InstanceSize = rc.InstanceSize
		intents[role] = in
	}
	return intents
}

// ApplyDefaults fills unset provider settings.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.AWS.Channel == "" {
		c.AWS.Channel = DefaultChannel
	}
	if c.AWS.Version == "" {
		c.AWS.Version = DefaultVersion
	}
	if c.HCloud.Location == "" {
		c.HCloud.Location = DefaultLocation
	}
	if c.HCloud.Image == "" {
		c.HCloud.Image = DefaultImage
	}
	if c.HCloud.Network == "" {
		c.HCloud.Network = c.Stack
	}
}
