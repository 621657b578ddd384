package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/topology"
)

// Provider choices.
const (
	ProviderAWS    = config.ProviderAWS
	ProviderHCloud = config.ProviderHCloud
)

// Network attachment choices for the aws provider.
const (
	AttachVPC     = "vpc"
	AttachBastion = "bastion"
)

// LocationOption represents a Hetzner Cloud datacenter location.
type LocationOption struct {
	Value       string
	Label       string
	Description string
}

// Locations contains the Hetzner Cloud locations offered by the wizard.
var Locations = []LocationOption{
	{Value: "fsn1", Label: "fsn1", Description: "Falkenstein, Germany"},
	{Value: "nbg1", Label: "nbg1", Description: "Nuremberg, Germany"},
	{Value: "hel1", Label: "hel1", Description: "Helsinki, Finland"},
	{Value: "ash", Label: "ash", Description: "Ashburn, USA"},
	{Value: "hil", Label: "hil", Description: "Hillsboro, USA"},
	{Value: "sin", Label: "sin", Description: "Singapore"},
}

// ProviderOptions contains the supported deployment targets.
var ProviderOptions = []huh.Option[string]{
	huh.NewOption("AWS (CloudFormation)", ProviderAWS),
	huh.NewOption("Hetzner Cloud (Terraform)", ProviderHCloud),
}

// AttachOptions selects how the aws stack finds its VPC.
var AttachOptions = []huh.Option[string]{
	huh.NewOption("VPC id", AttachVPC),
	huh.NewOption("Bastion instance (VPC and SSH access are taken from it)", AttachBastion),
}

// ChannelOptions contains the Flatcar release channels.
var ChannelOptions = []huh.Option[string]{
	huh.NewOption("stable (Recommended)", "stable"),
	huh.NewOption("beta", "beta"),
	huh.NewOption("alpha", "alpha"),
}

// QuorumCountOptions contains the member counts allowed for roles that may
// host the coordination quorum.
var QuorumCountOptions = []huh.Option[int]{
	huh.NewOption("1 (Development only)", 1),
	huh.NewOption("3 (Recommended)", 3),
	huh.NewOption("5 (Tolerates two failures)", 5),
	huh.NewOption("7", 7),
}

// IsolatableRoles are the roles the wizard offers to isolate, in resolution
// order.
var IsolatableRoles = []topology.Role{
	topology.RoleRouter,
	topology.RoleData,
	topology.RoleControl,
	topology.RoleCoordination,
}

var roleLabels = map[topology.Role]string{
	topology.RoleControl:      "Control plane",
	topology.RoleData:         "Data plane",
	topology.RoleRouter:       "Router mesh",
	topology.RoleCoordination: "Coordination (etcd quorum)",
	topology.RoleOther:        "Everything else",
}

// RoleLabel returns the human-readable name of a role.
func RoleLabel(r topology.Role) string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return r.String()
}

// IsolateOptions converts IsolatableRoles to huh options.
func IsolateOptions() []huh.Option[topology.Role] {
	opts := make([]huh.Option[topology.Role], len(IsolatableRoles))
	for i, r := range IsolatableRoles {
		opts[i] = huh.NewOption(RoleLabel(r), r)
	}
	return opts
}

// ColocateOptions lists the roles that may share r's nodes.
func ColocateOptions(r topology.Role) []huh.Option[topology.Role] {
	var opts []huh.Option[topology.Role]
	for _, other := range topology.AllRoles() {
		if r.CanColocate(other) {
			opts = append(opts, huh.NewOption(RoleLabel(other), other))
		}
	}
	return opts
}

// LocationsToOptions converts LocationOption slice to huh.Option slice.
func LocationsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Locations))
	for i, loc := range Locations {
		opts[i] = huh.NewOption(loc.Label+" - "+loc.Description, loc.Value)
	}
	return opts
}
