package template

import (
	"fmt"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/topology"
	"github.com/imamik/clusterform/internal/util/naming"
)

// GroupSpec describes an elastic worker group to a Target.
type GroupSpec struct {
	Stack    string
	Group    topology.Group
	UserData string
}

// NodeSpec describes one addressable quorum node to a Target.
type NodeSpec struct {
	Stack    string
	Domain   string
	Group    topology.Group
	Plan     bootstrap.NodePlan
	UserData string
}

// IngressSpec names the group receiving the load-balancer attachment. Nodes
// is set only when the group is the quorum host.
type IngressSpec struct {
	Stack string
	Group topology.Group
	Nodes []NodeSpec
}

// Target writes fragments into a provider's document format.
type Target interface {
	Name() string
	// Validate checks intents against what the base document allows.
	Validate(base Document, groups []topology.Group) error
	// Prepare applies run-wide settings to the base document.
	Prepare(doc Document, stack string) error
	ElasticGroup(doc, fragment Document, spec GroupSpec) error
	StaticNode(doc, fragment Document, spec NodeSpec) error
	NodeRecord(doc, fragment Document, spec NodeSpec) error
	DiscoveryRecord(doc Document, nodes []NodeSpec) error
	AttachIngress(doc Document, spec IngressSpec) error
}

// Providers lists the supported target names.
var Providers = []string{ProviderAWS, ProviderHCloud}

const (
	ProviderAWS    = "aws"
	ProviderHCloud = "hcloud"
)

func instanceSizeError(g topology.Group, allowed []string) error {
	return &topology.InvalidIntentError{
		Role:   g.Owner,
		Reason: fmt.Sprintf("instance size %q is not one of %v", g.InstanceSize, allowed),
	}
}

func domainOf(stack string) string {
	return naming.CoordinationDomain(stack)
}
