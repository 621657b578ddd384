package template

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/imamik/clusterform/internal/topology"
	"github.com/imamik/clusterform/internal/util/naming"
)

// SubnetPair is the public and private subnet of one availability zone.
type SubnetPair struct {
	Public  string `json:"public"`
	Private string `json:"private"`
}

// Network is the already-existing VPC the cluster is deployed into.
type Network struct {
	VPCID          string
	Zones          []string
	PublicSubnets  []string
	PrivateSubnets []string
	Subnets        map[string]SubnetPair
}

// Bastion is the SSH jump host whose security group may reach the nodes.
type Bastion struct {
	InstanceID      string
	SecurityGroupID string
	VPCID           string
}

// CloudFormationOptions are the run-wide settings of the aws target.
type CloudFormationOptions struct {
	Network Network
	// Bastion replaces open SSH ingress when set.
	Bastion *Bastion
	// Images maps region to virtualization type to image id.
	Images                       map[string]map[string]string
	DisableTerminationProtection bool
}

// CloudFormation renders AWS CloudFormation JSON.
type CloudFormation struct {
	opts CloudFormationOptions
}

// NewCloudFormation creates the aws target.
func NewCloudFormation(opts CloudFormationOptions) *CloudFormation {
	return &CloudFormation{opts: opts}
}

const (
	cfnResources      = "Resources"
	cfnParameters     = "Parameters"
	cfnProperties     = "Properties"
	cfnLoadBalancer   = "WebLoadBalancer"
	cfnInternalDNS    = "CoordinationInternalDNS"
	cfnHostedZone     = "CoordinationHostedZone"
	cfnSecurityGroup  = "ClusterSecurityGroup"
	cfnBastionParam   = "BastionSecurityGroupID"
	cfnSSHFromParam   = "SSHFrom"
	cfnFragmentLaunch = "LaunchConfig"
	cfnFragmentScale  = "AutoScale"
	cfnFragmentSize   = "PlaneSize"
	cfnFragmentNode   = "Instance"
)

func (c *CloudFormation) Name() string { return ProviderAWS }

// Validate checks instance size overrides against the base InstanceType parameter.
func (c *CloudFormation) Validate(base Document, groups []topology.Group) error {
	param, err := base.Object(cfnParameters, "InstanceType")
	if err != nil {
		return &AssemblyError{Resource: "base", Err: err}
	}
	allowed := stringList(param["AllowedValues"])
	for _, g := range groups {
		if g.InstanceSize != "" && len(allowed) > 0 && !slices.Contains(allowed, g.InstanceSize) {
			return instanceSizeError(g, allowed)
		}
	}
	return nil
}

// Prepare fills the VPC parameters, subnet and image mappings, the private
// hosted zone and the SSH ingress choice.
func (c *CloudFormation) Prepare(doc Document, stack string) error {
	params, err := doc.Object(cfnParameters)
	if err != nil {
		return err
	}
	net := c.opts.Network
	setDefault(params, "VPC", net.VPCID)
	setDefault(params, "VPCAvailabilityZones", strings.Join(net.Zones, ","))
	setDefault(params, "VPCPublicSubnets", strings.Join(net.PublicSubnets, ","))
	setDefault(params, "VPCPrivateSubnets", strings.Join(net.PrivateSubnets, ","))

	mappings := doc.Ensure("Mappings")
	subnets := make(map[string]any, len(net.Subnets))
	for zone, pair := range net.Subnets {
		subnets[zone] = map[string]any{"public": pair.Public, "private": pair.Private}
	}
	mappings["VPCSubnets"] = subnets

	images := make(map[string]any, len(c.opts.Images))
	for region, byType := range c.opts.Images {
		entry := make(map[string]any, len(byType))
		for virt, id := range byType {
			entry[virt] = id
		}
		images[region] = entry
	}
	mappings["OSImages"] = images

	zone, err := doc.Object(cfnResources, cfnHostedZone, cfnProperties)
	if err != nil {
		return err
	}
	zone["Name"] = domainOf(stack)

	sg, err := doc.Object(cfnResources, cfnSecurityGroup, cfnProperties)
	if err != nil {
		return err
	}
	ingress, _ := sg["SecurityGroupIngress"].([]any)
	if len(ingress) != 2 {
		return errors.New("cluster security group must have exactly two SSH ingress rules")
	}
	if c.opts.Bastion != nil {
		delete(params, cfnSSHFromParam)
		setDefault(params, cfnBastionParam, c.opts.Bastion.SecurityGroupID)
		sg["SecurityGroupIngress"] = []any{ingress[1]}
	} else {
		delete(params, cfnBastionParam)
		sg["SecurityGroupIngress"] = []any{ingress[0]}
	}
	return nil
}

// ElasticGroup adds a launch configuration, an auto scaling group and the
// group's size parameter.
func (c *CloudFormation) ElasticGroup(doc, fragment Document, spec GroupSpec) error {
	plane := naming.PlaneResource(spec.Group.Owner.ResourceName())
	launchName := plane + cfnFragmentLaunch
	scaleName := plane + cfnFragmentScale
	sizeName := naming.PlaneSizeParameter(spec.Group.Owner.ResourceName())

	launch, ok := fragment[cfnFragmentLaunch].(map[string]any)
	if !ok {
		return fmt.Errorf("fragment has no %s resource", cfnFragmentLaunch)
	}
	scale, ok := fragment[cfnFragmentScale].(map[string]any)
	if !ok {
		return fmt.Errorf("fragment has no %s resource", cfnFragmentScale)
	}
	renameRefs(scale, cfnFragmentLaunch, launchName)
	renameRefs(scale, cfnFragmentSize, sizeName)

	launchProps, err := Document(launch).Object(cfnProperties)
	if err != nil {
		return err
	}
	launchProps["UserData"] = cfnUserData(spec.UserData)
	if spec.Group.InstanceSize != "" {
		launchProps["InstanceType"] = spec.Group.InstanceSize
	}

	scaleProps, err := Document(scale).Object(cfnProperties)
	if err != nil {
		return err
	}
	scaleProps["MaxSize"] = fmt.Sprint(spec.Group.MaxCount)
	scaleProps["Tags"] = []any{
		map[string]any{"Key": "Name", "Value": fmt.Sprintf("%s-%s-plane-node", spec.Stack, spec.Group.Name()), "PropagateAtLaunch": true},
		map[string]any{"Key": "stack", "Value": spec.Stack, "PropagateAtLaunch": true},
	}

	resources := doc.Ensure(cfnResources)
	resources[launchName] = launch
	resources[scaleName] = scale

	doc.Ensure(cfnParameters)[sizeName] = map[string]any{
		"Type":        "Number",
		"Default":     spec.Group.MemberCount,
		"MinValue":    spec.Group.MemberCount,
		"Description": fmt.Sprintf("Number of nodes in the cluster (%d-%d)", spec.Group.MemberCount, spec.Group.MaxCount),
	}
	return nil
}

// StaticNode adds one EC2 instance pinned to the planned zone.
func (c *CloudFormation) StaticNode(doc, fragment Document, spec NodeSpec) error {
	zone := string(spec.Plan.Zone)
	if len(c.opts.Network.Subnets) > 0 {
		if _, ok := c.opts.Network.Subnets[zone]; !ok {
			return fmt.Errorf("zone %s has no subnet mapping in VPC %s", zone, c.opts.Network.VPCID)
		}
	}

	props, err := fragment.Object(cfnProperties)
	if err != nil {
		return err
	}
	if spec.Group.InstanceSize != "" {
		props["InstanceType"] = spec.Group.InstanceSize
	}
	props["AvailabilityZone"] = zone
	ifaces, _ := props["NetworkInterfaces"].([]any)
	if len(ifaces) == 0 {
		return errors.New("static node fragment has no network interface")
	}
	iface, ok := ifaces[0].(map[string]any)
	if !ok {
		return errors.New("static node network interface is not an object")
	}
	iface["SubnetId"] = map[string]any{"Fn::FindInMap": []any{"VPCSubnets", zone, "private"}}

	props["UserData"] = cfnUserData(spec.UserData)
	props["Tags"] = []any{
		map[string]any{"Key": "Name", "Value": spec.Plan.Identity.Tag()},
		map[string]any{"Key": "coordination", "Value": "true"},
		map[string]any{"Key": "stack", "Value": spec.Stack},
	}
	if c.opts.DisableTerminationProtection {
		props["DisableApiTermination"] = false
	}

	doc.Ensure(cfnResources)[naming.StaticNodeResource(spec.Plan.Identity.Ordinal)] = map[string]any(fragment)
	return nil
}

// NodeRecord adds the node's A record to the internal record set group.
func (c *CloudFormation) NodeRecord(doc, fragment Document, spec NodeSpec) error {
	name := naming.StaticNodeResource(spec.Plan.Identity.Ordinal)
	renameRefs(map[string]any(fragment), cfnFragmentNode, name)
	fragment["Name"] = naming.NodeHost(spec.Domain, spec.Plan.Identity.Ordinal)

	dns, err := doc.Object(cfnResources, cfnInternalDNS)
	if err != nil {
		return err
	}
	props, err := Document(dns).Object(cfnProperties)
	if err != nil {
		return err
	}
	appendTo(props, "RecordSets", map[string]any(fragment))
	appendTo(dns, "DependsOn", name)
	return nil
}

// DiscoveryRecord fills the combined SRV record, the first of the record set group.
func (c *CloudFormation) DiscoveryRecord(doc Document, nodes []NodeSpec) error {
	props, err := doc.Object(cfnResources, cfnInternalDNS, cfnProperties)
	if err != nil {
		return err
	}
	sets, _ := props["RecordSets"].([]any)
	if len(sets) == 0 {
		return errors.New("record set group has no SRV record")
	}
	srv, ok := sets[0].(map[string]any)
	if !ok {
		return errors.New("SRV record is not an object")
	}
	for _, n := range nodes {
		srv["Name"] = naming.SRVRecord(n.Domain)
		appendTo(srv, "ResourceRecords", naming.SRVTarget(n.Domain, n.Plan.Identity.Ordinal))
	}
	return nil
}

// AttachIngress registers the group with the web load balancer. Elastic
// groups reference the balancer; static nodes are listed on it.
func (c *CloudFormation) AttachIngress(doc Document, spec IngressSpec) error {
	if len(spec.Nodes) == 0 {
		scaleName := naming.PlaneResource(spec.Group.Owner.ResourceName()) + cfnFragmentScale
		props, err := doc.Object(cfnResources, scaleName, cfnProperties)
		if err != nil {
			return err
		}
		props["LoadBalancerNames"] = []any{map[string]any{"Ref": cfnLoadBalancer}}
		return nil
	}

	props, err := doc.Object(cfnResources, cfnLoadBalancer, cfnProperties)
	if err != nil {
		return err
	}
	for _, n := range spec.Nodes {
		appendTo(props, "Instances", map[string]any{"Ref": naming.StaticNodeResource(n.Plan.Identity.Ordinal)})
	}
	return nil
}

// cfnUserData embeds rendered cloud-config as a base64 line join.
func cfnUserData(userData string) map[string]any {
	lines := strings.Split(strings.TrimSuffix(userData, "\n"), "\n")
	parts := make([]any, len(lines))
	for i, l := range lines {
		parts[i] = l
	}
	return map[string]any{"Fn::Base64": map[string]any{"Fn::Join": []any{"\n", parts}}}
}

func setDefault(params map[string]any, name string, value any) {
	p, ok := params[name].(map[string]any)
	if !ok {
		p = make(map[string]any)
		params[name] = p
	}
	p["Default"] = value
}

func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
