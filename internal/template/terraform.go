package template

import (
	"errors"
	"fmt"
	"slices"

	"github.com/imamik/clusterform/internal/topology"
	"github.com/imamik/clusterform/internal/util/labels"
	"github.com/imamik/clusterform/internal/util/naming"
)

// TerraformOptions are the run-wide settings of the hcloud target.
type TerraformOptions struct {
	// Network is the name of the existing private network. Defaults to the stack.
	Network string
	// Location is the default location of elastic groups.
	Location string
	Image    string
	// ServerTypes, when set, restricts instance size overrides.
	ServerTypes             []string
	DisableDeleteProtection bool
}

// Terraform renders Terraform JSON for the hcloud and hetznerdns providers.
type Terraform struct {
	opts TerraformOptions
}

// NewTerraform creates the hcloud target.
func NewTerraform(opts TerraformOptions) *Terraform {
	return &Terraform{opts: opts}
}

const (
	tfResource   = "resource"
	tfServer     = "hcloud_server"
	tfPlacement  = "hcloud_placement_group"
	tfRecord     = "hetznerdns_record"
	tfLBTarget   = "hcloud_load_balancer_target"
	tfSRVRecord  = "coordination_srv"
	tfIngressRef = "${hcloud_load_balancer.ingress.id}"

	// spreadGroupLimit is the most servers hcloud admits to one spread
	// placement group.
	spreadGroupLimit = 10
)

func (t *Terraform) Name() string { return ProviderHCloud }

// Validate checks instance size overrides against the known server types.
func (t *Terraform) Validate(_ Document, groups []topology.Group) error {
	if len(t.opts.ServerTypes) == 0 {
		return nil
	}
	for _, g := range groups {
		if g.InstanceSize != "" && !slices.Contains(t.opts.ServerTypes, g.InstanceSize) {
			return instanceSizeError(g, t.opts.ServerTypes)
		}
	}
	return nil
}

// Prepare names the network lookup, the load balancer and the DNS zone.
func (t *Terraform) Prepare(doc Document, stack string) error {
	network, err := doc.Object("data", "hcloud_network", "cluster")
	if err != nil {
		return err
	}
	network["name"] = stack
	if t.opts.Network != "" {
		network["name"] = t.opts.Network
	}

	vars, err := doc.Object("variable")
	if err != nil {
		return err
	}
	if t.opts.Location != "" {
		setVariableDefault(vars, "location", t.opts.Location)
	}
	if t.opts.Image != "" {
		setVariableDefault(vars, "image", t.opts.Image)
	}

	lb, err := doc.Object(tfResource, "hcloud_load_balancer", "ingress")
	if err != nil {
		return err
	}
	lb["name"] = naming.IngressLoadBalancer(stack)
	lb["labels"] = stringMap(labels.NewLabelBuilder(stack).Build())

	zone, err := doc.Object(tfResource, "hetznerdns_zone", "coordination")
	if err != nil {
		return err
	}
	zone["name"] = domainOf(stack)
	return nil
}

// ElasticGroup adds a counted server resource in spread placement groups,
// sized by a validated variable. Groups that may grow past the spread limit
// get one placement group shard per ten servers.
func (t *Terraform) ElasticGroup(doc, fragment Document, spec GroupSpec) error {
	group := spec.Group.Name()
	sizeVar := group + "_plane_size"

	placement, ok := fragment["placement_group"].(map[string]any)
	if !ok {
		return errors.New("fragment has no placement_group")
	}
	server, ok := fragment["server"].(map[string]any)
	if !ok {
		return errors.New("fragment has no server")
	}
	size, ok := fragment["size"].(map[string]any)
	if !ok {
		return errors.New("fragment has no size variable")
	}

	groupLabels := stringMap(labels.NewLabelBuilder(spec.Stack).
		WithGroup(group).
		WithRoles(roleNames(spec.Group.Roles)...).
		Build())

	placement["labels"] = groupLabels
	if shards := placementShards(spec.Group.MaxCount); shards > 1 {
		placement["count"] = shards
		placement["name"] = naming.PlacementGroupShard(spec.Stack, group, "${count.index + 1}")
		server["placement_group_id"] = fmt.Sprintf("${%s.%s[floor(count.index / %d)].id}", tfPlacement, group, spreadGroupLimit)
	} else {
		placement["name"] = naming.PlacementGroup(spec.Stack, group)
		server["placement_group_id"] = fmt.Sprintf("${%s.%s.id}", tfPlacement, group)
	}

	server["count"] = fmt.Sprintf("${var.%s}", sizeVar)
	server["name"] = fmt.Sprintf("%s-%s-${count.index + 1}", spec.Stack, group)
	server["user_data"] = spec.UserData
	server["labels"] = groupLabels
	if spec.Group.InstanceSize != "" {
		server["server_type"] = spec.Group.InstanceSize
	}

	size["default"] = spec.Group.MemberCount
	size["description"] = fmt.Sprintf("Number of nodes in the cluster (%d-%d)", spec.Group.MemberCount, spec.Group.MaxCount)
	size["validation"] = []any{map[string]any{
		"condition":     fmt.Sprintf("${var.%s >= %d && var.%s <= %d}", sizeVar, spec.Group.MemberCount, sizeVar, spec.Group.MaxCount),
		"error_message": fmt.Sprintf("%s must be between %d and %d.", sizeVar, spec.Group.MemberCount, spec.Group.MaxCount),
	}}

	doc.Ensure(tfResource, tfPlacement)[group] = placement
	doc.Ensure(tfResource, tfServer)[group] = server
	doc.Ensure("variable")[sizeVar] = size
	return nil
}

// StaticNode adds one server pinned to the planned location.
func (t *Terraform) StaticNode(doc, fragment Document, spec NodeSpec) error {
	id := spec.Plan.Identity
	fragment["name"] = id.Tag()
	fragment["location"] = string(spec.Plan.Zone)
	fragment["user_data"] = spec.UserData
	fragment["labels"] = stringMap(labels.NewLabelBuilder(spec.Stack).
		WithGroup(spec.Group.Name()).
		WithNode(id.Tag()).
		WithRoles(roleNames(spec.Group.Roles)...).
		Build())
	if spec.Group.InstanceSize != "" {
		fragment["server_type"] = spec.Group.InstanceSize
	}
	if t.opts.DisableDeleteProtection {
		fragment["delete_protection"] = false
		fragment["rebuild_protection"] = false
	}

	doc.Ensure(tfResource, tfServer)[staticKey(spec)] = map[string]any(fragment)
	return nil
}

// NodeRecord adds the node's A record pointing at its private address.
func (t *Terraform) NodeRecord(doc, fragment Document, spec NodeSpec) error {
	fragment["name"] = naming.Node(spec.Plan.Identity.Ordinal)
	fragment["value"] = fmt.Sprintf("${tolist(%s.%s.network)[0].ip}", tfServer, staticKey(spec))
	doc.Ensure(tfResource, tfRecord)[fmt.Sprintf("node_%d", spec.Plan.Identity.Ordinal)] = map[string]any(fragment)
	return nil
}

// DiscoveryRecord fills the for_each SRV record with one target per node.
func (t *Terraform) DiscoveryRecord(doc Document, nodes []NodeSpec) error {
	srv, err := doc.Object(tfResource, tfRecord, tfSRVRecord)
	if err != nil {
		return err
	}
	locals := doc.Ensure("locals")
	values := make([]any, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, naming.SRVTarget(n.Domain, n.Plan.Identity.Ordinal)+".")
	}
	locals[tfSRVRecord] = values
	srv["name"] = "_etcd-server._tcp"
	return nil
}

// AttachIngress targets the load balancer at the group: a label selector for
// elastic groups, one server target per node otherwise.
func (t *Terraform) AttachIngress(doc Document, spec IngressSpec) error {
	targets := doc.Ensure(tfResource, tfLBTarget)
	if len(spec.Nodes) == 0 {
		targets[spec.Group.Name()] = map[string]any{
			"type":             "label_selector",
			"load_balancer_id": tfIngressRef,
			"label_selector":   labels.SelectorForGroup(spec.Stack, spec.Group.Name()),
			"use_private_ip":   true,
		}
		return nil
	}
	for _, n := range spec.Nodes {
		targets[staticKey(n)] = map[string]any{
			"type":             "server",
			"load_balancer_id": tfIngressRef,
			"server_id":        fmt.Sprintf("${%s.%s.id}", tfServer, staticKey(n)),
			"use_private_ip":   true,
		}
	}
	return nil
}

func placementShards(maxCount int) int {
	if maxCount <= spreadGroupLimit {
		return 1
	}
	return (maxCount + spreadGroupLimit - 1) / spreadGroupLimit
}

// setVariableDefault sets the default of a Terraform variable block.
func setVariableDefault(vars map[string]any, name string, value any) {
	v, ok := vars[name].(map[string]any)
	if !ok {
		v = map[string]any{"type": "string"}
		vars[name] = v
	}
	v["default"] = value
}

func staticKey(spec NodeSpec) string {
	return fmt.Sprintf("%s_node_%d", spec.Group.Name(), spec.Plan.Identity.Ordinal)
}

func roleNames(roles topology.RoleSet) []string {
	out := make([]string, 0, roles.Len())
	for _, r := range roles.Roles() {
		out = append(out, r.String())
	}
	return out
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
