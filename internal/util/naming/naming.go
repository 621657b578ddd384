package naming

import "fmt"

// Ports used by the coordination service.
const (
	PeerPort   = 2380
	ClientPort = 2379
)

func CoordinationDomain(stack string) string {
	return fmt.Sprintf("coordination-%s.internal", stack)
}

func Node(ordinal int) string {
	return fmt.Sprintf("node-%d", ordinal)
}

func NodeHost(domain string, ordinal int) string {
	return fmt.Sprintf("%s.%s", Node(ordinal), domain)
}

// NodeTag is the external identity tag of a quorum node.
func NodeTag(stack, group string, ordinal int) string {
	return fmt.Sprintf("%s-%s-%s", stack, group, Node(ordinal))
}

func PeerURL(domain string, ordinal int) string {
	return fmt.Sprintf("http://%s:%d", NodeHost(domain, ordinal), PeerPort)
}

func ClientURL(domain string, ordinal int) string {
	return fmt.Sprintf("http://%s:%d", NodeHost(domain, ordinal), ClientPort)
}

// SRVTarget is one value of the combined discovery record (priority, weight, port, target).
func SRVTarget(domain string, ordinal int) string {
	return fmt.Sprintf("0 0 %d %s", PeerPort, NodeHost(domain, ordinal))
}

// SRVRecord is the record name peers resolve for discovery.
func SRVRecord(domain string) string {
	return fmt.Sprintf("_etcd-server._tcp.%s", domain)
}

// StaticNodeResource is the logical template name of an addressable quorum node.
func StaticNodeResource(ordinal int) string {
	return fmt.Sprintf("Coordination%dInstance", ordinal)
}

// PlaneResource prefixes the resources of an elastic group, e.g. RouterPlane.
func PlaneResource(groupResource string) string {
	return groupResource + "Plane"
}

func PlaneSizeParameter(groupResource string) string {
	return PlaneResource(groupResource) + "Size"
}

func Server(stack, group string, index int) string {
	return fmt.Sprintf("%s-%s-%d", stack, group, index)
}

func PlacementGroup(stack, group string) string {
	return fmt.Sprintf("%s-%s", stack, group)
}

// PlacementGroupShard names one shard of a group's placement groups. shard is
// the 1-based index, or an interpolation producing it.
func PlacementGroupShard(stack, group, shard string) string {
	return fmt.Sprintf("%s-%s-pg-%s", stack, group, shard)
}

func IngressLoadBalancer(stack string) string {
	return fmt.Sprintf("%s-ingress", stack)
}
