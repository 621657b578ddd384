package labels

import (
	"sort"
	"strings"
)

// Standard label keys.
const (
	// KeyStack identifies which stack a resource belongs to
	KeyStack = "clusterform.io/stack"

	// KeyGroup identifies the resolved node group
	KeyGroup = "clusterform.io/group"

	// KeyNode is the identity tag of an addressable quorum node
	KeyNode = "clusterform.io/node"

	// KeyCoordination marks quorum members
	KeyCoordination = "clusterform.io/coordination"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "clusterform.io/managed-by"

	// keyRolePrefix is followed by the role name, e.g. clusterform.io/role-router=true
	keyRolePrefix = "clusterform.io/role-"
)

// ManagedBy value
const ManagedByClusterform = "clusterform"

// LabelBuilder provides a fluent interface for building Hetzner Cloud resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the stack name pre-set.
func NewLabelBuilder(stack string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyStack:     stack,
			KeyManagedBy: ManagedByClusterform,
		},
	}
}

// WithGroup adds the group label.
func (lb *LabelBuilder) WithGroup(group string) *LabelBuilder {
	lb.labels[KeyGroup] = group
	return lb
}

// WithNode marks the resource as the quorum node with the given tag.
func (lb *LabelBuilder) WithNode(tag string) *LabelBuilder {
	lb.labels[KeyNode] = tag
	lb.labels[KeyCoordination] = "true"
	return lb
}

// WithRoles adds one boolean label per role carried by the resource.
func (lb *LabelBuilder) WithRoles(roles ...string) *LabelBuilder {
	for _, r := range roles {
		lb.labels[keyRolePrefix+r] = "true"
	}
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector renders labels as a label selector with keys in sorted order.
func Selector(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + labels[k]
	}
	return strings.Join(parts, ",")
}

// SelectorForStack returns a label selector for all resources of a stack.
func SelectorForStack(stack string) string {
	return KeyStack + "=" + stack
}

// SelectorForGroup returns a label selector for the servers of one group.
func SelectorForGroup(stack, group string) string {
	return Selector(map[string]string{KeyStack: stack, KeyGroup: group})
}
