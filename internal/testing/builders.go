package testing

import (
	"github.com/imamik/clusterform/internal/topology"
)

// IntentsBuilder provides a fluent interface for constructing test intents.
// Each method returns a new builder (immutable) for chaining.
type IntentsBuilder struct {
	intents topology.Intents
}

// NewIntentsBuilder starts from the default intents: nothing isolated,
// three instances of every role.
func NewIntentsBuilder() *IntentsBuilder {
	return &IntentsBuilder{intents: topology.DefaultIntents()}
}

// Isolate marks the role isolated with the given colocation set.
func (b *IntentsBuilder) Isolate(role topology.Role, colocate ...topology.Role) *IntentsBuilder {
	return b.with(role, func(i *topology.Intent) {
		i.Isolated = true
		i.Colocate = topology.NewRoleSet(colocate...)
	})
}

// WithInstances sets the min and max instance counts of a role.
func (b *IntentsBuilder) WithInstances(role topology.Role, minInstances, maxInstances int) *IntentsBuilder {
	return b.with(role, func(i *topology.Intent) {
		i.MinInstances = minInstances
		i.MaxInstances = maxInstances
	})
}

// WithInstanceSize sets the provider size override of a role.
func (b *IntentsBuilder) WithInstanceSize(role topology.Role, size string) *IntentsBuilder {
	return b.with(role, func(i *topology.Intent) {
		i.InstanceSize = size
	})
}

// Build returns the constructed intents.
func (b *IntentsBuilder) Build() topology.Intents {
	return b.intents.Clone()
}

func (b *IntentsBuilder) with(role topology.Role, mutate func(*topology.Intent)) *IntentsBuilder {
	next := b.intents.Clone()
	intent := next[role]
	mutate(&intent)
	next[role] = intent
	return &IntentsBuilder{intents: next}
}

// RouterWithData is the common deployment: routers isolated together with
// the data plane, everything else on the fallback group.
func RouterWithData() topology.Intents {
	return NewIntentsBuilder().Isolate(topology.RoleRouter, topology.RoleData).Build()
}
