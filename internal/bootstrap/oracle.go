package bootstrap

import (
	"context"
	"fmt"

	"github.com/imamik/clusterform/internal/util/naming"
)

// Zone is a provider placement zone (an AWS availability zone or a Hetzner location).
type Zone string

// NodeIdentity is the stable identity of a quorum node. Ordinals start at 1
// and are never reused or renumbered.
type NodeIdentity struct {
	Stack   string
	Group   string
	Ordinal int
}

// Tag is the external tag the node carries in the fleet.
func (id NodeIdentity) Tag() string {
	return naming.NodeTag(id.Stack, id.Group, id.Ordinal)
}

// Founder returns the identity of ordinal 1 in the same group.
func (id NodeIdentity) Founder() NodeIdentity {
	id.Ordinal = 1
	return id
}

func (id NodeIdentity) String() string {
	return fmt.Sprintf("%s/%s#%d", id.Stack, id.Group, id.Ordinal)
}

// PlacementOracle answers questions about the already-provisioned fleet.
type PlacementOracle interface {
	// Exists reports whether a node with the identity is currently provisioned.
	Exists(ctx context.Context, id NodeIdentity) (bool, error)
	// ZoneOf returns the zone of a provisioned node. Only valid when Exists is true.
	ZoneOf(ctx context.Context, id NodeIdentity) (Zone, error)
	// AvailableZones lists the zones new nodes may be placed in.
	AvailableZones(ctx context.Context) ([]Zone, error)
}
