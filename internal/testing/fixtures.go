package testing

import (
	"context"

	"github.com/imamik/clusterform/internal/bootstrap"
)

// FakeFleet is an in-memory PlacementOracle. Nodes are keyed by their fleet tag.
type FakeFleet struct {
	nodes map[string]bootstrap.Zone
	zones []bootstrap.Zone

	// Err, when set, is returned by every lookup.
	Err error
	// Lookups counts Exists calls.
	Lookups int
}

// NewFakeFleet creates an empty fleet offering the given zones to new nodes.
func NewFakeFleet(zones ...bootstrap.Zone) *FakeFleet {
	return &FakeFleet{
		nodes: make(map[string]bootstrap.Zone),
		zones: zones,
	}
}

// WithNode records a provisioned quorum node.
func (f *FakeFleet) WithNode(id bootstrap.NodeIdentity, zone bootstrap.Zone) *FakeFleet {
	f.nodes[id.Tag()] = zone
	return f
}

// WithQuorum records ordinals 1..n of a group, placed round-robin over zones.
func (f *FakeFleet) WithQuorum(stack, group string, n int, zones ...bootstrap.Zone) *FakeFleet {
	for i := 1; i <= n; i++ {
		f.WithNode(bootstrap.NodeIdentity{Stack: stack, Group: group, Ordinal: i}, zones[(i-1)%len(zones)])
	}
	return f
}

// Exists implements bootstrap.PlacementOracle.
func (f *FakeFleet) Exists(_ context.Context, id bootstrap.NodeIdentity) (bool, error) {
	f.Lookups++
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.nodes[id.Tag()]
	return ok, nil
}

// ZoneOf implements bootstrap.PlacementOracle.
func (f *FakeFleet) ZoneOf(_ context.Context, id bootstrap.NodeIdentity) (bootstrap.Zone, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.nodes[id.Tag()], nil
}

// AvailableZones implements bootstrap.PlacementOracle.
func (f *FakeFleet) AvailableZones(_ context.Context) ([]bootstrap.Zone, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.zones, nil
}
