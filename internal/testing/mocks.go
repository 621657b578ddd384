package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/clusterform/internal/bootstrap"
)

// MockPlacementOracle is a mock implementation of bootstrap.PlacementOracle.
type MockPlacementOracle struct {
	mock.Mock
}

// Exists reports whether the node is provisioned.
func (m *MockPlacementOracle) Exists(ctx context.Context, id bootstrap.NodeIdentity) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// ZoneOf returns the zone of a provisioned node.
func (m *MockPlacementOracle) ZoneOf(ctx context.Context, id bootstrap.NodeIdentity) (bootstrap.Zone, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(bootstrap.Zone), args.Error(1)
}

// AvailableZones lists zones for new nodes.
func (m *MockPlacementOracle) AvailableZones(ctx context.Context) ([]bootstrap.Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bootstrap.Zone), args.Error(1)
}

// WithNode configures the mock to report a node as provisioned in zone.
func (m *MockPlacementOracle) WithNode(id bootstrap.NodeIdentity, zone bootstrap.Zone) *MockPlacementOracle {
	m.On("Exists", mock.Anything, id).Return(true, nil)
	m.On("ZoneOf", mock.Anything, id).Return(zone, nil)
	return m
}

// WithoutNode configures the mock to report a node as absent.
func (m *MockPlacementOracle) WithoutNode(id bootstrap.NodeIdentity) *MockPlacementOracle {
	m.On("Exists", mock.Anything, id).Return(false, nil)
	return m
}
