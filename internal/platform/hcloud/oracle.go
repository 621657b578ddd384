package hcloud

import (
	"context"
	"fmt"
	"sync"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/util/labels"
)

// Oracle implements bootstrap.PlacementOracle for Hetzner Cloud.
type Oracle struct {
	client *Client
	// home is the location of the elastic groups. Quorum nodes are kept in
	// its network zone so that they share the private network.
	home string

	mu      sync.Mutex
	servers map[string]*hcloud.Server
}

var _ bootstrap.PlacementOracle = (*Oracle)(nil)

// NewOracle creates an oracle. home may be empty to allow every location.
func NewOracle(client *Client, home string) *Oracle {
	return &Oracle{client: client, home: home, servers: make(map[string]*hcloud.Server)}
}

// Exists reports whether a server carrying the identity's tag exists and
// belongs to the identity's stack.
func (o *Oracle) Exists(ctx context.Context, id bootstrap.NodeIdentity) (bool, error) {
	server, err := o.server(ctx, id)
	if err != nil {
		return false, err
	}
	return server != nil, nil
}

// ZoneOf returns the server's location name.
func (o *Oracle) ZoneOf(ctx context.Context, id bootstrap.NodeIdentity) (bootstrap.Zone, error) {
	server, err := o.server(ctx, id)
	if err != nil {
		return "", err
	}
	if server == nil {
		return "", fmt.Errorf("server %s does not exist", id.Tag())
	}
	if server.Location != nil {
		return bootstrap.Zone(server.Location.Name), nil
	}
	return "", nil
}

// AvailableZones lists the locations in the home location's network zone.
func (o *Oracle) AvailableZones(ctx context.Context) ([]bootstrap.Zone, error) {
	locations, err := o.client.locations(ctx)
	if err != nil {
		return nil, err
	}

	var networkZone hcloud.NetworkZone
	if o.home != "" {
		for _, l := range locations {
			if l.Name == o.home {
				networkZone = l.NetworkZone
			}
		}
		if networkZone == "" {
			return nil, fmt.Errorf("location %q does not exist", o.home)
		}
	}

	zones := make([]bootstrap.Zone, 0, len(locations))
	for _, l := range locations {
		if networkZone != "" && l.NetworkZone != networkZone {
			continue
		}
		zones = append(zones, bootstrap.Zone(l.Name))
	}
	return zones, nil
}

// server looks a node up once per run; Exists and ZoneOf share the result.
func (o *Oracle) server(ctx context.Context, id bootstrap.NodeIdentity) (*hcloud.Server, error) {
	tag := id.Tag()

	o.mu.Lock()
	cached, ok := o.servers[tag]
	o.mu.Unlock()
	if ok {
		return cached, nil
	}

	server, err := o.client.serverByName(ctx, tag)
	if err != nil {
		return nil, err
	}
	if server != nil && server.Labels[labels.KeyStack] != id.Stack {
		return nil, fmt.Errorf("server %s exists but is not labelled for stack %q", tag, id.Stack)
	}

	o.mu.Lock()
	o.servers[tag] = server
	o.mu.Unlock()
	return server, nil
}
