// Package cloudinit renders the per-group cloud-config user-data.
package cloudinit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/topology"
)

// Header starts every rendered document.
const Header = "#cloud-config\n---\n"

const (
	keyOS           = "coreos"
	keyCoordination = "etcd2"
	keyFleet        = "fleet"
	keyMetadata     = "metadata"
	keyDiscovery    = "discovery"
)

// ErrMalformedBase is returned when the base user-data lacks a required section.
var ErrMalformedBase = errors.New("malformed base user-data")

// Render decorates the base user-data for a node carrying roles with the
// given coordination settings.
func Render(base []byte, roles topology.RoleSet, coordination bootstrap.CoordinationConfig) (string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(base, &doc); err != nil {
		return "", fmt.Errorf("failed to parse base user-data: %w", err)
	}

	osSection, err := section(doc, keyOS)
	if err != nil {
		return "", err
	}
	coord, err := section(osSection, keyCoordination)
	if err != nil {
		return "", err
	}

	if metadata := roles.FleetMetadata(); len(metadata) > 0 {
		fleet, err := section(osSection, keyFleet)
		if err != nil {
			return "", err
		}
		fleet[keyMetadata] = strings.Join(metadata, ",")
	} else if fleet, ok := osSection[keyFleet].(map[string]any); ok {
		delete(fleet, keyMetadata)
	}

	// Peers are found through SRV records, never a static discovery URL.
	delete(coord, keyDiscovery)

	overrides, err := toMap(coordination)
	if err != nil {
		return "", err
	}
	for k, v := range overrides {
		coord[k] = v
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode user-data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode user-data: %w", err)
	}
	return Header + buf.String(), nil
}

func section(parent map[string]any, key string) (map[string]any, error) {
	v, ok := parent[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q section", ErrMalformedBase, key)
	}
	return v, nil
}

func toMap(cfg bootstrap.CoordinationConfig) (map[string]any, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coordination config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode coordination config: %w", err)
	}
	return m, nil
}
