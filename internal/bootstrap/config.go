package bootstrap

import "github.com/imamik/clusterform/internal/util/naming"

// CoordinationConfig is the coordination-service section of a node's
// cloud-config. Field tags are the keys the service expects.
type CoordinationConfig struct {
	Name                     string `yaml:"name,omitempty"`
	InitialClusterState      string `yaml:"initial-cluster-state,omitempty"`
	InitialClusterToken      string `yaml:"initial-cluster-token,omitempty"`
	InitialAdvertisePeerURLs string `yaml:"initial-advertise-peer-urls,omitempty"`
	AdvertiseClientURLs      string `yaml:"advertise-client-urls,omitempty"`
	DiscoverySRV             string `yaml:"discovery-srv"`
	Proxy                    string `yaml:"proxy,omitempty"`
}

// IsProxy reports whether the node only forwards client traffic to the quorum.
func (c CoordinationConfig) IsProxy() bool {
	return c.Proxy == "on"
}

// ProxyConfig is the fragment for nodes of elastic groups: they reach the
// quorum through SRV discovery but never become members.
func ProxyConfig(stack string) CoordinationConfig {
	return CoordinationConfig{
		DiscoverySRV: naming.CoordinationDomain(stack),
		Proxy:        "on",
	}
}

func memberConfig(stack string, ordinal int, state JoinState) CoordinationConfig {
	domain := naming.CoordinationDomain(stack)
	return CoordinationConfig{
		Name:                     naming.Node(ordinal),
		InitialClusterState:      state.String(),
		InitialClusterToken:      stack,
		InitialAdvertisePeerURLs: naming.PeerURL(domain, ordinal),
		AdvertiseClientURLs:      naming.ClientURL(domain, ordinal),
		DiscoverySRV:             domain,
	}
}
