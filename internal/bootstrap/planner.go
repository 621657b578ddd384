package bootstrap

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/go-logr/logr"

	"github.com/imamik/clusterform/internal/topology"
	"github.com/imamik/clusterform/internal/util/naming"
)

// JoinState tells a quorum member whether to found a quorum or join a live one.
type JoinState int

const (
	JoinNew JoinState = iota
	JoinExisting
)

func (s JoinState) String() string {
	if s == JoinExisting {
		return "existing"
	}
	return "new"
}

// NodePlan is the per-node outcome of planning. It is never persisted.
type NodePlan struct {
	Identity  NodeIdentity
	Zone      Zone
	JoinState JoinState
	// Provisioned is true when the oracle already knew the node.
	Provisioned bool
	PeerURL     string
	ClientURL   string
	Config      CoordinationConfig
}

// Rand picks the zone of a brand-new node.
type Rand interface {
	IntN(n int) int
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

// Option configures a Planner.
type Option func(*Planner)

// WithRand replaces the random source used for first placement.
func WithRand(r Rand) Option {
	return func(p *Planner) {
		p.rand = r
	}
}

// WithLogger sets the logger used for per-node decisions.
func WithLogger(log logr.Logger) Option {
	return func(p *Planner) {
		p.log = log
	}
}

// Planner computes NodePlans for the quorum-hosting group.
type Planner struct {
	oracle PlacementOracle
	stack  string
	zones  []Zone
	rand   Rand
	log    logr.Logger
}

// NewPlanner creates a planner for one stack. zones are the candidates for
// nodes that do not exist yet.
func NewPlanner(oracle PlacementOracle, stack string, zones []Zone, opts ...Option) *Planner {
	p := &Planner{
		oracle: oracle,
		stack:  stack,
		zones:  zones,
		rand:   defaultRand{},
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns one NodePlan per ordinal of the quorum host. Any oracle
// failure aborts planning with a DiscoveryError and no partial plan.
func (p *Planner) Plan(ctx context.Context, group topology.Group) ([]NodePlan, error) {
	if !group.QuorumHost {
		return nil, fmt.Errorf("group %s does not host the coordination quorum", group.Name())
	}
	if group.MemberCount < 1 {
		return nil, fmt.Errorf("group %s has no quorum members", group.Name())
	}

	founder := NodeIdentity{Stack: p.stack, Group: group.Name(), Ordinal: 1}
	founderExists, err := p.oracle.Exists(ctx, founder)
	if err != nil {
		return nil, &DiscoveryError{Op: "exists", Identity: founder, Err: err}
	}

	domain := naming.CoordinationDomain(p.stack)
	plans := make([]NodePlan, 0, group.MemberCount)
	for ordinal := 1; ordinal <= group.MemberCount; ordinal++ {
		id := NodeIdentity{Stack: p.stack, Group: group.Name(), Ordinal: ordinal}

		exists := founderExists
		if ordinal != 1 {
			exists, err = p.oracle.Exists(ctx, id)
			if err != nil {
				return nil, &DiscoveryError{Op: "exists", Identity: id, Err: err}
			}
		}

		state := JoinNew
		if founderExists && !exists {
			state = JoinExisting
		}

		zone, err := p.zoneFor(ctx, id, exists)
		if err != nil {
			return nil, err
		}

		p.log.V(1).Info("planned quorum node", "node", id.Tag(), "zone", zone, "state", state.String(), "provisioned", exists)

		plans = append(plans, NodePlan{
			Identity:    id,
			Zone:        zone,
			JoinState:   state,
			Provisioned: exists,
			PeerURL:     naming.PeerURL(domain, ordinal),
			ClientURL:   naming.ClientURL(domain, ordinal),
			Config:      memberConfig(p.stack, ordinal, state),
		})
	}
	return plans, nil
}

func (p *Planner) zoneFor(ctx context.Context, id NodeIdentity, exists bool) (Zone, error) {
	if exists {
		zone, err := p.oracle.ZoneOf(ctx, id)
		if err != nil {
			return "", &DiscoveryError{Op: "zone", Identity: id, Err: err}
		}
		if zone == "" {
			return "", &DiscoveryError{Op: "zone", Identity: id, Err: ErrZoneUnknown}
		}
		return zone, nil
	}
	if len(p.zones) == 0 {
		return "", &DiscoveryError{Op: "zone", Identity: id, Err: ErrNoZones}
	}
	return p.zones[p.rand.IntN(len(p.zones))], nil
}
