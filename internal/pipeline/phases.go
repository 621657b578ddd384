package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/template"
	"github.com/imamik/clusterform/internal/topology"
)

// Phase names.
const (
	PhaseResolve  = "resolve"
	PhaseZones    = "zones"
	PhasePlan     = "plan"
	PhaseAssemble = "assemble"
)

// GeneratePhases is the full pass producing a document.
func GeneratePhases() []Phase {
	return []Phase{ResolvePhase{}, ZonesPhase{}, PlanPhase{}, AssemblePhase{}}
}

// PlanPhases stops before assembly.
func PlanPhases() []Phase {
	return []Phase{ResolvePhase{}, ZonesPhase{}, PlanPhase{}}
}

// ResolvePhase assigns roles to groups.
type ResolvePhase struct{}

func (ResolvePhase) Name() string { return PhaseResolve }

func (ResolvePhase) Run(ctx *Context) error {
	res, err := topology.ResolveDetailed(ctx.Intents)
	if err != nil {
		return err
	}
	ctx.State.Resolution = res

	for _, d := range res.Dropped {
		ctx.Observer.Event(Event{
			Type:     EventColocationDropped,
			Phase:    PhaseResolve,
			Resource: d.Role.String(),
			Message:  fmt.Sprintf("%s already placed with %s", d.Target, d.ClaimedBy),
			Fields:   map[string]string{"target": d.Target.String()},
		})
	}

	host := res.QuorumHost()
	ctx.Observer.Printf("resolved %d groups, quorum hosted by %s with %d members",
		len(res.Groups), host.Name(), host.MemberCount)
	if ctx.Metrics != nil {
		ctx.Metrics.RecordResolution(len(res.Groups), host.MemberCount)
	}
	return nil
}

// ZonesPhase asks the oracle for the zones new quorum nodes may use.
type ZonesPhase struct{}

func (ZonesPhase) Name() string { return PhaseZones }

func (ZonesPhase) Run(ctx *Context) error {
	if ctx.Oracle == nil {
		return errors.New("no placement oracle configured")
	}
	dctx, cancel := ctx.discoveryContext()
	defer cancel()

	zones, err := ctx.Oracle.AvailableZones(dctx)
	if err != nil {
		return &bootstrap.DiscoveryError{Op: "zones", Err: err}
	}
	ctx.State.Zones = zones
	ctx.Log.V(1).Info("available zones", "zones", zones)
	return nil
}

// PlanPhase computes the quorum node plans.
type PlanPhase struct{}

func (PlanPhase) Name() string { return PhasePlan }

func (PlanPhase) Run(ctx *Context) error {
	if ctx.State.Resolution == nil {
		return errors.New("plan requires a resolved topology")
	}
	dctx, cancel := ctx.discoveryContext()
	defer cancel()

	planner := bootstrap.NewPlanner(ctx.Oracle, ctx.Stack, ctx.State.Zones, ctx.plannerOptions()...)
	plans, err := planner.Plan(dctx, ctx.State.Resolution.QuorumHost())
	if err != nil {
		return err
	}
	ctx.State.Plans = plans

	counts := map[string]int{bootstrap.JoinNew.String(): 0, bootstrap.JoinExisting.String(): 0}
	for _, p := range plans {
		counts[p.JoinState.String()]++
		ctx.Observer.Event(Event{
			Type:     EventNodePlanned,
			Phase:    PhasePlan,
			Resource: p.Identity.Tag(),
			Message:  "planned quorum node",
			Fields: map[string]string{
				"zone":        string(p.Zone),
				"join_state":  p.JoinState.String(),
				"provisioned": strconv.FormatBool(p.Provisioned),
			},
		})
	}
	if ctx.Metrics != nil {
		ctx.Metrics.RecordNodes(counts)
	}
	return nil
}

// AssemblePhase renders the document.
type AssemblePhase struct{}

func (AssemblePhase) Name() string { return PhaseAssemble }

func (AssemblePhase) Run(ctx *Context) error {
	if ctx.Assembler == nil {
		return errors.New("no assembler configured")
	}
	if ctx.State.Resolution == nil {
		return errors.New("assemble requires a resolved topology")
	}
	res, err := ctx.Assembler.Assemble(ctx, template.Input{
		Stack:  ctx.Stack,
		Groups: ctx.State.Resolution.Groups,
		Nodes:  ctx.State.Plans,
	})
	if err != nil {
		return err
	}
	ctx.State.Result = res
	ctx.Observer.Printf("assembled document, ingress attached to %s", res.Ingress)
	return nil
}

func (c *Context) discoveryContext() (context.Context, context.CancelFunc) {
	if c.Timeouts == nil || c.Timeouts.Discovery <= 0 {
		return context.WithCancel(c.Context)
	}
	return context.WithTimeout(c.Context, c.Timeouts.Discovery)
}

func (c *Context) plannerOptions() []bootstrap.Option {
	opts := []bootstrap.Option{bootstrap.WithLogger(c.Log.WithName("planner"))}
	return append(opts, c.PlannerOptions...)
}
