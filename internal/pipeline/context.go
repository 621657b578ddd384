package pipeline

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/metrics"
	"github.com/imamik/clusterform/internal/template"
	"github.com/imamik/clusterform/internal/topology"
)

// Assembler turns groups and node plans into a document.
type Assembler interface {
	Assemble(ctx context.Context, in template.Input) (*template.Result, error)
}

// State is filled in phase by phase. Nothing in it is persisted.
type State struct {
	Resolution *topology.Resolution
	Zones      []bootstrap.Zone
	Plans      []bootstrap.NodePlan
	Result     *template.Result
}

// Context is the per-run context handed to every phase.
type Context struct {
	context.Context
	Stack     string
	Intents   topology.Intents
	Oracle    bootstrap.PlacementOracle
	Assembler Assembler
	// PlannerOptions are passed to bootstrap.NewPlanner.
	PlannerOptions []bootstrap.Option

	State    *State
	Observer Observer
	Log      logr.Logger
	Timeouts *config.Timeouts
	// Metrics is optional.
	Metrics *metrics.Recorder
}

// NewContext creates a run context. Assembler, PlannerOptions and Metrics
// are set by the caller when needed.
func NewContext(ctx context.Context, stack string, intents topology.Intents, oracle bootstrap.PlacementOracle, log logr.Logger) *Context {
	return &Context{
		Context:  ctx,
		Stack:    stack,
		Intents:  intents,
		Oracle:   oracle,
		State:    &State{},
		Observer: NewLogObserver(log),
		Log:      log,
		Timeouts: config.LoadTimeouts(),
	}
}
