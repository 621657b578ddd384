package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imamik/clusterform/internal/pipeline"
)

// planGroup is the JSON form of one resolved group.
type planGroup struct {
	Name         string   `json:"name"`
	Roles        []string `json:"roles"`
	QuorumHost   bool     `json:"quorum_host"`
	Instances    int      `json:"instances"`
	InstancesMax int      `json:"instances_max,omitempty"`
	InstanceSize string   `json:"instance_size,omitempty"`
}

// planNode is the JSON form of one quorum node plan.
type planNode struct {
	Tag       string `json:"tag"`
	Zone      string `json:"zone"`
	JoinState string `json:"join_state"`
	PeerURL   string `json:"peer_url"`
}

// planDropped is the JSON form of a colocation that could not be honoured.
type planDropped struct {
	Role      string `json:"role"`
	Target    string `json:"target"`
	ClaimedBy string `json:"claimed_by"`
}

type planSummary struct {
	Stack    string        `json:"stack"`
	Provider string        `json:"provider"`
	Groups   []planGroup   `json:"groups"`
	Nodes    []planNode    `json:"nodes"`
	Dropped  []planDropped `json:"dropped_colocations,omitempty"`
}

// Plan resolves the topology and plans the quorum nodes without assembling
// a document, then prints a summary.
func Plan(ctx context.Context, opts Options, jsonOutput bool) error {
	s, err := prepare(ctx, opts)
	if err != nil {
		return err
	}

	pctx := s.pipelineContext(ctx)
	if err := s.runPipeline(pctx, pipeline.PlanPhases()); err != nil {
		return err
	}

	summary := buildPlanSummary(s.cfg.Stack, s.cfg.Provider, pctx.State)
	if jsonOutput {
		b, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(b))
		return err
	}

	_, err = fmt.Fprint(stdout, renderPlanSummary(summary))
	return err
}

func buildPlanSummary(stack, provider string, state *pipeline.State) *planSummary {
	summary := &planSummary{
		Stack:    stack,
		Provider: provider,
		Groups:   make([]planGroup, 0, len(state.Resolution.Groups)),
		Nodes:    make([]planNode, 0, len(state.Plans)),
	}

	for _, g := range state.Resolution.Groups {
		roles := make([]string, 0, g.Roles.Len())
		for _, r := range g.Roles.Roles() {
			roles = append(roles, r.String())
		}
		pg := planGroup{
			Name:         g.Name(),
			Roles:        roles,
			QuorumHost:   g.QuorumHost,
			Instances:    g.MemberCount,
			InstanceSize: g.InstanceSize,
		}
		if !g.QuorumHost {
			pg.InstancesMax = g.MaxCount
		}
		summary.Groups = append(summary.Groups, pg)
	}

	for _, p := range state.Plans {
		summary.Nodes = append(summary.Nodes, planNode{
			Tag:       p.Identity.Tag(),
			Zone:      string(p.Zone),
			JoinState: p.JoinState.String(),
			PeerURL:   p.PeerURL,
		})
	}

	for _, d := range state.Resolution.Dropped {
		summary.Dropped = append(summary.Dropped, planDropped{
			Role:      d.Role.String(),
			Target:    d.Target.String(),
			ClaimedBy: d.ClaimedBy.String(),
		})
	}
	return summary
}
