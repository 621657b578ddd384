package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/cloudinit"
	"github.com/imamik/clusterform/internal/topology"
)

// Input is everything one assembly pass consumes.
type Input struct {
	Stack  string
	Groups []topology.Group
	// Nodes are the plans of the quorum-host group, in ordinal order.
	Nodes []bootstrap.NodePlan
}

// Result is an assembled document plus what the pass decided.
type Result struct {
	Document Document
	// Ingress is the name of the group holding the load-balancer attachment.
	Ingress string
}

// Assembler merges resolved groups and node plans into one document.
type Assembler struct {
	store  FragmentStore
	target Target
	log    logr.Logger
}

// NewAssembler creates an assembler writing through target.
func NewAssembler(store FragmentStore, target Target, log logr.Logger) *Assembler {
	return &Assembler{store: store, target: target, log: log}
}

// pass is the state of one assembly run. The ingress latch lives here and
// nowhere else.
type pass struct {
	ctx       context.Context
	doc       Document
	userData  []byte
	latch     IngressLatch
	fragments map[FragmentKind]Document
}

// Assemble produces the complete document or an error; never a partial one.
func (a *Assembler) Assemble(ctx context.Context, in Input) (*Result, error) {
	base, err := a.store.LoadBase(ctx)
	if err != nil {
		return nil, asAssembly("base", err)
	}
	userData, err := a.store.LoadUserData(ctx)
	if err != nil {
		return nil, asAssembly("user-data", err)
	}

	if err := a.target.Validate(base, in.Groups); err != nil {
		return nil, err
	}
	if err := a.target.Prepare(base, in.Stack); err != nil {
		return nil, asAssembly("base", err)
	}

	p := &pass{
		ctx:       ctx,
		doc:       base,
		userData:  userData,
		fragments: make(map[FragmentKind]Document),
	}

	for _, g := range in.Groups {
		if g.QuorumHost {
			err = a.quorumGroup(p, in, g)
		} else {
			err = a.elasticGroup(p, in.Stack, g)
		}
		if err != nil {
			return nil, err
		}
	}

	a.log.V(1).Info("assembled document", "target", a.target.Name(), "groups", len(in.Groups), "ingress", p.latch.Owner())
	return &Result{Document: p.doc, Ingress: p.latch.Owner()}, nil
}

func (a *Assembler) elasticGroup(p *pass, stack string, g topology.Group) error {
	userData, err := cloudinit.Render(p.userData, g.Roles, bootstrap.ProxyConfig(stack))
	if err != nil {
		return asAssembly(g.Name()+" user-data", err)
	}
	fragment, err := p.fragment(a.store, FragmentElasticGroup)
	if err != nil {
		return err
	}

	spec := GroupSpec{Stack: stack, Group: g, UserData: userData}
	if err := a.target.ElasticGroup(p.doc, fragment, spec); err != nil {
		return asAssembly(g.Name(), err)
	}
	a.log.V(1).Info("added elastic group", "group", g.Name(), "roles", g.Roles.String(), "min", g.MemberCount, "max", g.MaxCount)

	if p.latch.Claim(g) {
		if err := a.target.AttachIngress(p.doc, IngressSpec{Stack: stack, Group: g}); err != nil {
			return asAssembly(g.Name()+" ingress", err)
		}
	}
	return nil
}

func (a *Assembler) quorumGroup(p *pass, in Input, g topology.Group) error {
	if len(in.Nodes) != g.MemberCount {
		return &AssemblyError{
			Resource: g.Name(),
			Err:      fmt.Errorf("quorum host has %d members but %d node plans", g.MemberCount, len(in.Nodes)),
		}
	}

	domain := domainOf(in.Stack)
	nodes := make([]NodeSpec, 0, len(in.Nodes))
	for _, plan := range in.Nodes {
		userData, err := cloudinit.Render(p.userData, g.Roles, plan.Config)
		if err != nil {
			return asAssembly(plan.Identity.Tag()+" user-data", err)
		}
		spec := NodeSpec{Stack: in.Stack, Domain: domain, Group: g, Plan: plan, UserData: userData}

		node, err := p.fragment(a.store, FragmentStaticNode)
		if err != nil {
			return err
		}
		if err := a.target.StaticNode(p.doc, node, spec); err != nil {
			return asAssembly(plan.Identity.Tag(), err)
		}

		record, err := p.fragment(a.store, FragmentNodeRecord)
		if err != nil {
			return err
		}
		if err := a.target.NodeRecord(p.doc, record, spec); err != nil {
			return asAssembly(plan.Identity.Tag()+" record", err)
		}
		nodes = append(nodes, spec)
	}

	if err := a.target.DiscoveryRecord(p.doc, nodes); err != nil {
		return asAssembly("discovery record", err)
	}
	a.log.V(1).Info("added quorum nodes", "group", g.Name(), "members", len(nodes))

	if p.latch.Claim(g) {
		if err := a.target.AttachIngress(p.doc, IngressSpec{Stack: in.Stack, Group: g, Nodes: nodes}); err != nil {
			return asAssembly(g.Name()+" ingress", err)
		}
	}
	return nil
}

// fragment returns a fresh copy of a node fragment, loading it once per pass.
func (p *pass) fragment(store FragmentStore, kind FragmentKind) (Document, error) {
	doc, ok := p.fragments[kind]
	if !ok {
		var err error
		doc, err = store.LoadNodeFragment(p.ctx, kind)
		if err != nil {
			return nil, asAssembly(string(kind), err)
		}
		p.fragments[kind] = doc
	}
	return doc.Clone(), nil
}

func asAssembly(resource string, err error) error {
	var assembly *AssemblyError
	if errors.As(err, &assembly) {
		return err
	}
	return &AssemblyError{Resource: resource, Err: err}
}
