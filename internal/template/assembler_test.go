package template

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/clusterform/internal/bootstrap"
	testutil "github.com/imamik/clusterform/internal/testing"
	"github.com/imamik/clusterform/internal/topology"
)

var testZones = []bootstrap.Zone{"eu-west-1a", "eu-west-1b", "eu-west-1c"}

// resolveAndPlan runs the core for intents against an empty fleet.
func resolveAndPlan(t *testing.T, intents topology.Intents) Input {
	t.Helper()
	groups, err := topology.Resolve(intents)
	require.NoError(t, err)

	host, ok := topology.QuorumHost(groups)
	require.True(t, ok)
	planner := bootstrap.NewPlanner(testutil.NewFakeFleet(testZones...), "prod", testZones,
		bootstrap.WithRand(&testutil.SequenceRand{Values: []int{0, 1, 2}}))
	nodes, err := planner.Plan(context.Background(), host)
	require.NoError(t, err)

	return Input{Stack: "prod", Groups: groups, Nodes: nodes}
}

// recordingTarget records the merge decisions the assembler makes.
type recordingTarget struct {
	elastic   []string
	static    []int
	records   []int
	discovery int
	ingress   []string
	failOn    string
}

func (r *recordingTarget) Name() string { return "recording" }

func (r *recordingTarget) Validate(Document, []topology.Group) error { return nil }

func (r *recordingTarget) Prepare(Document, string) error { return nil }

func (r *recordingTarget) ElasticGroup(_, _ Document, spec GroupSpec) error {
	if r.failOn == "elastic" {
		return errors.New("boom")
	}
	r.elastic = append(r.elastic, spec.Group.Name())
	return nil
}

func (r *recordingTarget) StaticNode(_, _ Document, spec NodeSpec) error {
	r.static = append(r.static, spec.Plan.Identity.Ordinal)
	return nil
}

func (r *recordingTarget) NodeRecord(_, _ Document, spec NodeSpec) error {
	r.records = append(r.records, spec.Plan.Identity.Ordinal)
	return nil
}

func (r *recordingTarget) DiscoveryRecord(_ Document, nodes []NodeSpec) error {
	r.discovery += len(nodes)
	return nil
}

func (r *recordingTarget) AttachIngress(_ Document, spec IngressSpec) error {
	r.ingress = append(r.ingress, spec.Group.Name())
	return nil
}

func embeddedStore(t *testing.T, provider string) FragmentStore {
	t.Helper()
	store, err := NewEmbeddedStore(provider)
	require.NoError(t, err)
	return store
}

func TestAssemble_MergePolicy(t *testing.T) {
	t.Parallel()

	target := &recordingTarget{}
	in := resolveAndPlan(t, testutil.RouterWithData())

	res, err := NewAssembler(embeddedStore(t, ProviderAWS), target, logr.Discard()).Assemble(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"router"}, target.elastic)
	assert.Equal(t, []int{1, 2, 3}, target.static)
	assert.Equal(t, []int{1, 2, 3}, target.records)
	assert.Equal(t, 3, target.discovery)
	assert.Equal(t, []string{"router"}, target.ingress)
	assert.Equal(t, "router", res.Ingress)
}

func TestAssemble_IngressGrantedOnce(t *testing.T) {
	t.Parallel()

	// Hand-built groups that both carry the router role.
	groups := []topology.Group{
		{Owner: topology.RoleRouter, Roles: topology.NewRoleSet(topology.RoleRouter), MemberCount: 3, MaxCount: 9},
		{Owner: topology.RoleData, Roles: topology.NewRoleSet(topology.RoleData, topology.RoleRouter), MemberCount: 3, MaxCount: 9},
		{Owner: topology.RoleOther, Roles: topology.NewRoleSet(topology.RoleRouter, topology.RoleOther), MemberCount: 3, MaxCount: 9},
	}
	target := &recordingTarget{}
	_, err := NewAssembler(embeddedStore(t, ProviderAWS), target, logr.Discard()).
		Assemble(context.Background(), Input{Stack: "prod", Groups: groups})
	require.NoError(t, err)

	assert.Equal(t, []string{"router", "data", "other"}, target.elastic)
	assert.Equal(t, []string{"router"}, target.ingress)
}

func TestAssemble_Errors(t *testing.T) {
	t.Parallel()

	full := fstest.MapFS{
		"base.json":          {Data: []byte(`{"Resources": {}}`)},
		"elastic_group.json": {Data: []byte(`{}`)},
		"static_node.json":   {Data: []byte(`{}`)},
		"node_record.json":   {Data: []byte(`{}`)},
		"user-data.yaml":     {Data: []byte("coreos:\n  etcd2: {}\n  fleet: {}\n")},
	}
	without := func(name string) fstest.MapFS {
		out := fstest.MapFS{}
		for k, v := range full {
			if k != name {
				out[k] = v
			}
		}
		return out
	}
	with := func(name, data string) fstest.MapFS {
		out := without(name)
		out[name] = &fstest.MapFile{Data: []byte(data)}
		return out
	}

	tests := []struct {
		name   string
		fsys   fstest.MapFS
		target *recordingTarget
		mutate func(*Input)
	}{
		{name: "missing base", fsys: without("base.json"), target: &recordingTarget{}},
		{name: "malformed base", fsys: with("base.json", "{not json"), target: &recordingTarget{}},
		{name: "missing user-data", fsys: without("user-data.yaml"), target: &recordingTarget{}},
		{name: "missing static node fragment", fsys: without("static_node.json"), target: &recordingTarget{}},
		{name: "empty record fragment", fsys: with("node_record.json", ""), target: &recordingTarget{}},
		{name: "user-data without coordination section", fsys: with("user-data.yaml", "coreos: {}\n"), target: &recordingTarget{}},
		{name: "target rejects fragment", fsys: full, target: &recordingTarget{failOn: "elastic"}},
		{name: "node plans missing", fsys: full, target: &recordingTarget{}, mutate: func(in *Input) { in.Nodes = in.Nodes[:1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := resolveAndPlan(t, testutil.RouterWithData())
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			store := &fsStore{fsys: tt.fsys, origin: "test"}

			res, err := NewAssembler(store, tt.target, logr.Discard()).Assemble(context.Background(), in)
			require.Error(t, err)
			assert.Nil(t, res)

			var assembly *AssemblyError
			assert.True(t, errors.As(err, &assembly), "expected AssemblyError, got %T: %v", err, err)
		})
	}
}

func TestIngressLatch(t *testing.T) {
	t.Parallel()

	var latch IngressLatch
	worker := topology.Group{Owner: topology.RoleData, Roles: topology.NewRoleSet(topology.RoleData)}
	first := topology.Group{Owner: topology.RoleRouter, Roles: topology.NewRoleSet(topology.RoleRouter)}
	second := topology.Group{Owner: topology.RoleOther, Roles: topology.NewRoleSet(topology.RoleRouter, topology.RoleOther)}

	assert.False(t, latch.Claim(worker), "groups without routers never claim")
	assert.Empty(t, latch.Owner())
	assert.True(t, latch.Claim(first))
	assert.False(t, latch.Claim(second))
	assert.False(t, latch.Claim(first), "the latch is one-shot")
	assert.Equal(t, "router", latch.Owner())
}
