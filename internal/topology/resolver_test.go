package topology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intentsWith(mutate func(Intents)) Intents {
	in := DefaultIntents()
	if mutate != nil {
		mutate(in)
	}
	return in
}

func isolate(in Intents, role Role, colocate ...Role) {
	i := in[role]
	i.Isolated = true
	i.Colocate = NewRoleSet(colocate...)
	in[role] = i
}

func TestResolve_PartitionAndSingleQuorumHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(Intents)
	}{
		{"nothing isolated", nil},
		{"router isolated", func(in Intents) { isolate(in, RoleRouter) }},
		{"router with data", func(in Intents) { isolate(in, RoleRouter, RoleData) }},
		{"router with control", func(in Intents) { isolate(in, RoleRouter, RoleControl) }},
		{"router with everything", func(in Intents) { isolate(in, RoleRouter, RoleControl, RoleData) }},
		{"data isolated", func(in Intents) { isolate(in, RoleData) }},
		{"control isolated", func(in Intents) { isolate(in, RoleControl) }},
		{"coordination isolated", func(in Intents) { isolate(in, RoleCoordination) }},
		{"all isolated", func(in Intents) {
			isolate(in, RoleRouter)
			isolate(in, RoleData)
			isolate(in, RoleControl)
			isolate(in, RoleCoordination)
		}},
		{"router with control, data isolated", func(in Intents) {
			isolate(in, RoleRouter, RoleControl)
			isolate(in, RoleData)
		}},
		{"overlapping colocations", func(in Intents) {
			isolate(in, RoleRouter, RoleData)
			isolate(in, RoleData, RoleRouter, RoleControl)
			isolate(in, RoleControl, RoleRouter)
		}},
		{"control with router and data, coordination isolated", func(in Intents) {
			isolate(in, RoleControl, RoleRouter, RoleData)
			isolate(in, RoleCoordination)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			groups, err := Resolve(intentsWith(tt.mutate))
			require.NoError(t, err)
			require.NotEmpty(t, groups)

			var union RoleSet
			hosts := 0
			for _, g := range groups {
				assert.True(t, union.Intersect(g.Roles).Empty(), "role sets overlap at group %s", g)
				union = union.Union(g.Roles)
				if g.QuorumHost {
					hosts++
				}
			}
			assert.Equal(t, NewRoleSet(AllRoles()...), union, "every role must be placed")
			assert.Equal(t, 1, hosts, "exactly one quorum host")
		})
	}
}

func TestResolve_RouterWithDataScenario(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(intentsWith(func(in Intents) { isolate(in, RoleRouter, RoleData) }))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	router := groups[0]
	assert.Equal(t, RoleRouter, router.Owner)
	assert.Equal(t, NewRoleSet(RoleRouter, RoleData), router.Roles)
	assert.False(t, router.QuorumHost)
	assert.Equal(t, 3, router.MemberCount)

	rest := groups[1]
	assert.Equal(t, RoleOther, rest.Owner)
	assert.Equal(t, NewRoleSet(RoleControl, RoleCoordination, RoleOther), rest.Roles)
	assert.True(t, rest.QuorumHost)
	assert.Equal(t, 3, rest.MemberCount)
}

func TestResolve_NothingIsolated(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(DefaultIntents())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, RoleOther, groups[0].Owner)
	assert.True(t, groups[0].QuorumHost)
	assert.Equal(t, NewRoleSet(AllRoles()...), groups[0].Roles)
}

func TestResolve_IsolatedCoordinationHostsQuorum(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(intentsWith(func(in Intents) {
		isolate(in, RoleControl)
		isolate(in, RoleCoordination)
		c := in[RoleCoordination]
		c.MinInstances = 5
		in[RoleCoordination] = c
	}))
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, RoleControl, groups[0].Owner)
	assert.False(t, groups[0].QuorumHost, "control is a worker once coordination is isolated")

	assert.Equal(t, RoleCoordination, groups[1].Owner)
	assert.Equal(t, NewRoleSet(RoleCoordination), groups[1].Roles)
	assert.True(t, groups[1].QuorumHost)
	assert.Equal(t, 5, groups[1].MemberCount)

	assert.Equal(t, RoleOther, groups[2].Owner)
	assert.Equal(t, NewRoleSet(RoleData, RoleRouter, RoleOther), groups[2].Roles)
}

func TestResolve_IsolatedControlHostsQuorum(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(intentsWith(func(in Intents) { isolate(in, RoleControl) }))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, RoleControl, groups[0].Owner)
	assert.True(t, groups[0].QuorumHost)
	assert.Equal(t, NewRoleSet(RoleControl, RoleCoordination), groups[0].Roles)
	assert.False(t, groups[1].QuorumHost)
}

func TestResolve_FallbackRoleJoinsControlWhenCoordinationIsolated(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(intentsWith(func(in Intents) {
		isolate(in, RoleControl, RoleRouter, RoleData)
		isolate(in, RoleCoordination)
	}))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, NewRoleSet(RoleControl, RoleRouter, RoleData, RoleOther), groups[0].Roles)
	assert.Equal(t, NewRoleSet(RoleCoordination), groups[1].Roles)
	assert.True(t, groups[1].QuorumHost)
}

func TestResolve_SingleGroupForcesQuorumHost(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(intentsWith(func(in Intents) { isolate(in, RoleRouter, RoleControl, RoleData) }))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, RoleRouter, groups[0].Owner)
	assert.True(t, groups[0].QuorumHost)
	assert.Equal(t, NewRoleSet(AllRoles()...), groups[0].Roles)
}

func TestResolve_PrecedenceDropsLaterColocation(t *testing.T) {
	t.Parallel()

	res, err := ResolveDetailed(intentsWith(func(in Intents) {
		isolate(in, RoleRouter, RoleData)
		isolate(in, RoleControl, RoleData)
	}))
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)

	assert.Equal(t, NewRoleSet(RoleRouter, RoleData), res.Groups[0].Roles)
	assert.Equal(t, NewRoleSet(RoleControl, RoleCoordination, RoleOther), res.Groups[1].Roles)
	assert.Equal(t, []Colocation{{Role: RoleControl, Target: RoleData, ClaimedBy: RoleRouter}}, res.Dropped)
}

func TestResolve_AbsorbedRoleDoesNotFormGroup(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(intentsWith(func(in Intents) {
		isolate(in, RoleRouter, RoleData)
		isolate(in, RoleData)
	}))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, RoleRouter, groups[0].Owner)
	assert.Equal(t, RoleOther, groups[1].Owner)
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	in := intentsWith(func(in Intents) {
		isolate(in, RoleData, RoleRouter)
		isolate(in, RoleCoordination)
	})
	first, err := Resolve(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve_InvalidIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(Intents)
		role   Role
	}{
		{"even control count", func(in Intents) {
			c := in[RoleControl]
			c.MinInstances = 4
			in[RoleControl] = c
		}, RoleControl},
		{"even coordination count", func(in Intents) {
			c := in[RoleCoordination]
			c.MinInstances = 2
			in[RoleCoordination] = c
		}, RoleCoordination},
		{"even coordination maximum", func(in Intents) {
			c := in[RoleCoordination]
			c.MaxInstances = 8
			in[RoleCoordination] = c
		}, RoleCoordination},
		{"min above max", func(in Intents) {
			d := in[RoleData]
			d.MinInstances = 30
			in[RoleData] = d
		}, RoleData},
		{"zero instances", func(in Intents) {
			r := in[RoleRouter]
			r.MinInstances = 0
			in[RoleRouter] = r
		}, RoleRouter},
		{"unsupported colocation", func(in Intents) { isolate(in, RoleRouter, RoleCoordination) }, RoleRouter},
		{"self colocation", func(in Intents) { isolate(in, RoleData, RoleData) }, RoleData},
		{"isolated fallback", func(in Intents) { isolate(in, RoleOther) }, RoleOther},
		{"missing role", func(in Intents) { delete(in, RoleOther) }, RoleOther},
		{"even fallback hosting quorum", func(in Intents) {
			o := in[RoleOther]
			o.MinInstances = 4
			in[RoleOther] = o
		}, RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Resolve(intentsWith(tt.mutate))
			require.Error(t, err)

			var invalid *InvalidIntentError
			require.True(t, errors.As(err, &invalid), "expected InvalidIntentError, got %T", err)
			assert.Equal(t, tt.role, invalid.Role)
		})
	}
}

func TestResolve_EvenWorkerCountsAllowed(t *testing.T) {
	t.Parallel()

	groups, err := Resolve(intentsWith(func(in Intents) {
		isolate(in, RoleData)
		d := in[RoleData]
		d.MinInstances = 4
		in[RoleData] = d
	}))
	require.NoError(t, err)
	assert.Equal(t, 4, groups[0].MemberCount)
}
