package topology

import "fmt"

// Group is a deployable unit: either an elastic worker group or the fixed set
// of addressable nodes hosting the coordination quorum.
type Group struct {
	// Owner is the role whose intent sized the group. The fallback group is
	// owned by RoleOther.
	Owner Role
	// Roles are the roles the group's nodes carry.
	Roles RoleSet
	// QuorumHost marks the one group that runs coordination quorum members.
	QuorumHost bool
	// MemberCount is the initial node count (the quorum size for the host).
	MemberCount int
	// MaxCount bounds elastic scaling.
	MaxCount int
	// InstanceSize is the provider size override, if any.
	InstanceSize string
}

// Name is the group's identifier in resource names and node identities.
func (g Group) Name() string {
	return g.Owner.String()
}

// Has reports whether the group's nodes carry the role.
func (g Group) Has(r Role) bool {
	return g.Roles.Has(r)
}

func (g Group) String() string {
	kind := "elastic"
	if g.QuorumHost {
		kind = "quorum"
	}
	return fmt.Sprintf("%s%s[%s x%d]", g.Name(), g.Roles, kind, g.MemberCount)
}

// Colocation is a requested pairing that the resolver could not honour
// because the target had already been claimed by an earlier isolation.
type Colocation struct {
	Role   Role
	Target Role
	// ClaimedBy is the owner of the group that holds the target.
	ClaimedBy Role
}

// Resolution is the full output of topology resolution.
type Resolution struct {
	Groups  []Group
	Dropped []Colocation
}

// QuorumHost returns the group hosting the coordination quorum.
func (r *Resolution) QuorumHost() Group {
	g, _ := QuorumHost(r.Groups)
	return g
}

// Resolve assigns every role to exactly one group and marks exactly one group
// as the quorum host.
func Resolve(intents Intents) ([]Group, error) {
	res, err := ResolveDetailed(intents)
	if err != nil {
		return nil, err
	}
	return res.Groups, nil
}

// ResolveDetailed is Resolve plus the list of colocation requests that were
// silently dropped.
//
// Groups are emitted in resolution order: isolated roles in Precedence order,
// then the isolated coordination group, then the fallback group.
func ResolveDetailed(intents Intents) (*Resolution, error) {
	if err := intents.Validate(); err != nil {
		return nil, err
	}

	res := &Resolution{}
	available := NewRoleSet(Precedence...)
	claimedBy := make(map[Role]Role)

	for _, role := range Precedence {
		intent := intents[role]
		if !intent.Isolated || !available.Has(role) {
			continue
		}

		members := intent.Colocate.Intersect(available).With(role)
		for _, target := range intent.Colocate.Without(members).Roles() {
			res.Dropped = append(res.Dropped, Colocation{Role: role, Target: target, ClaimedBy: claimedBy[target]})
		}
		for _, m := range members.Roles() {
			claimedBy[m] = role
		}

		res.Groups = append(res.Groups, newGroup(role, members, intent))
		available = available.Without(members)
	}

	coordination := intents[RoleCoordination]
	if coordination.Isolated {
		g := newGroup(RoleCoordination, NewRoleSet(RoleCoordination), coordination)
		g.QuorumHost = true
		res.Groups = append(res.Groups, g)
	}

	fallback := -1
	if !available.Empty() {
		res.Groups = append(res.Groups, newGroup(RoleOther, available.With(RoleOther), intents[RoleOther]))
		fallback = len(res.Groups) - 1
	}

	host := indexOf(res.Groups, RoleCoordination)
	if !coordination.Isolated {
		// Control's own group, the fallback group, or the worker group that
		// absorbed control through colocation. The last case includes the
		// single-group deployment, which cannot run the quorum elastically.
		host = indexOf(res.Groups, RoleControl)
		res.Groups[host].QuorumHost = true
		res.Groups[host].Roles = res.Groups[host].Roles.With(RoleCoordination)
	}
	if fallback < 0 {
		// Isolated coordination stays single-role, so the fallback role rides
		// with control instead.
		ctl := indexOf(res.Groups, RoleControl)
		res.Groups[ctl].Roles = res.Groups[ctl].Roles.With(RoleOther)
	}

	if g := res.Groups[host]; g.MemberCount%2 == 0 {
		return nil, &InvalidIntentError{
			Role:   g.Owner,
			Reason: fmt.Sprintf("group hosts the coordination quorum, %d is an even number", g.MemberCount),
		}
	}

	return res, nil
}

// QuorumHost returns the quorum-host group and whether one was found.
func QuorumHost(groups []Group) (Group, bool) {
	for _, g := range groups {
		if g.QuorumHost {
			return g, true
		}
	}
	return Group{}, false
}

func newGroup(owner Role, roles RoleSet, intent Intent) Group {
	return Group{
		Owner:        owner,
		Roles:        roles,
		MemberCount:  intent.MinInstances,
		MaxCount:     intent.MaxInstances,
		InstanceSize: intent.InstanceSize,
	}
}

func indexOf(groups []Group, r Role) int {
	for i, g := range groups {
		if g.Has(r) {
			return i
		}
	}
	return -1
}
