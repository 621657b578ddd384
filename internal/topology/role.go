package topology

import (
	"fmt"
	"strings"
)

// Role is a logical cluster function. The set of roles is closed.
type Role uint8

// Roles, in declaration order. The zero value is not a valid role.
const (
	RoleControl Role = iota + 1
	RoleData
	RoleRouter
	RoleCoordination
	RoleOther
)

// roleInfo is the mapping table for everything that is derived from a role:
// its configuration name, the prefix used for provider resource names and the
// fleet metadata key scheduled workloads select on.
type roleInfo struct {
	name          string
	resourceName  string
	fleetMetadata string
	// colocatable lists the roles this role may declare as colocation targets.
	colocatable RoleSet
	// quorumEligible roles require an odd member count.
	quorumEligible bool
}

var roleTable = map[Role]roleInfo{
	RoleControl: {
		name:           "control",
		resourceName:   "Control",
		fleetMetadata:  "controlPlane=true",
		colocatable:    NewRoleSet(RoleRouter, RoleData),
		quorumEligible: true,
	},
	RoleData: {
		name:          "data",
		resourceName:  "Data",
		fleetMetadata: "dataPlane=true",
		colocatable:   NewRoleSet(RoleRouter, RoleControl),
	},
	RoleRouter: {
		name:          "router",
		resourceName:  "Router",
		fleetMetadata: "routerMesh=true",
		colocatable:   NewRoleSet(RoleData, RoleControl),
	},
	RoleCoordination: {
		name:           "coordination",
		resourceName:   "Coordination",
		quorumEligible: true,
	},
	RoleOther: {
		name:         "other",
		resourceName: "Other",
	},
}

// AllRoles returns every role in declaration order.
func AllRoles() []Role {
	return []Role{RoleControl, RoleData, RoleRouter, RoleCoordination, RoleOther}
}

// Precedence is the order in which isolation requests are honoured.
// Earlier roles claim their colocation targets first.
var Precedence = []Role{RoleRouter, RoleData, RoleControl}

// ParseRole converts a configuration name into a Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllRoles() {
		if roleTable[r].name == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r >= RoleControl && r <= RoleOther
}

// String returns the configuration name of the role.
func (r Role) String() string {
	if info, ok := roleTable[r]; ok {
		return info.name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// ResourceName returns the CamelCase prefix used in provider resource names.
func (r Role) ResourceName() string {
	return roleTable[r].resourceName
}

// FleetMetadata returns the scheduler metadata entry advertised by nodes
// carrying this role, or "" for roles that advertise nothing.
func (r Role) FleetMetadata() string {
	return roleTable[r].fleetMetadata
}

// QuorumEligible reports whether the role may host the coordination quorum.
func (r Role) QuorumEligible() bool {
	return roleTable[r].quorumEligible
}

// CanColocate reports whether r may declare other as a colocation target.
func (r Role) CanColocate(other Role) bool {
	return roleTable[r].colocatable.Has(other)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is an immutable set of roles.
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

func (r Role) bit() RoleSet {
	return RoleSet(1) << (r - 1)
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	return r.Valid() && s&r.bit() != 0
}

// With returns a copy of s that includes r.
func (s RoleSet) With(r Role) RoleSet {
	if !r.Valid() {
		return s
	}
	return s | r.bit()
}

// Without returns a copy of s that excludes every role in o.
func (s RoleSet) Without(o RoleSet) RoleSet {
	return s &^ o
}

// Intersect returns the roles present in both sets.
func (s RoleSet) Intersect(o RoleSet) RoleSet {
	return s & o
}

// Union returns the roles present in either set.
func (s RoleSet) Union(o RoleSet) RoleSet {
	return s | o
}

// Empty reports whether the set has no roles.
func (s RoleSet) Empty() bool {
	return s == 0
}

// Len returns the number of roles in the set.
func (s RoleSet) Len() int {
	return len(s.Roles())
}

// Roles returns the members in declaration order.
func (s RoleSet) Roles() []Role {
	var out []Role
	for _, r := range AllRoles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// FleetMetadata joins the metadata entries of the members, in declaration order.
func (s RoleSet) FleetMetadata() []string {
	var out []string
	for _, r := range s.Roles() {
		if m := r.FleetMetadata(); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func (s RoleSet) String() string {
	names := make([]string, 0, 5)
	for _, r := range s.Roles() {
		names = append(names, r.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
