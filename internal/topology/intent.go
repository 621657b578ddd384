package topology

import "fmt"

// Intent is the user's placement request for a single role.
type Intent struct {
	// Isolated requests dedicated nodes for the role and its colocated roles.
	Isolated bool
	// Colocate lists the roles that should share the isolated role's nodes.
	Colocate RoleSet
	// MinInstances is the initial (and minimum) node count.
	MinInstances int
	// MaxInstances is the upper bound elastic groups may scale to.
	MaxInstances int
	// InstanceSize overrides the provider's default instance size when set.
	InstanceSize string
}

// Intents holds the intent of every role. It is built once per run and not
// modified afterwards.
type Intents map[Role]Intent

// DefaultIntents returns the stock intents: nothing isolated, three nodes per
// role, and room to grow the data plane furthest.
func DefaultIntents() Intents {
	return Intents{
		RoleControl:      {MinInstances: 3, MaxInstances: 9},
		RoleData:         {MinInstances: 3, MaxInstances: 25},
		RoleRouter:       {MinInstances: 3, MaxInstances: 9},
		RoleCoordination: {MinInstances: 3, MaxInstances: 9},
		RoleOther:        {MinInstances: 3, MaxInstances: 9},
	}
}

// Clone returns a copy that can be modified without affecting the receiver.
func (in Intents) Clone() Intents {
	out := make(Intents, len(in))
	for r, i := range in {
		out[r] = i
	}
	return out
}

// Validate checks every role's intent and returns the first problem found as
// an *InvalidIntentError.
func (in Intents) Validate() error {
	for _, role := range AllRoles() {
		intent, ok := in[role]
		if !ok {
			return &InvalidIntentError{Role: role, Reason: "no intent supplied"}
		}
		if err := intent.validate(role); err != nil {
			return err
		}
	}
	for role := range in {
		if !role.Valid() {
			return &InvalidIntentError{Role: role, Reason: "unknown role"}
		}
	}
	return nil
}

func (i Intent) validate(role Role) error {
	invalid := func(format string, args ...any) error {
		return &InvalidIntentError{Role: role, Reason: fmt.Sprintf(format, args...)}
	}

	if i.MinInstances < 1 {
		return invalid("instance count must be positive, got %d", i.MinInstances)
	}
	if i.MinInstances > i.MaxInstances {
		return invalid("instance count %d exceeds maximum %d", i.MinInstances, i.MaxInstances)
	}
	if role.QuorumEligible() {
		if i.MinInstances%2 == 0 {
			return invalid("%d is an even number, only odd instance counts are allowed", i.MinInstances)
		}
		if i.MaxInstances%2 == 0 {
			return invalid("maximum %d is an even number, only odd instance counts are allowed", i.MaxInstances)
		}
	}

	switch role {
	case RoleOther:
		if i.Isolated {
			return invalid("the fallback role cannot be isolated")
		}
	case RoleCoordination:
		// Coordination is never colocated; isolation is its only choice.
	}

	for _, target := range i.Colocate.Roles() {
		if !role.CanColocate(target) {
			return invalid("cannot colocate with %s", target)
		}
	}
	return nil
}
