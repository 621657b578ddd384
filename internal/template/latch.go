package template

import "github.com/imamik/clusterform/internal/topology"

// IngressLatch grants the load-balancer attachment to the first group that
// carries the router role. It is owned by a single assembly pass.
type IngressLatch struct {
	owner string
}

// Claim reports whether g receives the attachment. It returns true at most once.
func (l *IngressLatch) Claim(g topology.Group) bool {
	if l.owner != "" || !g.Has(topology.RoleRouter) {
		return false
	}
	l.owner = g.Name()
	return true
}

// Owner is the name of the group holding the attachment, or "".
func (l *IngressLatch) Owner() string {
	return l.owner
}
