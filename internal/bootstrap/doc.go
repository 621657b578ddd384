// Package bootstrap plans the nodes of the coordination quorum.
//
// For the group hosting the quorum, the Planner decides per ordinal whether
// the node founds a new quorum or joins a live one, and which zone it lives
// in. Every decision is recomputed from PlacementOracle answers, so repeated
// runs against a stable fleet produce the same plan.
package bootstrap
