// Package topology decides which roles share nodes and which group hosts the
// coordination quorum.
//
// Roles form a closed enumeration (control, data, router, coordination and the
// fallback "other"). A user's per-role Intent asks for isolation and
// colocation; Resolve turns the intents into Groups using a fixed precedence
// order rather than a search, so the same intents always produce the same
// groups.
//
// Invariants of the result:
//
//   - every role is carried by exactly one group
//   - exactly one group is the quorum host, and its member count is odd
//   - isolated coordination is always a single-role quorum host
package topology
