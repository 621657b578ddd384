// Package naming provides consistent naming functions for generated resources.
//
// Quorum nodes are addressed as node-{ordinal}.{domain} where the domain is
// coordination-{stack}.internal. Fleet tags follow {stack}-{group}-node-{ordinal}
// so a lookup by tag never matches a node of another stack or group.
package naming
