// Package labels provides consistent labeling utilities for Hetzner Cloud resources.
//
// Every server and placement group generated for a stack carries the stack
// and group labels, so the fleet can be queried with a label selector and
// the ingress load balancer can target an elastic group without listing its
// servers.
//
// Label keys use the clusterform.io domain prefix for namespacing.
package labels
