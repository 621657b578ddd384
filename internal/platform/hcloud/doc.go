// Package hcloud answers placement questions against the Hetzner Cloud API.
//
// [Oracle] implements bootstrap.PlacementOracle: quorum nodes are servers
// named after their identity tag, and a node's zone is its location. The
// same client lists the locations and server types a Terraform target may
// use.
//
// Lookups are read-only. Rate-limited calls are retried with exponential
// backoff; every other API error is returned to the caller at once.
package hcloud
