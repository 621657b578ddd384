// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - IntentsBuilder: Fluent builder for placement intents
//   - FakeFleet: In-memory PlacementOracle describing an already-provisioned fleet
//   - MockPlacementOracle: testify mock for asserting exact oracle calls
//
// Usage:
//
//	intents := testing.NewIntentsBuilder().
//	    Isolate(topology.RoleRouter, topology.RoleData).
//	    Build()
//
//	fleet := testing.NewFakeFleet("eu-west-1a", "eu-west-1b").
//	    WithQuorum("prod", "other", 3, "eu-west-1a")
package testing
