// Package config defines the clusterform.yaml file model.
//
// A [Config] carries the stack name, the target provider, one [RoleConfig]
// per role and the provider settings. Flags on the command line override
// file values; [Config.Intents] turns the result into the topology intents
// consumed by the resolver. Validation here is structural only. Placement
// rules (odd quorum counts, allowed colocations) live in the topology
// package.
package config
