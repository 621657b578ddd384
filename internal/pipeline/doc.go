// Package pipeline runs one generation pass: resolve the topology, list the
// candidate zones, plan the quorum nodes and assemble the document.
//
// # Core Types
//
// Context carries the stack, intents, placement oracle and assembler.
// Phase is one step with Name() and Run() methods.
// State accumulates the results of each phase (resolution, zones, node plans, document).
package pipeline
