// Package sim provides the discrete-event simulation kernel: a virtual
// clock, a deterministic event heap, one-shot completion events with an
// all-of combinator, and partitioned seedable randomness.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - event.go: the Event interface and function-event adapter
//   - environment.go: the virtual clock and the event loop
//   - completion.go: completion events, subscription, and AllOf joins
//
// Domain behavior lives in sub-packages:
//   - sim/seda/: staged resource engine (resources, stages, stage requests)
//   - sim/hdfs/: cluster model (physical nodes, data/name nodes, facade)
//   - sim/workload/: closed-loop clients and statistics
//
// The simulation is single-threaded and cooperative: exactly one event
// executes at any simulated instant, and concurrency is interleaving on
// the virtual clock, never parallelism.
package sim
