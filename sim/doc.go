// Package sim provides the agent-based contact-network epidemic engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - agent.go: Agent record and the SEIQRD disease states
//   - epidemic.go: the per-agent state machine (timers, testing, transmission)
//   - simulator.go: the day loop (sample interactions, advance timers, transmit)
//
// # Architecture
//
// A run flows through four components, all owned by one Simulator:
//   - population.go: the data contract consumed from schedule/location providers
//   - contact_graph.go: potential interactions from shared locations with
//     overlapping activity windows (activity.go holds the time geometry)
//   - sampler.go: per-day thinning of potential into realized interactions
//     under the distancing policy
//   - epidemic.go: disease progression and transmission
//
// Sub-packages:
//   - sim/population/: Activity schedule providers (YAML file, synthetic households)
//   - sim/trace/: State-transition trace recording
//   - sim/results/: Run persistence (SQLite) and CSV/JSON export
//
// # Determinism
//
// All randomness comes from a PartitionedRNG keyed by a SimulationKey, split
// into isolated streams per subsystem. The same seed, population and Config
// reproduce an identical Report. The engine is single-threaded and performs no I/O.
package sim
