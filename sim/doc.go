// Package sim provides the core discrete-event dispatch simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - call.go / ambulance.go: entity lifecycles and their state machines
//   - event.go: Event types that drive the simulation (CallArrival, DispatchSweep, etc.)
//   - simulator.go: the event loop, assignment handling, and run accounting
//
// # Architecture
//
// The sim package owns all run state; supporting concerns live alongside or
// in sub-packages:
//   - network.go: weighted directed location graph and travel-cost resolvers
//   - fleet.go: ambulance registry and availability snapshots
//   - callqueue.go: priority-ordered pending-call queue
//   - policy.go: pluggable dispatch policies
//   - sim/trace/: the ordered event log a run produces
//   - sim/runner/: parallel evaluation of independent runs
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
//   - Resolver: shortest-path travel cost between two locations
//   - DispatchPolicy: select a unit for a pending call, or defer it
//   - ArrivalSampler: inter-arrival times for synthetic call streams
//
// Everything a run touches hangs off its Simulator instance, so independent
// runs are safe to execute concurrently.
package sim
