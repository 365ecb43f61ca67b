// Package sim provides the discrete-event simulation core for sprint-sim:
// boards, sprints, issues and worklogs played out on a virtual clock against
// an issue tracker.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - simulator.go: the Simulator context object, Spawn, and the event loop
//   - process.go: the Process interface and the Wait/Exit/Fail yields
//   - queue.go: the (time, sequence) ordered event heap
//   - sprint.go, worklog.go: the two domain processes
//
// # Execution Model
//
// Processes are explicit state machines. Resume runs one step and returns a
// Yield; a Wait(d) yield schedules a ResumeEvent at Clock+d. Spawn runs the
// first step immediately. Events at the same tick fire in scheduling order,
// so a run is fully determined by its seed and its spawn order.
//
// Only one process step runs at a time. The Store and PartitionedRNG are
// shared by every process of a run and are deliberately unsynchronized.
//
// # Sub-packages
//   - sim/tracker/: the Gateway interface, status codes, estimate strings, queries
//   - sim/tracker/memtracker/: in-memory Gateway
//   - sim/tracker/sqltracker/: SQLite-backed Gateway
//   - sim/trace/: labeled event records
//   - sim/scenario/: YAML scenario files
package sim
