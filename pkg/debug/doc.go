/*
Package debug implements the bookkeeping and the suspend state machine of a debug session.

None of the types in this package lock: the owning session serializes every access
under its own mutex, so the build goroutine and the command reader observe a single
consistent view.

# Key Components

  - CallStack: The ordered stack of active frames, the active target and the build sequence.
  - BreakpointSet: Line breakpoints keyed by (file, line).
  - Controller: The decision algorithm run at every decision point, and the command effects.
*/
package debug
