/*
Package domain contains the core domain models for the waypoint debug engine.

It defines the entities shared by the session engine, the wire protocol and the
storage adapters. This package is kept pure and free of external dependencies
like I/O or persistence.

# Key Entities

  - Location: A (file, line) position inside a build script.
  - Frame: One active task on the call stack.
  - Breakpoint: A line breakpoint, equal by (file, line).
  - StepMode: The single active stepping request (into, over, return).
  - Suspension: Why the build goroutine was blocked at a decision point.
  - SessionStatus: A published snapshot of a debug session, used by status stores.
*/
package domain
