/*
Package ports defines the driven ports (interfaces) of the waypoint debugger.

These interfaces decouple the debug session from the build engine that hosts it
and from the backends that publish session status.

# Key Interfaces

  - BuildListener: The synchronous hooks a build engine calls as it executes.
  - PropertySource: The variable bindings visible to the build, read for PROPERTIES replies.
  - StatusStore: Persists session status snapshots for admin surfaces (memory, file, redis).
*/
package ports
