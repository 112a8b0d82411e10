/*
Package build is a small build engine that hosts a debug session.

A Plan is read from YAML: named targets with dependencies, each holding an ordered list of
tasks. Task and target locations are the YAML lines they are declared on, so a client can set
breakpoints by file and line. The Executor resolves the target order and drives a
ports.BuildListener through build, target and task start and finish.

Task kinds:

  - property: sets a property unless it is already set.
  - echo: prints a message with ${property} expansion.
  - sequential: runs nested tasks.
  - sleep: waits for a duration.
  - fail: aborts the build, optionally only when a property is set.

Unknown kinds are logged and skipped.
*/
package build
