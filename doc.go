/*
Package waypoint runs builds under an attachable, line-oriented debugger.

A build host reports every build, target and task start and finish to a debug session
(session.Session). At each of these decision points the session decides whether the
build must suspend: on a breakpoint, at the end of a step, on a client request, or before
the first target. While the build goroutine is blocked, the client inspects the call stack
and the build properties over the same control stream.

# Protocol

The control stream carries one UTF-8 message per line, fields separated by "|".

Client to server:

	STEP_INTO | STEP_OVER | STEP_RETURN | SUSPEND | RESUME | TERMINATE
	STACK | PROPERTIES
	ADD_BREAKPOINT|<file>|<line>
	REMOVE_BREAKPOINT|<file>|<line>

Server to client:

	BUILD_STARTED
	SUSPENDED|BREAKPOINT|<file>|<line>
	SUSPENDED|STEP
	SUSPENDED|CLIENT_REQUEST
	TERMINATED
	STACK|<json>
	PROPERTIES|<json>

# Usage

The bundled executor (package build) runs YAML build plans:

	plan, err := build.LoadPlan("build.yaml")
	if err != nil {
		log.Fatal(err)
	}
	conn, err := ln.Accept()
	if err != nil {
		log.Fatal(err)
	}
	err = waypoint.New().Run(ctx, plan, conn)

Any other build engine can drive a session directly through the ports.BuildListener hooks.
*/
package waypoint
