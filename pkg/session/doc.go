/*
Package session implements the debug session that sits between a running build and
a single debug client.

A Session owns one already-accepted control stream. Start launches the command reader
goroutine; the build engine then calls the hooks (OnBuildStart, OnTargetStart,
OnTaskStart, ...) synchronously from its own goroutine. Each hook updates the call stack
and runs the suspend decision. When the decision is to suspend, the hook notifies the
client and blocks until a step, RESUME or TERMINATE command arrives, the stream fails,
or the hook's context is cancelled.

Both goroutines share one mutex and one condition variable. Shutdown is idempotent and
safe from either side: it releases every waiter and closes the stream, after which all
hooks return domain.ErrSessionTerminated.
*/
package session
