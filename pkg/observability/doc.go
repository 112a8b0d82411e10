/*
Package observability provides Prometheus instrumentation for debug sessions.

A single Metrics value is shared by every session of a process. All methods are
safe on a nil receiver, so sessions can be created without metrics.
*/
package observability
