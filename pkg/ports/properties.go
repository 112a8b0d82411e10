package ports

// PropertySource exposes the variable bindings visible to the running build.
// Implementations must be safe to call from the command reader goroutine while the
// build goroutine is running or suspended.
type PropertySource interface {
	// Properties returns a snapshot copy of the current bindings.
	Properties() map[string]string
}
