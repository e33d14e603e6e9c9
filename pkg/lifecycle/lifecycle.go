package lifecycle

import "context"

// Lifecycle is the minimal start/stop/is-running capability a binding
// delegates to. Implementations are typically message channel endpoints
// (consumers or producers) whose run state the binding governs.
type Lifecycle interface {
	// Start brings the component into the running state. It blocks for as
	// long as the component's own startup takes; no deadline is imposed
	// beyond what the caller puts in ctx.
	Start(ctx context.Context) error

	// Stop halts the component. It blocks until the component has stopped.
	Stop(ctx context.Context) error

	// IsRunning reports whether the component is currently running.
	IsRunning() bool
}

// NamedComponent is an optional capability for diagnostics. A Lifecycle that
// also implements NamedComponent gets its component name rendered in binding
// descriptions instead of its raw value.
type NamedComponent interface {
	ComponentName() string
}
