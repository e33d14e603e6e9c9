package binding

import (
	"context"
	"fmt"
	"sync"

	"github.com/streambind/streambind/pkg/lifecycle"
	"github.com/streambind/streambind/pkg/logging"
)

// Controllable is the registry-facing contract of a binding, independent of
// its target type. The registry drives Unbind on shutdown and decides whether
// to discard or retain the binding afterwards.
type Controllable interface {
	// Name returns the binding target name (may be empty for anonymous bindings)
	Name() string

	// Group returns the consumer group (empty marks the binding anonymous)
	Group() string

	// IsRunning reports whether the bound endpoint is currently running.
	// Best-effort snapshot: it may be stale immediately after return; the
	// authoritative check happens inside the locked transitions.
	IsRunning() bool

	// Start brings the bound endpoint into the running state
	Start(ctx context.Context) error

	// Stop halts the bound endpoint
	Stop(ctx context.Context) error

	// Unbind stops the endpoint and runs the after-unbind hook
	Unbind(ctx context.Context) error
}

// Binding associates a named logical target with a concrete running endpoint.
type Binding[T any] interface {
	Controllable

	// Target returns the bound handle
	Target() T
}

// Option configures a DefaultBinding at construction
type Option[T any] func(*DefaultBinding[T])

// WithAfterUnbind supplies a hook invoked after every Unbind, outside the
// start/stop lock. Concurrent unbinds may run the hook concurrently, so it
// must be idempotent and thread-safe if it mutates shared state.
func WithAfterUnbind[T any](hook func(ctx context.Context)) Option[T] {
	return func(b *DefaultBinding[T]) {
		b.afterUnbind = hook
	}
}

// WithLogger replaces the package-level logger for this binding's diagnostics
func WithLogger[T any](log logging.Logger) Option[T] {
	return func(b *DefaultBinding[T]) {
		b.log = log
	}
}

// DefaultBinding is the default Binding implementation. It associates a name
// and group with a binding target and an optional lifecycle endpoint, and
// serializes start/stop transitions under a per-instance lock.
//
// A binding with an empty group is anonymous: once not running it cannot be
// restarted, because there is no stable identity to re-attach an endpoint to.
// Start on such a binding logs a warning and does nothing.
type DefaultBinding[T any] struct {
	name        string
	group       string
	target      T
	endpoint    lifecycle.Lifecycle
	log         logging.Logger
	mu          sync.Mutex
	afterUnbind func(ctx context.Context)
}

// New creates a binding that associates name and group with a target and an
// optional endpoint, which will be stopped during unbinding. The target must
// not be nil; name, group and endpoint may be empty/nil.
func New[T any](name, group string, target T, endpoint lifecycle.Lifecycle, opts ...Option[T]) (*DefaultBinding[T], error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	b := &DefaultBinding[T]{
		name:     name,
		group:    group,
		target:   target,
		endpoint: endpoint,
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *DefaultBinding[T]) Name() string {
	return b.name
}

func (b *DefaultBinding[T]) Group() string {
	return b.group
}

func (b *DefaultBinding[T]) Target() T {
	return b.target
}

// Endpoint returns the attached lifecycle endpoint, nil if none
func (b *DefaultBinding[T]) Endpoint() lifecycle.Lifecycle {
	return b.endpoint
}

func (b *DefaultBinding[T]) IsRunning() bool {
	return b.endpoint != nil && b.endpoint.IsRunning()
}

// Start transitions the binding to running. No-op when already running.
// Anonymous bindings (empty group) and bindings without an endpoint are not
// restartable; Start logs a warning and takes no action for them. Errors from
// the endpoint's own start propagate verbatim.
func (b *DefaultBinding[T]) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.IsRunning() {
		return nil
	}
	if b.endpoint != nil && b.group != "" {
		return b.endpoint.Start(ctx)
	}
	b.log.Warn("cannot re-bind an anonymous binding: ", b.String())
	return nil
}

// Stop halts the bound endpoint. Idempotent: stopping a binding that is not
// running is a no-op. Errors from the endpoint's own stop propagate verbatim.
func (b *DefaultBinding[T]) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.IsRunning() {
		return nil
	}
	return b.endpoint.Stop(ctx)
}

// Unbind stops the endpoint and then runs the after-unbind hook. The hook
// runs outside the start/stop lock; if Stop fails the error propagates and
// the hook does not run.
func (b *DefaultBinding[T]) Unbind(ctx context.Context) error {
	if err := b.Stop(ctx); err != nil {
		return err
	}
	if b.afterUnbind != nil {
		b.afterUnbind(ctx)
	}
	return nil
}

// String renders the binding for logs and debugging. When the endpoint
// implements lifecycle.NamedComponent its component name is used, otherwise a
// nil-safe value rendering.
func (b *DefaultBinding[T]) String() string {
	var endpoint string
	switch e := b.endpoint.(type) {
	case nil:
		endpoint = "<nil>"
	case lifecycle.NamedComponent:
		endpoint = e.ComponentName()
	default:
		endpoint = fmt.Sprintf("%v", b.endpoint)
	}
	return fmt.Sprintf("Binding [name=%s, target=%v, endpoint=%s]", b.name, b.target, endpoint)
}
