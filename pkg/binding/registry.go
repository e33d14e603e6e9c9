package binding

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/streambind/streambind/pkg/logging"
	bindotel "github.com/streambind/streambind/pkg/observability/otel"
	bindprom "github.com/streambind/streambind/pkg/observability/prometheus"
)

// registration pairs a retained binding with its registration id
type registration struct {
	id      string
	binding Controllable
}

// Registry retains active bindings keyed by their binding name and unbinds
// them on shutdown. Multiple bindings may share a name (a producer and a
// consumer bound to the same destination, or several consumer groups).
type Registry struct {
	mu       sync.RWMutex
	bindings map[string][]*registration
	log      logging.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithRegistryLogger replaces the package-level logger
func WithRegistryLogger(log logging.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates an empty binding registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		bindings: make(map[string][]*registration),
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register retains a binding under its name and returns a registration id.
func (r *Registry) Register(b Controllable) (string, error) {
	if b == nil {
		return "", &Error{Code: "INVALID_BINDING", Message: "binding cannot be nil"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := generateRegistrationID()
	name := b.Name()
	r.bindings[name] = append(r.bindings[name], &registration{id: id, binding: b})

	bindprom.ActiveBindings.Inc()
	bindprom.RegistrationsTotal.Inc()
	r.log.Debug("registered binding ", name, " as ", id)
	return id, nil
}

// Bindings returns the bindings currently retained under a name
func (r *Registry) Bindings(name string) []Controllable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.bindings[name]
	out := make([]Controllable, 0, len(regs))
	for _, reg := range regs {
		out = append(out, reg.binding)
	}
	return out
}

// Names returns the names that currently have retained bindings
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	return names
}

// Unbind unbinds and discards every binding retained under a name. It returns
// ErrNotFound when the name has no retained bindings; the first unbind
// failure is returned after the remaining bindings have been attempted.
func (r *Registry) Unbind(ctx context.Context, name string) error {
	ctx, span := bindotel.StartSpan(ctx, "registry.unbind",
		trace.WithAttributes(attribute.String("binding.name", name)))
	defer span.End()

	r.mu.Lock()
	regs, exists := r.bindings[name]
	if !exists {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.bindings, name)
	r.mu.Unlock()

	var firstErr error
	for _, reg := range regs {
		if err := reg.binding.Unbind(ctx); err != nil {
			r.log.Error("unbind failed for ", name, ": ", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("unbind %s: %w", name, err)
			}
			continue
		}
		bindprom.UnbindsTotal.Inc()
	}
	bindprom.ActiveBindings.Sub(float64(len(regs)))
	return firstErr
}

// Close unbinds every retained binding. The first failure is returned after
// all names have been attempted.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.RLock()
	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	r.mu.RUnlock()

	var firstErr error
	for _, name := range names {
		if err := r.Unbind(ctx, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func generateRegistrationID() string {
	return fmt.Sprintf("binding.%s", uuid.New().String())
}
