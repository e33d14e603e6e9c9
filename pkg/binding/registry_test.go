package binding

import (
	"context"
	"errors"
	"testing"
)

func mustBind(t *testing.T, name, group string, ep *fakeEndpoint) *DefaultBinding[string] {
	t.Helper()
	b, err := New(name, group, "handle", ep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestRegistry_RegisterNil(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register(nil); err == nil {
		t.Error("expected error registering nil binding")
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	b1 := mustBind(t, "orders-in", "grp1", &fakeEndpoint{})
	b2 := mustBind(t, "orders-in", "grp2", &fakeEndpoint{})
	b3 := mustBind(t, "payments-in", "grp1", &fakeEndpoint{})

	id1, err := r.Register(b1)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	id2, err := r.Register(b2)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if id1 == id2 {
		t.Error("registration ids must be unique")
	}
	if _, err := r.Register(b3); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if got := len(r.Bindings("orders-in")); got != 2 {
		t.Errorf("expected 2 bindings under orders-in, got %d", got)
	}
	if got := len(r.Names()); got != 2 {
		t.Errorf("expected 2 names, got %d", got)
	}
}

func TestRegistry_UnbindUnknown(t *testing.T) {
	r := NewRegistry()
	if err := r.Unbind(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_UnbindStopsAndDiscards(t *testing.T) {
	r := NewRegistry()
	ep := &fakeEndpoint{}
	b := mustBind(t, "orders-in", "grp1", ep)

	ctx := context.Background()
	if _, err := r.Register(b); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := b.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := r.Unbind(ctx, "orders-in"); err != nil {
		t.Fatalf("unbind failed: %v", err)
	}
	if b.IsRunning() {
		t.Error("expected binding stopped after registry unbind")
	}
	if _, stops := ep.counts(); stops != 1 {
		t.Errorf("expected one delegated stop, got %d", stops)
	}

	// Discarded: a second unbind finds nothing
	if err := r.Unbind(ctx, "orders-in"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after discard, got %v", err)
	}
}

func TestRegistry_CloseUnbindsAll(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	eps := []*fakeEndpoint{{}, {}, {}}
	names := []string{"orders-in", "payments-in", "audit-out"}
	for i, name := range names {
		b := mustBind(t, name, "grp1", eps[i])
		if _, err := r.Register(b); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if err := b.Start(ctx); err != nil {
			t.Fatalf("start failed: %v", err)
		}
	}

	if err := r.Close(ctx); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	for i, ep := range eps {
		if ep.IsRunning() {
			t.Errorf("endpoint %s still running after close", names[i])
		}
	}
	if got := len(r.Names()); got != 0 {
		t.Errorf("expected empty registry after close, got %d names", got)
	}
}

func TestRegistry_UnbindContinuesOnFailure(t *testing.T) {
	r := NewRegistry()
	stopErr := errors.New("broker connection lost")
	bad := &fakeEndpoint{running: true, stopErr: stopErr}
	good := &fakeEndpoint{running: true}

	if _, err := r.Register(mustBind(t, "orders-in", "grp1", bad)); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := r.Register(mustBind(t, "orders-in", "grp2", good)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err := r.Unbind(context.Background(), "orders-in")
	if !errors.Is(err, stopErr) {
		t.Errorf("expected the stop error to surface, got %v", err)
	}
	if good.IsRunning() {
		t.Error("remaining bindings must still be unbound after a failure")
	}
}
