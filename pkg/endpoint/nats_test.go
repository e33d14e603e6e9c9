package endpoint

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()
	s, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	go s.Start()
	if !s.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(s.Shutdown)

	nc, err := nats.Connect(s.ClientURL())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(nc.Close)
	return nc
}

func waitFor(t *testing.T, counter *int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(counter) < want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d messages, got %d", want, atomic.LoadInt32(counter))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNATSConsumer_StartStop(t *testing.T) {
	nc := startNATS(t)

	var received int32
	c := NewNATSConsumer(nc, "orders", "grp1", func(msg *nats.Msg) {
		atomic.AddInt32(&received, 1)
	})

	if c.IsRunning() {
		t.Fatal("expected not running before start")
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !c.IsRunning() {
		t.Error("expected running after start")
	}

	if err := nc.Publish("orders", []byte("hello")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	nc.Flush()
	waitFor(t, &received, 1)

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if c.IsRunning() {
		t.Error("expected not running after stop")
	}

	if err := nc.Publish("orders", []byte("late")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	nc.Flush()
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&received); got != 1 {
		t.Errorf("expected 1 handled message after stop, got %d", got)
	}
}

func TestNATSConsumer_Idempotent(t *testing.T) {
	nc := startNATS(t)
	c := NewNATSConsumer(nc, "orders", "", func(msg *nats.Msg) {})

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("repeated start failed: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("repeated stop failed: %v", err)
	}
}

func TestNATSConsumer_QueueGroupSplitsTraffic(t *testing.T) {
	nc := startNATS(t)

	var total int32
	c1 := NewNATSConsumer(nc, "orders", "grp1", func(msg *nats.Msg) {
		atomic.AddInt32(&total, 1)
	})
	c2 := NewNATSConsumer(nc, "orders", "grp1", func(msg *nats.Msg) {
		atomic.AddInt32(&total, 1)
	})

	ctx := context.Background()
	for _, c := range []*NATSConsumer{c1, c2} {
		if err := c.Start(ctx); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		defer c.Stop(ctx)
	}

	const n = 10
	for i := 0; i < n; i++ {
		if err := nc.Publish("orders", []byte("msg")); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}
	nc.Flush()

	// Queue group: each message goes to exactly one member
	waitFor(t, &total, n)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&total); got != n {
		t.Errorf("expected %d deliveries across the group, got %d", n, got)
	}
}

func TestNATSConsumer_ComponentName(t *testing.T) {
	c := NewNATSConsumer(nil, "orders", "grp1", nil)
	if got := c.ComponentName(); got != "nats:orders/grp1" {
		t.Errorf("expected nats:orders/grp1, got %s", got)
	}
	c = NewNATSConsumer(nil, "orders", "", nil)
	if got := c.ComponentName(); got != "nats:orders" {
		t.Errorf("expected nats:orders, got %s", got)
	}
}
