package endpoint

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATSConsumer is a message channel endpoint backed by a NATS subscription.
// A non-empty queue makes the subscription queue-grouped, so consumers
// sharing the group split the subject's traffic. It implements
// lifecycle.Lifecycle and lifecycle.NamedComponent.
//
// The endpoint uses the connection but does not own it; closing the
// connection is the caller's responsibility.
type NATSConsumer struct {
	conn    *nats.Conn
	subject string
	queue   string
	handler nats.MsgHandler
	mu      sync.Mutex
	sub     *nats.Subscription
}

// NewNATSConsumer creates a stopped consumer endpoint for a subject. queue
// may be empty for a plain subscription.
func NewNATSConsumer(conn *nats.Conn, subject, queue string, handler nats.MsgHandler) *NATSConsumer {
	return &NATSConsumer{
		conn:    conn,
		subject: subject,
		queue:   queue,
		handler: handler,
	}
}

// Start subscribes to the subject. No-op when already subscribed.
func (c *NATSConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil && c.sub.IsValid() {
		return nil
	}

	var sub *nats.Subscription
	var err error
	if c.queue != "" {
		sub, err = c.conn.QueueSubscribe(c.subject, c.queue, c.handler)
	} else {
		sub, err = c.conn.Subscribe(c.subject, c.handler)
	}
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.subject, err)
	}
	c.sub = sub
	return nil
}

// Stop unsubscribes. No-op when not subscribed.
func (c *NATSConsumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub == nil {
		return nil
	}
	err := c.sub.Unsubscribe()
	c.sub = nil
	if err != nil {
		return fmt.Errorf("unsubscribe %s: %w", c.subject, err)
	}
	return nil
}

// IsRunning reports whether the subscription is active
func (c *NATSConsumer) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub != nil && c.sub.IsValid()
}

// ComponentName identifies the endpoint in binding diagnostics
func (c *NATSConsumer) ComponentName() string {
	if c.queue != "" {
		return fmt.Sprintf("nats:%s/%s", c.subject, c.queue)
	}
	return "nats:" + c.subject
}
