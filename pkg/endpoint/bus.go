package endpoint

import (
	"context"
	"sync"

	"github.com/streambind/streambind/pkg/bus"
	"github.com/streambind/streambind/pkg/types"
)

// defaultMailboxSize is the buffered capacity of a consumer mailbox
const defaultMailboxSize = 64

// BusConsumer is a message channel endpoint over the in-process bus. Start
// subscribes a mailbox to the topic and pumps it to the handler on a
// dedicated goroutine; Stop unsubscribes and waits for the pump to drain.
// It implements lifecycle.Lifecycle and lifecycle.NamedComponent.
type BusConsumer struct {
	bus     bus.Bus
	topic   string
	handler func(types.Message)

	mu      sync.Mutex
	running bool
	mailbox types.Mailbox
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewBusConsumer creates a stopped consumer endpoint for a topic
func NewBusConsumer(b bus.Bus, topic string, handler func(types.Message)) *BusConsumer {
	return &BusConsumer{
		bus:     b,
		topic:   topic,
		handler: handler,
	}
}

// Start subscribes and launches the pump. No-op when already running.
func (c *BusConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	c.mailbox = make(types.Mailbox, defaultMailboxSize)
	c.done = make(chan struct{})
	c.bus.Subscribe(c.topic, c.mailbox)

	c.wg.Add(1)
	go c.pump(c.mailbox, c.done)

	c.running = true
	return nil
}

// Stop unsubscribes and waits for the pump to exit. No-op when not running.
func (c *BusConsumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	c.bus.Unsubscribe(c.topic, c.mailbox)
	close(c.done)
	c.wg.Wait()

	c.running = false
	return nil
}

// IsRunning reports whether the pump is active
func (c *BusConsumer) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// ComponentName identifies the endpoint in binding diagnostics
func (c *BusConsumer) ComponentName() string {
	return "bus:" + c.topic
}

func (c *BusConsumer) pump(mailbox types.Mailbox, done chan struct{}) {
	defer c.wg.Done()
	for {
		select {
		case msg := <-mailbox:
			c.handler(msg)
		case <-done:
			// Drain whatever arrived before the unsubscribe took effect
			for {
				select {
				case msg := <-mailbox:
					c.handler(msg)
				default:
					return
				}
			}
		}
	}
}
