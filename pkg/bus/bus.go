package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/streambind/streambind/pkg/logging"
	"github.com/streambind/streambind/pkg/types"
)

// ErrNoSubscribers is returned by Send when a topic has no subscribers
var ErrNoSubscribers = errors.New("no subscribers for topic")

// Bus is an in-process topic-based message bus. It backs the in-process
// consumer endpoints and the example wiring; distributed transports (NATS)
// live in pkg/endpoint.
type Bus interface {
	// Publish delivers msg to every subscriber of the topic, non-blocking;
	// subscribers with full mailboxes are skipped
	Publish(topic string, msg types.Message)

	// Subscribe attaches a mailbox to a topic
	Subscribe(topic string, mailbox types.Mailbox)

	// Unsubscribe detaches a mailbox from a topic
	Unsubscribe(topic string, mailbox types.Mailbox)

	// Send delivers msg to the topic's subscribers, blocking until accepted.
	// Returns ErrNoSubscribers when nothing is subscribed.
	Send(topic string, msg types.Message) error

	// Request sends msg and waits for a single reply on a generated reply
	// topic, honoring ctx cancellation
	Request(ctx context.Context, topic string, msg types.Message) (types.Message, error)
}

type localBus struct {
	subscribers map[string][]types.Mailbox
	mu          sync.RWMutex
	log         logging.Logger
}

// New creates an in-process bus
func New() Bus {
	return &localBus{
		subscribers: make(map[string][]types.Mailbox),
		log:         logging.Default(),
	}
}

func (b *localBus) Publish(topic string, msg types.Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers[topic] {
		// Non-blocking send
		select {
		case sub <- msg:
		default:
			b.log.Warn("dropping message for topic ", topic, ": subscriber mailbox is full")
		}
	}
}

func (b *localBus) Subscribe(topic string, mailbox types.Mailbox) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], mailbox)
}

func (b *localBus) Unsubscribe(topic string, mailbox types.Mailbox) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[topic]
	for i, sub := range subs {
		if sub == mailbox {
			b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscribers[topic]) == 0 {
		delete(b.subscribers, topic)
	}
}

func (b *localBus) Send(topic string, msg types.Message) error {
	b.mu.RLock()
	subs := b.subscribers[topic]
	b.mu.RUnlock()

	if len(subs) == 0 {
		return ErrNoSubscribers
	}
	for _, sub := range subs {
		sub <- msg
	}
	return nil
}

func (b *localBus) Request(ctx context.Context, topic string, msg types.Message) (types.Message, error) {
	replyTopic := "reply." + uuid.New().String()
	msg.ReplyTo = replyTopic

	replyMailbox := make(types.Mailbox, 1)
	b.Subscribe(replyTopic, replyMailbox)
	defer b.Unsubscribe(replyTopic, replyMailbox)

	if err := b.Send(topic, msg); err != nil {
		return types.Message{}, err
	}

	select {
	case reply := <-replyMailbox:
		return reply, nil
	case <-ctx.Done():
		return types.Message{}, ctx.Err()
	}
}
