// Package notify delivers user-facing status messages. Publishing is
// fire-and-forget: no publisher ever blocks on a slow or absent consumer.
package notify

import "sync"

// Severity grades a message for the UI.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is one user-visible notification.
type Message struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Sink accepts notifications.
type Sink interface {
	Publish(msg Message)
}

// subscriber buffer; messages beyond this are dropped for that subscriber.
const subscriberBuffer = 16

// Broadcaster fans messages out to subscribed channels. Slow subscribers
// lose messages rather than slowing down the publisher.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Message]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Message]struct{})}
}

// Publish sends msg to every subscriber without blocking.
func (b *Broadcaster) Publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			// Subscriber buffer full: drop for this subscriber.
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes
// the subscription and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
