package hub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TopicAllOrders is the global topic: subscribers receive every order's
// status events.
const TopicAllOrders = "orders"

// OrderTopic returns the topic for a single order's status events.
func OrderTopic(orderID uuid.UUID) string {
	return "orders:" + orderID.String()
}

// Event is a status-change notification pushed to subscribers.
type Event struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}

// Sender delivers events to one observer connection. Implementations must
// fail fast on a dead peer (a write deadline, not an unbounded block): the
// hub holds its lock across delivery.
type Sender interface {
	Send(event Event) error
}

// Hub is a registry of live subscriber connections keyed by topic. Any
// number of observers may watch the same topic; delivery is best-effort,
// at-most-once, and a failed delivery implicitly unsubscribes the observer.
//
// All registry access is serialised by one mutex, so a publish can never
// race an unsubscribe into delivering to a half-closed connection.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[Sender]struct{}
	logger zerolog.Logger
}

// New creates an empty hub.
func New(logger zerolog.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[Sender]struct{}),
		logger: logger.With().Str("component", "hub").Logger(),
	}
}

// Subscribe registers sender as an observer of topic.
func (h *Hub) Subscribe(topic string, sender Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[Sender]struct{})
		h.topics[topic] = subs
	}
	subs[sender] = struct{}{}

	h.logger.Debug().
		Str("topic", topic).
		Int("subscribers", len(subs)).
		Msg("subscriber registered")
}

// Unsubscribe removes the registration of sender on topic. Removing an
// absent registration is a no-op.
func (h *Hub) Unsubscribe(topic string, sender Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(topic, sender)
}

// Publish delivers event to every current observer of topic. Delivery
// failures are absorbed: the failing observer is dropped and the publisher
// never sees an error.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.deliverLocked(topic, event)
}

// BroadcastAll delivers event to every observer of every topic,
// independently. One observer's failure does not prevent delivery to the
// rest. An observer registered on several topics receives the event once.
func (h *Hub) BroadcastAll(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[Sender]struct{})
	for topic, subs := range h.topics {
		for sender := range subs {
			if _, dup := seen[sender]; dup {
				continue
			}
			seen[sender] = struct{}{}
			if err := sender.Send(event); err != nil {
				h.logger.Debug().
					Err(err).
					Str("topic", topic).
					Msg("broadcast delivery failed, dropping subscriber")
				h.removeLocked(topic, sender)
			}
		}
	}
}

// OrderStatusChanged publishes a committed status change to the order's
// own topic and to the global topic.
func (h *Hub) OrderStatusChanged(orderID uuid.UUID, status string) {
	event := Event{OrderID: orderID, Status: status}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.deliverLocked(OrderTopic(orderID), event)
	h.deliverLocked(TopicAllOrders, event)
}

// Subscribers returns the number of current observers of topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.topics[topic])
}

// deliverLocked sends event to each observer of topic, dropping observers
// whose delivery fails. Callers must hold h.mu.
func (h *Hub) deliverLocked(topic string, event Event) {
	subs, ok := h.topics[topic]
	if !ok {
		return
	}

	var failed []Sender
	for sender := range subs {
		if err := sender.Send(event); err != nil {
			h.logger.Debug().
				Err(err).
				Str("topic", topic).
				Str("order_id", event.OrderID.String()).
				Msg("delivery failed, dropping subscriber")
			failed = append(failed, sender)
		}
	}

	for _, sender := range failed {
		h.removeLocked(topic, sender)
	}
}

// removeLocked deletes one registration and prunes the topic when it
// empties. Callers must hold h.mu.
func (h *Hub) removeLocked(topic string, sender Sender) {
	subs, ok := h.topics[topic]
	if !ok {
		return
	}

	if _, ok := subs[sender]; !ok {
		return
	}

	delete(subs, sender)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}

	h.logger.Debug().
		Str("topic", topic).
		Int("subscribers", len(subs)).
		Msg("subscriber removed")
}
