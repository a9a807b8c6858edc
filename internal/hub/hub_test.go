package hub

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender collects delivered events and can be told to fail.
type recordingSender struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSender) Send(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("connection closed")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSender) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestHub_PublishDeliversToTopicSubscribers(t *testing.T) {
	h := New(zerolog.Nop())

	orderID := uuid.New()
	topic := OrderTopic(orderID)

	a := &recordingSender{}
	b := &recordingSender{}
	other := &recordingSender{}

	h.Subscribe(topic, a)
	h.Subscribe(topic, b)
	h.Subscribe(OrderTopic(uuid.New()), other)

	event := Event{OrderID: orderID, Status: "shipped"}
	h.Publish(topic, event)

	assert.Equal(t, []Event{event}, a.received())
	assert.Equal(t, []Event{event}, b.received())
	assert.Empty(t, other.received(), "unrelated topic must not receive the event")
}

func TestHub_PublishToEmptyTopicIsNoop(t *testing.T) {
	h := New(zerolog.Nop())

	assert.NotPanics(t, func() {
		h.Publish(OrderTopic(uuid.New()), Event{OrderID: uuid.New(), Status: "shipped"})
	})
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := New(zerolog.Nop())

	orderID := uuid.New()
	topic := OrderTopic(orderID)
	sender := &recordingSender{}

	h.Subscribe(topic, sender)
	h.Unsubscribe(topic, sender)

	h.Publish(topic, Event{OrderID: orderID, Status: "shipped"})

	assert.Empty(t, sender.received())
	assert.Zero(t, h.Subscribers(topic))
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	h := New(zerolog.Nop())

	topic := OrderTopic(uuid.New())
	sender := &recordingSender{}

	h.Subscribe(topic, sender)
	h.Unsubscribe(topic, sender)

	assert.NotPanics(t, func() {
		h.Unsubscribe(topic, sender)
		h.Unsubscribe("never-subscribed", sender)
	})
}

func TestHub_FailedDeliveryImplicitlyUnsubscribes(t *testing.T) {
	h := New(zerolog.Nop())

	orderID := uuid.New()
	topic := OrderTopic(orderID)

	dead := &recordingSender{fail: true}
	live := &recordingSender{}

	h.Subscribe(topic, dead)
	h.Subscribe(topic, live)

	event := Event{OrderID: orderID, Status: "shipped"}
	h.Publish(topic, event)

	// The failing subscriber is dropped; the healthy one still receives.
	assert.Equal(t, []Event{event}, live.received())
	assert.Equal(t, 1, h.Subscribers(topic))

	// A later publish no longer reaches the dropped subscriber.
	dead.mu.Lock()
	dead.fail = false
	dead.mu.Unlock()

	h.Publish(topic, Event{OrderID: orderID, Status: "delivered"})
	assert.Empty(t, dead.received())
}

func TestHub_BroadcastAll(t *testing.T) {
	h := New(zerolog.Nop())

	a := &recordingSender{}
	b := &recordingSender{fail: true}
	c := &recordingSender{}

	h.Subscribe(OrderTopic(uuid.New()), a)
	h.Subscribe(OrderTopic(uuid.New()), b)
	h.Subscribe(TopicAllOrders, c)

	event := Event{OrderID: uuid.New(), Status: "cancelled"}
	h.BroadcastAll(event)

	// One failing observer must not block the others.
	assert.Equal(t, []Event{event}, a.received())
	assert.Equal(t, []Event{event}, c.received())
	assert.Empty(t, b.received())
}

func TestHub_BroadcastAllDeliversOncePerObserver(t *testing.T) {
	h := New(zerolog.Nop())

	sender := &recordingSender{}
	h.Subscribe(OrderTopic(uuid.New()), sender)
	h.Subscribe(TopicAllOrders, sender)

	h.BroadcastAll(Event{OrderID: uuid.New(), Status: "shipped"})

	assert.Len(t, sender.received(), 1)
}

func TestHub_OrderStatusChanged(t *testing.T) {
	h := New(zerolog.Nop())

	orderID := uuid.New()
	perOrder := &recordingSender{}
	global := &recordingSender{}

	h.Subscribe(OrderTopic(orderID), perOrder)
	h.Subscribe(TopicAllOrders, global)

	h.OrderStatusChanged(orderID, "shipped")

	want := Event{OrderID: orderID, Status: "shipped"}
	require.Equal(t, []Event{want}, perOrder.received())
	require.Equal(t, []Event{want}, global.received())
}

func TestHub_ConcurrentChurn(t *testing.T) {
	h := New(zerolog.Nop())

	orderID := uuid.New()
	topic := OrderTopic(orderID)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			sender := &recordingSender{}
			h.Subscribe(topic, sender)
			h.Unsubscribe(topic, sender)
		}()

		go func() {
			defer wg.Done()
			h.OrderStatusChanged(orderID, "shipped")
		}()
	}
	wg.Wait()

	assert.Zero(t, h.Subscribers(topic))
}
