package events

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// newLocalBus builds a bus with no Redis connection; dispatch and subscriber
// bookkeeping run entirely in process.
func newLocalBus() *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.BookingEvent]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func addSubscriber(b *RedisEventBus, channel string, buffer int) chan *entities.BookingEvent {
	ch := make(chan *entities.BookingEvent, buffer)
	b.mu.Lock()
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.BookingEvent]struct{})
	}
	b.subscribers[channel][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func feedEvent(bookingID string) *entities.BookingEvent {
	return entities.NewBookingEvent(entities.BookingEventUpdate, entities.Booking{
		ID:       bookingID,
		ClinicID: "clinic-1",
	})
}

func TestDispatchFansOutInOrder(t *testing.T) {
	bus := newLocalBus()
	sub := addSubscriber(bus, "bookings:clinic-1", 10)

	bus.dispatch("bookings:clinic-1", feedEvent("b1"))
	bus.dispatch("bookings:clinic-1", feedEvent("b2"))

	require.Len(t, sub, 2)
	assert.Equal(t, "b1", (<-sub).Booking.ID)
	assert.Equal(t, "b2", (<-sub).Booking.ID)
}

func TestDispatchDropsLaggingSubscriber(t *testing.T) {
	bus := newLocalBus()
	healthy := addSubscriber(bus, "bookings:clinic-1", 10)
	lagging := addSubscriber(bus, "bookings:clinic-1", 1)

	bus.dispatch("bookings:clinic-1", feedEvent("b1"))
	bus.dispatch("bookings:clinic-1", feedEvent("b2"))

	// the healthy subscriber sees everything
	require.Len(t, healthy, 2)

	// the lagging one keeps its buffered event but the channel is closed,
	// which is its signal to reseed rather than continue on a gapped feed
	first, ok := <-lagging
	require.True(t, ok)
	assert.Equal(t, "b1", first.Booking.ID)
	_, ok = <-lagging
	assert.False(t, ok, "expected the lagging channel to be closed")

	bus.mu.RLock()
	_, registered := bus.subscribers["bookings:clinic-1"][lagging]
	remaining := len(bus.subscribers["bookings:clinic-1"])
	bus.mu.RUnlock()
	assert.False(t, registered)
	assert.Equal(t, 1, remaining)
}

func TestRemoveSubscriberIsIdempotent(t *testing.T) {
	bus := newLocalBus()
	sub := addSubscriber(bus, "bookings:clinic-1", 1)

	bus.removeSubscriber("bookings:clinic-1", sub)
	// a second removal, as the subscriber's own context teardown would
	// issue, must not close twice
	bus.removeSubscriber("bookings:clinic-1", sub)

	_, ok := <-sub
	assert.False(t, ok)
}
