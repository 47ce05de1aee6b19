package providers

import (
	"context"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// EventBus is the change-notification feed for booking changes. Subscriptions
// are long-lived push channels: establishing one must not block the caller,
// and delivered events preserve arrival order per channel.
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.BookingEvent) error

	// Subscribe subscribes to events on a channel. Delivery stops and the
	// channel is released when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BookingEvent, error)

	// Unsubscribe drops every subscriber of a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelBookingPrefix is the prefix for clinic booking channels
const EventChannelBookingPrefix = "bookings:"

// BookingChannel returns the feed channel carrying a clinic's booking changes
func BookingChannel(clinicID string) string {
	return EventChannelBookingPrefix + clinicID
}
