package entities

import (
	"time"

	"github.com/google/uuid"
)

// BookingEventKind represents the kind of change carried by a feed event
type BookingEventKind string

const (
	BookingEventInsert BookingEventKind = "insert"
	BookingEventUpdate BookingEventKind = "update"
	BookingEventDelete BookingEventKind = "delete"
)

// BookingEvent is a change-notification feed record. The full booking rides
// along so subscribers can patch their replica without a re-fetch. The feed
// is not assumed duplicate-free; consumers must apply events idempotently.
type BookingEvent struct {
	ID        string           `json:"id"`
	ClinicID  string           `json:"clinic_id"`
	Kind      BookingEventKind `json:"kind"`
	Booking   Booking          `json:"booking"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewBookingEvent creates a new feed event for a booking change
func NewBookingEvent(kind BookingEventKind, booking Booking) *BookingEvent {
	return &BookingEvent{
		ID:        uuid.New().String(),
		ClinicID:  booking.ClinicID,
		Kind:      kind,
		Booking:   booking,
		Timestamp: time.Now(),
	}
}
