package entities

import (
	"time"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// allowedTransitions is the booking state machine:
// pending -> confirmed -> completed, pending|confirmed -> cancelled,
// confirmed -> no_show. Cancelled, completed and no_show are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow},
}

// IsTerminal reports whether no further transition is allowed
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the state machine permits moving to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a placed reservation. StaffID is nil for a "free" booking with
// no staff preference; such a booking consumes generic capacity from the pool
// of capable staff instead of a specific calendar.
//
// Bookings are never hard-deleted; cancellation is a status change so the
// history stays auditable.
type Booking struct {
	ID         string        `json:"id" db:"id"`
	ClinicID   string        `json:"clinic_id" db:"clinic_id"`
	StaffID    *string       `json:"staff_id" db:"staff_id"`
	ServiceID  string        `json:"service_id" db:"service_id"`
	StartAt    time.Time     `json:"start_at" db:"start_at"`
	EndAt      time.Time     `json:"end_at" db:"end_at"`
	Status     BookingStatus `json:"status" db:"status"`
	UserID     *string       `json:"user_id" db:"user_id"`
	GuestName  string        `json:"guest_name" db:"guest_name"`
	GuestEmail string        `json:"guest_email" db:"guest_email"`
	GuestPhone string        `json:"guest_phone" db:"guest_phone"`
	Notes      string        `json:"notes" db:"notes"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the booking still blocks calendar time.
// Cancelled bookings release their interval; every other status keeps it,
// including the terminal completed and no_show states in the past.
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// Overlaps applies the half-open interval rule: [b.StartAt, b.EndAt) overlaps
// [start, end) iff start < b.EndAt && end > b.StartAt. Touching boundaries do
// not conflict.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndAt) && end.After(b.StartAt)
}

// AssignedTo reports whether the booking is held by the given staff member
func (b *Booking) AssignedTo(staffID string) bool {
	return b.StaffID != nil && *b.StaffID == staffID
}
