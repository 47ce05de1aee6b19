package repositories

import (
	"context"
	"time"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// BookingRepository is the persistence gateway for bookings. Cancellation is
// a field update, never a delete; history and audit depend on it.
type BookingRepository interface {
	// Create persists a new booking
	Create(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// UpdateFields patches mutable fields of an existing booking
	UpdateFields(ctx context.Context, id string, fields BookingFields) error

	// ListByClinicRange retrieves all bookings for a clinic whose intervals
	// intersect [from, to), regardless of status
	ListByClinicRange(ctx context.Context, clinicID string, from, to time.Time) ([]*entities.Booking, error)
}

// BookingFields is a partial update. Nil pointers leave the column untouched;
// StaffID uses a double pointer so the assignment itself can be set to NULL.
type BookingFields struct {
	Status  *entities.BookingStatus
	StaffID **string
	StartAt *time.Time
	EndAt   *time.Time
	Notes   *string
}
