package scheduling

import (
	"sync"
	"time"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// BookingSet is one viewer's local replica of a clinic's bookings for a
// viewed date range. It is fed by a LiveSync consumer and read by the
// availability and lifecycle code. All methods are safe for concurrent use.
type BookingSet struct {
	mu   sync.RWMutex
	byID map[string]*entities.Booking
}

// NewBookingSet creates an empty replica
func NewBookingSet() *BookingSet {
	return &BookingSet{
		byID: make(map[string]*entities.Booking),
	}
}

// Seed replaces the whole replica with the result of a full range fetch
func (s *BookingSet) Seed(bookings []*entities.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*entities.Booking, len(bookings))
	for _, b := range bookings {
		copied := *b
		s.byID[b.ID] = &copied
	}
}

// Upsert inserts or replaces a booking in the replica
func (s *BookingSet) Upsert(booking entities.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[booking.ID] = &booking
}

// Remove drops a booking from the replica
func (s *BookingSet) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// Get returns a copy of a booking, if present
func (s *BookingSet) Get(id string) (entities.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return entities.Booking{}, false
	}
	return *b, true
}

// Len returns the number of bookings in the replica
func (s *BookingSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Snapshot returns copies of all bookings in the replica. Callers may read
// the result without further locking.
func (s *BookingSet) Snapshot() []*entities.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Booking, 0, len(s.byID))
	for _, b := range s.byID {
		copied := *b
		out = append(out, &copied)
	}
	return out
}

// Apply applies one feed event to the replica. Events whose booking does not
// intersect the viewed range [from, to) are ignored. Applying the same event
// twice leaves the replica unchanged after the first application, since the
// feed is not assumed duplicate-free.
func (s *BookingSet) Apply(event *entities.BookingEvent, from, to time.Time) {
	if event == nil {
		return
	}
	booking := event.Booking
	if !booking.Overlaps(from, to) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Kind {
	case entities.BookingEventInsert:
		copied := booking
		s.byID[booking.ID] = &copied

	case entities.BookingEventUpdate:
		existing, ok := s.byID[booking.ID]
		if !ok {
			// Update for a booking we never saw, e.g. it moved into the
			// viewed range. The event carries the full record.
			copied := booking
			s.byID[booking.ID] = &copied
			return
		}
		// Only mutable fields are patched; identity fields stay as seeded.
		existing.Status = booking.Status
		existing.StaffID = booking.StaffID
		existing.StartAt = booking.StartAt
		existing.EndAt = booking.EndAt
		existing.Notes = booking.Notes
		existing.UpdatedAt = booking.UpdatedAt

	case entities.BookingEventDelete:
		delete(s.byID, booking.ID)
	}
}
