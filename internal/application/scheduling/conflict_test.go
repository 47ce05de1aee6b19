package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

func TestHasConflict(t *testing.T) {
	existing := []*entities.Booking{
		activeBooking("b1", "s1", at(10, 0), at(11, 0)),
	}

	t.Run("partial overlap conflicts", func(t *testing.T) {
		assert.True(t, scheduling.HasConflict(existing, "s1", at(10, 30), at(11, 30), ""))
	})

	t.Run("containing interval conflicts", func(t *testing.T) {
		assert.True(t, scheduling.HasConflict(existing, "s1", at(9, 30), at(11, 30), ""))
	})

	t.Run("touching at the boundary does not conflict", func(t *testing.T) {
		assert.False(t, scheduling.HasConflict(existing, "s1", at(11, 0), at(12, 0), ""))
		assert.False(t, scheduling.HasConflict(existing, "s1", at(9, 0), at(10, 0), ""))
	})

	t.Run("other staff members are independent", func(t *testing.T) {
		assert.False(t, scheduling.HasConflict(existing, "s2", at(10, 0), at(11, 0), ""))
	})

	t.Run("cancelled bookings hold no time", func(t *testing.T) {
		cancelled := activeBooking("b2", "s1", at(14, 0), at(15, 0))
		cancelled.Status = entities.BookingStatusCancelled

		all := append(existing, cancelled)
		assert.False(t, scheduling.HasConflict(all, "s1", at(14, 0), at(15, 0), ""))
	})

	t.Run("free-pool bookings never block a staff calendar", func(t *testing.T) {
		free := activeBooking("b3", "", at(10, 0), at(11, 0))

		assert.False(t, scheduling.HasConflict([]*entities.Booking{free}, "s1", at(10, 0), at(11, 0), ""))
	})

	t.Run("excluded booking is ignored", func(t *testing.T) {
		assert.False(t, scheduling.HasConflict(existing, "s1", at(10, 30), at(11, 30), "b1"))
	})
}
