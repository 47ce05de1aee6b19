package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

func TestCapableStaff(t *testing.T) {
	roster := []*entities.Staff{
		testStaff("s1", []string{testServiceID}, "10:00", "18:00"),
		testStaff("s2", []string{testServiceID}, "10:00", "18:00"),
		testStaff("s3", []string{"svc-other"}, "10:00", "18:00"),
		testStaff("s4", []string{testServiceID}, "10:00", "13:00"),
	}

	t.Run("filters on service and working hours", func(t *testing.T) {
		capable := scheduling.CapableStaff(roster, testServiceID, wednesday, at(14, 0), at(15, 0), time.UTC)

		require.Len(t, capable, 2)
		assert.Equal(t, "s1", capable[0].ID)
		assert.Equal(t, "s2", capable[1].ID)
	})

	t.Run("short-day staff counts in the morning only", func(t *testing.T) {
		capable := scheduling.CapableStaff(roster, testServiceID, wednesday, at(11, 0), at(12, 0), time.UTC)

		assert.Len(t, capable, 3)
	})

	t.Run("empty service set means any service", func(t *testing.T) {
		generalist := []*entities.Staff{testStaff("s5", nil, "10:00", "18:00")}

		capable := scheduling.CapableStaff(generalist, testServiceID, wednesday, at(11, 0), at(12, 0), time.UTC)

		assert.Len(t, capable, 1)
	})
}

func TestConsumedCapacity(t *testing.T) {
	capable := []*entities.Staff{
		testStaff("s1", []string{testServiceID}, "10:00", "18:00"),
		testStaff("s2", []string{testServiceID}, "10:00", "18:00"),
	}

	t.Run("free bookings consume one unit each", func(t *testing.T) {
		bookings := []*entities.Booking{
			activeBooking("b1", "", at(14, 0), at(15, 0)),
		}

		assert.Equal(t, 1, scheduling.ConsumedCapacity(bookings, capable, at(14, 0), at(15, 0), ""))
	})

	t.Run("bookings of non-capable staff do not consume", func(t *testing.T) {
		bookings := []*entities.Booking{
			activeBooking("b1", "s9", at(14, 0), at(15, 0)),
		}

		assert.Equal(t, 0, scheduling.ConsumedCapacity(bookings, capable, at(14, 0), at(15, 0), ""))
	})

	t.Run("cancelled and non-overlapping bookings do not consume", func(t *testing.T) {
		cancelled := activeBooking("b1", "s1", at(14, 0), at(15, 0))
		cancelled.Status = entities.BookingStatusCancelled
		bookings := []*entities.Booking{
			cancelled,
			activeBooking("b2", "s2", at(16, 0), at(17, 0)),
		}

		assert.Equal(t, 0, scheduling.ConsumedCapacity(bookings, capable, at(14, 0), at(15, 0), ""))
	})
}

func TestRemainingCapacity(t *testing.T) {
	roster := []*entities.Staff{
		testStaff("s1", []string{testServiceID}, "10:00", "18:00"),
		testStaff("s2", []string{testServiceID}, "10:00", "18:00"),
	}

	t.Run("one free booking against two capable staff leaves one unit", func(t *testing.T) {
		bookings := []*entities.Booking{
			activeBooking("b1", "", at(14, 0), at(15, 0)),
		}

		capable, remaining := scheduling.RemainingCapacity(bookings, roster, testServiceID, wednesday, at(14, 0), at(15, 0), time.UTC, "")

		assert.Len(t, capable, 2)
		assert.Equal(t, 1, remaining)
		assert.Equal(t, entities.SlotStatusLow, scheduling.StatusForRemaining(remaining))
	})

	t.Run("fully booked interval has nothing left", func(t *testing.T) {
		bookings := []*entities.Booking{
			activeBooking("b1", "s1", at(14, 0), at(15, 0)),
			activeBooking("b2", "s2", at(14, 0), at(15, 0)),
		}

		_, remaining := scheduling.RemainingCapacity(bookings, roster, testServiceID, wednesday, at(14, 0), at(15, 0), time.UTC, "")

		assert.Equal(t, 0, remaining)
	})

	t.Run("excluding a booking frees its unit", func(t *testing.T) {
		bookings := []*entities.Booking{
			activeBooking("b1", "s1", at(14, 0), at(15, 0)),
		}

		_, remaining := scheduling.RemainingCapacity(bookings, roster, testServiceID, wednesday, at(14, 0), at(15, 0), time.UTC, "b1")

		assert.Equal(t, 2, remaining)
	})
}

func TestStatusForRemaining(t *testing.T) {
	assert.Equal(t, entities.SlotStatusFull, scheduling.StatusForRemaining(-1))
	assert.Equal(t, entities.SlotStatusFull, scheduling.StatusForRemaining(0))
	assert.Equal(t, entities.SlotStatusLow, scheduling.StatusForRemaining(1))
	assert.Equal(t, entities.SlotStatusOpen, scheduling.StatusForRemaining(2))
	assert.Equal(t, entities.SlotStatusOpen, scheduling.StatusForRemaining(5))
}
