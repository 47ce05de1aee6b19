package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

func TestBookingSet_SeedAndSnapshot(t *testing.T) {
	set := scheduling.NewBookingSet()
	set.Seed([]*entities.Booking{
		activeBooking("b1", "s1", at(10, 0), at(11, 0)),
		activeBooking("b2", "s2", at(11, 0), at(12, 0)),
	})

	assert.Equal(t, 2, set.Len())

	// snapshot copies are detached from the replica
	snap := set.Snapshot()
	require.Len(t, snap, 2)
	snap[0].Status = entities.BookingStatusCancelled

	for _, id := range []string{"b1", "b2"} {
		b, ok := set.Get(id)
		require.True(t, ok)
		assert.Equal(t, entities.BookingStatusConfirmed, b.Status)
	}

	// reseed replaces everything
	set.Seed([]*entities.Booking{activeBooking("b3", "s1", at(14, 0), at(15, 0))})
	assert.Equal(t, 1, set.Len())
	_, ok := set.Get("b1")
	assert.False(t, ok)
}

func TestBookingSet_Apply(t *testing.T) {
	rangeFrom := at(0, 0)
	rangeTo := at(23, 59)

	t.Run("insert then delete", func(t *testing.T) {
		set := scheduling.NewBookingSet()
		booking := activeBooking("b1", "s1", at(10, 0), at(11, 0))

		set.Apply(entities.NewBookingEvent(entities.BookingEventInsert, *booking), rangeFrom, rangeTo)
		assert.Equal(t, 1, set.Len())

		set.Apply(entities.NewBookingEvent(entities.BookingEventDelete, *booking), rangeFrom, rangeTo)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("applying the same event twice changes nothing", func(t *testing.T) {
		set := scheduling.NewBookingSet()
		booking := activeBooking("b1", "s1", at(10, 0), at(11, 0))
		event := entities.NewBookingEvent(entities.BookingEventInsert, *booking)

		set.Apply(event, rangeFrom, rangeTo)
		first := set.Snapshot()

		set.Apply(event, rangeFrom, rangeTo)
		second := set.Snapshot()

		require.Len(t, second, 1)
		assert.Equal(t, *first[0], *second[0])
	})

	t.Run("events outside the viewed range are ignored", func(t *testing.T) {
		set := scheduling.NewBookingSet()
		booking := activeBooking("b1", "s1", at(10, 0), at(11, 0))

		set.Apply(entities.NewBookingEvent(entities.BookingEventInsert, *booking), at(12, 0), rangeTo)

		assert.Equal(t, 0, set.Len())
	})

	t.Run("update patches mutable fields only", func(t *testing.T) {
		set := scheduling.NewBookingSet()
		seeded := activeBooking("b1", "s1", at(10, 0), at(11, 0))
		seeded.GuestName = "Ayumi"
		set.Seed([]*entities.Booking{seeded})

		changed := *seeded
		changed.Status = entities.BookingStatusCancelled
		changed.GuestName = "someone else entirely"
		set.Apply(entities.NewBookingEvent(entities.BookingEventUpdate, changed), rangeFrom, rangeTo)

		got, ok := set.Get("b1")
		require.True(t, ok)
		assert.Equal(t, entities.BookingStatusCancelled, got.Status)
		assert.Equal(t, "Ayumi", got.GuestName)
	})

	t.Run("update for an unseen booking inserts it", func(t *testing.T) {
		set := scheduling.NewBookingSet()
		booking := activeBooking("b1", "s1", at(10, 0), at(11, 0))

		set.Apply(entities.NewBookingEvent(entities.BookingEventUpdate, *booking), rangeFrom, rangeTo)

		_, ok := set.Get("b1")
		assert.True(t, ok)
	})

	t.Run("nil event is a no-op", func(t *testing.T) {
		set := scheduling.NewBookingSet()
		set.Apply(nil, rangeFrom, rangeTo)
		assert.Equal(t, 0, set.Len())
	})
}
