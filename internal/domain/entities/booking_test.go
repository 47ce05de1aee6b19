package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Transitions(t *testing.T) {
	t.Run("pending can be confirmed or cancelled", func(t *testing.T) {
		assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusConfirmed))
		assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCancelled))
		assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusCompleted))
		assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusNoShow))
	})

	t.Run("confirmed can complete, cancel or no-show", func(t *testing.T) {
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted))
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelled))
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusNoShow))
	})

	t.Run("terminal states allow nothing", func(t *testing.T) {
		for _, s := range []BookingStatus{BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow} {
			assert.True(t, s.IsTerminal(), string(s))
			assert.False(t, s.CanTransitionTo(BookingStatusPending), string(s))
			assert.False(t, s.CanTransitionTo(BookingStatusConfirmed), string(s))
		}
	})
}

func TestBooking_Overlaps(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	b := &Booking{StartAt: base, EndAt: base.Add(time.Hour)}

	assert.True(t, b.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.True(t, b.Overlaps(base.Add(-30*time.Minute), base.Add(30*time.Minute)))
	assert.True(t, b.Overlaps(base, base.Add(time.Hour)))

	// Half-open intervals: touching boundaries do not conflict
	assert.False(t, b.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.False(t, b.Overlaps(base.Add(-time.Hour), base))
}

func TestTimeOfDay_RoundTrip(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "09:30", tod.String())

	loc, _ := time.LoadLocation("Asia/Tokyo")
	anchored := tod.OnDate(time.Date(2024, 5, 1, 0, 0, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, loc), anchored)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestStaff_CanServe(t *testing.T) {
	unrestricted := &Staff{ID: "st-1"}
	assert.True(t, unrestricted.CanServe("svc-1"))

	specialist := &Staff{ID: "st-2", ServiceIDs: []string{"svc-1", "svc-2"}}
	assert.True(t, specialist.CanServe("svc-2"))
	assert.False(t, specialist.CanServe("svc-3"))
}
