package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
)

func TestGenerateSlots(t *testing.T) {
	t.Run("hourly slots across a 10:00-18:00 day", func(t *testing.T) {
		slots := scheduling.GenerateSlots(at(10, 0), at(18, 0), time.Hour, time.Hour)

		require.Len(t, slots, 8)
		assert.Equal(t, at(10, 0), slots[0])
		assert.Equal(t, at(17, 0), slots[7])
	})

	t.Run("a slot may end exactly at close", func(t *testing.T) {
		slots := scheduling.GenerateSlots(at(10, 0), at(18, 0), time.Hour, time.Hour)

		last := slots[len(slots)-1]
		assert.Equal(t, at(18, 0), last.Add(time.Hour))
	})

	t.Run("occupied duration longer than the step trims the tail", func(t *testing.T) {
		// 90 minutes occupied on a 30-minute grid: the last start that still
		// fits is 16:30.
		slots := scheduling.GenerateSlots(at(10, 0), at(18, 0), 30*time.Minute, 90*time.Minute)

		require.NotEmpty(t, slots)
		assert.Equal(t, at(16, 30), slots[len(slots)-1])
	})

	t.Run("occupied duration longer than the day yields nothing", func(t *testing.T) {
		slots := scheduling.GenerateSlots(at(10, 0), at(11, 0), 30*time.Minute, 2*time.Hour)

		assert.Empty(t, slots)
	})

	t.Run("degenerate day yields nothing", func(t *testing.T) {
		slots := scheduling.GenerateSlots(at(10, 0), at(10, 0), 30*time.Minute, time.Hour)

		assert.Empty(t, slots)
	})
}
