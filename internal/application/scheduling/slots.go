package scheduling

import (
	"time"
)

// GenerateSlots produces the ordered candidate start times between dayStart
// and dayEnd at the given granularity. A start is emitted only if the full
// occupied interval (service duration plus buffer) still ends by dayEnd, so
// the 17:00 slot is the last one for a 60-minute service closing at 18:00.
//
// This is the only place granularity exists; conflict and capacity logic
// operate on continuous intervals.
func GenerateSlots(dayStart, dayEnd time.Time, granularity, occupied time.Duration) []time.Time {
	if granularity <= 0 || occupied <= 0 || !dayStart.Before(dayEnd) {
		return nil
	}

	var slots []time.Time
	for start := dayStart; !start.Add(occupied).After(dayEnd); start = start.Add(granularity) {
		slots = append(slots, start)
	}
	return slots
}
