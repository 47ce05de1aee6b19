// Package scheduling implements the appointment availability engine: working
// hours resolution, slot generation, conflict and capacity computation, the
// booking lifecycle, and the live replica of the booking set that keeps
// concurrent viewers consistent.
//
// Slots exist only at the presentation edge; everything below the slot
// generator reasons in continuous time so producers and consumers with
// different granularities can never disagree.
package scheduling

import (
	"time"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// ResolveDayHours resolves a staff member's effective working interval for a
// date. Precedence: date-specific shift override (its own closed flag wins),
// then the recurring weekly schedule, else closed. There is no fallback to
// clinic-wide hours at staff level; those apply only to rosterless clinics.
func ResolveDayHours(staff *entities.Staff, date time.Time) entities.DayHours {
	if override, ok := staff.Overrides[entities.DateKeyOf(date)]; ok {
		return override
	}
	if hours, ok := staff.WeeklySchedule[entities.WeekdayKey(date.Weekday())]; ok {
		return hours
	}
	return entities.ClosedDay
}

// CoversInterval reports whether the resolved day hours fully contain the
// candidate interval [start, end) on the given date
func CoversInterval(hours entities.DayHours, date time.Time, start, end time.Time, loc *time.Location) bool {
	if !hours.IsOpen() {
		return false
	}
	open := hours.Start.OnDate(date, loc)
	close := hours.End.OnDate(date, loc)
	return !start.Before(open) && !end.After(close)
}
