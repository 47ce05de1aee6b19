package scheduling

import (
	"time"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// HasConflict reports whether any non-cancelled booking held by staffID
// overlaps [start, end). excludeID skips one booking, used when revalidating
// an update or reassignment against everything but the booking itself.
//
// Free requests (no staff preference) are capacity questions, not conflict
// questions; see RemainingCapacity.
func HasConflict(bookings []*entities.Booking, staffID string, start, end time.Time, excludeID string) bool {
	for _, b := range bookings {
		if b.ID == excludeID || !b.IsActive() {
			continue
		}
		if b.AssignedTo(staffID) && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
