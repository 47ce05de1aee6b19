package scheduling

import (
	"time"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// CapableStaff returns the staff who could serve a free request in the
// candidate interval: they must be able to perform the service and their
// resolved working hours for the date must fully cover [start, end).
func CapableStaff(roster []*entities.Staff, serviceID string, date time.Time, start, end time.Time, loc *time.Location) []*entities.Staff {
	var capable []*entities.Staff
	for _, st := range roster {
		if !st.CanServe(serviceID) {
			continue
		}
		if !CoversInterval(ResolveDayHours(st, date), date, start, end, loc) {
			continue
		}
		capable = append(capable, st)
	}
	return capable
}

// ConsumedCapacity counts the non-cancelled bookings that consume capacity
// from the capable pool in [start, end): bookings held by a capable staff
// member, plus free bookings, which take one unit of generic capacity no
// matter who ends up serving them.
func ConsumedCapacity(bookings []*entities.Booking, capable []*entities.Staff, start, end time.Time, excludeID string) int {
	capableIDs := make(map[string]struct{}, len(capable))
	for _, st := range capable {
		capableIDs[st.ID] = struct{}{}
	}

	consumed := 0
	for _, b := range bookings {
		if b.ID == excludeID || !b.IsActive() || !b.Overlaps(start, end) {
			continue
		}
		if b.StaffID == nil {
			consumed++
			continue
		}
		if _, ok := capableIDs[*b.StaffID]; ok {
			consumed++
		}
	}
	return consumed
}

// RemainingCapacity computes |capable set| - consumed count for a free
// request. Must be recomputed per candidate interval; the capable set
// depends on both the service and the interval, so the result is not
// cacheable across services.
func RemainingCapacity(bookings []*entities.Booking, roster []*entities.Staff, serviceID string, date time.Time, start, end time.Time, loc *time.Location, excludeID string) (capable []*entities.Staff, remaining int) {
	capable = CapableStaff(roster, serviceID, date, start, end, loc)
	remaining = len(capable) - ConsumedCapacity(bookings, capable, start, end, excludeID)
	return capable, remaining
}

// StatusForRemaining maps remaining capacity to the tri-state slot signal.
// The 0/1/>=2 boundaries are a product decision, not a derived constant.
func StatusForRemaining(remaining int) entities.SlotStatus {
	switch {
	case remaining <= 0:
		return entities.SlotStatusFull
	case remaining == 1:
		return entities.SlotStatusLow
	default:
		return entities.SlotStatusOpen
	}
}
