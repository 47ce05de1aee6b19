package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
)

type availabilityFixture struct {
	svc *scheduling.AvailabilityService
	set *scheduling.BookingSet
}

func newAvailabilityFixture(t *testing.T, roster []*entities.Staff, interval time.Duration) *availabilityFixture {
	t.Helper()

	clinicRepo := new(MockClinicRepository)
	clinicRepo.On("GetByID", mock.Anything, testClinicID).Return(testClinic(), nil)

	serviceRepo := new(MockServiceRepository)
	serviceRepo.On("GetByID", mock.Anything, testServiceID).Return(testService(60, 0), nil)
	serviceRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("service not found"))

	staffRepo := new(MockStaffRepository)
	staffRepo.On("ListByClinic", mock.Anything, testClinicID).Return(roster, nil)

	set := scheduling.NewBookingSet()
	svc := scheduling.NewAvailabilityService(staffRepo, serviceRepo, clinicRepo, &staticSource{set: set}, interval)
	return &availabilityFixture{svc: svc, set: set}
}

func slotByStart(t *testing.T, slots []entities.AvailabilitySlot, start time.Time) entities.AvailabilitySlot {
	t.Helper()
	for _, s := range slots {
		if s.StartAt.Equal(start) {
			return s
		}
	}
	t.Fatalf("no slot starting at %s", start)
	return entities.AvailabilitySlot{}
}

func TestGetAvailability_StaffCalendar(t *testing.T) {
	ctx := context.Background()
	roster := []*entities.Staff{testStaff("s1", []string{testServiceID}, "10:00", "18:00")}

	t.Run("empty day yields the full hourly grid", func(t *testing.T) {
		f := newAvailabilityFixture(t, roster, time.Hour)

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, strPtr("s1"))

		require.NoError(t, err)
		require.Len(t, slots, 8)
		assert.Equal(t, at(10, 0), slots[0].StartAt)
		assert.Equal(t, at(17, 0), slots[7].StartAt)
		for _, s := range slots {
			assert.Equal(t, entities.SlotStatusOpen, s.Status)
		}
	})

	t.Run("a booking marks every colliding slot full", func(t *testing.T) {
		f := newAvailabilityFixture(t, roster, 30*time.Minute)
		f.set.Seed([]*entities.Booking{activeBooking("b1", "s1", at(14, 0), at(15, 0))})

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, strPtr("s1"))

		require.NoError(t, err)
		// a 60-minute service starting 13:30, 14:00 or 14:30 would collide
		assert.Equal(t, entities.SlotStatusOpen, slotByStart(t, slots, at(13, 0)).Status)
		assert.Equal(t, entities.SlotStatusFull, slotByStart(t, slots, at(13, 30)).Status)
		assert.Equal(t, entities.SlotStatusFull, slotByStart(t, slots, at(14, 0)).Status)
		assert.Equal(t, entities.SlotStatusFull, slotByStart(t, slots, at(14, 30)).Status)
		assert.Equal(t, entities.SlotStatusOpen, slotByStart(t, slots, at(15, 0)).Status)
	})

	t.Run("holiday override yields no slots", func(t *testing.T) {
		holiday := testStaff("s1", []string{testServiceID}, "10:00", "18:00")
		holiday.Overrides = map[entities.DateKey]entities.DayHours{
			entities.DateKeyOf(wednesday): {Closed: true},
		}
		f := newAvailabilityFixture(t, []*entities.Staff{holiday}, time.Hour)

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, strPtr("s1"))

		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("cancelled booking releases its slot", func(t *testing.T) {
		f := newAvailabilityFixture(t, roster, time.Hour)
		cancelled := activeBooking("b1", "s1", at(14, 0), at(15, 0))
		cancelled.Status = entities.BookingStatusCancelled
		f.set.Seed([]*entities.Booking{cancelled})

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, strPtr("s1"))

		require.NoError(t, err)
		assert.Equal(t, entities.SlotStatusOpen, slotByStart(t, slots, at(14, 0)).Status)
	})

	t.Run("unknown staff is rejected", func(t *testing.T) {
		f := newAvailabilityFixture(t, roster, time.Hour)

		_, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, strPtr("ghost"))

		assert.True(t, apperrors.IsValidation(err, apperrors.ReasonUnknownStaff))
	})
}

func TestGetAvailability_FreeRequest(t *testing.T) {
	ctx := context.Background()
	roster := []*entities.Staff{
		testStaff("s1", []string{testServiceID}, "10:00", "18:00"),
		testStaff("s2", []string{testServiceID}, "10:00", "18:00"),
	}

	t.Run("one consumed unit of two drops the slot to low", func(t *testing.T) {
		f := newAvailabilityFixture(t, roster, time.Hour)
		f.set.Seed([]*entities.Booking{activeBooking("b1", "", at(14, 0), at(15, 0))})

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, nil)

		require.NoError(t, err)
		assert.Equal(t, entities.SlotStatusLow, slotByStart(t, slots, at(14, 0)).Status)
		assert.Equal(t, entities.SlotStatusOpen, slotByStart(t, slots, at(13, 0)).Status)
		assert.Equal(t, entities.SlotStatusOpen, slotByStart(t, slots, at(15, 0)).Status)
	})

	t.Run("clinic hours outside every roster schedule are full", func(t *testing.T) {
		// clinic nominal day is 09:00-19:00 but both staff start at 10:00
		f := newAvailabilityFixture(t, roster, time.Hour)

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, nil)

		require.NoError(t, err)
		assert.Equal(t, entities.SlotStatusFull, slotByStart(t, slots, at(9, 0)).Status)
		assert.Equal(t, entities.SlotStatusFull, slotByStart(t, slots, at(18, 0)).Status)
		assert.Equal(t, entities.SlotStatusOpen, slotByStart(t, slots, at(10, 0)).Status)
	})

	t.Run("both staff booked leaves the slot full", func(t *testing.T) {
		f := newAvailabilityFixture(t, roster, time.Hour)
		f.set.Seed([]*entities.Booking{
			activeBooking("b1", "s1", at(14, 0), at(15, 0)),
			activeBooking("b2", "s2", at(14, 0), at(15, 0)),
		})

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, nil)

		require.NoError(t, err)
		assert.Equal(t, entities.SlotStatusFull, slotByStart(t, slots, at(14, 0)).Status)
	})

	t.Run("rosterless clinic runs on its nominal hours with one unit", func(t *testing.T) {
		f := newAvailabilityFixture(t, []*entities.Staff{}, time.Hour)
		f.set.Seed([]*entities.Booking{activeBooking("b1", "", at(14, 0), at(15, 0))})

		slots, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, testServiceID, nil)

		require.NoError(t, err)
		assert.Equal(t, entities.SlotStatusFull, slotByStart(t, slots, at(14, 0)).Status)
		assert.Equal(t, entities.SlotStatusLow, slotByStart(t, slots, at(10, 0)).Status)
	})

	t.Run("unknown service is rejected", func(t *testing.T) {
		f := newAvailabilityFixture(t, roster, time.Hour)

		_, err := f.svc.GetAvailability(ctx, testClinicID, wednesday, "svc-ghost", nil)

		assert.True(t, apperrors.IsValidation(err, apperrors.ReasonUnknownService))
	})
}

func TestAvailabilityService_Stale(t *testing.T) {
	clinicRepo := new(MockClinicRepository)
	serviceRepo := new(MockServiceRepository)
	staffRepo := new(MockStaffRepository)

	svc := scheduling.NewAvailabilityService(staffRepo, serviceRepo, clinicRepo,
		&staticSource{set: scheduling.NewBookingSet(), stale: true}, time.Hour)

	assert.True(t, svc.Stale())
}
