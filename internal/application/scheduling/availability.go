package scheduling

import (
	"context"
	"time"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
)

// BookingSource supplies the booking set a computation runs against. A
// LiveSync replica satisfies it; tests use a plain BookingSet.
type BookingSource interface {
	// Bookings returns a consistent snapshot of the current booking set
	Bookings() []*entities.Booking

	// Stale reports whether the source lost its feed and could not recover
	Stale() bool
}

// AvailabilityService is the single availability entry point shared by the
// booking wizard and the staff calendar, so the staff-specific and free
// codepaths cannot drift apart. It is side-effect-free: bookings come from
// the supplied source, never from its own fetch.
type AvailabilityService struct {
	staffRepo    repositories.StaffRepository
	serviceRepo  repositories.ServiceRepository
	clinicRepo   repositories.ClinicRepository
	source       BookingSource
	slotInterval time.Duration
}

// NewAvailabilityService creates an availability service for one consumer.
// slotInterval is that consumer's granularity; two consumers of the same
// clinic may use different intervals.
func NewAvailabilityService(
	staffRepo repositories.StaffRepository,
	serviceRepo repositories.ServiceRepository,
	clinicRepo repositories.ClinicRepository,
	source BookingSource,
	slotInterval time.Duration,
) *AvailabilityService {
	return &AvailabilityService{
		staffRepo:    staffRepo,
		serviceRepo:  serviceRepo,
		clinicRepo:   clinicRepo,
		source:       source,
		slotInterval: slotInterval,
	}
}

// Stale reports whether results may lag behind the authoritative store
func (s *AvailabilityService) Stale() bool {
	return s.source.Stale()
}

// GetAvailability returns the ordered candidate slots for a clinic date with
// their capacity status. staffID selects a single calendar (binary open/full);
// nil means a free request with the tri-state open/low/full signal.
func (s *AvailabilityService) GetAvailability(ctx context.Context, clinicID string, date time.Time, serviceID string, staffID *string) ([]entities.AvailabilitySlot, error) {
	clinic, err := s.clinicRepo.GetByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	loc := clinic.Location()

	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			return nil, apperrors.NewValidationError(apperrors.ReasonUnknownService, "unknown service "+serviceID)
		}
		return nil, err
	}
	occupied := service.OccupiedDuration()

	roster, err := s.staffRepo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	bookings := s.source.Bookings()

	if staffID != nil {
		return s.staffAvailability(roster, bookings, *staffID, date, occupied, loc)
	}
	return s.freeAvailability(clinic, roster, bookings, serviceID, date, occupied, loc)
}

// staffAvailability tags each slot of one staff member's resolved hours as
// open or full. A single calendar has no "low" state: a slot is free or not.
func (s *AvailabilityService) staffAvailability(roster []*entities.Staff, bookings []*entities.Booking, staffID string, date time.Time, occupied time.Duration, loc *time.Location) ([]entities.AvailabilitySlot, error) {
	var staff *entities.Staff
	for _, st := range roster {
		if st.ID == staffID {
			staff = st
			break
		}
	}
	if staff == nil {
		return nil, apperrors.NewValidationError(apperrors.ReasonUnknownStaff, "staff "+staffID+" is not on the roster")
	}

	hours := ResolveDayHours(staff, date)
	if !hours.IsOpen() {
		return []entities.AvailabilitySlot{}, nil
	}

	dayStart := hours.Start.OnDate(date, loc)
	dayEnd := hours.End.OnDate(date, loc)

	var slots []entities.AvailabilitySlot
	for _, start := range GenerateSlots(dayStart, dayEnd, s.slotInterval, occupied) {
		status := entities.SlotStatusOpen
		if HasConflict(bookings, staffID, start, start.Add(occupied), "") {
			status = entities.SlotStatusFull
		}
		slots = append(slots, entities.AvailabilitySlot{StartAt: start, Status: status})
	}
	return slots, nil
}

// freeAvailability tags each slot of the clinic's nominal day span with the
// tri-state capacity signal for a no-preference request
func (s *AvailabilityService) freeAvailability(clinic *entities.Clinic, roster []*entities.Staff, bookings []*entities.Booking, serviceID string, date time.Time, occupied time.Duration, loc *time.Location) ([]entities.AvailabilitySlot, error) {
	dayStart := clinic.DayStart.OnDate(date, loc)
	dayEnd := clinic.DayEnd.OnDate(date, loc)

	var slots []entities.AvailabilitySlot
	for _, start := range GenerateSlots(dayStart, dayEnd, s.slotInterval, occupied) {
		end := start.Add(occupied)

		var remaining int
		if len(roster) == 0 {
			// Rosterless clinic: the clinic's own hours are the only source
			// and capacity is a single unit.
			remaining = 1 - ConsumedCapacity(bookings, nil, start, end, "")
		} else {
			_, remaining = RemainingCapacity(bookings, roster, serviceID, date, start, end, loc, "")
		}

		slots = append(slots, entities.AvailabilitySlot{
			StartAt: start,
			Status:  StatusForRemaining(remaining),
		})
	}
	return slots, nil
}
