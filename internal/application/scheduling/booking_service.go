package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/providers"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
)

// BookingOrigin determines the initial lifecycle status of a new booking
type BookingOrigin string

const (
	// OriginSelfService is a booking made by the patient; it starts pending
	OriginSelfService BookingOrigin = "self_service"

	// OriginOperator is a booking entered by clinic staff; it starts confirmed
	OriginOperator BookingOrigin = "operator"
)

// BookingRequest carries everything needed to place a booking. StaffID nil
// requests "any available staff".
type BookingRequest struct {
	ClinicID   string        `json:"clinic_id"`
	ServiceID  string        `json:"service_id"`
	StaffID    *string       `json:"staff_id"`
	StartAt    time.Time     `json:"start_at"`
	Origin     BookingOrigin `json:"origin"`
	UserID     *string       `json:"user_id"`
	GuestName  string        `json:"guest_name"`
	GuestEmail string        `json:"guest_email"`
	GuestPhone string        `json:"guest_phone"`
	Notes      string        `json:"notes"`
}

// BookingService validates and commits booking changes. Every write is
// revalidated against the current replica immediately before commit; the
// client's availability view is a hint to the user, never the authority for
// the commit decision. After a successful commit the local replica is patched
// before returning, so a same-session availability query is consistent even
// before the feed echoes the change back.
type BookingService struct {
	repo        repositories.BookingRepository
	staffRepo   repositories.StaffRepository
	serviceRepo repositories.ServiceRepository
	clinicRepo  repositories.ClinicRepository
	bus         providers.EventBus
	set         *BookingSet
}

// NewBookingService creates a booking lifecycle service sharing the given
// replica with the viewer's LiveSync consumer
func NewBookingService(
	repo repositories.BookingRepository,
	staffRepo repositories.StaffRepository,
	serviceRepo repositories.ServiceRepository,
	clinicRepo repositories.ClinicRepository,
	bus providers.EventBus,
	set *BookingSet,
) *BookingService {
	return &BookingService{
		repo:        repo,
		staffRepo:   staffRepo,
		serviceRepo: serviceRepo,
		clinicRepo:  clinicRepo,
		bus:         bus,
		set:         set,
	}
}

// RequestBooking validates and commits a new booking
func (s *BookingService) RequestBooking(ctx context.Context, req BookingRequest) (*entities.Booking, error) {
	clinic, service, roster, err := s.loadProfile(ctx, req.ClinicID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	loc := clinic.Location()

	start := req.StartAt.In(loc)
	end := start.Add(service.OccupiedDuration())

	if err := s.validateInterval(clinic, roster, req.StaffID, req.ServiceID, start, end, loc, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &entities.Booking{
		ID:         uuid.New().String(),
		ClinicID:   req.ClinicID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		StartAt:    start,
		EndAt:      end,
		Status:     entities.BookingStatusPending,
		UserID:     req.UserID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Origin == OriginOperator {
		booking.Status = entities.BookingStatusConfirmed
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.set.Upsert(*booking)
	s.publish(ctx, entities.BookingEventInsert, *booking)

	return booking, nil
}

// RescheduleBooking moves a booking to a new start time, revalidating with
// the booking itself excluded from conflict and capacity computations
func (s *BookingService) RescheduleBooking(ctx context.Context, id string, newStart time.Time) (*entities.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperrors.NewValidationError(apperrors.ReasonInvalidTransition,
			"cannot reschedule a booking in status "+string(booking.Status))
	}

	clinic, service, roster, err := s.loadProfile(ctx, booking.ClinicID, booking.ServiceID)
	if err != nil {
		return nil, err
	}
	loc := clinic.Location()

	start := newStart.In(loc)
	end := start.Add(service.OccupiedDuration())

	if err := s.validateInterval(clinic, roster, booking.StaffID, booking.ServiceID, start, end, loc, booking.ID); err != nil {
		return nil, err
	}

	fields := repositories.BookingFields{StartAt: &start, EndAt: &end}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	booking.StartAt = start
	booking.EndAt = end
	booking.UpdatedAt = time.Now()
	s.set.Upsert(*booking)
	s.publish(ctx, entities.BookingEventUpdate, *booking)

	return booking, nil
}

// ReassignBooking moves a booking to another staff member, or to the free
// pool when newStaffID is nil. The target is revalidated like a create, with
// the booking itself excluded.
func (s *BookingService) ReassignBooking(ctx context.Context, id string, newStaffID *string) (*entities.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperrors.NewValidationError(apperrors.ReasonInvalidTransition,
			"cannot reassign a booking in status "+string(booking.Status))
	}

	clinic, _, roster, err := s.loadProfile(ctx, booking.ClinicID, booking.ServiceID)
	if err != nil {
		return nil, err
	}
	loc := clinic.Location()

	if err := s.validateInterval(clinic, roster, newStaffID, booking.ServiceID, booking.StartAt.In(loc), booking.EndAt.In(loc), loc, booking.ID); err != nil {
		return nil, err
	}

	fields := repositories.BookingFields{StaffID: &newStaffID}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	booking.StaffID = newStaffID
	booking.UpdatedAt = time.Now()
	s.set.Upsert(*booking)
	s.publish(ctx, entities.BookingEventUpdate, *booking)

	return booking, nil
}

// CancelBooking marks a booking cancelled, releasing its interval. The
// record stays for history; there is no hard delete.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*entities.Booking, error) {
	return s.transition(ctx, id, entities.BookingStatusCancelled)
}

// ConfirmBooking moves a pending booking to confirmed
func (s *BookingService) ConfirmBooking(ctx context.Context, id string) (*entities.Booking, error) {
	return s.transition(ctx, id, entities.BookingStatusConfirmed)
}

// CompleteBooking marks a confirmed booking completed
func (s *BookingService) CompleteBooking(ctx context.Context, id string) (*entities.Booking, error) {
	return s.transition(ctx, id, entities.BookingStatusCompleted)
}

// MarkNoShow marks a confirmed booking as a no-show
func (s *BookingService) MarkNoShow(ctx context.Context, id string) (*entities.Booking, error) {
	return s.transition(ctx, id, entities.BookingStatusNoShow)
}

func (s *BookingService) transition(ctx context.Context, id string, next entities.BookingStatus) (*entities.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, apperrors.NewValidationError(apperrors.ReasonInvalidTransition,
			"cannot move booking from "+string(booking.Status)+" to "+string(next))
	}

	fields := repositories.BookingFields{Status: &next}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	booking.Status = next
	booking.UpdatedAt = time.Now()
	s.set.Upsert(*booking)
	s.publish(ctx, entities.BookingEventUpdate, *booking)

	return booking, nil
}

// loadProfile fetches the read-only profile snapshot a validation runs against
func (s *BookingService) loadProfile(ctx context.Context, clinicID, serviceID string) (*entities.Clinic, *entities.Service, []*entities.Staff, error) {
	clinic, err := s.clinicRepo.GetByID(ctx, clinicID)
	if err != nil {
		return nil, nil, nil, err
	}

	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			return nil, nil, nil, apperrors.NewValidationError(apperrors.ReasonUnknownService, "unknown service "+serviceID)
		}
		return nil, nil, nil, err
	}

	roster, err := s.staffRepo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, nil, nil, err
	}

	return clinic, service, roster, nil
}

// validateInterval enforces the same invariants availability reads use,
// against the booking set as of right now
func (s *BookingService) validateInterval(clinic *entities.Clinic, roster []*entities.Staff, staffID *string, serviceID string, start, end time.Time, loc *time.Location, excludeID string) error {
	bookings := s.set.Snapshot()

	if staffID != nil {
		var staff *entities.Staff
		for _, st := range roster {
			if st.ID == *staffID {
				staff = st
				break
			}
		}
		if staff == nil {
			return apperrors.NewValidationError(apperrors.ReasonUnknownStaff, "staff "+*staffID+" is not on the roster")
		}

		hours := ResolveDayHours(staff, start)
		if override, ok := staff.Overrides[entities.DateKeyOf(start)]; ok && override.Closed {
			return apperrors.NewValidationError(apperrors.ReasonStaffHoliday,
				staff.DisplayName+" is on holiday that day")
		}
		if !CoversInterval(hours, start, start, end, loc) {
			return apperrors.NewValidationError(apperrors.ReasonOutsideHours,
				"requested time is outside "+staff.DisplayName+"'s working hours")
		}
		if HasConflict(bookings, *staffID, start, end, excludeID) {
			return apperrors.NewValidationError(apperrors.ReasonOverlap,
				"requested time overlaps an existing booking")
		}
		return nil
	}

	if len(roster) == 0 {
		// Rosterless clinic: the clinic's own hours govern and capacity is a
		// single unit, mirroring what availability reads report.
		hours := entities.DayHours{Start: clinic.DayStart, End: clinic.DayEnd}
		if !CoversInterval(hours, start, start, end, loc) {
			return apperrors.NewValidationError(apperrors.ReasonOutsideHours,
				"requested time is outside the clinic's hours")
		}
		if 1-ConsumedCapacity(bookings, nil, start, end, excludeID) <= 0 {
			return apperrors.NewValidationError(apperrors.ReasonSlotFull,
				"no capacity remains in the requested time")
		}
		return nil
	}

	capable, remaining := RemainingCapacity(bookings, roster, serviceID, start, start, end, loc, excludeID)
	if len(capable) == 0 {
		return apperrors.NewValidationError(apperrors.ReasonOutsideHours,
			"no capable staff member works the requested time")
	}
	if remaining <= 0 {
		return apperrors.NewValidationError(apperrors.ReasonSlotFull,
			"no capacity remains in the requested time")
	}
	return nil
}

// publish emits a feed event after a successful commit. Failures are logged,
// not returned: the write is already durable and other viewers converge on
// their next reseed.
func (s *BookingService) publish(ctx context.Context, kind entities.BookingEventKind, booking entities.Booking) {
	if s.bus == nil {
		return
	}
	event := entities.NewBookingEvent(kind, booking)
	if err := s.bus.Publish(ctx, providers.BookingChannel(booking.ClinicID), event); err != nil {
		log.Warn().Err(err).
			Str("booking_id", booking.ID).
			Str("kind", string(kind)).
			Msg("failed to publish booking event")
	}
}
