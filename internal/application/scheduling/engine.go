package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/providers"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
)

// EngineConfig sets the per-consumer slot granularities and how far ahead a
// clinic replica tracks bookings
type EngineConfig struct {
	BookingSlot  time.Duration
	CalendarSlot time.Duration
	Horizon      time.Duration
}

// DefaultEngineConfig returns the granularities used by the booking wizard
// (hourly) and the staff calendar (half-hourly)
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BookingSlot:  time.Hour,
		CalendarSlot: 30 * time.Minute,
		Horizon:      60 * 24 * time.Hour,
	}
}

// Engine is the upward entry point for the HTTP surface. It maintains one
// live-synced replica per clinic, started lazily on first use, and builds the
// availability and lifecycle services around it.
type Engine struct {
	repo        repositories.BookingRepository
	staffRepo   repositories.StaffRepository
	serviceRepo repositories.ServiceRepository
	clinicRepo  repositories.ClinicRepository
	bus         providers.EventBus
	cfg         EngineConfig

	mu       sync.Mutex
	sessions map[string]*clinicSession
}

type clinicSession struct {
	sync    *LiveSync
	booking *BookingService
}

// NewEngine creates the scheduling engine
func NewEngine(
	repo repositories.BookingRepository,
	staffRepo repositories.StaffRepository,
	serviceRepo repositories.ServiceRepository,
	clinicRepo repositories.ClinicRepository,
	bus providers.EventBus,
	cfg EngineConfig,
) *Engine {
	if cfg.BookingSlot <= 0 {
		cfg.BookingSlot = time.Hour
	}
	if cfg.CalendarSlot <= 0 {
		cfg.CalendarSlot = 30 * time.Minute
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = 60 * 24 * time.Hour
	}
	return &Engine{
		repo:        repo,
		staffRepo:   staffRepo,
		serviceRepo: serviceRepo,
		clinicRepo:  clinicRepo,
		bus:         bus,
		cfg:         cfg,
		sessions:    make(map[string]*clinicSession),
	}
}

// session returns the clinic's replica-backed services, starting the live
// sync on first use. The replica outlives the request that triggered it.
func (e *Engine) session(clinicID string) *clinicSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sess, ok := e.sessions[clinicID]; ok {
		return sess
	}

	now := time.Now()
	sync := NewLiveSync(clinicID, now.Add(-24*time.Hour), now.Add(e.cfg.Horizon), e.repo, e.bus)
	sync.Start(context.Background())

	sess := &clinicSession{
		sync:    sync,
		booking: NewBookingService(e.repo, e.staffRepo, e.serviceRepo, e.clinicRepo, e.bus, sync.Set()),
	}
	e.sessions[clinicID] = sess

	log.Info().Str("clinic_id", clinicID).Msg("clinic booking replica started")
	return sess
}

// Availability returns the candidate slots for a clinic date, plus a flag
// telling whether the underlying replica lost its feed
func (e *Engine) Availability(ctx context.Context, clinicID string, date time.Time, serviceID string, staffID *string) ([]entities.AvailabilitySlot, bool, error) {
	sess := e.session(clinicID)
	if !sess.sync.Covers(date, date.Add(24*time.Hour)) {
		return nil, false, apperrors.NewValidationError(apperrors.ReasonOutsideHorizon,
			"date is outside the tracked booking horizon")
	}

	interval := e.cfg.BookingSlot
	if staffID != nil {
		interval = e.cfg.CalendarSlot
	}

	svc := NewAvailabilityService(e.staffRepo, e.serviceRepo, e.clinicRepo, sess.sync, interval)
	slots, err := svc.GetAvailability(ctx, clinicID, date, serviceID, staffID)
	if err != nil {
		return nil, sess.sync.Stale(), err
	}
	return slots, sess.sync.Stale(), nil
}

// RequestBooking places a new booking
func (e *Engine) RequestBooking(ctx context.Context, req BookingRequest) (*entities.Booking, error) {
	sess := e.session(req.ClinicID)
	if !sess.sync.Covers(req.StartAt, req.StartAt) {
		return nil, apperrors.NewValidationError(apperrors.ReasonOutsideHorizon,
			"start time is outside the tracked booking horizon")
	}
	return sess.booking.RequestBooking(ctx, req)
}

// GetBooking fetches one booking from the authoritative store
func (e *Engine) GetBooking(ctx context.Context, id string) (*entities.Booking, error) {
	return e.repo.GetByID(ctx, id)
}

// RescheduleBooking moves a booking to a new start time
func (e *Engine) RescheduleBooking(ctx context.Context, id string, newStart time.Time) (*entities.Booking, error) {
	booking, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := e.session(booking.ClinicID)
	if !sess.sync.Covers(newStart, newStart) {
		return nil, apperrors.NewValidationError(apperrors.ReasonOutsideHorizon,
			"start time is outside the tracked booking horizon")
	}
	return sess.booking.RescheduleBooking(ctx, id, newStart)
}

// ReassignBooking moves a booking to another staff member or the free pool
func (e *Engine) ReassignBooking(ctx context.Context, id string, staffID *string) (*entities.Booking, error) {
	booking, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.session(booking.ClinicID).booking.ReassignBooking(ctx, id, staffID)
}

// CancelBooking cancels a booking, releasing its interval
func (e *Engine) CancelBooking(ctx context.Context, id string) (*entities.Booking, error) {
	return e.lifecycle(ctx, id, (*BookingService).CancelBooking)
}

// ConfirmBooking confirms a pending booking
func (e *Engine) ConfirmBooking(ctx context.Context, id string) (*entities.Booking, error) {
	return e.lifecycle(ctx, id, (*BookingService).ConfirmBooking)
}

// CompleteBooking completes a confirmed booking
func (e *Engine) CompleteBooking(ctx context.Context, id string) (*entities.Booking, error) {
	return e.lifecycle(ctx, id, (*BookingService).CompleteBooking)
}

// MarkNoShow records a confirmed booking as a no-show
func (e *Engine) MarkNoShow(ctx context.Context, id string) (*entities.Booking, error) {
	return e.lifecycle(ctx, id, (*BookingService).MarkNoShow)
}

func (e *Engine) lifecycle(ctx context.Context, id string, op func(*BookingService, context.Context, string) (*entities.Booking, error)) (*entities.Booking, error) {
	booking, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return op(e.session(booking.ClinicID).booking, ctx, id)
}

// Close stops every clinic replica
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for clinicID, sess := range e.sessions {
		sess.sync.Stop()
		delete(e.sessions, clinicID)
	}
}
