package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// BookingManager defines the interface for booking lifecycle operations
type BookingManager interface {
	RequestBooking(ctx context.Context, req scheduling.BookingRequest) (*entities.Booking, error)
	GetBooking(ctx context.Context, id string) (*entities.Booking, error)
	RescheduleBooking(ctx context.Context, id string, newStart time.Time) (*entities.Booking, error)
	ReassignBooking(ctx context.Context, id string, staffID *string) (*entities.Booking, error)
	CancelBooking(ctx context.Context, id string) (*entities.Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*entities.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*entities.Booking, error)
	MarkNoShow(ctx context.Context, id string) (*entities.Booking, error)
}

// BookingHandler handles booking lifecycle requests
type BookingHandler struct {
	manager BookingManager
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(manager BookingManager) *BookingHandler {
	return &BookingHandler{
		manager: manager,
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req scheduling.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.ClinicID == "" || req.ServiceID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic_id and service_id are required")
		return
	}
	if req.StartAt.IsZero() {
		respondWithError(w, http.StatusBadRequest, "start_at is required")
		return
	}
	if req.Origin == "" {
		req.Origin = scheduling.OriginSelfService
	}

	booking, err := h.manager.RequestBooking(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	booking, err := h.manager.GetBooking(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// RescheduleBooking handles PATCH /api/bookings/{id}/reschedule
func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	var body struct {
		StartAt time.Time `json:"start_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.StartAt.IsZero() {
		respondWithError(w, http.StatusBadRequest, "start_at is required (RFC3339)")
		return
	}

	booking, err := h.manager.RescheduleBooking(r.Context(), id, body.StartAt)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// ReassignBooking handles PATCH /api/bookings/{id}/reassign. A null staff_id
// releases the booking to the free pool.
func (h *BookingHandler) ReassignBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	var body struct {
		StaffID *string `json:"staff_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking, err := h.manager.ReassignBooking(r.Context(), id, body.StaffID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.manager.CancelBooking)
}

// ConfirmBooking handles POST /api/bookings/{id}/confirm
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.manager.ConfirmBooking)
}

// CompleteBooking handles POST /api/bookings/{id}/complete
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.manager.CompleteBooking)
}

// MarkNoShow handles POST /api/bookings/{id}/no-show
func (h *BookingHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.manager.MarkNoShow)
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*entities.Booking, error)) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	booking, err := op(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}
