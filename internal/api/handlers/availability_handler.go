package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// AvailabilityProvider defines the interface for availability queries
type AvailabilityProvider interface {
	Availability(ctx context.Context, clinicID string, date time.Time, serviceID string, staffID *string) ([]entities.AvailabilitySlot, bool, error)
}

// AvailabilityHandler handles availability requests
type AvailabilityHandler struct {
	provider AvailabilityProvider
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(provider AvailabilityProvider) *AvailabilityHandler {
	return &AvailabilityHandler{
		provider: provider,
	}
}

// GetAvailability handles GET /api/clinics/{id}/availability
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	query := r.URL.Query()

	serviceID := query.Get("service_id")
	if serviceID == "" {
		respondWithError(w, http.StatusBadRequest, "service_id query parameter is required")
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}

	var staffID *string
	if s := query.Get("staff_id"); s != "" {
		staffID = &s
	}

	slots, stale, err := h.provider.Availability(r.Context(), clinicID, date, serviceID, staffID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if slots == nil {
		slots = []entities.AvailabilitySlot{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"clinic_id":  clinicID,
		"service_id": serviceID,
		"date":       dateStr,
		"slots":      slots,
		"stale":      stale,
	})
}
