package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/booking-platform/internal/domain/providers"
)

// StreamHandler handles Server-Sent Events for live booking updates
type StreamHandler struct {
	eventBus providers.EventBus
	clients  atomic.Int64
}

// NewStreamHandler creates a new SSE stream handler
func NewStreamHandler(eventBus providers.EventBus) *StreamHandler {
	return &StreamHandler{
		eventBus: eventBus,
	}
}

// ClientCount returns the number of connected stream clients
func (h *StreamHandler) ClientCount() int64 {
	return h.clients.Load()
}

// StreamClinicBookings handles SSE connections for one clinic's booking feed.
// GET /api/stream/clinics/{id}/bookings
func (h *StreamHandler) StreamClinicBookings(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, err := h.eventBus.Subscribe(r.Context(), providers.BookingChannel(clinicID))
	if err != nil {
		log.Error().Err(err).Str("clinic_id", clinicID).Msg("failed to subscribe to booking feed")
		respondWithError(w, http.StatusServiceUnavailable, "booking feed unavailable")
		return
	}

	h.clients.Add(1)
	defer h.clients.Add(-1)

	h.sendEvent(w, "connected", map[string]interface{}{
		"clinic_id": clinicID,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("clinic_id", clinicID).Msg("stream client disconnected")
			return
		case <-heartbeat.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				// Feed lost; the client reconnects and gets a fresh view.
				log.Warn().Str("clinic_id", clinicID).Msg("booking feed closed, ending stream")
				return
			}
			h.sendEvent(w, string(event.Kind), event)
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal stream event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
