package routes

import (
	"net/http"

	"github.com/clinicdesk/booking-platform/internal/api/handlers"
	"github.com/clinicdesk/booking-platform/internal/api/middleware"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	bookingHandler      *handlers.BookingHandler
	streamHandler       *handlers.StreamHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	streamHandler *handlers.StreamHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		streamHandler:       streamHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Availability endpoint
	r.mux.HandleFunc("GET /api/clinics/{id}/availability", r.availabilityHandler.GetAvailability)

	// Booking endpoints
	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.CreateBooking)
	r.mux.HandleFunc("GET /api/bookings/{id}", r.bookingHandler.GetBooking)
	r.mux.HandleFunc("PATCH /api/bookings/{id}/reschedule", r.bookingHandler.RescheduleBooking)
	r.mux.HandleFunc("PATCH /api/bookings/{id}/reassign", r.bookingHandler.ReassignBooking)
	r.mux.HandleFunc("POST /api/bookings/{id}/cancel", r.bookingHandler.CancelBooking)
	r.mux.HandleFunc("POST /api/bookings/{id}/confirm", r.bookingHandler.ConfirmBooking)
	r.mux.HandleFunc("POST /api/bookings/{id}/complete", r.bookingHandler.CompleteBooking)
	r.mux.HandleFunc("POST /api/bookings/{id}/no-show", r.bookingHandler.MarkNoShow)

	// Streaming endpoint, also served standalone by the sse binary
	if r.streamHandler != nil {
		r.mux.HandleFunc("GET /api/stream/clinics/{id}/bookings", r.streamHandler.StreamClinicBookings)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
