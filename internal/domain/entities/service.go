package entities

import "time"

// Service is a bookable menu item. Immutable from the engine's perspective
// during a single availability computation.
type Service struct {
	ID              string    `json:"id" db:"id"`
	ClinicID        string    `json:"clinic_id" db:"clinic_id"`
	Name            string    `json:"name" db:"name"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	BufferMinutes   int       `json:"buffer_minutes" db:"buffer_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Duration is the treatment time itself
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// OccupiedDuration is the interval a booking of this service blocks on a
// calendar: treatment time plus preparation buffer.
func (s *Service) OccupiedDuration() time.Duration {
	return time.Duration(s.DurationMinutes+s.BufferMinutes) * time.Minute
}
