package repositories

import (
	"context"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
)

// StaffRepository is the profile-store view of a clinic's roster.
// Read-only to the engine; mutation happens through profile management.
type StaffRepository interface {
	// ListByClinic retrieves the full staff roster of a clinic
	ListByClinic(ctx context.Context, clinicID string) ([]*entities.Staff, error)

	// GetByID retrieves a single staff member
	GetByID(ctx context.Context, id string) (*entities.Staff, error)
}

// ServiceRepository is the profile-store view of a clinic's menu
type ServiceRepository interface {
	// ListByClinic retrieves all services offered by a clinic
	ListByClinic(ctx context.Context, clinicID string) ([]*entities.Service, error)

	// GetByID retrieves a single service
	GetByID(ctx context.Context, id string) (*entities.Service, error)
}

// ClinicRepository provides clinic-level scheduling profiles
type ClinicRepository interface {
	// GetByID retrieves a clinic profile
	GetByID(ctx context.Context, id string) (*entities.Clinic, error)
}
