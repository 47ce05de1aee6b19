package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
)

// ClinicAdapter implements the ClinicRepository interface
type ClinicAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewClinicAdapter creates a new clinic adapter
func NewClinicAdapter(client *postgres.Client) repositories.ClinicRepository {
	return &ClinicAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a clinic profile
func (a *ClinicAdapter) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	query, args, err := a.db.Select(
		"id", "name", "timezone", "day_start_minutes", "day_end_minutes",
		"created_at", "updated_at",
	).From("clinics").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build clinic query", err)
	}

	clinic := &entities.Clinic{}
	var dayStart, dayEnd int
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&clinic.ID, &clinic.Name, &clinic.Timezone,
		&dayStart, &dayEnd,
		&clinic.CreatedAt, &clinic.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("clinic with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get clinic", err)
	}

	clinic.DayStart = entities.TimeOfDay(dayStart)
	clinic.DayEnd = entities.TimeOfDay(dayEnd)

	return clinic, nil
}
