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

var serviceColumns = []interface{}{
	"id", "clinic_id", "name", "duration_minutes", "buffer_minutes",
	"created_at", "updated_at",
}

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByClinic retrieves all services offered by a clinic
func (a *ServiceAdapter) ListByClinic(ctx context.Context, clinicID string) ([]*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From("services").
		Where(goqu.Ex{"clinic_id": clinicID}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build services query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	var services []*entities.Service
	for rows.Next() {
		svc := &entities.Service{}
		if err := rows.Scan(
			&svc.ID, &svc.ClinicID, &svc.Name,
			&svc.DurationMinutes, &svc.BufferMinutes,
			&svc.CreatedAt, &svc.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate services", err)
	}

	return services, nil
}

// GetByID retrieves a single service
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From("services").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build service query", err)
	}

	svc := &entities.Service{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&svc.ID, &svc.ClinicID, &svc.Name,
		&svc.DurationMinutes, &svc.BufferMinutes,
		&svc.CreatedAt, &svc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}

	return svc, nil
}
