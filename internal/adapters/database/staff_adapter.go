package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
)

var staffColumns = []interface{}{
	"id", "clinic_id", "display_name", "role", "service_ids",
	"weekly_schedule", "overrides", "created_at", "updated_at",
}

// StaffAdapter implements the StaffRepository interface. Schedules and shift
// overrides live in JSONB columns; the profile-management side owns writes.
type StaffAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStaffAdapter creates a new staff adapter
func NewStaffAdapter(client *postgres.Client) repositories.StaffRepository {
	return &StaffAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByClinic retrieves the full staff roster of a clinic
func (a *StaffAdapter) ListByClinic(ctx context.Context, clinicID string) ([]*entities.Staff, error) {
	query, args, err := a.db.Select(staffColumns...).
		From("staff").
		Where(goqu.Ex{"clinic_id": clinicID}).
		Order(goqu.I("display_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build roster query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list staff", err)
	}
	defer rows.Close()

	var roster []*entities.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan staff", err)
		}
		roster = append(roster, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate staff", err)
	}

	return roster, nil
}

// GetByID retrieves a single staff member
func (a *StaffAdapter) GetByID(ctx context.Context, id string) (*entities.Staff, error) {
	query, args, err := a.db.Select(staffColumns...).
		From("staff").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build staff query", err)
	}

	st, err := scanStaff(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("staff with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get staff", err)
	}

	return st, nil
}

func scanStaff(row rowScanner) (*entities.Staff, error) {
	st := &entities.Staff{}
	var role sql.NullString
	var serviceIDs, weeklySchedule, overrides []byte

	err := row.Scan(
		&st.ID,
		&st.ClinicID,
		&st.DisplayName,
		&role,
		&serviceIDs,
		&weeklySchedule,
		&overrides,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	st.Role = role.String

	if len(serviceIDs) > 0 {
		if err := json.Unmarshal(serviceIDs, &st.ServiceIDs); err != nil {
			return nil, fmt.Errorf("invalid service_ids json: %w", err)
		}
	}
	if len(weeklySchedule) > 0 {
		if err := json.Unmarshal(weeklySchedule, &st.WeeklySchedule); err != nil {
			return nil, fmt.Errorf("invalid weekly_schedule json: %w", err)
		}
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &st.Overrides); err != nil {
			return nil, fmt.Errorf("invalid overrides json: %w", err)
		}
	}

	return st, nil
}
