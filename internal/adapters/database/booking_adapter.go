package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
)

var bookingColumns = []interface{}{
	"id", "clinic_id", "staff_id", "service_id", "start_at", "end_at",
	"status", "user_id", "guest_name", "guest_email", "guest_phone",
	"notes", "created_at", "updated_at",
}

// BookingAdapter implements the BookingRepository interface on PostgreSQL.
// The bookings table carries an exclusion constraint on
// (staff_id, tstzrange(start_at, end_at)) for non-cancelled rows, so a racing
// double-book that slips past application revalidation still fails here.
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new booking
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	record := goqu.Record{
		"id":          booking.ID,
		"clinic_id":   booking.ClinicID,
		"staff_id":    booking.StaffID,
		"service_id":  booking.ServiceID,
		"start_at":    booking.StartAt,
		"end_at":      booking.EndAt,
		"status":      booking.Status,
		"user_id":     booking.UserID,
		"guest_name":  booking.GuestName,
		"guest_email": booking.GuestEmail,
		"guest_phone": booking.GuestPhone,
		"notes":       booking.Notes,
		"created_at":  booking.CreatedAt,
		"updated_at":  booking.UpdatedAt,
	}

	query, args, err := a.db.Insert("bookings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isOverlapViolation(err) {
			return apperrors.NewValidationError(apperrors.ReasonOverlap,
				"booking interval already taken for this staff member")
		}
		return apperrors.NewCommitError("failed to create booking", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}

	return booking, nil
}

// UpdateFields patches mutable fields of an existing booking
func (a *BookingAdapter) UpdateFields(ctx context.Context, id string, fields repositories.BookingFields) error {
	record := goqu.Record{
		"updated_at": time.Now(),
	}
	if fields.Status != nil {
		record["status"] = *fields.Status
	}
	if fields.StaffID != nil {
		record["staff_id"] = *fields.StaffID
	}
	if fields.StartAt != nil {
		record["start_at"] = *fields.StartAt
	}
	if fields.EndAt != nil {
		record["end_at"] = *fields.EndAt
	}
	if fields.Notes != nil {
		record["notes"] = *fields.Notes
	}

	query, args, err := a.db.Update("bookings").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isOverlapViolation(err) {
			return apperrors.NewValidationError(apperrors.ReasonOverlap,
				"booking interval already taken for this staff member")
		}
		return apperrors.NewCommitError("failed to update booking", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}

	return nil
}

// ListByClinicRange retrieves all bookings of a clinic intersecting [from, to)
func (a *BookingAdapter) ListByClinicRange(ctx context.Context, clinicID string, from, to time.Time) ([]*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(
			goqu.Ex{"clinic_id": clinicID},
			goqu.C("start_at").Lt(to),
			goqu.C("end_at").Gt(from),
		).
		Order(goqu.I("start_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bookings", err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*entities.Booking, error) {
	booking := &entities.Booking{}
	var staffID, userID sql.NullString
	var guestName, guestEmail, guestPhone, notes sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.ClinicID,
		&staffID,
		&booking.ServiceID,
		&booking.StartAt,
		&booking.EndAt,
		&booking.Status,
		&userID,
		&guestName,
		&guestEmail,
		&guestPhone,
		&notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if staffID.Valid {
		booking.StaffID = &staffID.String
	}
	if userID.Valid {
		booking.UserID = &userID.String
	}
	booking.GuestName = guestName.String
	booking.GuestEmail = guestEmail.String
	booking.GuestPhone = guestPhone.String
	booking.Notes = notes.String

	return booking, nil
}

// isOverlapViolation matches the no-double-booking exclusion constraint
// (and any unique constraint) raised by PostgreSQL during commit
func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23P01" || pqErr.Code == "23505"
}
