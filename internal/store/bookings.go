package store

import (
	"context"
	"database/sql"
	"fmt"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreateBooking inserts a booking and its service lines in one transaction.
func (s *Store) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bookings (
			id, booking_id, tracking_code, customer_id, customer_name,
			customer_email, customer_phone, total_amount, scheduled_date,
			delivery_type, delivery_address, status, notes, photos
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	row := tx.QueryRowxContext(ctx, query,
		booking.ID, booking.BookingID, booking.TrackingCode, booking.CustomerID,
		booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone,
		booking.TotalAmount, booking.ScheduledDate, booking.DeliveryType,
		booking.DeliveryAddress, booking.Status, booking.Notes, booking.Photos)
	if err := row.Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	for i := range booking.Services {
		svc := &booking.Services[i]
		svc.BookingID = booking.ID
		err := tx.GetContext(ctx, &svc.ID, `
			INSERT INTO booking_services (booking_id, service_id, name, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			svc.BookingID, svc.ServiceID, svc.Name, svc.Price)
		if err != nil {
			return fmt.Errorf("failed to insert booking service: %w", err)
		}
	}

	return tx.Commit()
}

// GetBookingByID retrieves a booking with its service lines.
func (s *Store) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.GetContext(ctx, &booking, "SELECT * FROM bookings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadBookingServices(ctx, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingByTrackingCode retrieves a booking by its tracking code.
func (s *Store) GetBookingByTrackingCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.GetContext(ctx, &booking, "SELECT * FROM bookings WHERE tracking_code = $1", code)
	if err == sql.ErrNoRows {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadBookingServices(ctx, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingsByCustomer retrieves bookings for a customer, newest first.
func (s *Store) GetBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.SelectContext(ctx, &bookings,
		"SELECT * FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC", customerID)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if err := s.loadBookingServices(ctx, &bookings[i]); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

func (s *Store) loadBookingServices(ctx context.Context, booking *models.Booking) error {
	return s.db.SelectContext(ctx, &booking.Services,
		"SELECT * FROM booking_services WHERE booking_id = $1 ORDER BY id", booking.ID)
}

// UpdateBookingLifecycle persists a transition with a compare-and-swap on the
// prior status. A concurrent transition that committed first leaves zero rows
// matched, surfaced as ErrConflict.
func (s *Store) UpdateBookingLifecycle(ctx context.Context, booking *models.Booking, expected models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, completed_at = $2, cancelled_at = $3,
		    cancellation_reason = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &booking.UpdatedAt, query,
		booking.Status, booking.CompletedAt, booking.CancelledAt,
		booking.CancellationReason, booking.ID, expected)
	if err == sql.ErrNoRows {
		return s.bookingWriteMiss(ctx, booking.ID)
	}
	return err
}

// UpdateBookingAssignee sets the staff member working the booking. Assignment
// is a side channel with no ordering constraints, so no status check is made.
func (s *Store) UpdateBookingAssignee(ctx context.Context, id uuid.UUID, staffID *uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bookings SET assigned_to = $1, updated_at = NOW() WHERE id = $2",
		staffID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// AppendBookingNote appends to the booking notes, preserving prior content.
func (s *Store) AppendBookingNote(ctx context.Context, id uuid.UUID, note string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET notes = CASE WHEN notes = '' THEN $1 ELSE notes || E'\n' || $1 END,
		    updated_at = NOW()
		WHERE id = $2`,
		note, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// AppendBookingPhotos appends photo URIs to the booking. Photos are immutable
// once attached except by appending.
func (s *Store) AppendBookingPhotos(ctx context.Context, id uuid.UUID, photos []string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bookings SET photos = photos || $1, updated_at = NOW() WHERE id = $2",
		pq.StringArray(photos), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// bookingWriteMiss distinguishes a CAS loss from a missing row.
func (s *Store) bookingWriteMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)", id)
	if err != nil {
		return err
	}
	if exists {
		return lifecycle.ErrConflict
	}
	return lifecycle.ErrNotFound
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}
