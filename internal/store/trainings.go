package store

import (
	"context"
	"database/sql"
	"fmt"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"

	"github.com/google/uuid"
)

// CreateTraining inserts a training enrollment.
func (s *Store) CreateTraining(ctx context.Context, training *models.Training) error {
	query := `
		INSERT INTO trainings (
			id, student_id, student_name, student_email, student_phone,
			course_name, course_slug, mode, amount_paid, total_amount,
			start_date, end_date, status, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	row := s.db.QueryRowxContext(ctx, query,
		training.ID, training.StudentID, training.StudentName, training.StudentEmail,
		training.StudentPhone, training.CourseName, training.CourseSlug, training.Mode,
		training.AmountPaid, training.TotalAmount, training.StartDate, training.EndDate,
		training.Status, training.Notes)
	if err := row.Scan(&training.CreatedAt, &training.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert training: %w", err)
	}
	return nil
}

// GetTrainingByID retrieves a training enrollment by ID.
func (s *Store) GetTrainingByID(ctx context.Context, id uuid.UUID) (*models.Training, error) {
	var training models.Training
	err := s.db.GetContext(ctx, &training, "SELECT * FROM trainings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &training, nil
}

// GetTrainingsByStudent retrieves enrollments for a student, newest first.
func (s *Store) GetTrainingsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Training, error) {
	var trainings []models.Training
	err := s.db.SelectContext(ctx, &trainings,
		"SELECT * FROM trainings WHERE student_id = $1 ORDER BY created_at DESC", studentID)
	return trainings, err
}

// UpdateTrainingLifecycle persists a transition with a compare-and-swap on
// the prior status, mirroring UpdateBookingLifecycle.
func (s *Store) UpdateTrainingLifecycle(ctx context.Context, training *models.Training, expected models.TrainingStatus) error {
	query := `
		UPDATE trainings
		SET status = $1, completed_at = $2, cancelled_at = $3,
		    cancellation_reason = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &training.UpdatedAt, query,
		training.Status, training.CompletedAt, training.CancelledAt,
		training.CancellationReason, training.ID, expected)
	if err == sql.ErrNoRows {
		return s.trainingWriteMiss(ctx, training.ID)
	}
	return err
}

// SetCertificate records certificate issuance and the appended notes.
func (s *Store) SetCertificate(ctx context.Context, training *models.Training) error {
	query := `
		UPDATE trainings
		SET certificate_issued = $1, certificate_url = $2, notes = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &training.UpdatedAt, query,
		training.CertificateIssued, training.CertificateURL, training.Notes, training.ID)
	if err == sql.ErrNoRows {
		return lifecycle.ErrNotFound
	}
	return err
}

// UpdateTrainingInstructor sets the assigned instructor side channel.
func (s *Store) UpdateTrainingInstructor(ctx context.Context, id uuid.UUID, instructorID *uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE trainings SET assigned_instructor = $1, updated_at = NOW() WHERE id = $2",
		instructorID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// RecordTrainingPayment adds an externally confirmed payment to amount_paid.
// The engine does not enforce amount_paid <= total_amount.
func (s *Store) RecordTrainingPayment(ctx context.Context, id uuid.UUID, amount int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE trainings SET amount_paid = amount_paid + $1, updated_at = NOW() WHERE id = $2",
		amount, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) trainingWriteMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM trainings WHERE id = $1)", id)
	if err != nil {
		return err
	}
	if exists {
		return lifecycle.ErrConflict
	}
	return lifecycle.ErrNotFound
}
