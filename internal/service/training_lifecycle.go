package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"
	"lifecycle-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrainingLifecycle orchestrates training enrollments, their lifecycle
// transitions and certificate issuance.
type TrainingLifecycle struct {
	store          TrainingStore
	notifier       Notifier
	certificateURL string
	logger         *zap.Logger
}

// NewTrainingLifecycle creates a new training lifecycle service.
// certificateBaseURL is the public root under which certificates are served.
func NewTrainingLifecycle(store TrainingStore, notifier Notifier, certificateBaseURL string) *TrainingLifecycle {
	return &TrainingLifecycle{
		store:          store,
		notifier:       notifier,
		certificateURL: strings.TrimRight(certificateBaseURL, "/"),
		logger:         util.GetLogger(),
	}
}

// EnrollRequest represents a confirmed enrollment handed over by the payment
// pipeline.
type EnrollRequest struct {
	StudentID    uuid.UUID           `json:"student_id" binding:"required"`
	StudentName  string              `json:"student_name" binding:"required"`
	StudentEmail string              `json:"student_email" binding:"required,email"`
	StudentPhone string              `json:"student_phone" binding:"required"`
	CourseName   string              `json:"course_name" binding:"required"`
	CourseSlug   string              `json:"course_slug" binding:"required"`
	Mode         models.TrainingMode `json:"mode" binding:"required,oneof=online physical hybrid"`
	TotalAmount  int64               `json:"total_amount" binding:"required,min=0"`
	AmountPaid   int64               `json:"amount_paid" binding:"min=0"`
	StartDate    time.Time           `json:"start_date" binding:"required"`
	EndDate      *time.Time          `json:"end_date,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

// Enroll creates a training enrollment in the enrolled status.
func (s *TrainingLifecycle) Enroll(ctx context.Context, req *EnrollRequest) (*models.Training, error) {
	ctx, span := util.StartSpan(ctx, "TrainingLifecycle.Enroll")
	defer span.End()

	training := &models.Training{
		ID:           uuid.New(),
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		StudentPhone: req.StudentPhone,
		CourseName:   req.CourseName,
		CourseSlug:   req.CourseSlug,
		Mode:         req.Mode,
		AmountPaid:   req.AmountPaid,
		TotalAmount:  req.TotalAmount,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       models.TrainingEnrolled,
		Notes:        req.Notes,
	}

	if err := s.store.CreateTraining(ctx, training); err != nil {
		return nil, fmt.Errorf("failed to create training: %w", err)
	}

	s.logger.Info("Training enrollment created",
		zap.String("training_id", training.ID.String()),
		zap.String("course", training.CourseSlug))

	return training, nil
}

// Transition moves an enrollment to the target status with the same CAS
// semantics as bookings.
func (s *TrainingLifecycle) Transition(ctx context.Context, id uuid.UUID, target models.TrainingStatus, meta TransitionMeta) (*models.Training, error) {
	ctx, span := util.StartSpan(ctx, "TrainingLifecycle.Transition")
	defer span.End()

	start := time.Now()
	defer func() {
		util.TransitionLatency.WithLabelValues(string(models.KindTraining)).Observe(time.Since(start).Seconds())
	}()

	training, err := s.store.GetTrainingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := training.Status
	if err := applyTrainingTransition(training, target, meta, time.Now()); err != nil {
		util.TransitionsRejectedTotal.WithLabelValues(string(models.KindTraining), "invalid_transition").Inc()
		return nil, err
	}

	if err := s.store.UpdateTrainingLifecycle(ctx, training, from); err != nil {
		if err == lifecycle.ErrConflict {
			util.TransitionConflictsTotal.WithLabelValues(string(models.KindTraining)).Inc()
		}
		return nil, err
	}

	util.TransitionsTotal.WithLabelValues(string(models.KindTraining), target.String()).Inc()
	s.logger.Info("Training transitioned",
		zap.String("training_id", training.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", target.String()))

	s.notifier.TrainingStatusChanged(&models.TrainingStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeTrainingStatusChanged,
			Timestamp: time.Now(),
		},
		TrainingID:   training.ID.String(),
		StudentName:  training.StudentName,
		StudentEmail: training.StudentEmail,
		StudentPhone: training.StudentPhone,
		CourseName:   training.CourseName,
		From:         from,
		To:           target,
		Reason:       training.CancellationReason,
	})

	return training, nil
}

// IssueCertificate issues (or re-issues) the completion certificate for an
// enrollment. The URL is deterministic per enrollment, so issuing twice
// never creates a second certificate; notes are appended, never overwritten.
func (s *TrainingLifecycle) IssueCertificate(ctx context.Context, id uuid.UUID, notes string) (*models.Training, error) {
	ctx, span := util.StartSpan(ctx, "TrainingLifecycle.IssueCertificate")
	defer span.End()

	training, err := s.store.GetTrainingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if training.Status != models.TrainingCompleted {
		return nil, lifecycle.ErrNotCompleted
	}

	training.CertificateIssued = true
	training.CertificateURL = fmt.Sprintf("%s/%s", s.certificateURL, training.ID)
	if notes != "" {
		if training.Notes == "" {
			training.Notes = notes
		} else {
			training.Notes = training.Notes + "\n" + notes
		}
	}

	if err := s.store.SetCertificate(ctx, training); err != nil {
		return nil, err
	}

	util.CertificatesIssuedTotal.Inc()
	s.logger.Info("Certificate issued",
		zap.String("training_id", training.ID.String()),
		zap.String("url", training.CertificateURL))

	s.notifier.CertificateIssued(&models.CertificateIssuedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCertificateIssued,
			Timestamp: time.Now(),
		},
		TrainingID:     training.ID.String(),
		StudentName:    training.StudentName,
		StudentEmail:   training.StudentEmail,
		CourseName:     training.CourseName,
		CertificateURL: training.CertificateURL,
	})

	return training, nil
}

// AssignInstructor sets the instructor side channel.
func (s *TrainingLifecycle) AssignInstructor(ctx context.Context, id uuid.UUID, instructorID *uuid.UUID) (*models.Training, error) {
	if err := s.store.UpdateTrainingInstructor(ctx, id, instructorID); err != nil {
		return nil, err
	}
	return s.store.GetTrainingByID(ctx, id)
}

// RecordPayment applies an externally confirmed payment to the enrollment.
func (s *TrainingLifecycle) RecordPayment(ctx context.Context, id uuid.UUID, amount int64) (*models.Training, error) {
	if err := s.store.RecordTrainingPayment(ctx, id, amount); err != nil {
		return nil, err
	}
	return s.store.GetTrainingByID(ctx, id)
}

// Get retrieves a training enrollment by ID.
func (s *TrainingLifecycle) Get(ctx context.Context, id uuid.UUID) (*models.Training, error) {
	return s.store.GetTrainingByID(ctx, id)
}

// ListByStudent retrieves a student's enrollments.
func (s *TrainingLifecycle) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Training, error) {
	return s.store.GetTrainingsByStudent(ctx, studentID)
}
