package service

import (
	"context"
	"time"

	"lifecycle-service/internal/models"

	"github.com/google/uuid"
)

// BookingStore is the persistence surface the booking lifecycle needs.
// *store.Store satisfies it.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBookingByTrackingCode(ctx context.Context, code string) (*models.Booking, error)
	GetBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error)
	UpdateBookingLifecycle(ctx context.Context, booking *models.Booking, expected models.BookingStatus) error
	UpdateBookingAssignee(ctx context.Context, id uuid.UUID, staffID *uuid.UUID) error
	AppendBookingNote(ctx context.Context, id uuid.UUID, note string) error
	AppendBookingPhotos(ctx context.Context, id uuid.UUID, photos []string) error
}

// TrainingStore is the persistence surface the training lifecycle needs.
type TrainingStore interface {
	CreateTraining(ctx context.Context, training *models.Training) error
	GetTrainingByID(ctx context.Context, id uuid.UUID) (*models.Training, error)
	GetTrainingsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Training, error)
	UpdateTrainingLifecycle(ctx context.Context, training *models.Training, expected models.TrainingStatus) error
	SetCertificate(ctx context.Context, training *models.Training) error
	UpdateTrainingInstructor(ctx context.Context, id uuid.UUID, instructorID *uuid.UUID) error
	RecordTrainingPayment(ctx context.Context, id uuid.UUID, amount int64) error
}

// OrderStore is the read/intake surface for retail orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByTrackingCode(ctx context.Context, code string) (*models.Order, error)
}

// TrackingCache caches tracking lookups and claims freshly generated codes.
// *redisclient.Client satisfies it.
type TrackingCache interface {
	ClaimTrackingCode(ctx context.Context, code string, ttl time.Duration) (bool, error)
	GetCachedTracking(ctx context.Context, code string) ([]byte, error)
	SetCachedTracking(ctx context.Context, code string, body []byte, ttl time.Duration) error
	InvalidateTracking(ctx context.Context, code string) error
}

// Notifier receives lifecycle events for the external notification
// dispatcher. Implementations must not block; *broker.Dispatcher satisfies it.
type Notifier interface {
	BookingStatusChanged(event *models.BookingStatusChangedEvent)
	TrainingStatusChanged(event *models.TrainingStatusChangedEvent)
	CertificateIssued(event *models.CertificateIssuedEvent)
}
