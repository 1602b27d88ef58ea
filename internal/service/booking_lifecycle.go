package service

import (
	"context"
	"fmt"
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"
	"lifecycle-service/internal/util"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// BookingLifecycle orchestrates booking creation, lifecycle transitions and
// the side-channel updates that sit outside the state machine.
type BookingLifecycle struct {
	store    BookingStore
	cache    TrackingCache
	notifier Notifier
	logger   *zap.Logger
}

// NewBookingLifecycle creates a new booking lifecycle service
func NewBookingLifecycle(store BookingStore, cache TrackingCache, notifier Notifier) *BookingLifecycle {
	return &BookingLifecycle{
		store:    store,
		cache:    cache,
		notifier: notifier,
		logger:   util.GetLogger(),
	}
}

// CreateBookingRequest represents a customer booking submission
type CreateBookingRequest struct {
	CustomerID      *uuid.UUID              `json:"customer_id,omitempty"`
	CustomerName    string                  `json:"customer_name" binding:"required"`
	CustomerEmail   string                  `json:"customer_email" binding:"required,email"`
	CustomerPhone   string                  `json:"customer_phone" binding:"required"`
	Services        []BookingServiceRequest `json:"services" binding:"required,min=1,dive"`
	ScheduledDate   time.Time               `json:"scheduled_date" binding:"required"`
	DeliveryType    models.DeliveryType     `json:"delivery_type" binding:"required,oneof=pickup delivery"`
	DeliveryAddress string                  `json:"delivery_address,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Photos          []string                `json:"photos,omitempty"`
}

// BookingServiceRequest is one requested service line; price is the snapshot
// the caller saw in the catalog at submission time.
type BookingServiceRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Price     int64  `json:"price" binding:"required,min=0"`
}

// CreateBooking creates a booking in PENDING with a fresh tracking code. The
// total is always the sum of the line snapshots, never caller-supplied.
func (s *BookingLifecycle) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingLifecycle.CreateBooking")
	defer span.End()

	if req.DeliveryType == models.DeliveryDelivery && req.DeliveryAddress == "" {
		return nil, &lifecycle.InvalidMetadataError{
			Kind:   models.KindBooking,
			Field:  "delivery_address",
			Reason: "required when delivery_type is delivery",
		}
	}

	trackingCode, err := generateTrackingCode(ctx, s.cache, models.KindBooking)
	if err != nil {
		return nil, err
	}

	var total int64
	services := make([]models.BookingService, len(req.Services))
	for i, svc := range req.Services {
		services[i] = models.BookingService{
			ServiceID: svc.ServiceID,
			Name:      svc.Name,
			Price:     svc.Price,
		}
		total += svc.Price
	}

	photos := pq.StringArray(req.Photos)
	if photos == nil {
		photos = pq.StringArray{}
	}

	booking := &models.Booking{
		ID:              uuid.New(),
		BookingID:       newBookingReference(),
		TrackingCode:    trackingCode,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		TotalAmount:     total,
		ScheduledDate:   req.ScheduledDate,
		DeliveryType:    req.DeliveryType,
		DeliveryAddress: req.DeliveryAddress,
		Status:          models.BookingPending,
		Notes:           req.Notes,
		Photos:          photos,
		Services:        services,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	util.BookingsCreatedTotal.Inc()
	s.logger.Info("Booking created",
		zap.String("booking_id", booking.BookingID),
		zap.String("tracking_code", booking.TrackingCode))

	return booking, nil
}

// Transition moves a booking to the target status, stamping side-effect
// fields and persisting under a compare-and-swap on the prior status.
func (s *BookingLifecycle) Transition(ctx context.Context, id uuid.UUID, target models.BookingStatus, meta TransitionMeta) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingLifecycle.Transition")
	defer span.End()

	start := time.Now()
	defer func() {
		util.TransitionLatency.WithLabelValues(string(models.KindBooking)).Observe(time.Since(start).Seconds())
	}()

	booking, err := s.store.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := applyBookingTransition(booking, target, meta, time.Now()); err != nil {
		util.TransitionsRejectedTotal.WithLabelValues(string(models.KindBooking), "invalid_transition").Inc()
		return nil, err
	}

	if err := s.store.UpdateBookingLifecycle(ctx, booking, from); err != nil {
		if err == lifecycle.ErrConflict {
			util.TransitionConflictsTotal.WithLabelValues(string(models.KindBooking)).Inc()
		}
		return nil, err
	}

	util.TransitionsTotal.WithLabelValues(string(models.KindBooking), target.String()).Inc()
	s.logger.Info("Booking transitioned",
		zap.String("booking_id", booking.BookingID),
		zap.String("from", from.String()),
		zap.String("to", target.String()))

	s.invalidateTracking(ctx, booking.TrackingCode)

	s.notifier.BookingStatusChanged(&models.BookingStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingStatusChanged,
			Timestamp: time.Now(),
		},
		BookingID:     booking.BookingID,
		TrackingCode:  booking.TrackingCode,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerPhone,
		From:          from,
		To:            target,
		Reason:        booking.CancellationReason,
	})

	return booking, nil
}

// Assign sets the staff member handling the booking. Assignment has no
// ordering constraints and bypasses the state machine.
func (s *BookingLifecycle) Assign(ctx context.Context, id uuid.UUID, staffID *uuid.UUID) (*models.Booking, error) {
	if err := s.store.UpdateBookingAssignee(ctx, id, staffID); err != nil {
		return nil, err
	}
	return s.store.GetBookingByID(ctx, id)
}

// AppendNote appends to the booking notes.
func (s *BookingLifecycle) AppendNote(ctx context.Context, id uuid.UUID, note string) (*models.Booking, error) {
	if err := s.store.AppendBookingNote(ctx, id, note); err != nil {
		return nil, err
	}
	return s.store.GetBookingByID(ctx, id)
}

// AppendPhotos appends photo URIs to the booking.
func (s *BookingLifecycle) AppendPhotos(ctx context.Context, id uuid.UUID, photos []string) (*models.Booking, error) {
	if err := s.store.AppendBookingPhotos(ctx, id, photos); err != nil {
		return nil, err
	}
	return s.store.GetBookingByID(ctx, id)
}

// Get retrieves a booking by ID.
func (s *BookingLifecycle) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.store.GetBookingByID(ctx, id)
}

// ListByCustomer retrieves a customer's bookings.
func (s *BookingLifecycle) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error) {
	return s.store.GetBookingsByCustomer(ctx, customerID)
}

func (s *BookingLifecycle) invalidateTracking(ctx context.Context, code string) {
	if err := s.cache.InvalidateTracking(ctx, code); err != nil {
		s.logger.Warn("Failed to invalidate tracking cache",
			zap.String("tracking_code", code), zap.Error(err))
	}
}
