package service

import (
	"context"
	"testing"
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"

	"github.com/google/uuid"
)

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

// In-memory fakes satisfying the store/cache/notifier ports. Reads hand out
// copies so uncommitted mutations in the service never leak into the "rows".

type fakeBookingStore struct {
	bookings  map[uuid.UUID]*models.Booking
	updateErr error
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (f *fakeBookingStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	clone := *booking
	f.bookings[booking.ID] = &clone
	return nil
}

func (f *fakeBookingStore) GetBookingByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingStore) GetBookingByTrackingCode(_ context.Context, code string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.TrackingCode == code {
			clone := *b
			return &clone, nil
		}
	}
	return nil, lifecycle.ErrNotFound
}

func (f *fakeBookingStore) GetBookingsByCustomer(_ context.Context, customerID uuid.UUID) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerID != nil && *b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateBookingLifecycle(_ context.Context, booking *models.Booking, expected models.BookingStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.bookings[booking.ID]
	if !ok {
		return lifecycle.ErrNotFound
	}
	if stored.Status != expected {
		return lifecycle.ErrConflict
	}
	booking.UpdatedAt = time.Now()
	clone := *booking
	f.bookings[booking.ID] = &clone
	return nil
}

func (f *fakeBookingStore) UpdateBookingAssignee(_ context.Context, id uuid.UUID, staffID *uuid.UUID) error {
	b, ok := f.bookings[id]
	if !ok {
		return lifecycle.ErrNotFound
	}
	b.AssignedTo = staffID
	return nil
}

func (f *fakeBookingStore) AppendBookingNote(_ context.Context, id uuid.UUID, note string) error {
	b, ok := f.bookings[id]
	if !ok {
		return lifecycle.ErrNotFound
	}
	if b.Notes == "" {
		b.Notes = note
	} else {
		b.Notes = b.Notes + "\n" + note
	}
	return nil
}

func (f *fakeBookingStore) AppendBookingPhotos(_ context.Context, id uuid.UUID, photos []string) error {
	b, ok := f.bookings[id]
	if !ok {
		return lifecycle.ErrNotFound
	}
	b.Photos = append(b.Photos, photos...)
	return nil
}

type fakeTrainingStore struct {
	trainings map[uuid.UUID]*models.Training
	updateErr error
}

func newFakeTrainingStore() *fakeTrainingStore {
	return &fakeTrainingStore{trainings: make(map[uuid.UUID]*models.Training)}
}

func (f *fakeTrainingStore) CreateTraining(_ context.Context, training *models.Training) error {
	now := time.Now()
	training.CreatedAt = now
	training.UpdatedAt = now
	clone := *training
	f.trainings[training.ID] = &clone
	return nil
}

func (f *fakeTrainingStore) GetTrainingByID(_ context.Context, id uuid.UUID) (*models.Training, error) {
	t, ok := f.trainings[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTrainingStore) GetTrainingsByStudent(_ context.Context, studentID uuid.UUID) ([]models.Training, error) {
	var out []models.Training
	for _, t := range f.trainings {
		if t.StudentID == studentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTrainingStore) UpdateTrainingLifecycle(_ context.Context, training *models.Training, expected models.TrainingStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.trainings[training.ID]
	if !ok {
		return lifecycle.ErrNotFound
	}
	if stored.Status != expected {
		return lifecycle.ErrConflict
	}
	training.UpdatedAt = time.Now()
	clone := *training
	f.trainings[training.ID] = &clone
	return nil
}

func (f *fakeTrainingStore) SetCertificate(_ context.Context, training *models.Training) error {
	if _, ok := f.trainings[training.ID]; !ok {
		return lifecycle.ErrNotFound
	}
	training.UpdatedAt = time.Now()
	clone := *training
	f.trainings[training.ID] = &clone
	return nil
}

func (f *fakeTrainingStore) UpdateTrainingInstructor(_ context.Context, id uuid.UUID, instructorID *uuid.UUID) error {
	t, ok := f.trainings[id]
	if !ok {
		return lifecycle.ErrNotFound
	}
	t.AssignedInstructor = instructorID
	return nil
}

func (f *fakeTrainingStore) RecordTrainingPayment(_ context.Context, id uuid.UUID, amount int64) error {
	t, ok := f.trainings[id]
	if !ok {
		return lifecycle.ErrNotFound
	}
	t.AmountPaid += amount
	return nil
}

type fakeOrderStore struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uuid.UUID]*models.Order)}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderStore) GetOrderByTrackingCode(_ context.Context, code string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.TrackingCode == code {
			clone := *o
			return &clone, nil
		}
	}
	return nil, lifecycle.ErrNotFound
}

type fakeCache struct {
	claims      map[string]bool
	cached      map[string][]byte
	claimErr    error
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		claims: make(map[string]bool),
		cached: make(map[string][]byte),
	}
}

func (f *fakeCache) ClaimTrackingCode(_ context.Context, code string, _ time.Duration) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	if f.claims[code] {
		return false, nil
	}
	f.claims[code] = true
	return true, nil
}

func (f *fakeCache) GetCachedTracking(_ context.Context, code string) ([]byte, error) {
	return f.cached[code], nil
}

func (f *fakeCache) SetCachedTracking(_ context.Context, code string, body []byte, _ time.Duration) error {
	f.cached[code] = body
	return nil
}

func (f *fakeCache) InvalidateTracking(_ context.Context, code string) error {
	delete(f.cached, code)
	f.invalidated = append(f.invalidated, code)
	return nil
}

type fakeNotifier struct {
	bookingEvents     []*models.BookingStatusChangedEvent
	trainingEvents    []*models.TrainingStatusChangedEvent
	certificateEvents []*models.CertificateIssuedEvent
}

func (f *fakeNotifier) BookingStatusChanged(event *models.BookingStatusChangedEvent) {
	f.bookingEvents = append(f.bookingEvents, event)
}

func (f *fakeNotifier) TrainingStatusChanged(event *models.TrainingStatusChangedEvent) {
	f.trainingEvents = append(f.trainingEvents, event)
}

func (f *fakeNotifier) CertificateIssued(event *models.CertificateIssuedEvent) {
	f.certificateEvents = append(f.certificateEvents, event)
}
