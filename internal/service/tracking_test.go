package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectBookingTimelineOmitsUnstampedEvents(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// In-progress bookings have no stored timestamp for intermediate
	// statuses; the timeline must not invent one.
	booking := &models.Booking{
		Status:    models.BookingInProgress,
		CreatedAt: created,
	}

	timeline := ProjectBookingTimeline(booking)
	require.Len(t, timeline, 1)
	assert.Equal(t, "Booking Submitted", timeline[0].Label)
	assert.Equal(t, created, timeline[0].Timestamp)
}

func TestProjectBookingTimelineCompleted(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := created.Add(48 * time.Hour)

	booking := &models.Booking{
		Status:      models.BookingCompleted,
		CreatedAt:   created,
		CompletedAt: &completed,
	}

	timeline := ProjectBookingTimeline(booking)
	require.Len(t, timeline, 2)
	assert.Equal(t, "Booking Submitted", timeline[0].Label)
	assert.Equal(t, "Completed", timeline[1].Label)
	assert.True(t, timeline[0].Timestamp.Before(timeline[1].Timestamp))
}

func TestProjectBookingTimelineCancelledCarriesReason(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cancelled := created.Add(time.Hour)

	booking := &models.Booking{
		Status:             models.BookingCancelled,
		CreatedAt:          created,
		CancelledAt:        &cancelled,
		CancellationReason: "customer travelled",
	}

	timeline := ProjectBookingTimeline(booking)
	require.Len(t, timeline, 2)
	assert.Equal(t, "Cancelled", timeline[1].Label)
	assert.Equal(t, "customer travelled", timeline[1].Detail)
}

func TestProjectOrderTimeline(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	delivered := created.Add(5 * 24 * time.Hour)

	order := &models.Order{
		Status:      models.OrderDelivered,
		CreatedAt:   created,
		DeliveredAt: &delivered,
	}

	timeline := ProjectOrderTimeline(order)
	require.Len(t, timeline, 2)
	assert.Equal(t, "Order Placed", timeline[0].Label)
	assert.Equal(t, "Delivered", timeline[1].Label)

	// A shipped order with no stored delivery timestamp gets no extra entry.
	shipped := &models.Order{Status: models.OrderShipped, CreatedAt: created}
	assert.Len(t, ProjectOrderTimeline(shipped), 1)
}

func TestProjectTrainingTimeline(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := created.Add(30 * 24 * time.Hour)

	training := &models.Training{
		Status:      models.TrainingCompleted,
		CreatedAt:   created,
		CompletedAt: &completed,
	}

	timeline := ProjectTrainingTimeline(training)
	require.Len(t, timeline, 2)
	assert.Equal(t, "Enrolled", timeline[0].Label)
	assert.Equal(t, "Completed", timeline[1].Label)
}

func newResolverFixture() (*TrackingResolver, *fakeOrderStore, *fakeBookingStore, *fakeCache) {
	orders := newFakeOrderStore()
	bookings := newFakeBookingStore()
	cache := newFakeCache()
	resolver := NewTrackingResolver(orders, bookings, cache, time.Minute)
	return resolver, orders, bookings, cache
}

func seedOrder(orders *fakeOrderStore, code string) *models.Order {
	order := &models.Order{
		ID:           uuid.New(),
		TrackingCode: code,
		CustomerID:   uuid.New(),
		CustomerName: "Ada Obi",
		TotalAmount:  45000,
		Status:       models.OrderProcessing,
	}
	_ = orders.CreateOrder(context.Background(), order)
	return order
}

func seedBooking(bookings *fakeBookingStore, code string) *models.Booking {
	booking := &models.Booking{
		ID:           uuid.New(),
		BookingID:    "BKG-TEST0001",
		TrackingCode: code,
		CustomerName: "Ada Obi",
		Status:       models.BookingPending,
	}
	_ = bookings.CreateBooking(context.Background(), booking)
	return booking
}

func TestResolvePrefixedOrderCode(t *testing.T) {
	resolver, orders, _, _ := newResolverFixture()
	seedOrder(orders, "ORD-ABCDEF1234")

	result, err := resolver.Resolve(context.Background(), "ORD-ABCDEF1234")
	require.NoError(t, err)
	assert.Equal(t, models.KindOrder, result.Kind)
	require.NotNil(t, result.Order)
	assert.Nil(t, result.Booking)
	assert.NotEmpty(t, result.Timeline)
}

func TestResolvePrefixedBookingCode(t *testing.T) {
	resolver, _, bookings, _ := newResolverFixture()
	seedBooking(bookings, "BK-ABCDEF1234")

	result, err := resolver.Resolve(context.Background(), "BK-ABCDEF1234")
	require.NoError(t, err)
	assert.Equal(t, models.KindBooking, result.Kind)
	require.NotNil(t, result.Booking)
	assert.Nil(t, result.Order)
}

func TestResolveLegacyCodeProbesOrdersThenBookings(t *testing.T) {
	resolver, _, bookings, _ := newResolverFixture()
	seedBooking(bookings, "JW123ABC")

	// No order carries the code, so the booking probe must win.
	result, err := resolver.Resolve(context.Background(), "JW123ABC")
	require.NoError(t, err)
	assert.Equal(t, models.KindBooking, result.Kind)
}

func TestResolveLegacyCodeOrderWins(t *testing.T) {
	resolver, orders, bookings, _ := newResolverFixture()
	// The legacy namespace is shared; when both kinds carry the code the
	// order probe runs first.
	seedOrder(orders, "JW123ABC")
	seedBooking(bookings, "JW123ABC")

	result, err := resolver.Resolve(context.Background(), "JW123ABC")
	require.NoError(t, err)
	assert.Equal(t, models.KindOrder, result.Kind)
}

func TestResolveNotFound(t *testing.T) {
	resolver, _, _, _ := newResolverFixture()

	_, err := resolver.Resolve(context.Background(), "JWNOPE")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestResolveUsesCache(t *testing.T) {
	resolver, orders, _, cache := newResolverFixture()
	seedOrder(orders, "ORD-CACHED1234")
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "ORD-CACHED1234")
	require.NoError(t, err)
	assert.NotEmpty(t, cache.cached["ORD-CACHED1234"])

	// Drop the backing row; the cached projection must still answer.
	orders.orders = map[uuid.UUID]*models.Order{}
	second, err := resolver.Resolve(ctx, "ORD-CACHED1234")
	require.NoError(t, err)
	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.TrackingCode, second.TrackingCode)
}

func TestGenerateTrackingCode(t *testing.T) {
	cache := newFakeCache()
	ctx := context.Background()

	code, err := generateTrackingCode(ctx, cache, models.KindBooking)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "BK-"))
	assert.Len(t, code, len("BK-")+trackingSuffixLen)

	other, err := generateTrackingCode(ctx, cache, models.KindOrder)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(other, "ORD-"))
	assert.NotEqual(t, code, other)
}

func TestGenerateTrackingCodeSurvivesCacheOutage(t *testing.T) {
	cache := newFakeCache()
	cache.claimErr = assert.AnError

	code, err := generateTrackingCode(context.Background(), cache, models.KindBooking)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "BK-"))
}
