package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"
	"lifecycle-service/internal/util"

	"go.uber.org/zap"
)

// Timeline labels shown to customers.
const (
	labelOrderPlaced      = "Order Placed"
	labelBookingSubmitted = "Booking Submitted"
	labelEnrolled         = "Enrolled"
	labelCompleted        = "Completed"
	labelCancelled        = "Cancelled"
	labelDelivered        = "Delivered"
)

// ProjectOrderTimeline derives the tracking timeline for an order from its
// stored timestamps. Statuses without a stored timestamp produce no entry;
// nothing is synthesized from the current clock.
func ProjectOrderTimeline(order *models.Order) []models.TimelineEntry {
	entries := []models.TimelineEntry{
		{Label: labelOrderPlaced, Timestamp: order.CreatedAt},
	}
	if order.DeliveredAt != nil {
		entries = append(entries, models.TimelineEntry{Label: labelDelivered, Timestamp: *order.DeliveredAt})
	}
	if order.CancelledAt != nil {
		entries = append(entries, models.TimelineEntry{Label: labelCancelled, Timestamp: *order.CancelledAt})
	}
	return sortTimeline(entries)
}

// ProjectBookingTimeline derives the tracking timeline for a booking.
func ProjectBookingTimeline(booking *models.Booking) []models.TimelineEntry {
	entries := []models.TimelineEntry{
		{Label: labelBookingSubmitted, Timestamp: booking.CreatedAt},
	}
	if booking.CompletedAt != nil {
		entries = append(entries, models.TimelineEntry{Label: labelCompleted, Timestamp: *booking.CompletedAt})
	}
	if booking.CancelledAt != nil {
		entries = append(entries, models.TimelineEntry{
			Label:     labelCancelled,
			Timestamp: *booking.CancelledAt,
			Detail:    booking.CancellationReason,
		})
	}
	return sortTimeline(entries)
}

// ProjectTrainingTimeline derives the progress timeline for an enrollment.
func ProjectTrainingTimeline(training *models.Training) []models.TimelineEntry {
	entries := []models.TimelineEntry{
		{Label: labelEnrolled, Timestamp: training.CreatedAt},
	}
	if training.CompletedAt != nil {
		entries = append(entries, models.TimelineEntry{Label: labelCompleted, Timestamp: *training.CompletedAt})
	}
	if training.CancelledAt != nil {
		entries = append(entries, models.TimelineEntry{
			Label:     labelCancelled,
			Timestamp: *training.CancelledAt,
			Detail:    training.CancellationReason,
		})
	}
	return sortTimeline(entries)
}

func sortTimeline(entries []models.TimelineEntry) []models.TimelineEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries
}

// TrackingResult is the polymorphic answer to a tracking lookup. Exactly one
// of Order and Booking is set, indicated by Kind.
type TrackingResult struct {
	Kind         models.EntityKind      `json:"kind"`
	TrackingCode string                 `json:"tracking_code"`
	Status       string                 `json:"status"`
	Order        *models.Order          `json:"order,omitempty"`
	Booking      *models.Booking        `json:"booking,omitempty"`
	Timeline     []models.TimelineEntry `json:"timeline"`
}

// TrackingResolver answers read-only lookups by tracking code. Codes issued
// by this service carry a kind prefix and resolve in one probe; legacy codes
// without one fall back to probing orders first, then bookings.
type TrackingResolver struct {
	orders   OrderStore
	bookings BookingStore
	cache    TrackingCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTrackingResolver creates a new tracking resolver
func NewTrackingResolver(orders OrderStore, bookings BookingStore, cache TrackingCache, cacheTTL time.Duration) *TrackingResolver {
	return &TrackingResolver{
		orders:   orders,
		bookings: bookings,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// Resolve looks up a tracking code and returns the owning entity with its
// projected timeline, or lifecycle.ErrNotFound.
func (r *TrackingResolver) Resolve(ctx context.Context, code string) (*TrackingResult, error) {
	ctx, span := util.StartSpan(ctx, "TrackingResolver.Resolve")
	defer span.End()

	if cached, err := r.cache.GetCachedTracking(ctx, code); err != nil {
		r.logger.Warn("Tracking cache read failed", zap.Error(err))
	} else if cached != nil {
		var result TrackingResult
		if err := json.Unmarshal(cached, &result); err == nil {
			util.TrackingLookupsTotal.WithLabelValues("cache_hit").Inc()
			return &result, nil
		}
	}

	result, err := r.lookup(ctx, code)
	if err != nil {
		if err == lifecycle.ErrNotFound {
			util.TrackingLookupsTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	util.TrackingLookupsTotal.WithLabelValues(string(result.Kind)).Inc()

	if body, err := json.Marshal(result); err == nil {
		if err := r.cache.SetCachedTracking(ctx, code, body, r.cacheTTL); err != nil {
			r.logger.Warn("Tracking cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

func (r *TrackingResolver) lookup(ctx context.Context, code string) (*TrackingResult, error) {
	switch {
	case strings.HasPrefix(code, trackingPrefixOrder):
		return r.lookupOrder(ctx, code)
	case strings.HasPrefix(code, trackingPrefixBooking):
		return r.lookupBooking(ctx, code)
	}

	// Legacy codes share one namespace across both kinds, so both stores
	// must be probed, orders first.
	result, err := r.lookupOrder(ctx, code)
	if err == nil {
		return result, nil
	}
	if err != lifecycle.ErrNotFound {
		return nil, err
	}
	return r.lookupBooking(ctx, code)
}

func (r *TrackingResolver) lookupOrder(ctx context.Context, code string) (*TrackingResult, error) {
	order, err := r.orders.GetOrderByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &TrackingResult{
		Kind:         models.KindOrder,
		TrackingCode: order.TrackingCode,
		Status:       string(order.Status),
		Order:        order,
		Timeline:     ProjectOrderTimeline(order),
	}, nil
}

func (r *TrackingResolver) lookupBooking(ctx context.Context, code string) (*TrackingResult, error) {
	booking, err := r.bookings.GetBookingByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &TrackingResult{
		Kind:         models.KindBooking,
		TrackingCode: booking.TrackingCode,
		Status:       string(booking.Status),
		Booking:      booking,
		Timeline:     ProjectBookingTimeline(booking),
	}, nil
}
