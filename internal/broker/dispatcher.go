package broker

import (
	"context"
	"time"

	"lifecycle-service/internal/models"
	"lifecycle-service/internal/util"

	"go.uber.org/zap"
)

// Dispatcher decouples lifecycle event emission from the request path. Events
// are queued on a bounded channel and published by a single goroutine; a full
// queue drops the event rather than block or retry inside a request.
type Dispatcher struct {
	publisher *EventPublisher
	queue     chan queuedEvent
	done      chan struct{}
	logger    *zap.Logger
}

type queuedEvent struct {
	publish func(context.Context) error
	kind    string
}

// NewDispatcher creates a dispatcher with the given queue capacity and starts
// its publish loop.
func NewDispatcher(publisher *EventPublisher, capacity int) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		queue:     make(chan queuedEvent, capacity),
		done:      make(chan struct{}),
		logger:    util.GetLogger(),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := ev.publish(ctx); err != nil {
			d.logger.Error("Failed to publish lifecycle event",
				zap.String("event", ev.kind),
				zap.Error(err))
		}
		cancel()
	}
}

// Close drains the queue and stops the publish loop.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) enqueue(ev queuedEvent) {
	select {
	case d.queue <- ev:
	default:
		util.NotificationsDroppedTotal.Inc()
		d.logger.Warn("Notification queue full, dropping event", zap.String("event", ev.kind))
	}
}

// BookingStatusChanged queues a booking transition event.
func (d *Dispatcher) BookingStatusChanged(event *models.BookingStatusChangedEvent) {
	d.enqueue(queuedEvent{
		kind: event.EventType,
		publish: func(ctx context.Context) error {
			return d.publisher.PublishBookingStatusChanged(ctx, event)
		},
	})
}

// TrainingStatusChanged queues a training transition event.
func (d *Dispatcher) TrainingStatusChanged(event *models.TrainingStatusChangedEvent) {
	d.enqueue(queuedEvent{
		kind: event.EventType,
		publish: func(ctx context.Context) error {
			return d.publisher.PublishTrainingStatusChanged(ctx, event)
		},
	})
}

// CertificateIssued queues a certificate issuance event.
func (d *Dispatcher) CertificateIssued(event *models.CertificateIssuedEvent) {
	d.enqueue(queuedEvent{
		kind: event.EventType,
		publish: func(ctx context.Context) error {
			return d.publisher.PublishCertificateIssued(ctx, event)
		},
	})
}
