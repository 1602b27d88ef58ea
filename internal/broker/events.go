package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"lifecycle-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing lifecycle events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishBookingStatusChanged publishes a BookingStatusChanged event
func (ep *EventPublisher) PublishBookingStatusChanged(ctx context.Context, event *models.BookingStatusChangedEvent) error {
	key := fmt.Sprintf("booking-%s", event.BookingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishTrainingStatusChanged publishes a TrainingStatusChanged event
func (ep *EventPublisher) PublishTrainingStatusChanged(ctx context.Context, event *models.TrainingStatusChangedEvent) error {
	key := fmt.Sprintf("training-%s", event.TrainingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCertificateIssued publishes a CertificateIssued event
func (ep *EventPublisher) PublishCertificateIssued(ctx context.Context, event *models.CertificateIssuedEvent) error {
	key := fmt.Sprintf("training-%s", event.TrainingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming lifecycle events to registered callbacks
type EventHandler struct {
	onBookingStatusChanged  func(context.Context, *models.BookingStatusChangedEvent) error
	onTrainingStatusChanged func(context.Context, *models.TrainingStatusChangedEvent) error
	onCertificateIssued     func(context.Context, *models.CertificateIssuedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnBookingStatusChanged registers a handler for BookingStatusChanged events
func (eh *EventHandler) OnBookingStatusChanged(handler func(context.Context, *models.BookingStatusChangedEvent) error) {
	eh.onBookingStatusChanged = handler
}

// OnTrainingStatusChanged registers a handler for TrainingStatusChanged events
func (eh *EventHandler) OnTrainingStatusChanged(handler func(context.Context, *models.TrainingStatusChangedEvent) error) {
	eh.onTrainingStatusChanged = handler
}

// OnCertificateIssued registers a handler for CertificateIssued events
func (eh *EventHandler) OnCertificateIssued(handler func(context.Context, *models.CertificateIssuedEvent) error) {
	eh.onCertificateIssued = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeBookingStatusChanged:
		if eh.onBookingStatusChanged != nil {
			var event models.BookingStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BookingStatusChanged event: %w", err)
			}
			return eh.onBookingStatusChanged(ctx, &event)
		}

	case models.EventTypeTrainingStatusChanged:
		if eh.onTrainingStatusChanged != nil {
			var event models.TrainingStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal TrainingStatusChanged event: %w", err)
			}
			return eh.onTrainingStatusChanged(ctx, &event)
		}

	case models.EventTypeCertificateIssued:
		if eh.onCertificateIssued != nil {
			var event models.CertificateIssuedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CertificateIssued event: %w", err)
			}
			return eh.onCertificateIssued(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
