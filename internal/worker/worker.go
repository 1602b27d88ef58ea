package worker

import (
	"context"
	"log"

	"lifecycle-service/internal/broker"
	"lifecycle-service/internal/models"
	"lifecycle-service/internal/util"

	"go.uber.org/zap"
)

// Notifier is the boundary to the external notification dispatcher
// (email/WhatsApp). Delivery failures are the dispatcher's problem; the relay
// only logs them.
type Notifier interface {
	NotifyBookingStatus(ctx context.Context, event *models.BookingStatusChangedEvent) error
	NotifyTrainingStatus(ctx context.Context, event *models.TrainingStatusChangedEvent) error
	NotifyCertificate(ctx context.Context, event *models.CertificateIssuedEvent) error
}

// NotificationWorker consumes lifecycle events and relays them to the
// external notification dispatcher.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification relay worker
func NewNotificationWorker(consumer *broker.Consumer, notifier Notifier) *NotificationWorker {
	logger := util.GetLogger()
	eventHandler := broker.NewEventHandler()

	eventHandler.OnBookingStatusChanged(func(ctx context.Context, event *models.BookingStatusChangedEvent) error {
		if err := notifier.NotifyBookingStatus(ctx, event); err != nil {
			logger.Error("Notification dispatch failed",
				zap.String("event", event.EventType),
				zap.String("booking_id", event.BookingID),
				zap.Error(err))
		}
		return nil
	})

	eventHandler.OnTrainingStatusChanged(func(ctx context.Context, event *models.TrainingStatusChangedEvent) error {
		if err := notifier.NotifyTrainingStatus(ctx, event); err != nil {
			logger.Error("Notification dispatch failed",
				zap.String("event", event.EventType),
				zap.String("training_id", event.TrainingID),
				zap.Error(err))
		}
		return nil
	})

	eventHandler.OnCertificateIssued(func(ctx context.Context, event *models.CertificateIssuedEvent) error {
		if err := notifier.NotifyCertificate(ctx, event); err != nil {
			logger.Error("Notification dispatch failed",
				zap.String("event", event.EventType),
				zap.String("training_id", event.TrainingID),
				zap.Error(err))
		}
		return nil
	})

	return &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

// LogNotifier is the stand-in dispatcher used until the email/WhatsApp
// integration is wired in deployment.
type LogNotifier struct{}

func (LogNotifier) NotifyBookingStatus(_ context.Context, event *models.BookingStatusChangedEvent) error {
	util.GetLogger().Info("Would notify customer of booking status",
		zap.String("booking_id", event.BookingID),
		zap.String("email", event.CustomerEmail),
		zap.String("to", event.To.String()))
	return nil
}

func (LogNotifier) NotifyTrainingStatus(_ context.Context, event *models.TrainingStatusChangedEvent) error {
	util.GetLogger().Info("Would notify student of training status",
		zap.String("training_id", event.TrainingID),
		zap.String("email", event.StudentEmail),
		zap.String("to", event.To.String()))
	return nil
}

func (LogNotifier) NotifyCertificate(_ context.Context, event *models.CertificateIssuedEvent) error {
	util.GetLogger().Info("Would send certificate to student",
		zap.String("training_id", event.TrainingID),
		zap.String("email", event.StudentEmail),
		zap.String("url", event.CertificateURL))
	return nil
}
