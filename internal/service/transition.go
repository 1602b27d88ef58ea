package service

import (
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"
)

// TransitionMeta is the optional side-channel payload of a transition
// request. CancellationReason is stored when the target status is a
// cancellation; other targets ignore it. No current kind makes any field
// mandatory, but validateMeta is where a future kind would enforce that.
type TransitionMeta struct {
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

func validateMeta(kind models.EntityKind, meta TransitionMeta) error {
	// No kind currently mandates any metadata field; cancellation reasons
	// are optional and may be empty.
	return nil
}

// applyBookingTransition validates the requested transition and stamps
// side-effect fields on the entity in memory. Persistence happens separately
// under a compare-and-swap on the prior status.
func applyBookingTransition(booking *models.Booking, target models.BookingStatus, meta TransitionMeta, now time.Time) error {
	if err := validateMeta(models.KindBooking, meta); err != nil {
		return err
	}
	if err := lifecycle.ValidateBookingTransition(booking.Status, target); err != nil {
		return err
	}

	booking.Status = target
	switch target {
	case models.BookingCompleted:
		booking.CompletedAt = timePtr(now)
	case models.BookingCancelled:
		booking.CancelledAt = timePtr(now)
		booking.CancellationReason = meta.CancellationReason
	case models.BookingRejected:
		booking.CancellationReason = meta.CancellationReason
	}
	booking.UpdatedAt = now
	return nil
}

// applyTrainingTransition is the training counterpart of
// applyBookingTransition.
func applyTrainingTransition(training *models.Training, target models.TrainingStatus, meta TransitionMeta, now time.Time) error {
	if err := validateMeta(models.KindTraining, meta); err != nil {
		return err
	}
	if err := lifecycle.ValidateTrainingTransition(training.Status, target); err != nil {
		return err
	}

	training.Status = target
	switch target {
	case models.TrainingCompleted:
		training.CompletedAt = timePtr(now)
	case models.TrainingCancelled:
		training.CancelledAt = timePtr(now)
		training.CancellationReason = meta.CancellationReason
	}
	training.UpdatedAt = now
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
