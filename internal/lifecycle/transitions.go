package lifecycle

import (
	"lifecycle-service/internal/models"
)

// Status constrains the per-kind status string types.
type Status interface {
	~string
}

// BookingTransitions defines the valid booking state transitions. The key is
// the current status, the value the statuses reachable in one step. Statuses
// with an empty set are terminal.
var BookingTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:          {models.BookingAwaitingApproval, models.BookingRejected},
	models.BookingAwaitingApproval: {models.BookingConfirmed, models.BookingRejected},
	models.BookingConfirmed:        {models.BookingReceived, models.BookingCancelled},
	models.BookingReceived:         {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress:       {models.BookingCompleted, models.BookingCancelled},
	models.BookingCompleted:        {},
	models.BookingCancelled:        {},
	models.BookingRejected:         {},
}

// TrainingTransitions defines the valid training state transitions.
var TrainingTransitions = map[models.TrainingStatus][]models.TrainingStatus{
	models.TrainingEnrolled:   {models.TrainingInProgress, models.TrainingCancelled},
	models.TrainingInProgress: {models.TrainingCompleted, models.TrainingCancelled},
	models.TrainingCompleted:  {},
	models.TrainingCancelled:  {},
}

func canTransition[S Status](table map[S][]S, from, to S) bool {
	allowed, ok := table[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func allowedNext[S Status](table map[S][]S, from S) []S {
	next := table[from]
	out := make([]S, len(next))
	copy(out, next)
	return out
}

func isTerminal[S Status](table map[S][]S, s S) bool {
	allowed, ok := table[s]
	return ok && len(allowed) == 0
}

// CanTransitionBooking reports whether a booking may move from one status to
// another in a single step. A status never reaches itself.
func CanTransitionBooking(from, to models.BookingStatus) bool {
	return canTransition(BookingTransitions, from, to)
}

// CanTransitionTraining reports whether a training enrollment may move from
// one status to another in a single step.
func CanTransitionTraining(from, to models.TrainingStatus) bool {
	return canTransition(TrainingTransitions, from, to)
}

// AllowedBooking returns the statuses reachable from the given booking status.
func AllowedBooking(from models.BookingStatus) []models.BookingStatus {
	return allowedNext(BookingTransitions, from)
}

// AllowedTraining returns the statuses reachable from the given training status.
func AllowedTraining(from models.TrainingStatus) []models.TrainingStatus {
	return allowedNext(TrainingTransitions, from)
}

// IsTerminalBooking reports whether the booking status has no outgoing edges.
func IsTerminalBooking(s models.BookingStatus) bool {
	return isTerminal(BookingTransitions, s)
}

// IsTerminalTraining reports whether the training status has no outgoing edges.
func IsTerminalTraining(s models.TrainingStatus) bool {
	return isTerminal(TrainingTransitions, s)
}

// ValidateBookingTransition returns an InvalidTransitionError if the
// transition is not allowed, carrying the current status and the reachable
// set so callers can self-correct without re-querying.
func ValidateBookingTransition(from, to models.BookingStatus) error {
	if CanTransitionBooking(from, to) {
		return nil
	}
	allowed := AllowedBooking(from)
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = s.String()
	}
	return &InvalidTransitionError{
		Kind:    models.KindBooking,
		From:    from.String(),
		To:      to.String(),
		Allowed: names,
	}
}

// ValidateTrainingTransition is the training counterpart of
// ValidateBookingTransition.
func ValidateTrainingTransition(from, to models.TrainingStatus) error {
	if CanTransitionTraining(from, to) {
		return nil
	}
	allowed := AllowedTraining(from)
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = s.String()
	}
	return &InvalidTransitionError{
		Kind:    models.KindTraining,
		From:    from.String(),
		To:      to.String(),
		Allowed: names,
	}
}
