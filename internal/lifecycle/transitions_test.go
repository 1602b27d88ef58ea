package lifecycle

import (
	"testing"

	"lifecycle-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoSelfTransitions(t *testing.T) {
	for status := range BookingTransitions {
		assert.False(t, CanTransitionBooking(status, status),
			"booking status %s must not reach itself", status)
	}
	for status := range TrainingTransitions {
		assert.False(t, CanTransitionTraining(status, status),
			"training status %s must not reach itself", status)
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	bookingTerminals := []models.BookingStatus{
		models.BookingCompleted, models.BookingCancelled, models.BookingRejected,
	}
	for _, terminal := range bookingTerminals {
		assert.True(t, IsTerminalBooking(terminal))
		assert.Empty(t, AllowedBooking(terminal))
		for target := range BookingTransitions {
			assert.False(t, CanTransitionBooking(terminal, target),
				"terminal %s must not reach %s", terminal, target)
		}
	}

	trainingTerminals := []models.TrainingStatus{
		models.TrainingCompleted, models.TrainingCancelled,
	}
	for _, terminal := range trainingTerminals {
		assert.True(t, IsTerminalTraining(terminal))
		assert.Empty(t, AllowedTraining(terminal))
		for target := range TrainingTransitions {
			assert.False(t, CanTransitionTraining(terminal, target),
				"terminal %s must not reach %s", terminal, target)
		}
	}
}

func TestBookingTransitionEdges(t *testing.T) {
	tests := []struct {
		from    models.BookingStatus
		allowed []models.BookingStatus
	}{
		{models.BookingPending, []models.BookingStatus{models.BookingAwaitingApproval, models.BookingRejected}},
		{models.BookingAwaitingApproval, []models.BookingStatus{models.BookingConfirmed, models.BookingRejected}},
		{models.BookingConfirmed, []models.BookingStatus{models.BookingReceived, models.BookingCancelled}},
		{models.BookingReceived, []models.BookingStatus{models.BookingInProgress, models.BookingCancelled}},
		{models.BookingInProgress, []models.BookingStatus{models.BookingCompleted, models.BookingCancelled}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.ElementsMatch(t, tt.allowed, AllowedBooking(tt.from))
			for target := range BookingTransitions {
				want := false
				for _, a := range tt.allowed {
					if a == target {
						want = true
					}
				}
				assert.Equal(t, want, CanTransitionBooking(tt.from, target),
					"%s -> %s", tt.from, target)
			}
		})
	}
}

func TestTrainingTransitionEdges(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.TrainingStatus{models.TrainingInProgress, models.TrainingCancelled},
		AllowedTraining(models.TrainingEnrolled))
	assert.ElementsMatch(t,
		[]models.TrainingStatus{models.TrainingCompleted, models.TrainingCancelled},
		AllowedTraining(models.TrainingInProgress))

	assert.False(t, CanTransitionTraining(models.TrainingEnrolled, models.TrainingCompleted),
		"enrolled must not skip straight to completed")
}

func TestUnknownStatusRejected(t *testing.T) {
	assert.False(t, CanTransitionBooking("garbage", models.BookingConfirmed))
	assert.False(t, CanTransitionBooking(models.BookingPending, "garbage"))
	assert.False(t, CanTransitionTraining("garbage", models.TrainingCompleted))
}

func TestValidateBookingTransitionError(t *testing.T) {
	err := ValidateBookingTransition(models.BookingAwaitingApproval, models.BookingReceived)
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.KindBooking, invalid.Kind)
	assert.Equal(t, "awaiting_approval", invalid.From)
	assert.Equal(t, "received", invalid.To)
	assert.ElementsMatch(t, []string{"confirmed", "rejected"}, invalid.Allowed)
}

func TestValidateTrainingTransitionError(t *testing.T) {
	err := ValidateTrainingTransition(models.TrainingCancelled, models.TrainingInProgress)
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, invalid.Allowed)
	assert.Contains(t, invalid.Error(), "terminal")
}

func TestValidateAllowsLegalTransitions(t *testing.T) {
	assert.NoError(t, ValidateBookingTransition(models.BookingPending, models.BookingAwaitingApproval))
	assert.NoError(t, ValidateBookingTransition(models.BookingInProgress, models.BookingCompleted))
	assert.NoError(t, ValidateTrainingTransition(models.TrainingEnrolled, models.TrainingCancelled))
}
