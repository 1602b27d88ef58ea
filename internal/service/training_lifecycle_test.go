package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCertificateBase = "https://jifywigs.com/certificates"

func newTrainingFixture(t *testing.T) (*TrainingLifecycle, *fakeTrainingStore, *fakeNotifier) {
	t.Helper()
	store := newFakeTrainingStore()
	notifier := &fakeNotifier{}
	return NewTrainingLifecycle(store, notifier, testCertificateBase), store, notifier
}

func enrollTestTraining(t *testing.T, svc *TrainingLifecycle) *models.Training {
	t.Helper()
	training, err := svc.Enroll(context.Background(), &EnrollRequest{
		StudentID:    newUUID(t),
		StudentName:  "Chioma Eze",
		StudentEmail: "chioma@example.com",
		StudentPhone: "+2348111111111",
		CourseName:   "Wig Making Masterclass",
		CourseSlug:   "wig-making-masterclass",
		Mode:         models.ModeHybrid,
		TotalAmount:  250000,
		AmountPaid:   100000,
		StartDate:    time.Now().Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return training
}

func advanceToCompleted(t *testing.T, svc *TrainingLifecycle, training *models.Training) *models.Training {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Transition(ctx, training.ID, models.TrainingInProgress, TransitionMeta{})
	require.NoError(t, err)
	completed, err := svc.Transition(ctx, training.ID, models.TrainingCompleted, TransitionMeta{})
	require.NoError(t, err)
	return completed
}

func TestEnroll(t *testing.T) {
	svc, _, _ := newTrainingFixture(t)

	training := enrollTestTraining(t, svc)

	assert.Equal(t, models.TrainingEnrolled, training.Status)
	assert.False(t, training.CertificateIssued)
	assert.Nil(t, training.CompletedAt)
}

func TestTrainingLifecycleToCompleted(t *testing.T) {
	svc, _, notifier := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)

	completed := advanceToCompleted(t, svc, training)

	assert.Equal(t, models.TrainingCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.False(t, completed.CompletedAt.Before(completed.CreatedAt))
	require.Len(t, notifier.trainingEvents, 2)
	assert.Equal(t, models.TrainingCompleted, notifier.trainingEvents[1].To)
}

func TestTrainingCancellation(t *testing.T) {
	svc, _, _ := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)
	ctx := context.Background()

	cancelled, err := svc.Transition(ctx, training.ID, models.TrainingCancelled,
		TransitionMeta{CancellationReason: "student withdrew"})
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "student withdrew", cancelled.CancellationReason)

	_, err = svc.Transition(ctx, training.ID, models.TrainingInProgress, TransitionMeta{})
	var invalid *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestEnrolledCannotSkipToCompleted(t *testing.T) {
	svc, _, _ := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)

	_, err := svc.Transition(context.Background(), training.ID, models.TrainingCompleted, TransitionMeta{})
	var invalid *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.ElementsMatch(t, []string{"in_progress", "cancelled"}, invalid.Allowed)
}

func TestIssueCertificateRequiresCompleted(t *testing.T) {
	ctx := context.Background()

	// Every non-completed status must be rejected with NotCompleted, which is
	// a different precondition class than InvalidTransition.
	paths := map[models.TrainingStatus][]models.TrainingStatus{
		models.TrainingEnrolled:   nil,
		models.TrainingInProgress: {models.TrainingInProgress},
		models.TrainingCancelled:  {models.TrainingCancelled},
	}

	for status, path := range paths {
		t.Run(status.String(), func(t *testing.T) {
			svc, _, _ := newTrainingFixture(t)
			training := enrollTestTraining(t, svc)
			for _, step := range path {
				_, err := svc.Transition(ctx, training.ID, step, TransitionMeta{})
				require.NoError(t, err)
			}

			_, err := svc.IssueCertificate(ctx, training.ID, "")
			assert.ErrorIs(t, err, lifecycle.ErrNotCompleted)

			var invalid *lifecycle.InvalidTransitionError
			assert.False(t, errors.As(err, &invalid))
		})
	}
}

func TestIssueCertificateAfterCancellation(t *testing.T) {
	svc, _, _ := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)
	ctx := context.Background()

	_, err := svc.Transition(ctx, training.ID, models.TrainingCancelled, TransitionMeta{})
	require.NoError(t, err)

	_, err = svc.IssueCertificate(ctx, training.ID, "")
	assert.ErrorIs(t, err, lifecycle.ErrNotCompleted)
}

func TestIssueCertificate(t *testing.T) {
	svc, _, notifier := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)
	advanceToCompleted(t, svc, training)

	issued, err := svc.IssueCertificate(context.Background(), training.ID, "top of class")
	require.NoError(t, err)

	assert.True(t, issued.CertificateIssued)
	assert.Equal(t, fmt.Sprintf("%s/%s", testCertificateBase, training.ID), issued.CertificateURL)
	assert.Equal(t, "top of class", issued.Notes)
	require.Len(t, notifier.certificateEvents, 1)
	assert.Equal(t, issued.CertificateURL, notifier.certificateEvents[0].CertificateURL)
}

func TestIssueCertificateIdempotent(t *testing.T) {
	svc, _, _ := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)
	advanceToCompleted(t, svc, training)
	ctx := context.Background()

	first, err := svc.IssueCertificate(ctx, training.ID, "first note")
	require.NoError(t, err)

	second, err := svc.IssueCertificate(ctx, training.ID, "second note")
	require.NoError(t, err)

	assert.True(t, second.CertificateIssued)
	assert.Equal(t, first.CertificateURL, second.CertificateURL,
		"re-issue must regenerate the same deterministic URL")
	assert.Equal(t, "first note\nsecond note", second.Notes,
		"notes are appended, never overwritten")
}

func TestRecordPayment(t *testing.T) {
	svc, _, _ := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)

	updated, err := svc.RecordPayment(context.Background(), training.ID, 150000)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), updated.AmountPaid)
}

func TestAssignInstructor(t *testing.T) {
	svc, _, _ := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)

	instructor := newUUID(t)
	updated, err := svc.AssignInstructor(context.Background(), training.ID, &instructor)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedInstructor)
	assert.Equal(t, instructor, *updated.AssignedInstructor)
}

func TestTrainingConflictSurfaced(t *testing.T) {
	svc, store, _ := newTrainingFixture(t)
	training := enrollTestTraining(t, svc)

	store.updateErr = lifecycle.ErrConflict
	_, err := svc.Transition(context.Background(), training.ID, models.TrainingInProgress, TransitionMeta{})
	assert.ErrorIs(t, err, lifecycle.ErrConflict)
}
