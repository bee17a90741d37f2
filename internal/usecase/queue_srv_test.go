package usecase

import (
	"context"
	"testing"

	"hospital-queue/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueueProjection(t *testing.T) {
	env := newTestEnv()
	service := NewQueueService(env.repo, zap.NewNop())
	patientID := uuid.New()

	// Token 1 already seen, tokens 2 and 3 waiting, patient holds token 5.
	env.seedBooking(patientID, 1, entity.BookingStatusCompleted)
	env.seedBooking(patientID, 2, entity.BookingStatusConfirmed)
	env.seedBooking(patientID, 3, entity.BookingStatusConfirmed)
	env.seedBooking(patientID, 5, entity.BookingStatusConfirmed)

	status, err := service.Project(context.Background(), env.session.ID.String(), "2026-01-05", 5)
	require.NoError(t, err)

	assert.Equal(t, 2, status.CurrentlyServing)
	assert.Equal(t, 2, status.TokensAhead)
	assert.Equal(t, 1, status.CompletedToday)
	assert.Equal(t, 4, status.TotalTokensToday)
	assert.Equal(t, 30, status.EstimatedWaitingMinutes)
	assert.Equal(t, "waiting", status.QueuePosition)
}

func TestQueueProjectionCurrentToken(t *testing.T) {
	env := newTestEnv()
	service := NewQueueService(env.repo, zap.NewNop())
	patientID := uuid.New()

	env.seedBooking(patientID, 1, entity.BookingStatusCompleted)
	env.seedBooking(patientID, 2, entity.BookingStatusConfirmed)

	status, err := service.Project(context.Background(), env.session.ID.String(), "2026-01-05", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, status.CurrentlyServing)
	assert.Equal(t, 0, status.TokensAhead)
	assert.Equal(t, 0, status.EstimatedWaitingMinutes)
	assert.Equal(t, "current", status.QueuePosition)
}

func TestQueueProjectionSkipsCancelledGaps(t *testing.T) {
	env := newTestEnv()
	service := NewQueueService(env.repo, zap.NewNop())
	patientID := uuid.New()

	// Tokens 2 and 4 cancelled; they contribute nothing to the queue.
	env.seedBooking(patientID, 1, entity.BookingStatusConfirmed)
	env.seedBooking(patientID, 2, entity.BookingStatusCancelled)
	env.seedBooking(patientID, 3, entity.BookingStatusConfirmed)
	env.seedBooking(patientID, 4, entity.BookingStatusCancelled)
	env.seedBooking(patientID, 6, entity.BookingStatusConfirmed)

	status, err := service.Project(context.Background(), env.session.ID.String(), "2026-01-05", 6)
	require.NoError(t, err)

	assert.Equal(t, 1, status.CurrentlyServing)
	assert.Equal(t, 2, status.TokensAhead) // tokens 1 and 3
	assert.Equal(t, 3, status.TotalTokensToday)
}

func TestQueueProjectionEmptyDay(t *testing.T) {
	env := newTestEnv()
	service := NewQueueService(env.repo, zap.NewNop())

	status, err := service.Project(context.Background(), env.session.ID.String(), "2026-01-05", 3)
	require.NoError(t, err)

	assert.Equal(t, 0, status.CurrentlyServing)
	assert.Equal(t, 0, status.TokensAhead)
	assert.Equal(t, 0, status.CompletedToday)
	assert.Equal(t, "waiting", status.QueuePosition)
}

func TestQueueProjectionTokenOutOfRange(t *testing.T) {
	env := newTestEnv()
	service := NewQueueService(env.repo, zap.NewNop())

	_, err := service.Project(context.Background(), env.session.ID.String(), "2026-01-05", 13)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidTokenNumber))
}
