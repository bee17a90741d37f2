package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-queue/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAcquireConfirmLifecycle(t *testing.T) {
	env := newTestEnv()
	manager := NewLockManager(env.slots, 5*time.Minute, zap.NewNop())
	ctx := context.Background()

	lock, err := manager.Acquire(ctx, env.session.ID, env.day, 3, "09:30")
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), lock.ExpiresAt, 2*time.Second)

	slot := env.slots.get(env.session.ID, env.day, 3)
	require.NotNil(t, slot)
	assert.Equal(t, entity.SlotStatusLocked, slot.Status)

	// A second caller for the same token loses.
	_, err = manager.Acquire(ctx, env.session.ID, env.day, 3, "09:30")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSlotTaken))

	bookingID := uuid.New()
	require.NoError(t, manager.Confirm(ctx, lock.Token, bookingID, entity.SlotStatusBooked))

	slot = env.slots.get(env.session.ID, env.day, 3)
	assert.Equal(t, entity.SlotStatusBooked, slot.Status)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, bookingID, *slot.BookingID)
	assert.Nil(t, slot.LockToken)
}

func TestAcquireTakesOverExpiredLock(t *testing.T) {
	env := newTestEnv()
	manager := NewLockManager(env.slots, 5*time.Minute, zap.NewNop())

	env.seedLockedSlot(1, time.Now().Add(-time.Minute))

	lock, err := manager.Acquire(context.Background(), env.session.ID, env.day, 1, "09:00")
	require.NoError(t, err)

	slot := env.slots.get(env.session.ID, env.day, 1)
	require.NotNil(t, slot.LockToken)
	assert.Equal(t, lock.Token, *slot.LockToken)
}

func TestConfirmExpiredLockFails(t *testing.T) {
	env := newTestEnv()
	// Negative TTL makes every lock dead on arrival.
	manager := NewLockManager(env.slots, -time.Minute, zap.NewNop())
	ctx := context.Background()

	lock, err := manager.Acquire(ctx, env.session.ID, env.day, 2, "09:15")
	require.NoError(t, err)

	err = manager.Confirm(ctx, lock.Token, uuid.New(), entity.SlotStatusBooked)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLockExpired))
}

func TestReleaseIsIdempotent(t *testing.T) {
	env := newTestEnv()
	manager := NewLockManager(env.slots, 5*time.Minute, zap.NewNop())
	ctx := context.Background()

	lock, err := manager.Acquire(ctx, env.session.ID, env.day, 4, "09:45")
	require.NoError(t, err)

	require.NoError(t, manager.Release(ctx, lock.Token))
	slot := env.slots.get(env.session.ID, env.day, 4)
	assert.Equal(t, entity.SlotStatusAvailable, slot.Status)

	// Second release and releasing an unknown token are both no-ops.
	require.NoError(t, manager.Release(ctx, lock.Token))
	require.NoError(t, manager.Release(ctx, uuid.New()))
}
