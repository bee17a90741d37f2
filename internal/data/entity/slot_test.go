package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func lockedSlot(expiresAt time.Time) *Slot {
	token := uuid.New()
	return &Slot{
		Status:        SlotStatusLocked,
		LockToken:     &token,
		LockExpiresAt: &expiresAt,
	}
}

func TestEffectiveStatusLazyExpiry(t *testing.T) {
	now := time.Now()

	live := lockedSlot(now.Add(3 * time.Minute))
	if got := live.EffectiveStatus(now); got != SlotStatusLocked {
		t.Errorf("live lock: got %s, want locked", got)
	}

	stale := lockedSlot(now.Add(-time.Second))
	if got := stale.EffectiveStatus(now); got != SlotStatusAvailable {
		t.Errorf("stale lock: got %s, want available", got)
	}

	booked := &Slot{Status: SlotStatusBooked}
	if got := booked.EffectiveStatus(now); got != SlotStatusBooked {
		t.Errorf("booked slot: got %s, want booked", got)
	}
}

func TestTaken(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		slot *Slot
		want bool
	}{
		{"available", &Slot{Status: SlotStatusAvailable}, false},
		{"cancelled", &Slot{Status: SlotStatusCancelled}, false},
		{"booked", &Slot{Status: SlotStatusBooked}, true},
		{"confirmed", &Slot{Status: SlotStatusConfirmed}, true},
		{"live lock", lockedSlot(now.Add(time.Minute)), true},
		{"expired lock", lockedSlot(now.Add(-time.Minute)), false},
	}

	for _, tt := range tests {
		if got := tt.slot.Taken(now); got != tt.want {
			t.Errorf("%s: Taken = %v, want %v", tt.name, got, tt.want)
		}
	}
}
