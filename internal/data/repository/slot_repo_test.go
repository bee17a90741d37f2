package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

func newSlotRepo(t *testing.T) (SlotRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewSlotRepository(mock, zap.NewNop()), mock
}

func TestAcquireLockWinsOnFreeSlot(t *testing.T) {
	repo, mock := newSlotRepo(t)

	sessionID := uuid.New()
	lockToken := uuid.New()
	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	expiresAt := time.Now().Add(5 * time.Minute)

	mock.ExpectExec("INSERT INTO slots").
		WithArgs(pgxmock.AnyArg(), sessionID, date, 3, "09:30", lockToken, expiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	acquired, err := repo.AcquireLock(context.Background(), sessionID, date, 3, "09:30", lockToken, expiresAt)
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	if !acquired {
		t.Fatal("expected acquire to win on a free slot")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAcquireLockLosesRace(t *testing.T) {
	repo, mock := newSlotRepo(t)

	// A held slot makes the upsert touch zero rows.
	mock.ExpectExec("INSERT INTO slots").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	acquired, err := repo.AcquireLock(context.Background(), uuid.New(), time.Now(), 1, "09:00", uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	if acquired {
		t.Fatal("expected acquire to lose when the slot is held")
	}
}

func TestConfirmLockExpired(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectExec("UPDATE slots").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	confirmed, err := repo.ConfirmLock(context.Background(), uuid.New(), uuid.New(), "booked", time.Now())
	if err != nil {
		t.Fatalf("confirm lock: %v", err)
	}
	if confirmed {
		t.Fatal("expected confirm to fail on a dead lock")
	}
}

func TestFindByTokenReturnsNilWhenAbsent(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM slots").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	slot, err := repo.FindByToken(context.Background(), uuid.New(), time.Now(), 7)
	if err != nil {
		t.Fatalf("find by token: %v", err)
	}
	if slot != nil {
		t.Fatal("expected nil slot for an untouched token")
	}
}

func TestReleaseExpiredForSessionCountsHealedRows(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectExec("UPDATE slots").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	healed, err := repo.ReleaseExpiredForSession(context.Background(), uuid.New(), time.Now(), time.Now())
	if err != nil {
		t.Fatalf("release expired: %v", err)
	}
	if healed != 2 {
		t.Fatalf("expected 2 healed rows, got %d", healed)
	}
}
