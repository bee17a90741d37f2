package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hospital-queue/internal/data/entity"
	"hospital-queue/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repositories that mirror the SQL semantics closely enough for
// service-level tests: the slot fake reproduces the acquire CAS including
// expired-lock takeover.

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*entity.Slot

	acquireErr error
	sweeps     int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*entity.Slot)}
}

func slotKey(sessionID uuid.UUID, date time.Time, token int) string {
	return fmt.Sprintf("%s|%s|%d", sessionID, date.Format("2006-01-02"), token)
}

func (f *fakeSlotRepo) put(slot *entity.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[slotKey(slot.SessionID, slot.AppointmentDate, slot.TokenNumber)] = slot
}

func (f *fakeSlotRepo) get(sessionID uuid.UUID, date time.Time, token int) *entity.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[slotKey(sessionID, date, token)]
}

func (f *fakeSlotRepo) AcquireLock(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int, estimatedTime string, lockToken uuid.UUID, expiresAt time.Time) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := slotKey(sessionID, date, tokenNumber)
	slot, ok := f.slots[key]
	if ok {
		free := slot.Status == entity.SlotStatusAvailable ||
			slot.Status == entity.SlotStatusCancelled ||
			slot.LockExpired(time.Now())
		if !free {
			return false, nil
		}
	} else {
		slot = &entity.Slot{
			BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New()},
			SessionID:       sessionID,
			AppointmentDate: date,
			TokenNumber:     tokenNumber,
		}
		f.slots[key] = slot
	}

	token := lockToken
	expiry := expiresAt
	slot.Status = entity.SlotStatusLocked
	slot.EstimatedTime = estimatedTime
	slot.LockToken = &token
	slot.LockExpiresAt = &expiry
	slot.BookingID = nil
	return true, nil
}

func (f *fakeSlotRepo) FindBySessionDate(ctx context.Context, sessionID uuid.UUID, date time.Time) ([]*entity.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var slots []*entity.Slot
	for _, slot := range f.slots {
		if slot.SessionID == sessionID && slot.AppointmentDate.Equal(date) {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].TokenNumber < slots[j].TokenNumber })
	return slots, nil
}

func (f *fakeSlotRepo) FindByToken(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int) (*entity.Slot, error) {
	return f.get(sessionID, date, tokenNumber), nil
}

func (f *fakeSlotRepo) FindByLockToken(ctx context.Context, lockToken uuid.UUID) (*entity.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if slot.LockToken != nil && *slot.LockToken == lockToken {
			return slot, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotRepo) ConfirmLock(ctx context.Context, lockToken uuid.UUID, bookingID uuid.UUID, status entity.SlotStatus, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if slot.LockToken == nil || *slot.LockToken != lockToken {
			continue
		}
		if slot.Status != entity.SlotStatusLocked || slot.LockExpiresAt == nil || slot.LockExpiresAt.Before(now) {
			return false, nil
		}
		id := bookingID
		slot.Status = status
		slot.BookingID = &id
		slot.LockToken = nil
		slot.LockExpiresAt = nil
		return true, nil
	}
	return false, nil
}

func (f *fakeSlotRepo) ReleaseByLockToken(ctx context.Context, lockToken uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if slot.LockToken != nil && *slot.LockToken == lockToken && slot.Status == entity.SlotStatusLocked {
			freeSlot(slot)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotRepo) ReleaseSlot(ctx context.Context, slotID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if slot.ID == slotID && (slot.Status == entity.SlotStatusBooked || slot.Status == entity.SlotStatusConfirmed) {
			freeSlot(slot)
			return nil
		}
	}
	return fmt.Errorf("slot %s not in a releasable state", slotID)
}

func (f *fakeSlotRepo) ReleaseExpiredForSession(ctx context.Context, sessionID uuid.UUID, date time.Time, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var healed int64
	for _, slot := range f.slots {
		if slot.SessionID == sessionID && slot.AppointmentDate.Equal(date) && slot.LockExpired(now) {
			freeSlot(slot)
			healed++
		}
	}
	return healed, nil
}

func (f *fakeSlotRepo) ReleaseAllExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	var released int64
	for _, slot := range f.slots {
		if slot.LockExpired(now) {
			freeSlot(slot)
			released++
		}
	}
	return released, nil
}

func freeSlot(slot *entity.Slot) {
	slot.Status = entity.SlotStatusAvailable
	slot.LockToken = nil
	slot.LockExpiresAt = nil
	slot.BookingID = nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, booking := range f.bookings {
		if booking.PatientID == patientID {
			out = append(out, booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByPatientID(ctx context.Context, patientID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, booking := range f.bookings {
		if booking.PatientID == patientID {
			total++
		}
	}
	return total, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	booking.Status = status
	return nil
}

func (f *fakeBookingRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, tokenNumber int, estimatedTime string, bookingType entity.BookingType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	booking.AppointmentDate = date
	booking.TokenNumber = tokenNumber
	booking.EstimatedTime = estimatedTime
	booking.BookingType = bookingType
	return nil
}

func (f *fakeBookingRepo) MarkCompleted(ctx context.Context, id uuid.UUID, finishedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok || booking.Status != entity.BookingStatusConfirmed {
		return fmt.Errorf("booking %s not found or not confirmed", id)
	}
	booking.Status = entity.BookingStatusCompleted
	if booking.ActualStart == nil {
		booking.ActualStart = &finishedAt
	}
	booking.ActualEnd = &finishedAt
	return nil
}

func (f *fakeBookingRepo) FindActiveBySessionDate(ctx context.Context, sessionID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, booking := range f.bookings {
		if booking.SessionID != sessionID || !booking.AppointmentDate.Equal(date) {
			continue
		}
		if booking.Status == entity.BookingStatusConfirmed || booking.Status == entity.BookingStatusCompleted {
			out = append(out, booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TokenNumber < out[j].TokenNumber })
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.Session
}

func (f *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]*entity.Session, error) {
	var out []*entity.Session
	for _, session := range f.sessions {
		if session.DoctorID == doctorID {
			out = append(out, session)
		}
	}
	return out, nil
}

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*entity.Hospital
}

func (f *fakeHospitalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hospital, error) {
	return f.hospitals[id], nil
}

func (f *fakeHospitalRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Hospital, error) {
	var out []*entity.Hospital
	for _, hospital := range f.hospitals {
		out = append(out, hospital)
	}
	return out, nil
}

func (f *fakeHospitalRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.hospitals)), nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*entity.Doctor
}

func (f *fakeDoctorRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	return f.doctors[id], nil
}

func (f *fakeDoctorRepo) FindByHospitalID(ctx context.Context, hospitalID uuid.UUID) ([]*entity.Doctor, error) {
	var out []*entity.Doctor
	for _, doctor := range f.doctors {
		if doctor.HospitalID == hospitalID {
			out = append(out, doctor)
		}
	}
	return out, nil
}

// testEnv bundles the fakes behind a repository.Repository the services accept.
type testEnv struct {
	repo     *repository.Repository
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	session  *entity.Session
	day      time.Time
}

// newTestEnv seeds one Monday morning session: 09:00-12:00, 12 tokens,
// 15 minutes per patient. 2026-01-05 is a Monday.
func newTestEnv() *testEnv {
	slots := newFakeSlotRepo()
	bookings := newFakeBookingRepo()

	session := &entity.Session{
		BaseNoDelete:         entity.BaseNoDelete{ID: uuid.New()},
		DoctorID:             uuid.New(),
		HospitalID:           uuid.New(),
		DayOfWeek:            time.Monday,
		StartTime:            "09:00",
		EndTime:              "12:00",
		MaxTokens:            12,
		AvgMinutesPerPatient: 15,
	}

	repo := &repository.Repository{
		Hospital: &fakeHospitalRepo{hospitals: map[uuid.UUID]*entity.Hospital{}},
		Doctor:   &fakeDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{}},
		Session:  &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{session.ID: session}},
		Slot:     slots,
		Booking:  bookings,
	}

	return &testEnv{
		repo:     repo,
		slots:    slots,
		bookings: bookings,
		session:  session,
		day:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) seedSlot(token int, status entity.SlotStatus, estimatedTime string) *entity.Slot {
	slot := &entity.Slot{
		BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New()},
		SessionID:       e.session.ID,
		AppointmentDate: e.day,
		TokenNumber:     token,
		Status:          status,
		EstimatedTime:   estimatedTime,
	}
	e.slots.put(slot)
	return slot
}

func (e *testEnv) seedLockedSlot(token int, expiresAt time.Time) (*entity.Slot, uuid.UUID) {
	slot := e.seedSlot(token, entity.SlotStatusLocked, "")
	lockToken := uuid.New()
	slot.LockToken = &lockToken
	slot.LockExpiresAt = &expiresAt
	return slot, lockToken
}

func (e *testEnv) seedBooking(patientID uuid.UUID, token int, status entity.BookingStatus) *entity.Booking {
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		BookingRef:      fmt.Sprintf("TKN-20260105-0900%02d-0001", token),
		PatientID:       patientID,
		SessionID:       e.session.ID,
		HospitalID:      e.session.HospitalID,
		AppointmentDate: e.day,
		TokenNumber:     token,
		EstimatedTime:   fmt.Sprintf("%02d:%02d", 9+(token-1)/4, ((token-1)%4)*15),
		BookingType:     entity.BookingTypeNext,
		PatientName:     "Test Patient",
		Status:          status,
	}
	e.bookings.bookings[booking.ID] = booking
	return booking
}
