package usecase

import (
	"context"
	"time"

	"hospital-queue/internal/data/entity"
	"hospital-queue/internal/data/repository"
	"hospital-queue/internal/dto/request"
	"hospital-queue/internal/dto/response"
	"hospital-queue/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Patient endpoints
	CreateBooking(ctx context.Context, patientID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, patientID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ModifyBooking(ctx context.Context, patientID, bookingID string, req *request.ModifyBookingRequest) (*response.AllocationResponse, error)
	CancelBooking(ctx context.Context, patientID, bookingID string) error

	// Payment-gateway callbacks
	ConfirmPayment(ctx context.Context, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error)
	ReleaseLock(ctx context.Context, req *request.ReleaseLockRequest) error

	// Desk/admin endpoints
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetSessionBookings(ctx context.Context, sessionID, date string) ([]response.BookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID string) error
}

type bookingService struct {
	repo      *repository.Repository
	locks     LockManager
	allocator AllocationService
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, locks LockManager, allocator AllocationService, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		allocator: allocator,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, patientID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, schedErrorf(KindValidation, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	patientUUID, err := uuid.Parse(patientID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid patient ID format %s", patientID)
	}

	lockToken, err := uuid.Parse(req.LockToken)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid lock token format %s", req.LockToken)
	}

	slot, err := s.repo.Slot.FindByLockToken(ctx, lockToken)
	if err != nil {
		return nil, err
	}
	if slot == nil || slot.Status != entity.SlotStatusLocked || slot.LockExpired(time.Now()) {
		return nil, schedErrorf(KindLockExpired, "lock %s has expired - start the booking again", req.LockToken)
	}

	session, err := s.repo.Session.FindByID(ctx, slot.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, schedErrorf(KindSessionNotFound, "session %s not found", slot.SessionID.String())
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingRef:      utils.GenerateBookingRef(),
		PatientID:       patientUUID,
		SessionID:       slot.SessionID,
		HospitalID:      session.HospitalID,
		AppointmentDate: slot.AppointmentDate,
		TokenNumber:     slot.TokenNumber,
		EstimatedTime:   slot.EstimatedTime,
		BookingType:     entity.BookingType(req.BookingType),
		PatientName:     req.PatientName,
		PatientPhone:    req.PatientPhone,
		PatientAge:      req.PatientAge,
		Status:          entity.BookingStatusPendingPayment,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("patient_id", patientID),
			zap.String("lock_token", req.LockToken),
		)
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_ref", booking.BookingRef),
		zap.String("patient_id", patientID),
		zap.Int("token_number", booking.TokenNumber),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Confirm payment validation failed", zap.Any("errors", errs))
		return nil, schedErrorf(KindValidation, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid booking ID format %s", req.BookingID)
	}

	lockToken, err := uuid.Parse(req.LockToken)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid lock token format %s", req.LockToken)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, schedErrorf(KindBookingNotFound, "booking %s not found", req.BookingID)
	}

	// Gateways replay success callbacks; an already confirmed booking is
	// answered with its current state instead of an error.
	if booking.Status == entity.BookingStatusConfirmed {
		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	if booking.Status != entity.BookingStatusPendingPayment {
		return nil, schedErrorf(KindInvalidState,
			"booking %s is %s, cannot confirm payment", booking.BookingRef, booking.Status)
	}

	// A crash between the slot settling and the booking update leaves the
	// slot booked for this booking with the lock consumed. Detect that on
	// replay and finish the booking half instead of re-confirming the lock.
	slot, err := s.repo.Slot.FindByToken(ctx, booking.SessionID, booking.AppointmentDate, booking.TokenNumber)
	if err != nil {
		return nil, err
	}
	settled := slot != nil && slot.BookingID != nil && *slot.BookingID == booking.ID &&
		(slot.Status == entity.SlotStatusBooked || slot.Status == entity.SlotStatusConfirmed)

	if !settled {
		// The lock must still stand at confirmation time; an expired lock
		// means the slot may already belong to someone else.
		if err := s.locks.Confirm(ctx, lockToken, booking.ID, entity.SlotStatusBooked); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed); err != nil {
		s.log.Error("Slot confirmed but booking status update failed",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
		)
		return nil, err
	}

	booking.Status = entity.BookingStatusConfirmed

	s.log.Info("Payment confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_ref", booking.BookingRef),
		zap.Int("token_number", booking.TokenNumber),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ReleaseLock(ctx context.Context, req *request.ReleaseLockRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return schedErrorf(KindValidation, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	lockToken, err := uuid.Parse(req.LockToken)
	if err != nil {
		return schedErrorf(KindValidation, "invalid lock token format %s", req.LockToken)
	}

	if err := s.locks.Release(ctx, lockToken); err != nil {
		return err
	}

	// Void the pending booking too when the caller named one.
	if req.BookingID != "" {
		bookingID, err := uuid.Parse(req.BookingID)
		if err != nil {
			return schedErrorf(KindValidation, "invalid booking ID format %s", req.BookingID)
		}

		booking, err := s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking != nil && booking.Status == entity.BookingStatusPendingPayment {
			if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
				return err
			}
			s.log.Info("Pending booking voided with its lock",
				zap.String("booking_id", booking.ID.String()),
			)
		}
	}

	return nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, patientID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	patientUUID, err := uuid.Parse(patientID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid patient ID format %s", patientID)
	}

	bookings, err := s.repo.Booking.FindByPatientID(ctx, patientUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByPatientID(ctx, patientUUID)
	if err != nil {
		return nil, err
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		resp := response.BookingToResponse(booking)

		// Decorate with catalog names; missing catalog rows are tolerated.
		hospital, _ := s.repo.Hospital.FindByID(ctx, booking.HospitalID)
		if hospital != nil {
			resp.HospitalName = hospital.Name
		}
		session, _ := s.repo.Session.FindByID(ctx, booking.SessionID)
		if session != nil {
			doctor, _ := s.repo.Doctor.FindByID(ctx, session.DoctorID)
			if doctor != nil {
				resp.DoctorName = doctor.Name
			}
		}

		bookingResponses[i] = resp
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) ModifyBooking(ctx context.Context, patientID, bookingID string, req *request.ModifyBookingRequest) (*response.AllocationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Modify booking validation failed", zap.Any("errors", errs))
		return nil, schedErrorf(KindValidation, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findOwnedBooking(ctx, patientID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusConfirmed {
		return nil, schedErrorf(KindInvalidState,
			"booking %s is %s, only confirmed bookings can be modified", booking.BookingRef, booking.Status)
	}

	session, err := s.repo.Session.FindByID(ctx, booking.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, schedErrorf(KindSessionNotFound, "session %s not found", booking.SessionID.String())
	}

	newDay, err := utils.ParseDate(req.NewDate)
	if err != nil {
		return nil, schedErrorf(KindInvalidDate, "date %q is not YYYY-MM-DD", req.NewDate)
	}

	if newDay.Weekday() != session.DayOfWeek {
		return nil, schedErrorf(KindDayMismatch,
			"%s is a %s but this session runs on %s", req.NewDate, newDay.Weekday(), session.DayOfWeek)
	}

	sameDay := newDay.Equal(booking.AppointmentDate)

	// Re-picking the exact slot the booking already holds is a no-op. This
	// covers a direct token pick as well as a requested time that resolves
	// back to the booking's own token; without the shortcut the acquire
	// below would race the booking against its own settled slot and lose.
	bookingType := entity.BookingType(req.Type)
	if sameDay && modifyTargetToken(session, bookingType, req) == booking.TokenNumber {
		return &response.AllocationResponse{
			SessionID:     session.ID.String(),
			Date:          newDay.Format("2006-01-02"),
			TokenNumber:   booking.TokenNumber,
			EstimatedTime: booking.EstimatedTime,
			BookingType:   string(bookingType),
		}, nil
	}

	oldSlot, err := s.repo.Slot.FindByToken(ctx, booking.SessionID, booking.AppointmentDate, booking.TokenNumber)
	if err != nil {
		return nil, err
	}
	if oldSlot == nil {
		return nil, schedErrorf(KindInvalidState,
			"booking %s has no ledger slot to move", booking.BookingRef)
	}

	// Phase one: acquire the new slot. Failure here leaves the old slot
	// untouched so the patient keeps what they had.
	alloc, err := s.allocator.AllocateForModification(ctx, session, newDay, bookingType, req.RequestedTime, req.TokenNumber, booking.ID)
	if err != nil {
		return nil, err
	}

	newLockToken, err := uuid.Parse(alloc.LockToken)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid lock token format %s", alloc.LockToken)
	}

	// Privileged transition: the new slot inherits the old confirmation
	// state directly, the patient already paid.
	if err := s.locks.Confirm(ctx, newLockToken, booking.ID, oldSlot.Status); err != nil {
		return nil, err
	}

	// Phase two: only now release the old slot.
	if err := s.repo.Slot.ReleaseSlot(ctx, oldSlot.ID); err != nil {
		s.log.Error("New slot confirmed but old slot release failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("old_slot_id", oldSlot.ID.String()),
		)
		return nil, err
	}

	if err := s.repo.Booking.UpdateSchedule(ctx, booking.ID, newDay, alloc.TokenNumber, alloc.EstimatedTime, bookingType); err != nil {
		return nil, err
	}

	s.log.Info("Booking modified",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_ref", booking.BookingRef),
		zap.Int("old_token", booking.TokenNumber),
		zap.Int("new_token", alloc.TokenNumber),
		zap.String("new_date", alloc.Date),
	)

	alloc.LockToken = ""
	return alloc, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, patientID, bookingID string) error {
	booking, err := s.findOwnedBooking(ctx, patientID, bookingID)
	if err != nil {
		return err
	}

	if booking.Status != entity.BookingStatusPendingPayment && booking.Status != entity.BookingStatusConfirmed {
		return schedErrorf(KindInvalidState,
			"booking %s is %s, cannot cancel", booking.BookingRef, booking.Status)
	}

	slot, err := s.repo.Slot.FindByToken(ctx, booking.SessionID, booking.AppointmentDate, booking.TokenNumber)
	if err != nil {
		return err
	}

	if slot != nil {
		switch slot.Status {
		case entity.SlotStatusBooked, entity.SlotStatusConfirmed:
			if err := s.repo.Slot.ReleaseSlot(ctx, slot.ID); err != nil {
				return err
			}
		case entity.SlotStatusLocked:
			if slot.LockToken != nil {
				if err := s.locks.Release(ctx, *slot.LockToken); err != nil {
					return err
				}
			}
		}
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_ref", booking.BookingRef),
	)

	return nil
}

// ==================== DESK/ADMIN METHODS ====================

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, schedErrorf(KindBookingNotFound, "booking %s not found", bookingID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// GetSessionBookings lists a day's active queue for the consultation desk.
func (s *bookingService) GetSessionBookings(ctx context.Context, sessionID, date string) ([]response.BookingResponse, error) {
	session, day, err := resolveSessionDate(ctx, s.repo, sessionID, date)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindActiveBySessionDate(ctx, session.ID, day)
	if err != nil {
		return nil, err
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return bookingResponses, nil
}

// CompleteBooking is called by the consultation desk when the doctor
// finishes with a patient; it is what moves the live queue forward.
func (s *bookingService) CompleteBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return schedErrorf(KindValidation, "invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return schedErrorf(KindBookingNotFound, "booking %s not found", bookingID)
	}

	if booking.Status != entity.BookingStatusConfirmed {
		return schedErrorf(KindInvalidState,
			"booking %s is %s, cannot complete", booking.BookingRef, booking.Status)
	}

	if err := s.repo.Booking.MarkCompleted(ctx, booking.ID, time.Now()); err != nil {
		return err
	}

	s.log.Info("Booking completed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_ref", booking.BookingRef),
		zap.Int("token_number", booking.TokenNumber),
	)

	return nil
}

// ==================== HELPER METHODS ====================

// modifyTargetToken resolves the token a modification request points at, or
// 0 when the target cannot be known without touching the grid (type next,
// or a requested time the allocator will reject anyway).
func modifyTargetToken(session *entity.Session, bookingType entity.BookingType, req *request.ModifyBookingRequest) int {
	switch bookingType {
	case entity.BookingTypeToken, entity.BookingTypeGrid:
		return req.TokenNumber
	case entity.BookingTypeTime:
		startMinutes, err := utils.ParseClock(session.StartTime)
		if err != nil {
			return 0
		}
		endMinutes, err := utils.ParseClock(session.EndTime)
		if err != nil {
			return 0
		}
		requestedMinutes, err := utils.ParseClock(req.RequestedTime)
		if err != nil {
			return 0
		}
		if requestedMinutes < startMinutes || requestedMinutes >= endMinutes {
			return 0
		}
		return utils.TokenForMinutes(startMinutes, requestedMinutes, session.AvgMinutesPerPatient)
	default:
		return 0
	}
}

func (s *bookingService) findOwnedBooking(ctx context.Context, patientID, bookingID string) (*entity.Booking, error) {
	patientUUID, err := uuid.Parse(patientID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid patient ID format %s", patientID)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, schedErrorf(KindBookingNotFound, "booking %s not found", bookingID)
	}

	if booking.PatientID != patientUUID {
		return nil, schedErrorf(KindBookingNotFound, "booking %s not found", bookingID)
	}

	return booking, nil
}
