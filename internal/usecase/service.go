package usecase

import (
	"time"

	"hospital-queue/internal/data/repository"
	"hospital-queue/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles every use case behind one constructor so wiring only
// has to thread a single dependency.
type Service struct {
	Catalog      CatalogService
	Availability AvailabilityService
	Allocation   AllocationService
	Queue        QueueService
	Booking      BookingService
	Locks        LockManager
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	ttl := time.Duration(config.Scheduling.LockTTLMinutes) * time.Minute
	locks := NewLockManager(repo.Slot, ttl, log)
	allocation := NewAllocationService(repo, locks, log)

	return &Service{
		Catalog:      NewCatalogService(repo, log),
		Availability: NewAvailabilityService(repo, log),
		Allocation:   allocation,
		Queue:        NewQueueService(repo, log),
		Booking:      NewBookingService(repo, locks, allocation, log),
		Locks:        locks,
	}
}
