package usecase

import (
	"context"
	"time"

	"hospital-queue/internal/data/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const reaperLeaseKey = "scheduler:lock-reaper"

// LockReaper periodically sweeps expired slot locks back to available.
// It is an optimization only: readers and allocations already treat an
// expired lock as free, the sweep just keeps the ledger tidy between
// requests. A redis lease ensures a single instance sweeps per interval
// when the service runs replicated.
type LockReaper struct {
	slots    repository.SlotRepository
	rdb      *redis.Client
	interval time.Duration
	lease    time.Duration
	log      *zap.Logger
}

func NewLockReaper(slots repository.SlotRepository, rdb *redis.Client, interval, lease time.Duration, log *zap.Logger) *LockReaper {
	return &LockReaper{
		slots:    slots,
		rdb:      rdb,
		interval: interval,
		lease:    lease,
		log:      log.With(zap.String("service", "lock_reaper")),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (r *LockReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("Lock reaper started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Lock reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *LockReaper) sweep(ctx context.Context) {
	if !r.acquireLease(ctx) {
		return
	}

	released, err := r.slots.ReleaseAllExpired(ctx, time.Now())
	if err != nil {
		r.log.Error("Lock sweep failed", zap.Error(err))
		return
	}

	if released > 0 {
		r.log.Info("Swept expired slot locks", zap.Int64("count", released))
	}
}

// acquireLease takes the per-interval leadership lease. Redis trouble
// skips the cycle instead of failing; lazy expiry covers for it.
func (r *LockReaper) acquireLease(ctx context.Context) bool {
	if r.rdb == nil {
		return true
	}

	ok, err := r.rdb.SetNX(ctx, reaperLeaseKey, "1", r.lease).Result()
	if err != nil {
		r.log.Warn("Reaper lease check failed, skipping sweep", zap.Error(err))
		return false
	}

	return ok
}
