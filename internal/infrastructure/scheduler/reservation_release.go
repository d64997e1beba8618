package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/inventory"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReservationReleaseWorker returns reserved stock units to the shelf when
// the quote that held them never closed. A reservation is considered
// expired when the unit has not been touched for the configured duration.
type ReservationReleaseWorker struct {
	config         config.ReservationConfig
	tenantProvider TenantProvider
	stockRepo      inventory.StockUnitRepository
	logger         *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReservationReleaseWorker creates a new reservation release worker
func NewReservationReleaseWorker(
	cfg config.ReservationConfig,
	tenantProvider TenantProvider,
	stockRepo inventory.StockUnitRepository,
	logger *zap.Logger,
) *ReservationReleaseWorker {
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = 15 * time.Minute
	}
	if cfg.DefaultExpiration == 0 {
		cfg.DefaultExpiration = 72 * time.Hour
	}
	return &ReservationReleaseWorker{
		config:         cfg,
		tenantProvider: tenantProvider,
		stockRepo:      stockRepo,
		logger:         logger,
	}
}

// Start starts the worker loop
func (w *ReservationReleaseWorker) Start(ctx context.Context) error {
	if !w.config.AutoReleaseEnabled {
		w.logger.Info("Reservation auto-release disabled")
		return nil
	}

	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = true
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.runLoop(ctx)

	w.logger.Info("Reservation release worker started",
		zap.Duration("check_interval", w.config.CheckInterval),
		zap.Duration("expiration", w.config.DefaultExpiration),
	)

	return nil
}

// Stop stops the worker gracefully
func (w *ReservationReleaseWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Reservation release worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *ReservationReleaseWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.releaseExpired(ctx)
		}
	}
}

// releaseExpired sweeps all tenants for reservations past their expiration
func (w *ReservationReleaseWorker) releaseExpired(ctx context.Context) {
	tenantIDs, err := w.tenantProvider.GetAllActiveTenantIDs(ctx)
	if err != nil {
		w.logger.Error("Failed to list tenants for reservation sweep", zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-w.config.DefaultExpiration)
	total := 0

	for _, tenantID := range tenantIDs {
		released, err := w.releaseExpiredForTenant(ctx, tenantID, cutoff)
		if err != nil {
			w.logger.Error("Reservation sweep failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		total += released
	}

	if total > 0 {
		w.logger.Info("Released expired reservations", zap.Int("count", total))
	}
}

// ReleaseExpiredForTenant sweeps a single tenant now. Exposed so an admin
// endpoint can trigger the sweep outside the schedule.
func (w *ReservationReleaseWorker) ReleaseExpiredForTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return w.releaseExpiredForTenant(ctx, tenantID, time.Now().Add(-w.config.DefaultExpiration))
}

func (w *ReservationReleaseWorker) releaseExpiredForTenant(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.Filters = map[string]interface{}{"status": string(inventory.StockStatusReserved)}

	units, err := w.stockRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, unit := range units {
		// UpdatedAt was touched when the reservation was placed
		if !unit.UpdatedAt.Before(cutoff) {
			continue
		}

		quoteID := ""
		if unit.ReservedForQuoteID != nil {
			quoteID = unit.ReservedForQuoteID.String()
		}

		if err := unit.ReleaseReservation(); err != nil {
			w.logger.Warn("Could not release stock unit",
				zap.String("serial_number", unit.SerialNumber),
				zap.Error(err),
			)
			continue
		}
		if err := w.stockRepo.Save(ctx, unit); err != nil {
			w.logger.Warn("Could not persist released stock unit",
				zap.String("serial_number", unit.SerialNumber),
				zap.Error(err),
			)
			continue
		}

		w.logger.Debug("Released expired reservation",
			zap.String("tenant_id", tenantID.String()),
			zap.String("serial_number", unit.SerialNumber),
			zap.String("quote_id", quoteID),
		)
		released++
	}

	return released, nil
}
