package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/identity"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/scheduling"
	"github.com/xear/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MessageSender delivers reminder texts to patients. The production
// implementation talks to an SMS gateway; LogMessageSender is the
// development fallback.
type MessageSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// LogMessageSender writes reminders to the log instead of sending them
type LogMessageSender struct {
	Logger *zap.Logger
}

// SendSMS logs the reminder
func (s *LogMessageSender) SendSMS(ctx context.Context, phone, message string) error {
	s.Logger.Info("SMS reminder (log only)",
		zap.String("phone", phone),
		zap.String("message", message),
	)
	return nil
}

// ReminderConfig holds the daily reminder schedule
type ReminderConfig struct {
	// Hour and Minute set the local time the daily run fires
	Hour   int
	Minute int
	// CheckInterval is how often the loop checks the clock
	CheckInterval time.Duration
}

// DefaultReminderConfig returns the default reminder schedule
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Hour:          18,
		Minute:        0,
		CheckInterval: time.Minute,
	}
}

// DailyReminderWorker sends next-day appointment reminders and overdue
// payment notices for every clinic that has SMS reminders switched on.
type DailyReminderWorker struct {
	config          ReminderConfig
	tenantRepo      identity.TenantRepository
	appointmentRepo scheduling.AppointmentRepository
	patientRepo     patient.PatientRepository
	invoiceRepo     billing.InvoiceRepository
	sender          MessageSender
	logger          *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyReminderWorker creates a new daily reminder worker
func NewDailyReminderWorker(
	cfg ReminderConfig,
	tenantRepo identity.TenantRepository,
	appointmentRepo scheduling.AppointmentRepository,
	patientRepo patient.PatientRepository,
	invoiceRepo billing.InvoiceRepository,
	sender MessageSender,
	logger *zap.Logger,
) *DailyReminderWorker {
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = time.Minute
	}
	return &DailyReminderWorker{
		config:          cfg,
		tenantRepo:      tenantRepo,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		invoiceRepo:     invoiceRepo,
		sender:          sender,
		logger:          logger,
	}
}

// Start starts the worker loop
func (w *DailyReminderWorker) Start(ctx context.Context) error {
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

	w.logger.Info("Daily reminder worker started",
		zap.Int("hour", w.config.Hour),
		zap.Int("minute", w.config.Minute),
	)

	return nil
}

// Stop stops the worker gracefully
func (w *DailyReminderWorker) Stop(ctx context.Context) error {
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
		w.logger.Info("Daily reminder worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DailyReminderWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAndRun(ctx)
		}
	}
}

func (w *DailyReminderWorker) checkAndRun(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	w.mu.Lock()
	alreadyRan := w.lastRunDate == currentDate
	w.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != w.config.Hour || now.Minute() != w.config.Minute {
		return
	}

	w.mu.Lock()
	w.lastRunDate = currentDate
	w.mu.Unlock()

	w.RunOnce(ctx, now)
}

// RunOnce sends reminders for all eligible tenants. Exposed for manual
// triggering and tests; the loop calls it once per day.
func (w *DailyReminderWorker) RunOnce(ctx context.Context, now time.Time) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.Filters = map[string]interface{}{"status": string(identity.TenantStatusActive)}

	tenants, err := w.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		w.logger.Error("Failed to list tenants for reminders", zap.Error(err))
		return
	}

	for _, tenant := range tenants {
		if !tenant.Settings.SMSRemindersOn {
			continue
		}
		w.remindAppointments(ctx, tenant, now)
		w.remindOverdueInvoices(ctx, tenant)
	}
}

// remindAppointments texts every patient with a scheduled or confirmed
// visit tomorrow
func (w *DailyReminderWorker) remindAppointments(ctx context.Context, tenant *identity.Tenant, now time.Time) {
	from := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "start_at"
	filter.OrderDir = "asc"
	filter.Filters = map[string]interface{}{"from": from, "to": to}

	appointments, err := w.appointmentRepo.FindAllForTenant(ctx, tenant.ID, filter)
	if err != nil {
		w.logger.Error("Failed to list appointments for reminders",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err),
		)
		return
	}

	sent := 0
	for _, appt := range appointments {
		if appt.Status != scheduling.AppointmentStatusScheduled && appt.Status != scheduling.AppointmentStatusConfirmed {
			continue
		}

		p, err := w.patientRepo.FindByIDForTenant(ctx, tenant.ID, appt.PatientID)
		if err != nil || p.Phone == "" {
			continue
		}

		message := fmt.Sprintf("Sayın %s, %s tarihinde saat %s için %s randevunuz bulunmaktadır. %s",
			p.FullName(),
			appt.Slot.Start.Format("02.01.2006"),
			appt.Slot.Start.Format("15:04"),
			appointmentTypeLabel(appt.Type),
			tenant.Name,
		)
		if err := w.sender.SendSMS(ctx, p.Phone, message); err != nil {
			w.logger.Warn("Appointment reminder failed",
				zap.String("patient_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	if sent > 0 {
		w.logger.Info("Appointment reminders sent",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Int("count", sent),
		)
	}
}

// remindOverdueInvoices texts patients whose invoices are past due
func (w *DailyReminderWorker) remindOverdueInvoices(ctx context.Context, tenant *identity.Tenant) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500

	invoices, err := w.invoiceRepo.FindOverdue(ctx, tenant.ID, filter)
	if err != nil {
		w.logger.Error("Failed to list overdue invoices for reminders",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err),
		)
		return
	}

	sent := 0
	for _, inv := range invoices {
		p, err := w.patientRepo.FindByIDForTenant(ctx, tenant.ID, inv.PatientID)
		if err != nil || p.Phone == "" {
			continue
		}

		message := fmt.Sprintf("Sayın %s, %s numaralı faturanızın %s tutarındaki ödemesi gecikmiştir. %s",
			p.FullName(),
			inv.InvoiceNumber,
			inv.Outstanding().StringFixed(2)+" TL",
			tenant.Name,
		)
		if err := w.sender.SendSMS(ctx, p.Phone, message); err != nil {
			w.logger.Warn("Payment reminder failed",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	if sent > 0 {
		w.logger.Info("Payment reminders sent",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Int("count", sent),
		)
	}
}

func appointmentTypeLabel(t scheduling.AppointmentType) string {
	switch t {
	case scheduling.AppointmentTypeFitting:
		return "cihaz uygulama"
	case scheduling.AppointmentTypeTrial:
		return "deneme takip"
	case scheduling.AppointmentTypeControl:
		return "kontrol"
	case scheduling.AppointmentTypeRepair:
		return "tamir teslim"
	default:
		return "işitme değerlendirme"
	}
}
