package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/identity"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/scheduling"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// MockTenantRepository is a mock implementation of TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Tenant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByClinicianInRange(ctx context.Context, tenantID, clinicianID uuid.UUID, from, to time.Time) ([]*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, clinicianID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPatientRepository is a mock implementation of PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByTCKN(ctx context.Context, tenantID uuid.UUID, tckn string) (*patient.Patient, error) {
	args := m.Called(ctx, tenantID, tckn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*patient.Patient, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) ([]*patient.Patient, error) {
	args := m.Called(ctx, tenantID, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPatientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type capturingSender struct {
	messages []string
	phones   []string
}

func (s *capturingSender) SendSMS(ctx context.Context, phone, message string) error {
	s.phones = append(s.phones, phone)
	s.messages = append(s.messages, message)
	return nil
}

func reminderTenant(t *testing.T, smsOn bool) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("IZMIR01", "Ege İşitme Merkezi")
	require.NoError(t, err)
	tenant.Settings.SMSRemindersOn = smsOn
	return tenant
}

func reminderPatient(t *testing.T, tenantID uuid.UUID) *patient.Patient {
	t.Helper()
	p, err := patient.NewPatient(tenantID, "10000000146", "Ayşe", "Kaya",
		time.Date(1960, 5, 12, 0, 0, 0, 0, time.UTC), "05551234567")
	require.NoError(t, err)
	return p
}

func tomorrowAppointment(t *testing.T, tenantID, patientID uuid.UUID) *scheduling.Appointment {
	t.Helper()
	start := time.Now().Truncate(24 * time.Hour).Add(24*time.Hour + 10*time.Hour)
	slot, err := scheduling.NewSlot(start, start.Add(45*time.Minute))
	require.NoError(t, err)
	appt, err := scheduling.NewAppointment(tenantID, patientID, uuid.New(), scheduling.AppointmentTypeControl, slot)
	require.NoError(t, err)
	return appt
}

func overdueInvoice(t *testing.T, tenantID, patientID uuid.UUID) *billing.Invoice {
	t.Helper()
	lines := []billing.InvoiceLine{{
		Description: "Pil paketi",
		Quantity:    1,
		UnitPrice:   valueobject.NewMoneyTRYFromFloat(500),
		NetTotal:    valueobject.NewMoneyTRYFromFloat(500),
	}}
	totals := billing.InvoiceTotals{
		Subtotal:       valueobject.NewMoneyTRYFromFloat(500),
		DiscountTotal:  valueobject.ZeroTRY(),
		TaxAmount:      valueobject.NewMoneyTRYFromFloat(40),
		GrandTotal:     valueobject.NewMoneyTRYFromFloat(540),
		InsurerPayment: valueobject.ZeroTRY(),
		PatientPayment: valueobject.NewMoneyTRYFromFloat(540),
	}
	inv, err := billing.NewInvoice(tenantID, "XE-2026-00007", uuid.New(), patientID,
		"Ayşe Kaya", "10000000146", lines, totals, time.Now().AddDate(0, -2, 0))
	require.NoError(t, err)
	return inv
}

func newReminderWorker(tenantRepo *MockTenantRepository, apptRepo *MockAppointmentRepository, patientRepo *MockPatientRepository, invoiceRepo *MockInvoiceRepository, sender MessageSender) *DailyReminderWorker {
	return NewDailyReminderWorker(
		DefaultReminderConfig(),
		tenantRepo,
		apptRepo,
		patientRepo,
		invoiceRepo,
		sender,
		zap.NewNop(),
	)
}

func TestDailyReminderWorker_SendsAppointmentAndPaymentReminders(t *testing.T) {
	tenant := reminderTenant(t, true)
	p := reminderPatient(t, tenant.ID)
	appt := tomorrowAppointment(t, tenant.ID, p.ID)
	inv := overdueInvoice(t, tenant.ID, p.ID)

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]*identity.Tenant{tenant}, nil).Once()

	apptRepo := new(MockAppointmentRepository)
	apptRepo.On("FindAllForTenant", mock.Anything, tenant.ID, mock.Anything).
		Return([]*scheduling.Appointment{appt}, nil).Once()

	patientRepo := new(MockPatientRepository)
	patientRepo.On("FindByIDForTenant", mock.Anything, tenant.ID, p.ID).
		Return(p, nil).Twice()

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindOverdue", mock.Anything, tenant.ID, mock.Anything).
		Return([]*billing.Invoice{inv}, nil).Once()

	sender := &capturingSender{}
	worker := newReminderWorker(tenantRepo, apptRepo, patientRepo, invoiceRepo, sender)

	worker.RunOnce(context.Background(), time.Now())

	require.Len(t, sender.messages, 2)
	assert.Contains(t, sender.messages[0], "randevunuz")
	assert.Contains(t, sender.messages[0], "Ayşe Kaya")
	assert.Contains(t, sender.messages[0], "Ege İşitme Merkezi")
	assert.Contains(t, sender.messages[1], "XE-2026-00007")
	assert.Contains(t, sender.messages[1], "540.00 TL")
	assert.Equal(t, []string{"5551234567", "5551234567"}, sender.phones)

	tenantRepo.AssertExpectations(t)
	apptRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestDailyReminderWorker_SkipsTenantsWithRemindersOff(t *testing.T) {
	tenant := reminderTenant(t, false)

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]*identity.Tenant{tenant}, nil).Once()

	apptRepo := new(MockAppointmentRepository)
	invoiceRepo := new(MockInvoiceRepository)
	sender := &capturingSender{}

	worker := newReminderWorker(tenantRepo, apptRepo, new(MockPatientRepository), invoiceRepo, sender)
	worker.RunOnce(context.Background(), time.Now())

	assert.Empty(t, sender.messages)
	apptRepo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
	invoiceRepo.AssertNotCalled(t, "FindOverdue", mock.Anything, mock.Anything, mock.Anything)
}

func TestDailyReminderWorker_SkipsCancelledAppointments(t *testing.T) {
	tenant := reminderTenant(t, true)
	p := reminderPatient(t, tenant.ID)
	appt := tomorrowAppointment(t, tenant.ID, p.ID)
	require.NoError(t, appt.Cancel("patient request"))

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]*identity.Tenant{tenant}, nil).Once()

	apptRepo := new(MockAppointmentRepository)
	apptRepo.On("FindAllForTenant", mock.Anything, tenant.ID, mock.Anything).
		Return([]*scheduling.Appointment{appt}, nil).Once()

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindOverdue", mock.Anything, tenant.ID, mock.Anything).
		Return([]*billing.Invoice{}, nil).Once()

	sender := &capturingSender{}
	worker := newReminderWorker(tenantRepo, apptRepo, new(MockPatientRepository), invoiceRepo, sender)
	worker.RunOnce(context.Background(), time.Now())

	assert.Empty(t, sender.messages)
}

func TestDailyReminderWorker_StartStop(t *testing.T) {
	worker := newReminderWorker(new(MockTenantRepository), new(MockAppointmentRepository),
		new(MockPatientRepository), new(MockInvoiceRepository), &capturingSender{})

	ctx := context.Background()
	require.NoError(t, worker.Start(ctx))
	require.NoError(t, worker.Stop(ctx))
}
