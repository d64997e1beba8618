package identity

import (
	"strings"
	"time"

	"github.com/xear/backend/internal/domain/shared"
)

// TenantStatus represents the status of a clinic tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended" // payment or compliance hold
	TenantStatusTrial     TenantStatus = "trial"
)

// TenantSettings holds configurable per-clinic settings
type TenantSettings struct {
	DefaultVATRate   string `json:"default_vat_rate"`  // decimal fraction, e.g. "0.08"
	InvoicePrefix    string `json:"invoice_prefix"`    // invoice number prefix
	AppointmentSlot  int    `json:"appointment_slot"`  // default slot length in minutes
	TrialPeriodDays  int    `json:"trial_period_days"` // device trial window
	Timezone         string `json:"timezone"`
	SMSRemindersOn   bool   `json:"sms_reminders_on"`
	GIBIntegrationOn bool   `json:"gib_integration_on"` // e-fatura submission enabled
}

// DefaultTenantSettings returns the settings a new clinic starts with
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		DefaultVATRate:  "0.08",
		InvoicePrefix:   "XE",
		AppointmentSlot: 45,
		TrialPeriodDays: 30,
		Timezone:        "Europe/Istanbul",
	}
}

// Tenant represents one hearing clinic (or clinic chain branch) in the
// multi-tenant system. It is the aggregate root for tenant operations.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	TaxNumber    string       `gorm:"type:varchar(10)"` // VKN
	TaxOffice    string       `gorm:"type:varchar(100)"`
	SGKFacility  string       `gorm:"type:varchar(50)"` // SGK contracted facility code
	ContactPhone string       `gorm:"type:varchar(50)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	Address      string       `gorm:"type:text"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	TrialEndsAt  *time.Time
	Settings     TenantSettings `gorm:"embedded;embeddedPrefix:settings_"`
	Notes        string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant registers a clinic
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Clinic name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Clinic name cannot exceed 200 characters")
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              name,
		Status:            TenantStatusActive,
		Settings:          DefaultTenantSettings(),
	}
	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))
	return tenant, nil
}

// NewTrialTenant registers a clinic in trial status
func NewTrialTenant(code, name string, trialDays int) (*Tenant, error) {
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL_DAYS", "Trial days must be positive")
	}
	tenant, err := NewTenant(code, name)
	if err != nil {
		return nil, err
	}
	tenant.Status = TenantStatusTrial
	trialEnds := time.Now().AddDate(0, 0, trialDays)
	tenant.TrialEndsAt = &trialEnds
	return tenant, nil
}

// SetTaxInfo records the clinic's tax registration
func (t *Tenant) SetTaxInfo(taxNumber, taxOffice string) error {
	if taxNumber != "" {
		if len(taxNumber) != 10 {
			return shared.NewDomainError("INVALID_TAX_NUMBER", "VKN must be 10 digits")
		}
		for _, r := range taxNumber {
			if r < '0' || r > '9' {
				return shared.NewDomainError("INVALID_TAX_NUMBER", "VKN must contain only digits")
			}
		}
	}
	t.TaxNumber = taxNumber
	t.TaxOffice = taxOffice
	t.Touch()
	return nil
}

// SetSGKFacility records the SGK contracted facility code
func (t *Tenant) SetSGKFacility(code string) {
	t.SGKFacility = code
	t.Touch()
}

// SetContact updates contact details
func (t *Tenant) SetContact(phone, email, address string) {
	t.ContactPhone = phone
	t.ContactEmail = email
	t.Address = address
	t.Touch()
}

// UpdateSettings replaces the clinic settings
func (t *Tenant) UpdateSettings(settings TenantSettings) error {
	if settings.AppointmentSlot < 0 || settings.TrialPeriodDays < 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Settings values cannot be negative")
	}
	t.Settings = settings
	t.Touch()
	return nil
}

// Suspend puts the clinic on hold; users can no longer log in
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.Touch()
	return nil
}

// Activate lifts a suspension or converts a trial
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.TrialEndsAt = nil
	t.Touch()
	return nil
}

// IsOperational reports whether the clinic can use the system
func (t *Tenant) IsOperational(now time.Time) bool {
	switch t.Status {
	case TenantStatusActive:
		return true
	case TenantStatusTrial:
		return t.TrialEndsAt == nil || now.Before(*t.TrialEndsAt)
	}
	return false
}

func validateTenantCode(code string) error {
	code = strings.TrimSpace(code)
	if len(code) < 2 || len(code) > 50 {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must be 2-50 characters")
	}
	for _, r := range code {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code can only contain letters, numbers, hyphens and underscores")
		}
	}
	return nil
}
