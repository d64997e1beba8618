package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/identity"
	"github.com/xear/backend/internal/domain/shared"
)

// TenantService manages clinic registration and settings
type TenantService struct {
	tenantRepo     identity.TenantRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo identity.TenantRepository, userRepo identity.UserRepository) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *TenantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register onboards a clinic together with its first admin account.
// A positive TrialDays puts the clinic in trial status.
func (s *TenantService) Register(ctx context.Context, req RegisterTenantRequest) (*TenantResponse, error) {
	existing, err := s.tenantRepo.FindByCode(ctx, req.Code)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("TENANT_CODE_IN_USE", "A clinic with this code is already registered")
	}

	var tenant *identity.Tenant
	if req.TrialDays > 0 {
		tenant, err = identity.NewTrialTenant(req.Code, req.Name, req.TrialDays)
	} else {
		tenant, err = identity.NewTenant(req.Code, req.Name)
	}
	if err != nil {
		return nil, err
	}

	admin, err := identity.NewActiveUser(tenant.ID, req.AdminUsername, req.AdminPassword, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenant)
	s.publishUserEvents(ctx, admin)

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// GetByID returns a clinic by ID
func (s *TenantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// GetByCode returns a clinic by its code
func (s *TenantService) GetByCode(ctx context.Context, code string) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// List returns clinics matching the filter
func (s *TenantService) List(ctx context.Context, filter shared.Filter) (*TenantListResponse, error) {
	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		items = append(items, ToTenantResponse(t))
	}
	return &TenantListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.PageSize,
	}, nil
}

// SetTaxInfo records the clinic's tax registration
func (s *TenantService) SetTaxInfo(ctx context.Context, tenantID uuid.UUID, req SetTaxInfoRequest) (*TenantResponse, error) {
	return s.mutate(ctx, tenantID, func(t *identity.Tenant) error {
		return t.SetTaxInfo(req.TaxNumber, req.TaxOffice)
	})
}

// SetSGKFacility records the SGK contracted facility code
func (s *TenantService) SetSGKFacility(ctx context.Context, tenantID uuid.UUID, req SetSGKFacilityRequest) (*TenantResponse, error) {
	return s.mutate(ctx, tenantID, func(t *identity.Tenant) error {
		t.SetSGKFacility(req.Code)
		return nil
	})
}

// SetContact updates clinic contact details
func (s *TenantService) SetContact(ctx context.Context, tenantID uuid.UUID, req SetTenantContactRequest) (*TenantResponse, error) {
	return s.mutate(ctx, tenantID, func(t *identity.Tenant) error {
		t.SetContact(req.Phone, req.Email, req.Address)
		return nil
	})
}

// UpdateSettings replaces the clinic settings
func (s *TenantService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, req UpdateTenantSettingsRequest) (*TenantResponse, error) {
	return s.mutate(ctx, tenantID, func(t *identity.Tenant) error {
		return t.UpdateSettings(identity.TenantSettings{
			DefaultVATRate:   req.DefaultVATRate,
			InvoicePrefix:    req.InvoicePrefix,
			AppointmentSlot:  req.AppointmentSlot,
			TrialPeriodDays:  req.TrialPeriodDays,
			Timezone:         req.Timezone,
			SMSRemindersOn:   req.SMSRemindersOn,
			GIBIntegrationOn: req.GIBIntegrationOn,
		})
	})
}

// Suspend puts the clinic on hold
func (s *TenantService) Suspend(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	return s.mutate(ctx, tenantID, func(t *identity.Tenant) error {
		return t.Suspend()
	})
}

// Activate lifts a suspension or converts a trial to a paid clinic
func (s *TenantService) Activate(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	return s.mutate(ctx, tenantID, func(t *identity.Tenant) error {
		return t.Activate()
	})
}

func (s *TenantService) mutate(ctx context.Context, tenantID uuid.UUID, fn func(*identity.Tenant) error) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := fn(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tenant)
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

func (s *TenantService) publishEvents(ctx context.Context, tenant *identity.Tenant) {
	if s.eventPublisher == nil {
		return
	}
	// event delivery is best effort; handlers are async
	for _, event := range tenant.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	tenant.ClearDomainEvents()
}

func (s *TenantService) publishUserEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	user.ClearDomainEvents()
}
