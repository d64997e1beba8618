// Package scheduler runs the periodic maintenance work behind the clinic
// workflows: expired reservation release and daily patient reminders.
package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/identity"
	"github.com/xear/backend/internal/domain/shared"
)

// TenantProvider lists the tenants the workers iterate over
type TenantProvider interface {
	GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// RepositoryTenantProvider backs TenantProvider with the tenant repository
type RepositoryTenantProvider struct {
	tenantRepo identity.TenantRepository
}

// NewRepositoryTenantProvider creates a repository-backed tenant provider
func NewRepositoryTenantProvider(tenantRepo identity.TenantRepository) *RepositoryTenantProvider {
	return &RepositoryTenantProvider{tenantRepo: tenantRepo}
}

// GetAllActiveTenantIDs returns the IDs of all active clinics
func (p *RepositoryTenantProvider) GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.Filters = map[string]interface{}{"status": string(identity.TenantStatusActive)}

	for {
		tenants, err := p.tenantRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, tenant := range tenants {
			ids = append(ids, tenant.ID)
		}
		if len(tenants) < filter.PageSize {
			break
		}
		filter.Page++
	}

	return ids, nil
}

var _ TenantProvider = (*RepositoryTenantProvider)(nil)
