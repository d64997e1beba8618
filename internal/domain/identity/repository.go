package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// TenantRepository is the persistence interface for tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// UserRepository is the persistence interface for users.
// Usernames are unique within a tenant.
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*User, error)
	FindByRole(ctx context.Context, tenantID uuid.UUID, role Role) ([]*User, error)
	Save(ctx context.Context, user *User) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
