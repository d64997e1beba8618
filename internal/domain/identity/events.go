package identity

import (
	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeTenant = "Tenant"
	AggregateTypeUser   = "User"
)

// Event type constants
const (
	EventTypeTenantCreated = "TenantCreated"
	EventTypeUserCreated   = "UserCreated"
)

// TenantCreatedEvent is raised when a clinic is registered
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Code:            t.Code,
		Name:            t.Name,
	}
}

// EventType returns the event type name
func (e *TenantCreatedEvent) EventType() string {
	return EventTypeTenantCreated
}

// UserCreatedEvent is raised when a staff account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		UserID:          u.ID,
		Username:        u.Username,
		Role:            u.Role,
	}
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return EventTypeUserCreated
}
