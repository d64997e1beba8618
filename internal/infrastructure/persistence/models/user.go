package models

import (
	"time"

	"github.com/xear/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	TenantAggregateModel
	Username          string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Email             string              `gorm:"type:varchar(200);index"`
	DisplayName       string              `gorm:"type:varchar(200)"`
	PasswordHash      string              `gorm:"type:varchar(200);not null"`
	Role              identity.Role       `gorm:"type:varchar(20);not null"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"type:varchar(50)"`
	FailedAttempts    int    `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		Username:            m.Username,
		Email:               m.Email,
		DisplayName:         m.DisplayName,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Status:              m.Status,
		LastLoginAt:         m.LastLoginAt,
		LastLoginIP:         m.LastLoginIP,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
		PasswordChangedAt:   m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
