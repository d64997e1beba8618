package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/identity"
)

// LoginRequest carries the credentials for a staff login. The tenant code
// identifies the clinic because usernames are only unique per clinic.
type LoginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	ClientIP   string `json:"-"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest carries the tokens to revoke
type LogoutRequest struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshTokenResponse is returned on successful token refresh
type RefreshTokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// CreateUserRequest creates a staff account in the caller's clinic
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=admin audiologist receptionist accountant"`
	Email       string `json:"email" binding:"omitempty,email"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
}

// UpdateUserRequest patches profile fields; nil fields are left unchanged
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
}

// ChangeRoleRequest reassigns a staff member's function
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin audiologist receptionist accountant"`
}

// ResetPasswordRequest is an admin password reset, no old password needed
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserResponse is the API representation of a staff account
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	DisplayName    string     `json:"display_name"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	FailedAttempts int        `json:"failed_attempts,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// UserListResponse is a paginated list of staff accounts
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ToUserResponse converts a user aggregate to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		TenantID:       u.TenantID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.GetDisplayNameOrUsername(),
		Role:           string(u.Role),
		Status:         string(u.Status),
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		Version:        u.Version,
	}
}

// RegisterTenantRequest onboards a clinic together with its admin account
type RegisterTenantRequest struct {
	Code          string `json:"code" binding:"required,min=2,max=50"`
	Name          string `json:"name" binding:"required,max=200"`
	TrialDays     int    `json:"trial_days" binding:"omitempty,min=1,max=365"`
	AdminUsername string `json:"admin_username" binding:"required,min=3,max=100"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// SetTaxInfoRequest records the clinic's tax registration (VKN)
type SetTaxInfoRequest struct {
	TaxNumber string `json:"tax_number" binding:"required,len=10,numeric"`
	TaxOffice string `json:"tax_office" binding:"required,max=100"`
}

// SetSGKFacilityRequest records the SGK contracted facility code
type SetSGKFacilityRequest struct {
	Code string `json:"code" binding:"required,max=50"`
}

// SetTenantContactRequest updates clinic contact details
type SetTenantContactRequest struct {
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"omitempty"`
}

// UpdateTenantSettingsRequest replaces the configurable clinic settings
type UpdateTenantSettingsRequest struct {
	DefaultVATRate   string `json:"default_vat_rate" binding:"required"`
	InvoicePrefix    string `json:"invoice_prefix" binding:"required,max=10"`
	AppointmentSlot  int    `json:"appointment_slot" binding:"required,min=5,max=240"`
	TrialPeriodDays  int    `json:"trial_period_days" binding:"required,min=1,max=365"`
	Timezone         string `json:"timezone" binding:"required"`
	SMSRemindersOn   bool   `json:"sms_reminders_on"`
	GIBIntegrationOn bool   `json:"gib_integration_on"`
}

// TenantResponse is the API representation of a clinic
type TenantResponse struct {
	ID           uuid.UUID               `json:"id"`
	Code         string                  `json:"code"`
	Name         string                  `json:"name"`
	TaxNumber    string                  `json:"tax_number,omitempty"`
	TaxOffice    string                  `json:"tax_office,omitempty"`
	SGKFacility  string                  `json:"sgk_facility,omitempty"`
	ContactPhone string                  `json:"contact_phone,omitempty"`
	ContactEmail string                  `json:"contact_email,omitempty"`
	Address      string                  `json:"address,omitempty"`
	Status       string                  `json:"status"`
	TrialEndsAt  *time.Time              `json:"trial_ends_at,omitempty"`
	Settings     identity.TenantSettings `json:"settings"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
	Version      int                     `json:"version"`
}

// TenantListResponse is a paginated list of clinics
type TenantListResponse struct {
	Items []TenantResponse `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ToTenantResponse converts a tenant aggregate to its API representation
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		TaxNumber:    t.TaxNumber,
		TaxOffice:    t.TaxOffice,
		SGKFacility:  t.SGKFacility,
		ContactPhone: t.ContactPhone,
		ContactEmail: t.ContactEmail,
		Address:      t.Address,
		Status:       string(t.Status),
		TrialEndsAt:  t.TrialEndsAt,
		Settings:     t.Settings,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Version:      t.Version,
	}
}
