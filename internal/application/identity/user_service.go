package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/identity"
	"github.com/xear/backend/internal/domain/shared"
)

// UserService manages staff accounts within a clinic
type UserService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds an active staff account. Usernames are unique per clinic.
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	existing, err := s.userRepo.FindByUsername(ctx, tenantID, req.Username)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("USERNAME_IN_USE", "A staff account with this username already exists")
	}

	user, err := identity.NewActiveUser(tenantID, req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user)
	response := ToUserResponse(user)
	return &response, nil
}

// GetByID returns a staff account by ID
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List returns staff accounts matching the filter
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*UserListResponse, error) {
	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u))
	}
	return &UserListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.PageSize,
	}, nil
}

// ListClinicians returns the staff who take appointments
func (s *UserService) ListClinicians(ctx context.Context, tenantID uuid.UUID) ([]UserResponse, error) {
	users, err := s.userRepo.FindByRole(ctx, tenantID, identity.RoleAudiologist)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u))
	}
	return items, nil
}

// Update patches profile fields
func (s *UserService) Update(ctx context.Context, tenantID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error {
		if req.Email != nil {
			if err := u.SetEmail(*req.Email); err != nil {
				return err
			}
		}
		if req.DisplayName != nil {
			if err := u.SetDisplayName(*req.DisplayName); err != nil {
				return err
			}
		}
		return nil
	})
}

// ChangeRole reassigns a staff member's function
func (s *UserService) ChangeRole(ctx context.Context, tenantID, userID uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error {
		return u.ChangeRole(identity.Role(req.Role))
	})
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, tenantID, userID uuid.UUID, req ResetPasswordRequest) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error {
		return u.SetPassword(req.NewPassword)
	})
}

// Activate enables a pending or deactivated account
func (s *UserService) Activate(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error {
		return u.Activate()
	})
}

// Deactivate disables an account; it can no longer log in
func (s *UserService) Deactivate(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error {
		return u.Deactivate()
	})
}

// Unlock clears a login-failure lock before it expires
func (s *UserService) Unlock(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error {
		return u.Unlock()
	})
}

func (s *UserService) mutate(ctx context.Context, tenantID, userID uuid.UUID, fn func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)
	response := ToUserResponse(user)
	return &response, nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	// event delivery is best effort; handlers are async
	for _, event := range user.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	user.ClearDomainEvents()
}
