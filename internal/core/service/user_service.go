package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// UserService implements administrator-gated account management.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Create adds a new account. Staff accounts without explicit capabilities get
// the beneficiary-intake default; administrators always hold every capability.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.FullName) == "" {
		verr.Add("full_name", "full name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		verr.Add("email", "email is required")
	}
	if len(input.Password) < 8 {
		verr.Add("password", "password must be at least 8 characters")
	}
	if input.Role != domain.RoleAdministrator && input.Role != domain.RoleStaff {
		verr.Add("role", "role must be administrator or staff")
	}
	if verr.HasFields() {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
	}
	if input.Capabilities != nil {
		user.Capabilities = *input.Capabilities
	} else if input.Role == domain.RoleStaff {
		user.Capabilities = domain.DefaultStaffCapabilities()
	}
	user.NormalizeCapabilities()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Uint("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. Changing the role re-normalizes the
// capability flags so demoted administrators keep only what the patch grants.
func (s *UserService) Update(ctx context.Context, id uint, patch ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, domain.NewValidationError("full_name", "full name cannot be empty")
		}
		user.FullName = name
	}
	if patch.Role != nil {
		if *patch.Role != domain.RoleAdministrator && *patch.Role != domain.RoleStaff {
			return nil, domain.NewValidationError("role", "role must be administrator or staff")
		}
		user.Role = *patch.Role
	}
	if patch.Capabilities != nil {
		user.Capabilities = *patch.Capabilities
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	user.NormalizeCapabilities()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user updated")
	return user, nil
}

// Deactivate disables the account. Records are never deleted so that ledger
// entries and intake records keep a valid author reference.
func (s *UserService) Deactivate(ctx context.Context, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.Active {
		return nil
	}
	user.Active = false
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info().Uint("user_id", id).Msg("user deactivated")
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return domain.NewValidationError("new_password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info().Uint("user_id", id).Msg("password changed")
	return nil
}
