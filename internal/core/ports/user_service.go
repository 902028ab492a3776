package ports

import (
	"context"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// CreateUserInput carries the data for a new account created by an administrator.
type CreateUserInput struct {
	FullName     string
	Email        string
	Password     string
	Role         string
	Capabilities *domain.Capabilities // nil = role defaults
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	FullName     *string
	Role         *string
	Capabilities *domain.Capabilities
	Active       *bool
}

// UserService defines administrator-gated account management.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id uint, patch UpdateUserInput) (*domain.User, error)
	// Deactivate soft-disables the account; users are never deleted.
	Deactivate(ctx context.Context, id uint) error
	// ChangePassword verifies the current password before setting a new one.
	ChangePassword(ctx context.Context, id uint, current, newPassword string) error
}
