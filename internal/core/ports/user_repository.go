package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// UpdateLastAccess stamps a successful authentication without touching
	// the rest of the record.
	UpdateLastAccess(ctx context.Context, id uint, at time.Time) error
	CountByRole(ctx context.Context, role string) (int64, error)
}
