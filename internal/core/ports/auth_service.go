package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// RegisterInput carries the data for the bootstrap administrator account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService implements authentication and session revocation.
type AuthService interface {
	// Register creates the first administrator. It fails with
	// ErrBootstrapClosed once any administrator exists.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// Logout places the token on the deny-list until it would have expired.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}
