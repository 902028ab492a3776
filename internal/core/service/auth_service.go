package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// TokenDenyList abstracts the revoked-token store (Redis).
type TokenDenyList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService implements login, logout and the bootstrap registration.
type AuthService struct {
	repo      ports.UserRepository
	denyList  TokenDenyList
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, denyList TokenDenyList, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, denyList: denyList, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates the first administrator account. Once any administrator
// exists the endpoint is closed; further accounts are created by an
// administrator through the user service.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
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
	if verr.HasFields() {
		return nil, verr
	}

	admins, err := s.repo.CountByRole(ctx, domain.RoleAdministrator)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if admins > 0 {
		return nil, domain.ErrBootstrapClosed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdministrator,
		Active:       true,
	}
	user.NormalizeCapabilities()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", created.Email).Msg("bootstrap administrator created")
	return created, nil
}

// Login verifies the credentials, stamps the last access and issues a token.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastAccess(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to stamp last access")
	}
	user.LastAccessAt = &now

	expiresAt := now.Add(s.tokenTTL)
	token, err := s.generateToken(user, expiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return domain.ErrInvalidCredentials
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}
	if err := s.denyList.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("token_id", tokenID).Msg("token revoked")
	return nil
}

func (s *AuthService) generateToken(user *domain.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"modules": user.Capabilities.Modules(),
		"jti":     newTokenID(),
		"exp":     expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// newTokenID returns a random identifier used as the JWT jti claim.
func newTokenID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("%X", b)
}
