package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aprodmayo/management-system/internal/api/metrics"
)

// TokenChecker reports whether a token id (jti claim) has been revoked.
type TokenChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the JWT, rejects revoked tokens and injects claims into
// context. Downstream handlers and middleware can read:
//   - user_id (uint), email (string), role (string)
//   - modules ([]string): the capability set baked into the token
//   - token_id (string), token_exp (time.Time): used by logout
func Auth(jwtSecret string, denyList TokenChecker, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			tokenID, _ := claims["jti"].(string)
			if tokenID != "" && denyList != nil {
				revoked, err := denyList.IsRevoked(c.Request().Context(), tokenID)
				if err != nil {
					log.Warn().Err(err).Msg("deny-list check failed, accepting token")
				} else if revoked {
					metrics.AuthFailuresTotal.WithLabelValues("token_revoked").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			userID, _ := claims["user_id"].(float64)
			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)

			modules := make([]string, 0, 4)
			if raw, ok := claims["modules"].([]interface{}); ok {
				for _, m := range raw {
					if name, ok := m.(string); ok {
						modules = append(modules, name)
					}
				}
			}

			var expiresAt time.Time
			if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
				expiresAt = exp.Time
			}

			c.Set("user_id", uint(userID))
			c.Set("email", email)
			c.Set("role", role)
			c.Set("modules", modules)
			c.Set("token_id", tokenID)
			c.Set("token_exp", expiresAt)

			return next(c)
		}
	}
}
