package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/pkg/jwt"
)

// Locals keys set by the auth middleware for downstream handlers.
const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
)

// AuthMiddleware guards protected routes: it accepts only a valid,
// unexpired access token and rejects refresh tokens outright.
type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, authErr := m.authorize(c.Get("Authorization"))
		if authErr != nil {
			return authErr
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)

		return c.Next()
	}
}

func (m *AuthMiddleware) authorize(authHeader string) (jwt.Claims, *AppError) {
	token, ok := bearerTokenFromHeader(authHeader)
	if !ok {
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	claims, err := m.jwt.ValidateToken(token)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
	case err != nil:
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	case claims.TokenType != jwt.TokenTypeAccess, m.jwt.IsRefreshToken(claims):
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
	}

	return claims, nil
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
