package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"zlecenia/internal/pkg/jwt"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware rejects requests without a valid access token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "sesja wygasła", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "", nil, err)
		}
		if claims.TokenType != jwt.TokenTypeAccess {
			return NewAppError(fiber.StatusUnauthorized, "", nil, nil)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

// Optional resolves the token when present but lets anonymous requests
// through; bookmark routes serve both guests and users.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		if token, ok := bearerTokenFromHeader(c.Get("Authorization")); ok {
			claims, err := m.jwt.ValidateToken(token)
			if err == nil && claims.TokenType == jwt.TokenTypeAccess {
				c.Locals(CtxUserIDKey, claims.UserID)
				c.Locals(CtxEmailKey, claims.Email)
				c.Locals(CtxRoleKey, claims.Role)
			}
		}
		return c.Next()
	}
}

// UserIDFromCtx returns the authenticated user id, or uuid.Nil for guests.
func UserIDFromCtx(c fiber.Ctx) uuid.UUID {
	if v, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// RoleFromCtx returns the authenticated user's role, or "" for guests.
func RoleFromCtx(c fiber.Ctx) string {
	if v, ok := c.Locals(CtxRoleKey).(string); ok {
		return v
	}
	return ""
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
