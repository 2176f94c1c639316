package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconnector/internal/pkg/jwt"
)

const (
	HeaderAuthToken = "x-auth-token"
	CtxUserIDKey    = "user_id"

	MessageNoToken      = "No token, authorization denied"
	MessageInvalidToken = "Token is not valid"
)

// AuthMiddleware verifies the token in x-auth-token locally and stores the
// caller's identity in the request locals. It never touches the store.
type AuthMiddleware struct {
	jwt jwt.Service
	log zerolog.Logger
}

func NewAuthMiddleware(jwtSvc jwt.Service, log zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, log: log.With().Str("component", "auth").Logger()}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := strings.TrimSpace(c.Get(HeaderAuthToken))
		if token == "" {
			return NewAppError(fiber.StatusUnauthorized, MessageNoToken, nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "expired"
			}
			m.log.Warn().Err(err).Str("reason", reason).Str("path", c.Path()).Msg("token rejected")
			return NewAppError(fiber.StatusUnauthorized, MessageInvalidToken, nil, err)
		}

		userID, err := claims.UserID()
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, MessageInvalidToken, nil, err)
		}

		c.Locals(CtxUserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the identity stored by AuthMiddleware for this request.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
