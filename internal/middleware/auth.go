package middleware

import (
	"context"
	"net/http"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextUser     = "user"
	ContextSession  = "session_id"
)

// AuthMiddleware handles authentication for protected routes
type AuthMiddleware struct {
	jwtManager *pkg.JWTManager
	userRepo   repository.UserRepository
	logger     *pkg.Logger
	redis      RedisClient
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(jwtManager *pkg.JWTManager, userRepo repository.UserRepository, logger *pkg.Logger, redis RedisClient) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		userRepo:   userRepo,
		logger:     logger,
		redis:      redis,
	}
}

// RequireAuth validates the bearer token and sets the identity context. Every
// downstream authorization decision keys on the username set here.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			pkg.UnauthorizedResponse(c, "Authorization header required")
			c.Abort()
			return
		}

		token := pkg.ExtractTokenFromHeader(authHeader)
		if token == "" {
			pkg.UnauthorizedResponse(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		if m.isTokenBlacklisted(c.Request.Context(), token) {
			pkg.UnauthorizedResponse(c, "Token has been revoked")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			if appErr, ok := pkg.IsAppError(err); ok && appErr.Code == "TOKEN_EXPIRED" {
				pkg.ErrorResponse(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", nil)
			} else {
				pkg.UnauthorizedResponse(c, "Invalid token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != pkg.TokenTypeAccess {
			pkg.UnauthorizedResponse(c, "Invalid token type")
			c.Abort()
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			pkg.UnauthorizedResponse(c, "User not found")
			c.Abort()
			return
		}

		if user.Status != models.UserStatusActive {
			m.logger.Warn("Inactive user attempted access", map[string]interface{}{
				"username": user.Username,
				"status":   string(user.Status),
			})
			pkg.ErrorResponse(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is not active", nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUsername, user.Username)
		c.Set(ContextUser, user)
		c.Set(ContextSession, claims.SessionID)

		c.Next()
	}
}

// BlacklistToken revokes a token for the remainder of its lifetime.
func (m *AuthMiddleware) BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	key := "blacklist:" + pkg.HashString(token)
	return m.redis.Set(ctx, key, "1", expiry)
}

func (m *AuthMiddleware) isTokenBlacklisted(ctx context.Context, token string) bool {
	key := "blacklist:" + pkg.HashString(token)
	exists, err := m.redis.Exists(ctx, key)
	return err == nil && exists > 0
}

// CurrentUsername returns the authenticated username from the context.
func CurrentUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		if s, ok := username.(string); ok {
			return s
		}
	}
	return ""
}
