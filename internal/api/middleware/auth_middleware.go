package middleware

import (
	"fmt"
	"net/http"

	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/Daesol/touchgrass-sub000/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.NewLogger()

// NewAuthMiddleware authenticates requests through the session cookie. The
// session client handles fragment reassembly, JWT validation, the
// server-side session check, and token refresh in one place.
func NewAuthMiddleware(factory *auth.ClientFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := factory.ForGin(c)

		principal, err := client.CurrentUser(c.Request.Context())
		if err != nil {
			log.Error("Session lookup failed", zap.Error(err))
			abortWithEnvelope(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
			return
		}
		if principal == nil {
			abortWithEnvelope(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
			return
		}

		c.Set("user_id", principal.ID)
		c.Set("email", principal.Email)

		c.Next()
	}
}

func abortWithEnvelope(c *gin.Context, status int, code response.Code, message string) {
	c.JSON(status, response.Envelope{
		Success: false,
		Error: &response.ErrorBody{
			Code:    code,
			Message: message,
		},
	})
	c.Abort()
}

// RateLimitMiddleware creates a middleware for rate limiting using Redis
func RateLimitMiddleware(limiter auth.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		path := c.Request.URL.Path
		key := fmt.Sprintf("%s:%s", ip, path)

		allowed, remaining, resetTime, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Error("Rate limiter error", zap.Error(err))
			abortWithEnvelope(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", resetTime.String())

		if !allowed {
			abortWithEnvelope(c, http.StatusTooManyRequests, response.CodeBadRequest, "rate limit exceeded")
			return
		}

		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}
