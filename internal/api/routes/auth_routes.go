package routes

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/middleware"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/Daesol/touchgrass-sub000/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

type AuthRoutes struct {
	handler *handlers.AuthHandler
	limiter auth.RateLimiter
	log     *logger.Logger
}

func NewAuthRoutes(handler *handlers.AuthHandler, limiter auth.RateLimiter, log *logger.Logger) *AuthRoutes {
	return &AuthRoutes{handler: handler, limiter: limiter, log: log}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", response.Wrap(r.log, r.handler.Register))
		if r.limiter != nil {
			authGroup.POST("/login", middleware.RateLimitMiddleware(r.limiter), response.Wrap(r.log, r.handler.Login))
		} else {
			authGroup.POST("/login", response.Wrap(r.log, r.handler.Login))
		}
		authGroup.POST("/logout", response.Wrap(r.log, r.handler.Logout))
		authGroup.GET("/me", authMiddleware, response.Wrap(r.log, r.handler.Me))

		authGroup.GET("/oauth/:provider", response.Wrap(r.log, r.handler.OAuthBegin))
		authGroup.GET("/oauth/:provider/callback", r.handler.OAuthCallback)
	}
}
