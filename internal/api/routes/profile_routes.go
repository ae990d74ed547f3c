package routes

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ProfileRoutes struct {
	handler *handlers.ProfileHandler
	log     *logger.Logger
}

func NewProfileRoutes(handler *handlers.ProfileHandler, log *logger.Logger) *ProfileRoutes {
	return &ProfileRoutes{handler: handler, log: log}
}

func (r *ProfileRoutes) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	profile := router.Group("/api/profile")
	profile.Use(authMiddleware)
	{
		profile.GET("", response.Wrap(r.log, r.handler.Get))
		profile.PUT("", response.Wrap(r.log, r.handler.Put))
	}
}
