package routes

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ContactRoutes struct {
	handler *handlers.ContactHandler
	log     *logger.Logger
}

func NewContactRoutes(handler *handlers.ContactHandler, log *logger.Logger) *ContactRoutes {
	return &ContactRoutes{handler: handler, log: log}
}

func (r *ContactRoutes) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	contacts := router.Group("/api/contacts")
	contacts.Use(authMiddleware)
	{
		contacts.GET("", response.Wrap(r.log, r.handler.List))
		contacts.POST("", response.Wrap(r.log, r.handler.Create))
		contacts.GET("/:id", response.Wrap(r.log, r.handler.Get))
		contacts.PUT("/:id", response.Wrap(r.log, r.handler.Update))
		contacts.DELETE("/:id", response.Wrap(r.log, r.handler.Delete))
	}
}
