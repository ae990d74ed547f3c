package routes

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ActionItemRoutes struct {
	handler *handlers.ActionItemHandler
	log     *logger.Logger
}

func NewActionItemRoutes(handler *handlers.ActionItemHandler, log *logger.Logger) *ActionItemRoutes {
	return &ActionItemRoutes{handler: handler, log: log}
}

func (r *ActionItemRoutes) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	items := router.Group("/api/action-items")
	items.Use(authMiddleware)
	{
		items.GET("", response.Wrap(r.log, r.handler.List))
		items.POST("", response.Wrap(r.log, r.handler.Create))
		items.GET("/:id", response.Wrap(r.log, r.handler.Get))
		items.PUT("/:id", response.Wrap(r.log, r.handler.Update))
		items.PATCH("/:id/complete", response.Wrap(r.log, r.handler.Complete))
		items.DELETE("/:id", response.Wrap(r.log, r.handler.Delete))
	}
}
