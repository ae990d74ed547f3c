package routes

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

type EventRoutes struct {
	handler *handlers.EventHandler
	log     *logger.Logger
}

func NewEventRoutes(handler *handlers.EventHandler, log *logger.Logger) *EventRoutes {
	return &EventRoutes{handler: handler, log: log}
}

func (r *EventRoutes) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	events := router.Group("/api/events")
	events.Use(authMiddleware)
	{
		events.GET("", response.Wrap(r.log, r.handler.List))
		events.POST("", response.Wrap(r.log, r.handler.Create))
		events.GET("/:id", response.Wrap(r.log, r.handler.Get))
		events.PUT("/:id", response.Wrap(r.log, r.handler.Update))
		events.DELETE("/:id", response.Wrap(r.log, r.handler.Delete))
	}
}
