package routes

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

type DashboardRoutes struct {
	handler *handlers.DashboardHandler
	sync    *handlers.SyncHandler
	log     *logger.Logger
}

func NewDashboardRoutes(handler *handlers.DashboardHandler, sync *handlers.SyncHandler, log *logger.Logger) *DashboardRoutes {
	return &DashboardRoutes{handler: handler, sync: sync, log: log}
}

func (r *DashboardRoutes) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(authMiddleware)
	{
		dashboard.GET("/overview", response.Wrap(r.log, r.handler.Overview))
	}

	sync := router.Group("/api/sync")
	sync.Use(authMiddleware)
	{
		sync.GET("/ws", r.sync.Stream)
	}
}
