package routes

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

type NoteRoutes struct {
	handler *handlers.NoteHandler
	log     *logger.Logger
}

func NewNoteRoutes(handler *handlers.NoteHandler, log *logger.Logger) *NoteRoutes {
	return &NoteRoutes{handler: handler, log: log}
}

func (r *NoteRoutes) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	notes := router.Group("/api/notes")
	notes.Use(authMiddleware)
	{
		notes.GET("", response.Wrap(r.log, r.handler.List))
		notes.POST("", response.Wrap(r.log, r.handler.Create))
		notes.GET("/:id", response.Wrap(r.log, r.handler.Get))
		notes.PUT("/:id", response.Wrap(r.log, r.handler.Update))
		notes.DELETE("/:id", response.Wrap(r.log, r.handler.Delete))
	}
}
