package handlers

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/middleware"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func requireUser(c *gin.Context) (uuid.UUID, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, response.Unauthorized("authentication required")
	}
	return userID, nil
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	if raw == "" {
		return uuid.Nil, response.MissingParameter(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, response.BadRequest("invalid " + name)
	}
	return id, nil
}

// parseOptionalIDQuery returns nil when the query parameter is absent.
func parseOptionalIDQuery(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, response.BadRequest("invalid " + name)
	}
	return &id, nil
}
