package handlers

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/profile"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles profile.Service
	logger   *zap.Logger
}

func NewProfileHandler(profiles profile.Service, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// Get returns the caller's profile; 404 until the first write creates it.
// @Summary Get profile
// @Router /api/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	found, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(found), nil
}

// Put creates or updates the caller's profile.
// @Summary Upsert profile
// @Router /api/profile [put]
func (h *ProfileHandler) Put(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	var input profile.UpsertProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	if input.IsEmpty() {
		return nil, response.BadRequest("update payload is empty")
	}

	updated, err := h.profiles.UpsertProfile(c.Request.Context(), userID, input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(updated), nil
}
