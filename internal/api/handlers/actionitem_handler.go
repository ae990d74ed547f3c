package handlers

import (
	"strconv"

	"github.com/Daesol/touchgrass-sub000/internal/api/dto"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ActionItemHandler struct {
	actionItems actionitem.Service
	logger      *zap.Logger
}

func NewActionItemHandler(actionItems actionitem.Service, logger *zap.Logger) *ActionItemHandler {
	return &ActionItemHandler{actionItems: actionItems, logger: logger}
}

// List returns the caller's action items, due date ascending.
// @Summary List action items
// @Router /api/action-items [get]
func (h *ActionItemHandler) List(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	filter := actionitem.ActionItemFilter{UserID: &userID}
	if filter.ContactID, err = parseOptionalIDQuery(c, "contact_id"); err != nil {
		return nil, err
	}
	if filter.EventID, err = parseOptionalIDQuery(c, "event_id"); err != nil {
		return nil, err
	}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, response.BadRequest("invalid completed filter")
		}
		filter.IsCompleted = &completed
	}

	items, total, err := h.actionItems.ListActionItems(c.Request.Context(), filter)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if items == nil {
		items = []actionitem.ActionItem{}
	}

	return response.OK(items).WithMeta(dto.ListMeta{Total: total}), nil
}

// Create creates an action item owned by the caller.
// @Summary Create an action item
// @Router /api/action-items [post]
func (h *ActionItemHandler) Create(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	var input actionitem.CreateActionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	input.UserID = userID

	created, err := h.actionItems.CreateActionItem(c.Request.Context(), input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.Created(created), nil
}

// Get returns a single owned action item.
// @Summary Get an action item
// @Router /api/action-items/{id} [get]
func (h *ActionItemHandler) Get(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.actionItems.GetActionItem(c.Request.Context(), id, userID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(found), nil
}

// Update applies a partial update to an owned action item.
// @Summary Update an action item
// @Router /api/action-items/{id} [put]
func (h *ActionItemHandler) Update(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var input actionitem.UpdateActionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	if input.IsEmpty() {
		return nil, response.BadRequest("update payload is empty")
	}

	updated, err := h.actionItems.UpdateActionItem(c.Request.Context(), id, userID, input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(updated), nil
}

// Complete toggles completion. The body must be exactly {"completed": bool}.
// @Summary Set action item completion
// @Router /api/action-items/{id}/complete [patch]
func (h *ActionItemHandler) Complete(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var req dto.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
		return nil, response.Validation("completed (boolean) is required")
	}

	updated, err := h.actionItems.SetCompletion(c.Request.Context(), id, userID, *req.Completed)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(updated), nil
}

// Delete removes an owned action item.
// @Summary Delete an action item
// @Router /api/action-items/{id} [delete]
func (h *ActionItemHandler) Delete(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	if err := h.actionItems.DeleteActionItem(c.Request.Context(), id, userID); err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(gin.H{"deleted": true}), nil
}
