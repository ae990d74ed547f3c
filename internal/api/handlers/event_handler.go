package handlers

import (
	"fmt"

	"github.com/Daesol/touchgrass-sub000/internal/api/dto"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	events      event.Service
	contacts    contact.Service
	actionItems actionitem.Service
	logger      *zap.Logger
}

func NewEventHandler(events event.Service, contacts contact.Service, actionItems actionitem.Service, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, contacts: contacts, actionItems: actionItems, logger: logger}
}

// List returns the caller's events, newest first.
// @Summary List events
// @Router /api/events [get]
func (h *EventHandler) List(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	filter := event.EventFilter{UserID: &userID}
	if company := c.Query("company"); company != "" {
		filter.Company = &company
	}

	events, total, err := h.events.ListEvents(c.Request.Context(), filter)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if events == nil {
		events = []event.Event{}
	}

	return response.OK(events).WithMeta(dto.ListMeta{Total: total}), nil
}

// Create creates an event owned by the caller.
// @Summary Create an event
// @Router /api/events [post]
func (h *EventHandler) Create(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	var input event.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	input.UserID = userID

	created, err := h.events.CreateEvent(c.Request.Context(), input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.Created(created), nil
}

// Get returns a single owned event.
// @Summary Get an event
// @Router /api/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.events.GetEvent(c.Request.Context(), id, userID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(found), nil
}

// Update applies a partial update to an owned event.
// @Summary Update an event
// @Router /api/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var input event.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	if input.IsEmpty() {
		return nil, response.BadRequest("update payload is empty")
	}

	updated, err := h.events.UpdateEvent(c.Request.Context(), id, userID, input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(updated), nil
}

// Delete removes an event, optionally with contacts met there, then prunes
// action items left pointing at the deleted rows.
// @Summary Delete an event
// @Router /api/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var req dto.DeleteEventRequest
	// The body is optional; a bare DELETE deletes just the event.
	_ = c.ShouldBindJSON(&req)

	var contactIDs []uuid.UUID
	for _, raw := range req.ContactIDs {
		cid, err := uuid.Parse(raw)
		if err != nil {
			return nil, response.BadRequest("invalid contact id: " + raw)
		}
		contactIDs = append(contactIDs, cid)
	}

	meta := dto.DeleteMeta{}

	// Contacts go first, best-effort: a partial failure is reported in meta
	// and never blocks the event deletion itself.
	if len(contactIDs) > 0 {
		deleted, err := h.contacts.DeleteContacts(c.Request.Context(), contactIDs, userID)
		if err != nil {
			h.logger.Error("Contact cleanup failed during event deletion",
				zap.String("event_id", id.String()),
				zap.Error(err))
			meta.Warnings = append(meta.Warnings, "some contacts could not be deleted")
		}
		meta.ContactsDeleted = deleted
		if err == nil && deleted < int64(len(contactIDs)) {
			meta.Warnings = append(meta.Warnings,
				fmt.Sprintf("%d of %d contacts were not found", int64(len(contactIDs))-deleted, len(contactIDs)))
		}
	}

	if err := h.events.DeleteEvent(c.Request.Context(), id, userID); err != nil {
		return nil, mapDomainError(err)
	}

	pruned, err := h.actionItems.PruneByReferences(c.Request.Context(), userID, &id, contactIDs)
	if err != nil {
		h.logger.Error("Action item pruning failed during event deletion",
			zap.String("event_id", id.String()),
			zap.Error(err))
		meta.Warnings = append(meta.Warnings, "some action items could not be pruned")
	}
	meta.ActionItemsPruned = pruned

	return response.OK(gin.H{"deleted": true}).WithMeta(meta), nil
}
