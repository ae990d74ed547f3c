package handlers

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/dto"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	contacts contact.Service
	logger   *zap.Logger
}

func NewContactHandler(contacts contact.Service, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// List returns the caller's contacts, optionally filtered by event.
// @Summary List contacts
// @Router /api/contacts [get]
func (h *ContactHandler) List(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	filter := contact.ContactFilter{UserID: &userID}
	eventID, err := parseOptionalIDQuery(c, "event_id")
	if err != nil {
		return nil, err
	}
	filter.EventID = eventID
	if company := c.Query("company"); company != "" {
		filter.Company = &company
	}

	contacts, total, err := h.contacts.ListContacts(c.Request.Context(), filter)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}

	return response.OK(contacts).WithMeta(dto.ListMeta{Total: total}), nil
}

// Create creates a contact owned by the caller.
// @Summary Create a contact
// @Router /api/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	var input contact.CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	input.UserID = userID

	created, err := h.contacts.CreateContact(c.Request.Context(), input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.Created(created), nil
}

// Get returns a single owned contact.
// @Summary Get a contact
// @Router /api/contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.contacts.GetContact(c.Request.Context(), id, userID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(found), nil
}

// Update applies a partial update to an owned contact.
// @Summary Update a contact
// @Router /api/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var input contact.UpdateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	if input.IsEmpty() {
		return nil, response.BadRequest("update payload is empty")
	}

	updated, err := h.contacts.UpdateContact(c.Request.Context(), id, userID, input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(updated), nil
}

// Delete removes an owned contact.
// @Summary Delete a contact
// @Router /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	if err := h.contacts.DeleteContact(c.Request.Context(), id, userID); err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(gin.H{"deleted": true}), nil
}
